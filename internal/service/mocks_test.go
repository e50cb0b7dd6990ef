package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/model"
)

// In-memory repository doubles. Each mirrors the sqlite implementation's
// observable behavior (id assignment, not-found mapping, owner scoping) so
// the services under test cannot tell the difference.

type mockAccountRepo struct {
	accounts []model.Account

	// forcedErr, when set, is returned by every method.
	forcedErr error

	// staleAdminCount makes CountByRole report zero admins even after one
	// exists, simulating a racing registration that read the count before
	// the other one committed.
	staleAdminCount bool
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return apperror.DuplicateAccount(account.Email)
		}
	}
	if account.Role == model.RoleAdmin {
		for _, a := range m.accounts {
			if a.Role == model.RoleAdmin {
				return apperror.AdminSlotTaken()
			}
		}
	}
	account.ID = xid.New().String()
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	for _, a := range m.accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, apperror.NotFound("account", email)
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	for _, a := range m.accounts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, apperror.NotFound("account", id)
}

func (m *mockAccountRepo) List(_ context.Context) ([]model.Account, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	return append([]model.Account{}, m.accounts...), nil
}

func (m *mockAccountRepo) CountByRole(_ context.Context, role model.Role) (int, error) {
	if m.forcedErr != nil {
		return 0, m.forcedErr
	}
	if m.staleAdminCount && role == model.RoleAdmin {
		return 0, nil
	}
	n := 0
	for _, a := range m.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

type mockSessionRepo struct {
	profile *model.Profile
}

func (m *mockSessionRepo) Set(_ context.Context, profile model.Profile) error {
	m.profile = &profile
	return nil
}

func (m *mockSessionRepo) Get(_ context.Context) (*model.Profile, error) {
	if m.profile == nil {
		return nil, apperror.NotFound("session", "slot")
	}
	found := *m.profile
	return &found, nil
}

func (m *mockSessionRepo) Clear(_ context.Context) error {
	m.profile = nil
	return nil
}

type mockFileRepo struct {
	items []model.FileItem

	forcedErr error
}

func (m *mockFileRepo) ListByOwner(_ context.Context, owner string) ([]model.FileItem, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	out := []model.FileItem{}
	for _, item := range m.items {
		if item.OwnerEmail == owner {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockFileRepo) ReplaceAll(_ context.Context, owner string, items []model.FileItem) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	kept := m.items[:0:0]
	for _, item := range m.items {
		if item.OwnerEmail != owner {
			kept = append(kept, item)
		}
	}
	for _, item := range items {
		item.OwnerEmail = owner
		kept = append(kept, item)
	}
	m.items = kept
	return nil
}

func (m *mockFileRepo) Create(_ context.Context, item *model.FileItem) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	item.ID = xid.New().String()
	m.items = append(m.items, *item)
	return nil
}

func (m *mockFileRepo) GetByID(_ context.Context, owner, id string) (*model.FileItem, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	for _, item := range m.items {
		if item.OwnerEmail == owner && item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, apperror.NotFound("file", id)
}

func (m *mockFileRepo) Delete(_ context.Context, owner string, ids []string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.items[:0:0]
	for _, item := range m.items {
		if item.OwnerEmail == owner && drop[item.ID] {
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return nil
}

func (m *mockFileRepo) GlobalTotals(_ context.Context) (int, int64, error) {
	if m.forcedErr != nil {
		return 0, 0, m.forcedErr
	}
	var bytes int64
	for _, item := range m.items {
		bytes += item.Size
	}
	return len(m.items), bytes, nil
}

// testLogger discards everything; service tests assert behavior, not logs.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
