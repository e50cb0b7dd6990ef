package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/model"
)

// newTestDB returns a *DB backed by an in-memory database that lives only
// for the duration of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestAccount creates an account and fails the test if it errors.
func createTestAccount(t *testing.T, db *DB, email string, role model.Role) *model.Account {
	t.Helper()
	account := &model.Account{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Tier:         "Survivor",
		AvatarURL:    "https://api.dicebear.com/7.x/initials/svg?seed=Test User",
		Role:         role,
	}
	if err := db.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

func TestAccountCreate(t *testing.T) {
	db := newTestDB(t)

	account := createTestAccount(t, db, "a@x.com", model.RoleAdmin)

	if account.ID == "" {
		t.Error("Create() did not set account.ID")
	}
	if account.CreatedAt.IsZero() {
		t.Error("Create() did not set account.CreatedAt")
	}
}

func TestAccountCreate_SecondAdminRejected(t *testing.T) {
	db := newTestDB(t)

	createTestAccount(t, db, "first@x.com", model.RoleAdmin)

	second := &model.Account{
		Email:        "second@x.com",
		Name:         "Late Admin",
		PasswordHash: "hash",
		Tier:         "Survivor",
		Role:         model.RoleAdmin,
	}
	err := db.Accounts().Create(context.Background(), second)
	if err == nil {
		t.Fatal("Create() accepted a second admin")
	}
	if !errors.Is(err, apperror.ErrAdminTaken) {
		t.Errorf("Create() second-admin error = %v, want ErrAdminTaken", err)
	}

	n, err := db.Accounts().CountByRole(context.Background(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByRole() error = %v", err)
	}
	if n != 1 {
		t.Errorf("admin count = %d, want 1", n)
	}
}

func TestAccountCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestAccount(t, db, "a@x.com", model.RoleAdmin)

	dup := &model.Account{
		Email:        "a@x.com",
		Name:         "Someone Else",
		PasswordHash: "hash",
		Tier:         "Survivor",
		Role:         model.RoleUser,
	}
	err := db.Accounts().Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() accepted a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() duplicate error = %v, want ErrConflict", err)
	}

	// The table length must not change on a rejected registration.
	accounts, err := db.Accounts().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Errorf("account table has %d rows after duplicate, want 1", len(accounts))
	}
}

func TestAccountGetByEmail(t *testing.T) {
	db := newTestDB(t)

	created := createTestAccount(t, db, "a@x.com", model.RoleUser)

	got, err := db.Accounts().GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail() ID = %q, want %q", got.ID, created.ID)
	}
	if got.Role != model.RoleUser {
		t.Errorf("GetByEmail() Role = %q, want %q", got.Role, model.RoleUser)
	}
}

func TestAccountGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Accounts().GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestAccountGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Accounts().GetByID(context.Background(), "missing-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAccountList_InsertionOrder(t *testing.T) {
	db := newTestDB(t)

	createTestAccount(t, db, "first@x.com", model.RoleAdmin)
	createTestAccount(t, db, "second@x.com", model.RoleUser)
	createTestAccount(t, db, "third@x.com", model.RoleUser)

	accounts, err := db.Accounts().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"first@x.com", "second@x.com", "third@x.com"}
	if len(accounts) != len(want) {
		t.Fatalf("List() returned %d accounts, want %d", len(accounts), len(want))
	}
	for i, email := range want {
		if accounts[i].Email != email {
			t.Errorf("List()[%d].Email = %q, want %q", i, accounts[i].Email, email)
		}
	}
}

func TestAccountCountByRole(t *testing.T) {
	db := newTestDB(t)

	if n, _ := db.Accounts().CountByRole(context.Background(), model.RoleAdmin); n != 0 {
		t.Errorf("CountByRole(admin) = %d on empty table, want 0", n)
	}

	createTestAccount(t, db, "a@x.com", model.RoleAdmin)
	createTestAccount(t, db, "b@x.com", model.RoleUser)
	createTestAccount(t, db, "c@x.com", model.RoleUser)

	admins, err := db.Accounts().CountByRole(context.Background(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByRole() error = %v", err)
	}
	if admins != 1 {
		t.Errorf("CountByRole(admin) = %d, want 1", admins)
	}

	users, _ := db.Accounts().CountByRole(context.Background(), model.RoleUser)
	if users != 2 {
		t.Errorf("CountByRole(user) = %d, want 2", users)
	}
}
