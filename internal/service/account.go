package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/auth"
	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

const (
	// MinPasswordLength guards against trivially weak master keys. The UI
	// enforces a strength meter on top; this is the hard floor.
	MinPasswordLength = 8

	defaultTier = "Survivor"
)

// AccountService handles registration, login, and the account listing the
// admin dashboard consumes.
type AccountService struct {
	accounts  repository.AccountRepository
	sessions  *SessionService
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger

	// authDelay mimics the "deriving encryption keys" progress bar of the
	// product UI by stretching login/registration. Cosmetic only; zero in
	// production unless someone wants the theater.
	authDelay time.Duration
}

// NewAccountService creates an AccountService with all dependencies.
func NewAccountService(
	accounts repository.AccountRepository,
	sessions *SessionService,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	authDelay time.Duration,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		sessions:  sessions,
		passwords: passwords,
		tokens:    tokens,
		authDelay: authDelay,
		logger:    logger,
	}
}

// AuthResult bundles the profile with the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	Profile model.Profile
	Token   string
}

// RegisterParams carries the registration form.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Avatar   string // optional; defaults to a generated initials avatar
}

// Register creates a new account, establishes its session, and issues a JWT.
//
// The email is normalized (trimmed, lower-cased) before any comparison, so
// "A@X.com" and "a@x.com" are the same identity. Duplicate registration
// returns apperror.ErrConflict and changes nothing.
//
// ADMIN BOOTSTRAP:
// The first account to register while the admin slot is vacant becomes the
// admin. The check is "does any admin exist", not "is the table empty" —
// accounts seeded out of band with an admin are respected, and seeding
// without one still lets the next registrant bootstrap the dashboard.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	email := NormalizeEmail(params.Email)
	name := strings.TrimSpace(params.Name)

	if name == "" {
		return nil, fmt.Errorf("service/account: %w", apperror.ValidationFailed("name", "name is required"))
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("service/account: %w", apperror.ValidationFailed("email", "a valid email address is required"))
	}
	if len(params.Password) < MinPasswordLength {
		return nil, fmt.Errorf("service/account: %w", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength)))
	}

	if err := s.simulateKeyDerivation(ctx); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("service/account: %w", err)
	}

	role := model.RoleUser
	admins, err := s.accounts.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("service/account: checking admin slot: %w", err)
	}
	if admins == 0 {
		role = model.RoleAdmin
	}

	avatar := params.Avatar
	if avatar == "" {
		avatar = "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(name)
	}

	account := &model.Account{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Tier:         defaultTier,
		AvatarURL:    avatar,
		Role:         role,
	}

	err = s.accounts.Create(ctx, account)
	if err != nil && account.Role == model.RoleAdmin && errors.Is(err, apperror.ErrAdminTaken) {
		// Two racing registrations can both observe a vacant admin slot;
		// the storage layer's one-admin constraint breaks the tie. The
		// loser still registers, just as a standard user.
		s.logger.Info("admin slot claimed concurrently, registering as user",
			slog.String("email", email),
		)
		account.Role = model.RoleUser
		err = s.accounts.Create(ctx, account)
	}
	if err != nil {
		return nil, fmt.Errorf("service/account: registering %s: %w", email, err)
	}

	s.logger.Info("account registered",
		slog.String("accountID", account.ID),
		slog.String("email", email),
		slog.String("role", string(account.Role)),
	)

	return s.startSession(ctx, account)
}

// Login verifies the credentials and, on success, establishes the session
// and issues a JWT.
//
// Unknown email and wrong password both return apperror.ErrUnauthorized with
// the same message — responses don't reveal which accounts exist. There is
// deliberately no lockout or backoff policy.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	if err := s.simulateKeyDerivation(ctx); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/account: %w", apperror.InvalidCredentials())
		}
		return nil, fmt.Errorf("service/account: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("service/account: %w", apperror.InvalidCredentials())
	}

	s.logger.Info("account logged in",
		slog.String("accountID", account.ID),
		slog.String("email", email),
	)

	return s.startSession(ctx, account)
}

// Logout clears the persisted session.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// GetByID returns the account for an internal ID. Used by handlers to look
// up the caller after the middleware validates the JWT.
func (s *AccountService) GetByID(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		return nil, fmt.Errorf("service/account: account ID must not be empty")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/account: fetching account %s: %w", id, err)
	}

	return account, nil
}

// ListAccounts returns every profile in insertion order, credentials
// stripped. Admin dashboard only.
func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Profile, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/account: listing accounts: %w", err)
	}

	profiles := make([]model.Profile, len(accounts))
	for i := range accounts {
		profiles[i] = accounts[i].Profile()
	}

	return profiles, nil
}

// startSession persists the session slot and mints the JWT.
func (s *AccountService) startSession(ctx context.Context, account *model.Account) (*AuthResult, error) {
	profile := account.Profile()

	if err := s.sessions.Establish(ctx, profile); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("service/account: generating token for %s: %w", account.ID, err)
	}

	return &AuthResult{Profile: profile, Token: token}, nil
}

// simulateKeyDerivation sleeps for the configured demo delay, honoring
// context cancellation. With authDelay == 0 it returns immediately.
func (s *AccountService) simulateKeyDerivation(ctx context.Context) error {
	if s.authDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.authDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("service/account: %w", ctx.Err())
	}
}

// NormalizeEmail canonicalizes an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
