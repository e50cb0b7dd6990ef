// Package model defines the data structures used throughout the application.
package model

import "time"

// Role labels an account's access level.
//
// Exactly one account is expected to hold RoleAdmin: the account that
// bootstraps the system (see service.AccountService.Register). There is no
// reassignment mechanism — the admin stays the admin.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account represents a registered identity, including its credential.
//
// WHY Email AS THE NATURAL KEY?
// The email is the unique, case-insensitive identifier users log in with,
// and the per-account file set is keyed by it in storage. We still generate
// an internal xid so other records never embed a mutable-looking natural key.
//
// PasswordHash holds a bcrypt hash, never the plaintext password. The hash is
// self-contained (salt and cost embedded), so there is no separate salt column.
type Account struct {
	ID           string    `json:"id"           db:"id"`
	Email        string    `json:"email"        db:"email"` // stored lower-cased and trimmed
	Name         string    `json:"name"         db:"name"`  // display name, e.g. "Ellen Ripley"
	PasswordHash string    `json:"-"            db:"password_hash"`
	Tier         string    `json:"tier"         db:"tier"`       // plan label: "Survivor", "Guardian", "Immortal"
	AvatarURL    string    `json:"avatarUrl"    db:"avatar_url"` // profile picture URL
	Role         Role      `json:"role"         db:"role"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}

// Profile is the public view of an Account: everything except the credential.
//
// Profiles are what the session slot persists, what login returns, and what
// the admin dashboard lists. The credential never leaves the account store.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Tier     string `json:"tier"`
	Avatar   string `json:"avatar"`
	JoinDate string `json:"joinDate"` // display date, e.g. "2026-08-28"
	Role     Role   `json:"role"`
}

// Profile strips the credential and internal fields from an account.
func (a *Account) Profile() Profile {
	return Profile{
		Name:     a.Name,
		Email:    a.Email,
		Tier:     a.Tier,
		Avatar:   a.AvatarURL,
		JoinDate: a.CreatedAt.Format("2006-01-02"),
		Role:     a.Role,
	}
}
