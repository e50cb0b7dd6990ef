// Package apperror defines the error taxonomy shared by all layers.
//
// Every failure in this core is local and recoverable — there is no fatal
// path. Services wrap these errors with context (%w) and handlers map the
// sentinels to HTTP status codes in one place.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidParent rejects a file-tree mutation whose parent reference
	// does not resolve to an existing folder in the same account's set.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrDanglingReference marks a parent link that no longer resolves.
	// Read-side code (breadcrumbs) tolerates these; mutations reject them.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrAdminTaken reports that the single admin designation is already
	// held. Registration recovers from it by retrying as a standard account,
	// so it normally never reaches a client.
	ErrAdminTaken = errors.New("admin slot taken")
)

type AppError struct {
	Err     error  // sentinel the error wraps
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateAccount is returned when registration collides with an existing
// email. Surfaced to the caller as a message, never fatal.
func DuplicateAccount(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("an account already exists for %s", email),
		Field:   "email",
	}
}

// InvalidCredentials is returned on any login mismatch. The message is
// deliberately identical for unknown-email and wrong-password so responses
// don't reveal which accounts exist. No lockout or backoff policy applies.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "invalid email or password",
	}
}

// InvalidParent rejects a create whose parent id does not resolve to an
// existing folder in the caller's own file set.
func InvalidParent(id string) *AppError {
	return &AppError{
		Err:     ErrInvalidParent,
		Message: fmt.Sprintf("parent %s does not exist or is not a folder", id),
		Field:   "parentId",
	}
}

// AdminSlotTaken is returned when an insert tries to claim the admin role
// while another account already holds it.
func AdminSlotTaken() *AppError {
	return &AppError{
		Err:     ErrAdminTaken,
		Message: "an admin account already exists",
		Field:   "role",
	}
}

// DanglingReference rejects a whole-set save containing an item whose
// parent id resolves to nothing in the submitted set.
func DanglingReference(itemID, parentID string) *AppError {
	return &AppError{
		Err:     ErrDanglingReference,
		Message: fmt.Sprintf("item %s references parent %s, which is not in the set", itemID, parentID),
		Field:   "parentId",
	}
}

// ParentCycle rejects a whole-set save whose parent chain loops back on
// itself instead of terminating at the root.
func ParentCycle(id string) *AppError {
	return &AppError{
		Err:     ErrInvalidParent,
		Message: fmt.Sprintf("parent chain for item %s forms a cycle", id),
		Field:   "parentId",
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
