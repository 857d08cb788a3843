package domain

import (
	"context"
	"errors"
)

// User is an authenticated caller as asserted by the auth collaborator.
// EmployeeID links the login to the employee whose cash boxes it owns;
// zero for service accounts.
type User struct {
	ID         string
	Email      string
	EmployeeID int64
	Role       Role
}

// Role represents a caller's access level.
type Role string

const (
	// RoleAdmin has full access to all operations.
	RoleAdmin Role = "admin"

	// RoleOperator can submit transactions and trigger recomputation.
	RoleOperator Role = "operator"

	// RoleViewer can only read.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate checks if the role may change ledger state.
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
