package identity

import (
	"context"
	"errors"
)

// Role distinguishes the two sides of the portal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

// ErrForbidden is returned when the caller's role does not permit an operation.
var ErrForbidden = errors.New("identity: operation not permitted")

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ctxKey string

const identityKey ctxKey = "enid.identity"

// WithIdentity stores the caller identity in context.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// FromContext extracts the caller identity if present.
func FromContext(ctx context.Context) (Identity, bool) {
	val := ctx.Value(identityKey)
	if val == nil {
		return Identity{}, false
	}
	ident, ok := val.(Identity)
	return ident, ok && ident.UserID != ""
}
