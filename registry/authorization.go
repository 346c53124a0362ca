package registry

import (
	"context"

	"github.com/google/uuid"
)

// Authorizer answers whether a caller holds the administrator capability required to register items.
type Authorizer interface {
	IsAuthorized(ctx context.Context, caller CallerID) bool
}

// AuthorizerFunc adapts a plain function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, caller CallerID) bool

// IsAuthorized calls f.
func (f AuthorizerFunc) IsAuthorized(ctx context.Context, caller CallerID) bool {
	return f(ctx, caller)
}

// AdministratorAuthorizer grants the capability to exactly one administrator.
type AdministratorAuthorizer struct {
	administratorID CallerID
}

// NewAdministratorAuthorizer creates an Authorizer for the given administrator.
func NewAdministratorAuthorizer(administratorID CallerID) AdministratorAuthorizer {
	return AdministratorAuthorizer{administratorID: administratorID}
}

// IsAuthorized reports whether caller is the administrator. The nil UUID is never authorized.
func (a AdministratorAuthorizer) IsAuthorized(_ context.Context, caller CallerID) bool {
	return caller != uuid.Nil && caller == a.administratorID
}

// denyAll is used when no Authorizer is configured.
type denyAll struct{}

func (denyAll) IsAuthorized(context.Context, CallerID) bool {
	return false
}
