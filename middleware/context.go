package middleware

import (
	"context"

	"github.com/skubra/cleargate/policy"
)

// contextKey is unexported so no other package can collide with it.
type contextKey struct{}

var principalKey = contextKey{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom retrieves the authenticated principal from the context.
// The second return value is false for requests that never passed the
// authentication middleware.
func PrincipalFrom(ctx context.Context) (policy.Principal, bool) {
	p, ok := ctx.Value(principalKey).(policy.Principal)
	return p, ok
}

// MustPrincipal retrieves the principal or panics. Use only in handlers
// mounted behind Auth.
func MustPrincipal(ctx context.Context) policy.Principal {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		panic("middleware: no principal in context")
	}
	return p
}
