package domain

import "context"

type principalKey struct{}

// ContextPrincipal is the caller identity the auth middleware resolved for
// the current request. Subject comes from the token's sub claim.
type ContextPrincipal struct {
	Subject string
	IsAdmin bool
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by the auth middleware,
// if any. Requests on unauthenticated deployments carry none.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}
