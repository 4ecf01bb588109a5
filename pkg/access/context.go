package access

import (
	"context"

	"github.com/openconext/pdp/pkg/domain"
)

// principalKey is the context key under which the authenticated principal is
// carried. The key type is unexported so only this package can set or read it.
type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated principal. It is
// called once per request by the authentication boundary, before any enforcement
// decision, and the principal must not be mutated afterwards.
func WithPrincipal(ctx context.Context, principal *domain.FederatedPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated principal carried on the
// context, or ErrNoPrincipal when the authentication boundary did not run.
func PrincipalFromContext(ctx context.Context) (*domain.FederatedPrincipal, error) {
	principal, ok := ctx.Value(principalKey{}).(*domain.FederatedPrincipal)
	if !ok || principal == nil {
		return nil, ErrNoPrincipal
	}
	return principal, nil
}
