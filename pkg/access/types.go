// Package access implements the IdP access enforcement for policy actions: given
// the authenticated federated principal and the entities a policy action targets,
// it decides whether the action is allowed.
package access

import (
	"context"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("access-enforcer")

// Enforcer decides whether the acting federated principal may perform an action
// on a policy. Each invocation is independent and safe to run concurrently; the
// acting principal is carried on the request context.
type Enforcer interface {
	// ActionAllowed returns nil when the principal on the context may perform
	// the action, or one of the typed mismatch errors naming the offending
	// entity. policy may be nil; spEntityID may be empty; idpEntityIDs may be
	// nil or empty.
	ActionAllowed(ctx context.Context, policy *domain.Policy, level domain.AccessLevel, spEntityID string, idpEntityIDs []string) error

	// AuthenticatingAuthority returns the entityID of the IdP that authenticated
	// the principal on the context.
	AuthenticatingAuthority(ctx context.Context) (string, error)

	// Username returns the stable identifier of the principal on the context.
	Username(ctx context.Context) (string, error)

	// UserDisplayName returns the display name of the principal on the context.
	UserDisplayName(ctx context.Context) (string, error)
}
