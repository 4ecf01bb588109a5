package access

import (
	"context"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/registry"
)

// enforcer is the ServiceRegistry backed Enforcer implementation. It is
// stateless; the registry is its only collaborator and is read-only.
type enforcer struct {
	registry registry.ServiceRegistry
}

// NewEnforcer returns an Enforcer backed by the given service registry.
func NewEnforcer(reg registry.ServiceRegistry) Enforcer {
	return &enforcer{registry: reg}
}

// ActionAllowed evaluates the enforcement rules in fixed order, short-circuiting
// on the first applicable one:
//  1. viewing violations requires authentication only
//  2. principals not requiring enforcement are always allowed
//  3. a target SP must be owned by the principal
//  4. every target IdP must be owned by the principal
//  5. the policy's authenticating authority must be an owned IdP or the
//     principal's own authenticating authority
func (e *enforcer) ActionAllowed(ctx context.Context, policy *domain.Policy, level domain.AccessLevel, spEntityID string, idpEntityIDs []string) error {
	principal, err := PrincipalFromContext(ctx)
	if err != nil {
		log.Error().Str(errcode.Kind, errcode.ErrNoPrincipalInContext.String()).
			Msg("Enforcement invoked without an authenticated principal")
		return err
	}

	if level == domain.AccessViolations {
		return nil
	}

	if !principal.RequiresAccessEnforcement() {
		return nil
	}

	if spEntityID != "" && !e.ownsSpEntity(ctx, principal, spEntityID) {
		return &MismatchServiceProviderError{EntityID: spEntityID}
	}

	for _, idpEntityID := range idpEntityIDs {
		if !e.ownsIdpEntity(ctx, principal, idpEntityID) {
			return &MismatchIdentityProvidersError{EntityID: idpEntityID}
		}
	}

	if policy != nil {
		authority := policy.AuthenticatingAuthority
		if !principal.OwnsIdpEntity(authority) && authority != principal.AuthenticatingAuthority {
			return &OriginatingIdentityProviderError{AuthenticatingAuthority: authority}
		}
	}

	return nil
}

// ownsSpEntity tests SP ownership: the principal's own entity set first, the
// registry only when local membership is inconclusive.
func (e *enforcer) ownsSpEntity(ctx context.Context, principal *domain.FederatedPrincipal, entityID string) bool {
	if principal.OwnsSpEntity(entityID) {
		return true
	}
	return e.registryOwned(ctx, principal.InstitutionID, entityID)
}

// ownsIdpEntity tests IdP ownership the same way as ownsSpEntity.
func (e *enforcer) ownsIdpEntity(ctx context.Context, principal *domain.FederatedPrincipal, entityID string) bool {
	if principal.OwnsIdpEntity(entityID) {
		return true
	}
	return e.registryOwned(ctx, principal.InstitutionID, entityID)
}

// registryOwned consults the service registry. A lookup error, including a
// context deadline, fails closed: the entity is treated as not owned.
func (e *enforcer) registryOwned(ctx context.Context, institutionID, entityID string) bool {
	owned, err := e.registry.OwnsEntity(ctx, institutionID, entityID)
	if err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrRegistryLookup.String()).
			Msgf("Registry ownership lookup failed for institution %q entity %q; failing closed", institutionID, entityID)
		return false
	}
	return owned
}

// AuthenticatingAuthority returns the authenticating authority of the principal
// on the context.
func (e *enforcer) AuthenticatingAuthority(ctx context.Context) (string, error) {
	principal, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	return principal.AuthenticatingAuthority, nil
}

// Username returns the stable identifier of the principal on the context.
func (e *enforcer) Username(ctx context.Context) (string, error) {
	principal, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	return principal.Identifier, nil
}

// UserDisplayName returns the display name of the principal on the context.
func (e *enforcer) UserDisplayName(ctx context.Context) (string, error) {
	principal, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	return principal.DisplayName, nil
}
