// Package registry implements the client for the federation service registry,
// the authoritative source for which institution owns which IdP and SP entities.
package registry

import (
	"context"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("service-registry")

// ServiceRegistry answers ownership and existence questions about federation
// entities. Lookups may be network backed; callers impose their own deadline via
// the context and must fail closed when a lookup does not complete in time.
type ServiceRegistry interface {
	// OwnsEntity returns true when the given institution owns the given entity.
	OwnsEntity(ctx context.Context, institutionID, entityID string) (bool, error)

	// ServiceProviderExists returns true when the given SP entityID resolves in
	// the registry.
	ServiceProviderExists(ctx context.Context, entityID string) (bool, error)

	// IdentityProviders lists all IdP entities known to the registry.
	IdentityProviders(ctx context.Context) ([]domain.FederationEntity, error)

	// ServiceProviders lists all SP entities known to the registry.
	ServiceProviders(ctx context.Context) ([]domain.FederationEntity, error)

	// EntitiesByInstitution returns the IdP and SP entities owned by the given
	// institution.
	EntitiesByInstitution(ctx context.Context, institutionID string) (idps, sps []domain.FederationEntity, err error)
}
