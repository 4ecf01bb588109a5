package registry

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/domain"
)

// TestingServiceRegistry is a fixture backed ServiceRegistry for tests and
// bypass deployments. The AllowAll override makes every ownership lookup
// succeed regardless of the fixture content.
type TestingServiceRegistry struct {
	mu       sync.RWMutex
	idps     []domain.FederationEntity
	sps      []domain.FederationEntity
	allowAll bool
}

// NewTestingServiceRegistry returns a registry serving the given entities.
func NewTestingServiceRegistry(idps, sps []domain.FederationEntity) *TestingServiceRegistry {
	return &TestingServiceRegistry{idps: idps, sps: sps}
}

// NewTestingServiceRegistryFromFiles returns a registry loaded from the JSON
// metadata fixture files at the given paths.
func NewTestingServiceRegistryFromFiles(idpFile, spFile string) (*TestingServiceRegistry, error) {
	idps, err := loadEntities(idpFile)
	if err != nil {
		return nil, err
	}
	sps, err := loadEntities(spFile)
	if err != nil {
		return nil, err
	}
	return NewTestingServiceRegistry(idps, sps), nil
}

func loadEntities(path string) ([]domain.FederationEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading registry fixture %s", path)
	}
	var entities []domain.FederationEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling registry fixture %s", path)
	}
	return entities, nil
}

// AllowAll toggles the bypass mode in which every ownership lookup succeeds.
func (r *TestingServiceRegistry) AllowAll(allowAll bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowAll = allowAll
}

// OwnsEntity returns true when the institution owns the entity, or always when
// the AllowAll override is active.
func (r *TestingServiceRegistry) OwnsEntity(ctx context.Context, institutionID, entityID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.allowAll {
		return true, nil
	}
	// The fixture slices are shared across concurrent readers; never append to them.
	for _, listing := range [][]domain.FederationEntity{r.idps, r.sps} {
		for _, e := range listing {
			if e.EntityID == entityID {
				return e.InstitutionID != "" && e.InstitutionID == institutionID, nil
			}
		}
	}
	return false, nil
}

// ServiceProviderExists returns true when the SP entityID is in the fixture set.
func (r *TestingServiceRegistry) ServiceProviderExists(ctx context.Context, entityID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.allowAll {
		return true, nil
	}
	for _, e := range r.sps {
		if e.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

// IdentityProviders lists the fixture IdP entities.
func (r *TestingServiceRegistry) IdentityProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idps, nil
}

// ServiceProviders lists the fixture SP entities.
func (r *TestingServiceRegistry) ServiceProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sps, nil
}

// EntitiesByInstitution returns the fixture entities owned by the institution.
func (r *TestingServiceRegistry) EntitiesByInstitution(ctx context.Context, institutionID string) ([]domain.FederationEntity, []domain.FederationEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var idps, sps []domain.FederationEntity
	for _, e := range r.idps {
		if e.InstitutionID != "" && e.InstitutionID == institutionID {
			idps = append(idps, e)
		}
	}
	for _, e := range r.sps {
		if e.InstitutionID != "" && e.InstitutionID == institutionID {
			sps = append(sps, e)
		}
	}
	return idps, sps, nil
}

// errorServiceRegistry is a ServiceRegistry whose lookups always fail. Used in
// tests to verify enforcement fails closed on registry errors.
type errorServiceRegistry struct {
	err error
}

// NewErrorServiceRegistry returns a registry whose every lookup fails with err.
func NewErrorServiceRegistry(err error) ServiceRegistry {
	return &errorServiceRegistry{err: err}
}

func (r *errorServiceRegistry) OwnsEntity(ctx context.Context, institutionID, entityID string) (bool, error) {
	return false, r.err
}

func (r *errorServiceRegistry) ServiceProviderExists(ctx context.Context, entityID string) (bool, error) {
	return false, r.err
}

func (r *errorServiceRegistry) IdentityProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	return nil, r.err
}

func (r *errorServiceRegistry) ServiceProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	return nil, r.err
}

func (r *errorServiceRegistry) EntitiesByInstitution(ctx context.Context, institutionID string) ([]domain.FederationEntity, []domain.FederationEntity, error) {
	return nil, nil, r.err
}
