package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/domain"
)

const (
	idpMetadataPath = "/saml20-idp.json"
	spMetadataPath  = "/saml20-sp.json"

	// metadataCacheTTL bounds how long a fetched metadata listing is served from
	// cache before the registry endpoint is consulted again.
	metadataCacheTTL = 1 * time.Minute
)

// client is the HTTP backed ServiceRegistry implementation, reading the JSON
// metadata listings published by the registry endpoint.
type client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	idpCache  []domain.FederationEntity
	spCache   []domain.FederationEntity
	fetchedAt time.Time
}

// NewClient returns an HTTP backed ServiceRegistry reading metadata from the
// given base URL. A nil httpClient defaults to http.DefaultClient; per-call
// deadlines are taken from the caller's context.
func NewClient(baseURL string, httpClient *http.Client) ServiceRegistry {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// OwnsEntity returns true when the given institution owns the given entity,
// looking across both the IdP and SP listings.
func (c *client) OwnsEntity(ctx context.Context, institutionID, entityID string) (bool, error) {
	idps, sps, err := c.metadata(ctx)
	if err != nil {
		return false, err
	}
	// The cached slices are shared across requests; never append to them.
	for _, listing := range [][]domain.FederationEntity{idps, sps} {
		for _, e := range listing {
			if e.EntityID == entityID {
				return e.InstitutionID != "" && e.InstitutionID == institutionID, nil
			}
		}
	}
	return false, nil
}

// ServiceProviderExists returns true when the SP entityID resolves in the registry.
func (c *client) ServiceProviderExists(ctx context.Context, entityID string) (bool, error) {
	_, sps, err := c.metadata(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range sps {
		if e.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

// IdentityProviders lists all IdP entities known to the registry.
func (c *client) IdentityProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	idps, _, err := c.metadata(ctx)
	return idps, err
}

// ServiceProviders lists all SP entities known to the registry.
func (c *client) ServiceProviders(ctx context.Context) ([]domain.FederationEntity, error) {
	_, sps, err := c.metadata(ctx)
	return sps, err
}

// EntitiesByInstitution returns the IdP and SP entities owned by the institution.
func (c *client) EntitiesByInstitution(ctx context.Context, institutionID string) ([]domain.FederationEntity, []domain.FederationEntity, error) {
	allIdps, allSps, err := c.metadata(ctx)
	if err != nil {
		return nil, nil, err
	}
	var idps, sps []domain.FederationEntity
	for _, e := range allIdps {
		if e.InstitutionID != "" && e.InstitutionID == institutionID {
			idps = append(idps, e)
		}
	}
	for _, e := range allSps {
		if e.InstitutionID != "" && e.InstitutionID == institutionID {
			sps = append(sps, e)
		}
	}
	return idps, sps, nil
}

func (c *client) metadata(ctx context.Context) ([]domain.FederationEntity, []domain.FederationEntity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetchedAt) < metadataCacheTTL && c.idpCache != nil {
		return c.idpCache, c.spCache, nil
	}

	idps, err := c.fetch(ctx, idpMetadataPath)
	if err != nil {
		return nil, nil, err
	}
	sps, err := c.fetch(ctx, spMetadataPath)
	if err != nil {
		return nil, nil, err
	}

	c.idpCache = idps
	c.spCache = sps
	c.fetchedAt = time.Now()
	return idps, sps, nil
}

func (c *client) fetch(ctx context.Context, path string) ([]domain.FederationEntity, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating registry request for %s", url)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching registry metadata from %s", url)
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry metadata endpoint %s returned status %d", url, resp.StatusCode)
	}

	var entities []domain.FederationEntity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, errors.Wrapf(err, "decoding registry metadata from %s", url)
	}
	return entities, nil
}
