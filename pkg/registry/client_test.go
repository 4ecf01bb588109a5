package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/domain"
)

func metadataServer(t *testing.T, idps, sps []domain.FederationEntity) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var entities []domain.FederationEntity
		switch r.URL.Path {
		case idpMetadataPath:
			entities = idps
		case spMetadataPath:
			entities = sps
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entities); err != nil {
			t.Errorf("encoding metadata response: %v", err)
		}
	}))
}

func TestClientOwnsEntity(t *testing.T) {
	assert := tassert.New(t)
	server := metadataServer(t,
		[]domain.FederationEntity{{EntityID: "http://mock-idp", InstitutionID: "MOCK"}},
		[]domain.FederationEntity{
			{EntityID: "http://mock-sp", InstitutionID: "MOCK"},
			{EntityID: "http://other-sp", InstitutionID: "OTHER"},
		})
	defer server.Close()

	client := NewClient(server.URL, nil)

	owned, err := client.OwnsEntity(context.Background(), "MOCK", "http://mock-sp")
	assert.NoError(err)
	assert.True(owned)

	owned, err = client.OwnsEntity(context.Background(), "MOCK", "http://other-sp")
	assert.NoError(err)
	assert.False(owned)

	owned, err = client.OwnsEntity(context.Background(), "MOCK", "http://unknown-sp")
	assert.NoError(err)
	assert.False(owned)
}

func TestClientServiceProviderExists(t *testing.T) {
	assert := tassert.New(t)
	server := metadataServer(t, nil,
		[]domain.FederationEntity{{EntityID: "http://mock-sp", InstitutionID: "MOCK"}})
	defer server.Close()

	client := NewClient(server.URL, nil)

	exists, err := client.ServiceProviderExists(context.Background(), "http://mock-sp")
	assert.NoError(err)
	assert.True(exists)

	exists, err = client.ServiceProviderExists(context.Background(), "http://gone-sp")
	assert.NoError(err)
	assert.False(exists)
}

func TestClientEntitiesByInstitution(t *testing.T) {
	assert := tassert.New(t)
	server := metadataServer(t,
		[]domain.FederationEntity{
			{EntityID: "http://mock-idp", InstitutionID: "MOCK"},
			{EntityID: "http://other-idp", InstitutionID: "OTHER"},
		},
		[]domain.FederationEntity{{EntityID: "http://mock-sp", InstitutionID: "MOCK"}})
	defer server.Close()

	client := NewClient(server.URL, nil)

	idps, sps, err := client.EntitiesByInstitution(context.Background(), "MOCK")
	assert.NoError(err)
	assert.Len(idps, 1)
	assert.Equal("http://mock-idp", idps[0].EntityID)
	assert.Len(sps, 1)
	assert.Equal("http://mock-sp", sps[0].EntityID)
}

func TestClientFailsOnTimeout(t *testing.T) {
	assert := tassert.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.OwnsEntity(ctx, "MOCK", "http://mock-sp")
	assert.Error(err)
}

func TestClientFailsOnErrorStatus(t *testing.T) {
	assert := tassert.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.IdentityProviders(context.Background())
	assert.Error(err)
}

func TestClientConcurrentOwnsEntity(t *testing.T) {
	assert := tassert.New(t)
	server := metadataServer(t,
		[]domain.FederationEntity{{EntityID: "http://mock-idp", InstitutionID: "MOCK"}},
		[]domain.FederationEntity{{EntityID: "http://mock-sp", InstitutionID: "MOCK"}})
	defer server.Close()

	client := NewClient(server.URL, nil)

	// Warm the cache so every concurrent lookup shares the same cached slices.
	_, err := client.OwnsEntity(context.Background(), "MOCK", "http://mock-sp")
	assert.NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				owned, err := client.OwnsEntity(context.Background(), "MOCK", "http://mock-sp")
				tassert.NoError(t, err)
				tassert.True(t, owned)
			}
		}()
	}
	wg.Wait()
}

func TestTestingRegistryConcurrentOwnsEntity(t *testing.T) {
	// Fixture slices with spare capacity; lookups must never write into the
	// shared backing arrays.
	idps := make([]domain.FederationEntity, 1, 8)
	idps[0] = domain.FederationEntity{EntityID: "http://mock-idp", InstitutionID: "MOCK"}
	sps := make([]domain.FederationEntity, 1, 8)
	sps[0] = domain.FederationEntity{EntityID: "http://mock-sp", InstitutionID: "MOCK"}
	reg := NewTestingServiceRegistry(idps, sps)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				owned, err := reg.OwnsEntity(context.Background(), "MOCK", "http://mock-sp")
				tassert.NoError(t, err)
				tassert.True(t, owned)
			}
		}()
	}
	wg.Wait()
}

func TestTestingRegistryAllowAll(t *testing.T) {
	assert := tassert.New(t)
	reg := NewTestingServiceRegistry(nil, nil)

	owned, err := reg.OwnsEntity(context.Background(), "MOCK", "http://any-sp")
	assert.NoError(err)
	assert.False(owned)

	reg.AllowAll(true)
	owned, err = reg.OwnsEntity(context.Background(), "MOCK", "http://any-sp")
	assert.NoError(err)
	assert.True(owned)

	exists, err := reg.ServiceProviderExists(context.Background(), "http://any-sp")
	assert.NoError(err)
	assert.True(exists)
}
