package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/registry"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/xacml"
)

func TestParseStrategy(t *testing.T) {
	assert := tassert.New(t)

	strategy, err := ParseStrategy("directory")
	assert.NoError(err)
	assert.Equal(StrategyDirectory, strategy)

	strategy, err = ParseStrategy("performance")
	assert.NoError(err)
	assert.Equal(StrategyPerformance, strategy)

	strategy, err = ParseStrategy("")
	assert.NoError(err)
	assert.Equal(StrategyNoop, strategy)

	_, err = ParseStrategy("bogus")
	assert.Error(err)
}

func TestDirectoryLoader(t *testing.T) {
	assert := tassert.New(t)
	baseDir := t.TempDir()

	valid := syntheticPolicyXML("startup-policy", "http://mock-sp")
	assert.NoError(os.WriteFile(filepath.Join(baseDir, "startup-policy.xml"), []byte(valid), 0o600))
	assert.NoError(os.WriteFile(filepath.Join(baseDir, "broken.xml"), []byte("<Policy"), 0o600))
	assert.NoError(os.WriteFile(filepath.Join(baseDir, "notes.txt"), []byte("not a policy"), 0o600))

	policyStore := store.NewFakePolicyStore()
	l := NewDirectoryLoader(baseDir, xacml.NewDefinitionParser(nil), policyStore, "")

	err := l.Load(context.Background())
	assert.NoError(err)

	policies, err := policyStore.List(context.Background())
	assert.NoError(err)
	assert.Len(policies, 1)
	assert.Equal("startup-policy", policies[0].Name)
	assert.Equal(DefaultAuthority, policies[0].AuthenticatingAuthority)
	assert.True(policies[0].Active)
	assert.Equal(domain.PolicyTypeRegular, policies[0].Type)
}

func TestDirectoryLoaderConfiguredAuthority(t *testing.T) {
	assert := tassert.New(t)
	baseDir := t.TempDir()
	valid := syntheticPolicyXML("anchored-policy", "http://mock-sp")
	assert.NoError(os.WriteFile(filepath.Join(baseDir, "anchored-policy.xml"), []byte(valid), 0o600))

	policyStore := store.NewFakePolicyStore()
	l := NewDirectoryLoader(baseDir, xacml.NewDefinitionParser(nil), policyStore, "https://idp.example.org")

	assert.NoError(l.Load(context.Background()))

	policies, err := policyStore.List(context.Background())
	assert.NoError(err)
	assert.Len(policies, 1)
	assert.Equal("https://idp.example.org", policies[0].AuthenticatingAuthority)
}

func TestDirectoryLoaderMissingBaseDir(t *testing.T) {
	assert := tassert.New(t)
	l := NewDirectoryLoader("/nonexistent/policies", xacml.NewDefinitionParser(nil), store.NewFakePolicyStore(), "")
	assert.Error(l.Load(context.Background()))
}

func TestPerformanceLoader(t *testing.T) {
	assert := tassert.New(t)
	reg := registry.NewTestingServiceRegistry(
		[]domain.FederationEntity{
			{EntityID: "http://mock-idp", InstitutionID: "MOCK"},
			{EntityID: "http://mock-idp2", InstitutionID: "MOCK"},
		},
		[]domain.FederationEntity{
			{EntityID: "http://mock-sp", InstitutionID: "MOCK"},
		})

	policyStore := store.NewFakePolicyStore()
	l := NewPerformanceLoader(5, reg, policyStore)

	err := l.Load(context.Background())
	assert.NoError(err)

	policies, err := policyStore.List(context.Background())
	assert.NoError(err)
	assert.Len(policies, 5)

	// Every synthesized document must pass the same validation pipeline that
	// guards policies submitted through the API.
	parser := xacml.NewDefinitionParser(nil)
	for _, policy := range policies {
		definition, err := parser.Parse(policy)
		assert.NoError(err)
		assert.Equal([]string{"http://mock-sp"}, definition.ServiceProviderIDs)
	}
}

func TestPerformanceLoaderEmptyRegistry(t *testing.T) {
	assert := tassert.New(t)
	l := NewPerformanceLoader(3, registry.NewTestingServiceRegistry(nil, nil), store.NewFakePolicyStore())
	assert.Error(l.Load(context.Background()))
}

func TestNoopLoader(t *testing.T) {
	assert := tassert.New(t)
	assert.NoError(NewNoopLoader().Load(context.Background()))
}
