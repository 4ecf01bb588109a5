package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/xacml"
)

// directoryLoader reads policy documents from a base directory, validating each
// one through the definition parser before it is stored. Documents that fail
// validation are skipped; a malformed fixture must not block startup.
type directoryLoader struct {
	baseDir     string
	parser      *xacml.DefinitionParser
	policyStore store.PolicyStore
	authority   string
}

// NewDirectoryLoader returns a PrePolicyLoader reading *.xml documents under
// baseDir. Loaded policies are anchored to the given authenticating authority.
func NewDirectoryLoader(baseDir string, parser *xacml.DefinitionParser, policyStore store.PolicyStore, authority string) PrePolicyLoader {
	if authority == "" {
		authority = DefaultAuthority
	}
	return &directoryLoader{
		baseDir:     baseDir,
		parser:      parser,
		policyStore: policyStore,
		authority:   authority,
	}
}

// Load reads, validates and stores every policy document under the base directory.
func (l *directoryLoader) Load(ctx context.Context) error {
	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return errors.Wrapf(err, "reading policy base directory %s", l.baseDir)
	}

	var policies []domain.Policy
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		path := filepath.Join(l.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str(errcode.Kind, errcode.ErrReadingPolicyFile.String()).
				Msgf("Error reading policy document %s", path)
			continue
		}

		policy := domain.Policy{
			Name:                    strings.TrimSuffix(entry.Name(), ".xml"),
			PolicyXML:               string(data),
			Active:                  true,
			AuthenticatingAuthority: l.authority,
			UserIdentifier:          "system",
			UserDisplayName:         "Policy loader",
			Type:                    domain.PolicyTypeRegular,
		}
		if _, err := l.parser.Parse(policy); err != nil {
			log.Warn().Err(err).Msgf("Skipping policy document %s: failed validation", path)
			continue
		}
		policies = append(policies, policy)
	}

	if err := l.policyStore.SaveAll(ctx, policies); err != nil {
		return errors.Wrap(err, "saving loaded policies")
	}
	log.Info().Msgf("Loaded %d policies from %s", len(policies), l.baseDir)
	return nil
}
