package loader

import "context"

// noopLoader performs no ingestion. Used on deployments where the policy store
// is managed through the API only.
type noopLoader struct{}

// NewNoopLoader returns a PrePolicyLoader that does nothing.
func NewNoopLoader() PrePolicyLoader {
	return &noopLoader{}
}

// Load is a no-op.
func (l *noopLoader) Load(ctx context.Context) error {
	log.Info().Msg("Noop policy loader selected; no policies ingested")
	return nil
}
