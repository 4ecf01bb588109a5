// Package loader implements the policy ingestion strategies run at process start
// to populate the policy store: directory based, synthetic for load testing, or none.
package loader

import (
	"context"
	"fmt"

	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("policy-loader")

// DefaultAuthority anchors directory-loaded policies when no authenticating
// authority is configured. It matches the development IdP fixture.
const DefaultAuthority = "http://mock-idp"

// PrePolicyLoader populates the policy store at process start. Load is
// idempotent and runs to completion before request serving starts.
type PrePolicyLoader interface {
	Load(ctx context.Context) error
}

// Strategy selects the ingestion strategy at startup.
type Strategy string

const (
	// StrategyDirectory loads policy documents from a directory.
	StrategyDirectory Strategy = "directory"

	// StrategyPerformance synthesizes policies for load testing.
	StrategyPerformance Strategy = "performance"

	// StrategyNoop performs no ingestion.
	StrategyNoop Strategy = "noop"
)

// ParseStrategy returns the Strategy for the given configuration value.
// The empty string selects the noop strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyDirectory, StrategyPerformance, StrategyNoop:
		return Strategy(s), nil
	case "":
		return StrategyNoop, nil
	default:
		return "", fmt.Errorf("unknown policy loader strategy %q; expected one of [%s %s %s]",
			s, StrategyDirectory, StrategyPerformance, StrategyNoop)
	}
}
