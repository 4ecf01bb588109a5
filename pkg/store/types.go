// Package store implements persistence for policies and policy violation records.
package store

import (
	"context"
	"time"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("store")

// PolicyStore is CRUD over policy records, keyed by policy id.
type PolicyStore interface {
	// Get fetches the policy with the given id.
	Get(ctx context.Context, id uint) (*domain.Policy, error)

	// List returns all stored policies.
	List(ctx context.Context) ([]domain.Policy, error)

	// Save persists the policy, assigning an id on first save.
	Save(ctx context.Context, policy *domain.Policy) error

	// SaveAll persists the given policies in one batch.
	SaveAll(ctx context.Context, policies []domain.Policy) error

	// Delete removes the policy with the given id.
	Delete(ctx context.Context, id uint) error
}

// ViolationStore is the append-only log of policy violation records.
type ViolationStore interface {
	// Append appends a violation record.
	Append(ctx context.Context, violation *domain.Violation) error

	// List returns all violation records.
	List(ctx context.Context) ([]domain.Violation, error)

	// DeleteOlderThan deletes records created before the cutoff and returns how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
