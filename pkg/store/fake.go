package store

import (
	"context"
	"sync"
	"time"

	"github.com/openconext/pdp/pkg/domain"
)

// FakePolicyStore is an in-memory PolicyStore for tests.
type FakePolicyStore struct {
	mu       sync.RWMutex
	policies map[uint]domain.Policy
	nextID   uint
}

// NewFakePolicyStore returns an empty in-memory PolicyStore.
func NewFakePolicyStore() *FakePolicyStore {
	return &FakePolicyStore{
		policies: map[uint]domain.Policy{},
		nextID:   1,
	}
}

// Get fetches the policy with the given id.
func (s *FakePolicyStore) Get(ctx context.Context, id uint) (*domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	policy, ok := s.policies[id]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	return &policy, nil
}

// List returns all stored policies ordered by id.
func (s *FakePolicyStore) List(ctx context.Context) ([]domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var policies []domain.Policy
	for id := uint(1); id < s.nextID; id++ {
		if policy, ok := s.policies[id]; ok {
			policies = append(policies, policy)
		}
	}
	return policies, nil
}

// Save persists the policy, assigning an id on first save.
func (s *FakePolicyStore) Save(ctx context.Context, policy *domain.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy.ID == 0 {
		policy.ID = s.nextID
		s.nextID++
	} else if policy.ID >= s.nextID {
		s.nextID = policy.ID + 1
	}
	s.policies[policy.ID] = *policy
	return nil
}

// SaveAll persists the given policies in one batch.
func (s *FakePolicyStore) SaveAll(ctx context.Context, policies []domain.Policy) error {
	for i := range policies {
		if err := s.Save(ctx, &policies[i]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the policy with the given id.
func (s *FakePolicyStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, id)
	return nil
}

// FakeViolationStore is an in-memory ViolationStore for tests.
type FakeViolationStore struct {
	mu         sync.RWMutex
	violations []domain.Violation
	nextID     uint
}

// NewFakeViolationStore returns an empty in-memory ViolationStore.
func NewFakeViolationStore() *FakeViolationStore {
	return &FakeViolationStore{nextID: 1}
}

// Append appends a violation record.
func (s *FakeViolationStore) Append(ctx context.Context, violation *domain.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if violation.CreatedAt.IsZero() {
		violation.CreatedAt = time.Now()
	}
	violation.ID = s.nextID
	s.nextID++
	s.violations = append(s.violations, *violation)
	return nil
}

// List returns all violation records.
func (s *FakeViolationStore) List(ctx context.Context) ([]domain.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Violation(nil), s.violations...), nil
}

// DeleteOlderThan deletes records created before the cutoff.
func (s *FakeViolationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []domain.Violation
	var deleted int64
	for _, v := range s.violations {
		if v.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	s.violations = kept
	return deleted, nil
}
