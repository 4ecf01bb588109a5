package store

import (
	"context"
	"testing"
	"time"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/domain"
)

func TestFakePolicyStore(t *testing.T) {
	assert := tassert.New(t)
	s := NewFakePolicyStore()

	_, err := s.Get(context.Background(), 1)
	assert.Equal(ErrPolicyNotFound, err)

	first := domain.Policy{Name: "first"}
	second := domain.Policy{Name: "second"}
	assert.NoError(s.SaveAll(context.Background(), []domain.Policy{first, second}))

	policies, err := s.List(context.Background())
	assert.NoError(err)
	assert.Len(policies, 2)
	assert.Equal("first", policies[0].Name)
	assert.Equal("second", policies[1].Name)

	policies[0].Name = "renamed"
	assert.NoError(s.Save(context.Background(), &policies[0]))
	stored, err := s.Get(context.Background(), policies[0].ID)
	assert.NoError(err)
	assert.Equal("renamed", stored.Name)

	assert.NoError(s.Delete(context.Background(), policies[0].ID))
	_, err = s.Get(context.Background(), policies[0].ID)
	assert.Equal(ErrPolicyNotFound, err)
}

func TestFakeViolationStore(t *testing.T) {
	assert := tassert.New(t)
	s := NewFakeViolationStore()

	aged := domain.Violation{PolicyName: "aged", CreatedAt: time.Now().AddDate(0, 0, -10)}
	recent := domain.Violation{PolicyName: "recent"}
	assert.NoError(s.Append(context.Background(), &aged))
	assert.NoError(s.Append(context.Background(), &recent))
	assert.NotZero(recent.CreatedAt)

	deleted, err := s.DeleteOlderThan(context.Background(), time.Now().AddDate(0, 0, -1))
	assert.NoError(err)
	assert.EqualValues(1, deleted)

	violations, err := s.List(context.Background())
	assert.NoError(err)
	assert.Len(violations, 1)
	assert.Equal("recent", violations[0].PolicyName)
}
