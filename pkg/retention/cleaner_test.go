package retention

import (
	"context"
	"testing"
	"time"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/store"
)

func TestCleanerDeletesAgedRecords(t *testing.T) {
	assert := tassert.New(t)
	violationStore := store.NewFakeViolationStore()

	aged := domain.Violation{PolicyName: "aged", CreatedAt: time.Now().AddDate(0, 0, -40)}
	recent := domain.Violation{PolicyName: "recent", CreatedAt: time.Now()}
	assert.NoError(violationStore.Append(context.Background(), &aged))
	assert.NoError(violationStore.Append(context.Background(), &recent))

	cleaner := NewCleaner(violationStore, 30, true)
	cleaner.sweep()

	remaining, err := violationStore.List(context.Background())
	assert.NoError(err)
	assert.Len(remaining, 1)
	assert.Equal("recent", remaining[0].PolicyName)
}

func TestCleanerSweepsPeriodically(t *testing.T) {
	assert := tassert.New(t)
	violationStore := store.NewFakeViolationStore()
	aged := domain.Violation{PolicyName: "aged", CreatedAt: time.Now().AddDate(0, 0, -40)}
	assert.NoError(violationStore.Append(context.Background(), &aged))

	cleaner := NewCleaner(violationStore, 30, true)
	cleaner.sweepInterval = 10 * time.Millisecond

	stop := make(chan struct{})
	defer close(stop)
	cleaner.Start(stop)

	assert.Eventually(func() bool {
		remaining, err := violationStore.List(context.Background())
		return err == nil && len(remaining) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCleanerNotResponsible(t *testing.T) {
	assert := tassert.New(t)
	violationStore := store.NewFakeViolationStore()
	aged := domain.Violation{PolicyName: "aged", CreatedAt: time.Now().AddDate(0, 0, -40)}
	assert.NoError(violationStore.Append(context.Background(), &aged))

	cleaner := NewCleaner(violationStore, 30, false)
	cleaner.sweepInterval = 10 * time.Millisecond

	stop := make(chan struct{})
	defer close(stop)
	cleaner.Start(stop)

	time.Sleep(100 * time.Millisecond)
	remaining, err := violationStore.List(context.Background())
	assert.NoError(err)
	assert.Len(remaining, 1)
}
