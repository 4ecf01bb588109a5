package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openconext/pdp/pkg/domain"
)

// mysqlPolicyStore is the gorm backed PolicyStore.
type mysqlPolicyStore struct {
	db *gorm.DB
}

// mysqlViolationStore is the gorm backed ViolationStore.
type mysqlViolationStore struct {
	db *gorm.DB
}

// OpenMySQL opens the policy database and migrates the schema.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening policy database")
	}
	if err := db.AutoMigrate(&domain.Policy{}, &domain.Violation{}); err != nil {
		return nil, errors.Wrap(err, "migrating policy database schema")
	}
	return db, nil
}

// NewMySQLPolicyStore returns a PolicyStore on the given database handle.
func NewMySQLPolicyStore(db *gorm.DB) PolicyStore {
	return &mysqlPolicyStore{db: db}
}

// NewMySQLViolationStore returns a ViolationStore on the given database handle.
func NewMySQLViolationStore(db *gorm.DB) ViolationStore {
	return &mysqlViolationStore{db: db}
}

// Get fetches the policy with the given id.
func (s *mysqlPolicyStore) Get(ctx context.Context, id uint) (*domain.Policy, error) {
	var policy domain.Policy
	result := s.db.WithContext(ctx).First(&policy, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPolicyNotFound
	}
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "fetching policy %d", id)
	}
	return &policy, nil
}

// List returns all stored policies.
func (s *mysqlPolicyStore) List(ctx context.Context) ([]domain.Policy, error) {
	var policies []domain.Policy
	if result := s.db.WithContext(ctx).Find(&policies); result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing policies")
	}
	return policies, nil
}

// Save persists the policy, assigning an id on first save.
func (s *mysqlPolicyStore) Save(ctx context.Context, policy *domain.Policy) error {
	if result := s.db.WithContext(ctx).Save(policy); result.Error != nil {
		return errors.Wrapf(result.Error, "saving policy %q", policy.Name)
	}
	return nil
}

// SaveAll persists the given policies in one batch.
func (s *mysqlPolicyStore) SaveAll(ctx context.Context, policies []domain.Policy) error {
	if len(policies) == 0 {
		return nil
	}
	if result := s.db.WithContext(ctx).Save(&policies); result.Error != nil {
		return errors.Wrap(result.Error, "saving policies")
	}
	return nil
}

// Delete removes the policy with the given id.
func (s *mysqlPolicyStore) Delete(ctx context.Context, id uint) error {
	if result := s.db.WithContext(ctx).Delete(&domain.Policy{}, id); result.Error != nil {
		return errors.Wrapf(result.Error, "deleting policy %d", id)
	}
	return nil
}

// Append appends a violation record.
func (s *mysqlViolationStore) Append(ctx context.Context, violation *domain.Violation) error {
	if violation.CreatedAt.IsZero() {
		violation.CreatedAt = time.Now()
	}
	if result := s.db.WithContext(ctx).Create(violation); result.Error != nil {
		return errors.Wrap(result.Error, "appending violation record")
	}
	return nil
}

// List returns all violation records.
func (s *mysqlViolationStore) List(ctx context.Context) ([]domain.Violation, error) {
	var violations []domain.Violation
	if result := s.db.WithContext(ctx).Find(&violations); result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing violation records")
	}
	return violations, nil
}

// DeleteOlderThan deletes records created before the cutoff.
func (s *mysqlViolationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.Violation{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deleting aged violation records")
	}
	return result.RowsAffected, nil
}
