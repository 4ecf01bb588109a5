package configurator

import (
	"time"

	"github.com/openconext/pdp/pkg/messaging"
)

// FakeConfigurator is a fixed-value Configurator for tests.
type FakeConfigurator struct {
	DatabaseDSN            string
	RegistryBaseURL        string
	PolicyBaseDir          string
	PolicyAuthority        string
	LoaderStrategy         string
	PerformancePolicyCount int
	ViolationRetentionDays int
	CronJobResponsible     bool
	RegistryResyncInterval time.Duration
	Mail                   MailConfig
}

// Watch blocks until the stop channel closes.
func (f *FakeConfigurator) Watch(broker *messaging.Broker, stop <-chan struct{}) error {
	<-stop
	return nil
}

// GetDatabaseDSN returns the configured DSN.
func (f *FakeConfigurator) GetDatabaseDSN() string { return f.DatabaseDSN }

// GetRegistryBaseURL returns the configured registry base URL.
func (f *FakeConfigurator) GetRegistryBaseURL() string { return f.RegistryBaseURL }

// GetPolicyBaseDir returns the configured policy directory.
func (f *FakeConfigurator) GetPolicyBaseDir() string { return f.PolicyBaseDir }

// GetPolicyAuthority returns the configured policy anchoring authority.
func (f *FakeConfigurator) GetPolicyAuthority() string { return f.PolicyAuthority }

// GetLoaderStrategy returns the configured ingestion strategy name.
func (f *FakeConfigurator) GetLoaderStrategy() string { return f.LoaderStrategy }

// GetPerformancePolicyCount returns the configured synthetic policy count.
func (f *FakeConfigurator) GetPerformancePolicyCount() int { return f.PerformancePolicyCount }

// GetViolationRetentionDays returns the configured retention period.
func (f *FakeConfigurator) GetViolationRetentionDays() int { return f.ViolationRetentionDays }

// IsCronJobResponsible returns the configured cron ownership flag.
func (f *FakeConfigurator) IsCronJobResponsible() bool { return f.CronJobResponsible }

// GetRegistryResyncInterval returns the configured resync interval.
func (f *FakeConfigurator) GetRegistryResyncInterval() time.Duration { return f.RegistryResyncInterval }

// GetMailConfig returns the configured mail settings.
func (f *FakeConfigurator) GetMailConfig() MailConfig { return f.Mail }
