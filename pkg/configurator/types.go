// Package configurator implements the client to fetch the PDP server configuration
// from its YAML configuration file.
package configurator

import (
	"time"

	"github.com/openconext/pdp/pkg/logger"
	"github.com/openconext/pdp/pkg/messaging"
)

var log = logger.New("configurator")

// Configurator is the controller interface for the PDP server configuration.
type Configurator interface {
	// Watch blocks reloading the configuration on file change until the stop
	// channel closes, publishing a ConfigUpdated control message per reload.
	Watch(broker *messaging.Broker, stop <-chan struct{}) error

	// GetDatabaseDSN returns the DSN of the policy database.
	GetDatabaseDSN() string

	// GetRegistryBaseURL returns the base URL of the service registry metadata endpoints.
	GetRegistryBaseURL() string

	// GetPolicyBaseDir returns the directory the directory ingestion strategy reads from.
	GetPolicyBaseDir() string

	// GetPolicyAuthority returns the authenticating authority directory-loaded
	// policies are anchored to.
	GetPolicyAuthority() string

	// GetLoaderStrategy returns the configured policy ingestion strategy name.
	GetLoaderStrategy() string

	// GetPerformancePolicyCount returns how many synthetic policies the
	// performance ingestion strategy generates.
	GetPerformancePolicyCount() int

	// GetViolationRetentionDays returns the violation record retention period in days.
	GetViolationRetentionDays() int

	// IsCronJobResponsible returns true when this node owns the cluster's
	// periodic jobs. Non-owners run the jobs as no-ops.
	IsCronJobResponsible() bool

	// GetRegistryResyncInterval returns the interval of the registry
	// revalidation sweep. Values under one minute disable the sweep.
	GetRegistryResyncInterval() time.Duration

	// GetMailConfig returns the alert mail settings.
	GetMailConfig() MailConfig
}

// MailConfig holds the SMTP settings for alert mail.
type MailConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	From string `json:"from"`
	To   string `json:"to"`
}

// config is the on-disk shape of the configuration file.
type config struct {
	DatabaseDSN            string     `json:"databaseDsn"`
	RegistryBaseURL        string     `json:"registryBaseUrl"`
	PolicyBaseDir          string     `json:"policyBaseDir"`
	PolicyAuthority        string     `json:"policyAuthority"`
	LoaderStrategy         string     `json:"loaderStrategy"`
	PerformancePolicyCount int        `json:"performancePolicyCount"`
	ViolationRetentionDays int        `json:"violationRetentionDays"`
	CronJobResponsible     bool       `json:"cronJobResponsible"`
	RegistryResyncInterval string     `json:"registryResyncInterval"`
	Mail                   MailConfig `json:"mail"`
}
