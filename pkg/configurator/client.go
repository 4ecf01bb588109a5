package configurator

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/announcements"
	"github.com/openconext/pdp/pkg/constants"
	"github.com/openconext/pdp/pkg/messaging"
)

// client is the file backed Configurator. The loaded configuration is replaced
// wholesale on file change, readers take the lock only long enough to copy it.
type client struct {
	path string

	mu  sync.RWMutex
	cfg config
}

// NewConfigurator loads the configuration file at the given path.
func NewConfigurator(path string) (Configurator, error) {
	c := &client{path: path}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *client) reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return errors.Wrapf(err, "reading configuration file %s", c.path)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrapf(err, "unmarshalling configuration file %s", c.path)
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	return nil
}

// Watch reloads the configuration when the file changes on disk and publishes a
// ConfigUpdated control message. It blocks until the stop channel closes.
func (c *client) Watch(broker *messaging.Broker, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating configuration file watcher")
	}
	defer watcher.Close() //nolint: errcheck

	if err := watcher.Add(c.path); err != nil {
		return errors.Wrapf(err, "watching configuration file %s", c.path)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := c.reload(); err != nil {
				log.Error().Err(err).Msgf("Error reloading configuration file %s", c.path)
				continue
			}
			log.Info().Msgf("Configuration file %s reloaded", c.path)
			broker.PublishControl(messaging.PubSubMessage{
				Kind: announcements.ConfigUpdated,
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Configuration file watcher error")
		case <-stop:
			return nil
		}
	}
}

// GetDatabaseDSN returns the DSN of the policy database.
func (c *client) GetDatabaseDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.DatabaseDSN
}

// GetRegistryBaseURL returns the base URL of the service registry metadata endpoints.
func (c *client) GetRegistryBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.RegistryBaseURL
}

// GetPolicyBaseDir returns the directory the directory ingestion strategy reads from.
func (c *client) GetPolicyBaseDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.PolicyBaseDir
}

// GetPolicyAuthority returns the authenticating authority directory-loaded
// policies are anchored to.
func (c *client) GetPolicyAuthority() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.PolicyAuthority
}

// GetLoaderStrategy returns the configured policy ingestion strategy name.
func (c *client) GetLoaderStrategy() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.LoaderStrategy
}

// GetPerformancePolicyCount returns how many synthetic policies the performance
// ingestion strategy generates.
func (c *client) GetPerformancePolicyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.PerformancePolicyCount
}

// GetViolationRetentionDays returns the violation record retention period in days.
func (c *client) GetViolationRetentionDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cfg.ViolationRetentionDays <= 0 {
		return constants.DefaultViolationRetentionDays
	}
	return c.cfg.ViolationRetentionDays
}

// IsCronJobResponsible returns true when this node owns the cluster's periodic jobs.
func (c *client) IsCronJobResponsible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.CronJobResponsible
}

// GetRegistryResyncInterval returns the interval of the registry revalidation sweep.
func (c *client) GetRegistryResyncInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	interval, err := time.ParseDuration(c.cfg.RegistryResyncInterval)
	if err != nil {
		return 0
	}
	return interval
}

// GetMailConfig returns the alert mail settings.
func (c *client) GetMailConfig() MailConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Mail
}
