// Package main implements the PDP server entrypoint: it wires the service
// registry, stores, enforcer, parser, periodic jobs and the HTTP surfaces.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/openconext/pdp/pkg/access"
	"github.com/openconext/pdp/pkg/api"
	"github.com/openconext/pdp/pkg/configurator"
	"github.com/openconext/pdp/pkg/constants"
	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/httpserver"
	"github.com/openconext/pdp/pkg/loader"
	"github.com/openconext/pdp/pkg/logger"
	"github.com/openconext/pdp/pkg/messaging"
	"github.com/openconext/pdp/pkg/notifier"
	"github.com/openconext/pdp/pkg/registry"
	"github.com/openconext/pdp/pkg/retention"
	"github.com/openconext/pdp/pkg/signals"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/ticker"
	"github.com/openconext/pdp/pkg/xacml"
)

var (
	flags      = pflag.NewFlagSet("pdp-server", pflag.ExitOnError)
	verbosity  = flags.String("verbosity", "info", "Set log verbosity level")
	configFile = flags.String("config", "pdp.yaml", "Path to the PDP server configuration file")
	apiPort    = flags.Int("port", constants.PDPServerPort, "API server port number")
	probePort  = flags.Int("probe-port", constants.PDPHTTPServerPort, "Health probe server port number")

	log = logger.New("pdp-server/main")
)

// probes is the readiness/liveness source for the probe server. The server is
// ready once startup ingestion completed.
type probes struct {
	ready bool
}

func (p *probes) Liveness() bool  { return true }
func (p *probes) Readiness() bool { return p.ready }

func main() {
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Str(errcode.Kind, errcode.ErrInvalidCLIArgument.String()).Msg("Error parsing command line arguments")
	}
	if err := logger.SetLogLevel(*verbosity); err != nil {
		log.Fatal().Err(err).Str(errcode.Kind, errcode.ErrSettingLogLevel.String()).Msgf("Error setting log level to %s", *verbosity)
	}

	cfg, err := configurator.NewConfigurator(*configFile)
	if err != nil {
		log.Fatal().Err(err).Str(errcode.Kind, errcode.ErrLoadingConfigFile.String()).Msgf("Error loading configuration file %s", *configFile)
	}

	stop := signals.RegisterExitHandlers()
	broker := messaging.NewBroker()
	go func() {
		if err := cfg.Watch(broker, stop); err != nil {
			log.Error().Err(err).Msg("Configuration file watcher stopped")
		}
	}()

	db, err := store.OpenMySQL(cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Str(errcode.Kind, errcode.ErrOpeningDatabase.String()).Msg("Error opening policy database")
	}
	policyStore := store.NewMySQLPolicyStore(db)
	violationStore := store.NewMySQLViolationStore(db)

	reg := registry.NewClient(cfg.GetRegistryBaseURL(), &http.Client{Timeout: constants.DefaultRegistryRequestTimeout})
	parser := xacml.NewDefinitionParser(nil)
	enforcer := access.NewEnforcer(reg)

	if err := runPrePolicyLoader(cfg, parser, policyStore, reg); err != nil {
		log.Fatal().Err(err).Str(errcode.Kind, errcode.ErrPrePolicyLoad.String()).Msg("Error running policy ingestion strategy")
	}

	cleaner := retention.NewCleaner(violationStore, cfg.GetViolationRetentionDays(), cfg.IsCronJobResponsible())
	cleaner.Start(stop)

	mailBox := notifier.NewSMTPMailBox(cfg.GetMailConfig())
	validator := notifier.NewMissingServiceProviderValidator(policyStore, reg, parser, mailBox)
	validator.Start(broker, stop)

	resyncTicker := ticker.InitTicker(cfg, broker)
	defer resyncTicker.Stop()

	serverProbes := &probes{ready: true}
	probeServer := httpserver.NewHTTPServer(serverProbes, int32(*probePort))
	probeServer.Start()

	apiServer := api.NewServer(enforcer, parser, policyStore, violationStore, broker)
	router := apiServer.NewRouter()
	router.Use(api.PrincipalMiddleware(reg))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *apiPort),
		Handler: router,
	}
	go func() {
		log.Info().Msgf("Starting PDP API server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start PDP API server")
		}
	}()

	<-stop
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Unable to shutdown PDP API server gracefully")
	}
	if err := probeServer.Stop(); err != nil {
		log.Error().Err(err).Msg("Unable to shutdown probe server gracefully")
	}
	log.Info().Msg("Goodbye!")
}

// runPrePolicyLoader selects and runs the configured ingestion strategy before
// request serving starts.
func runPrePolicyLoader(cfg configurator.Configurator, parser *xacml.DefinitionParser,
	policyStore store.PolicyStore, reg registry.ServiceRegistry) error {
	strategy, err := loader.ParseStrategy(cfg.GetLoaderStrategy())
	if err != nil {
		return err
	}

	var prePolicyLoader loader.PrePolicyLoader
	switch strategy {
	case loader.StrategyDirectory:
		prePolicyLoader = loader.NewDirectoryLoader(cfg.GetPolicyBaseDir(), parser, policyStore, cfg.GetPolicyAuthority())
	case loader.StrategyPerformance:
		prePolicyLoader = loader.NewPerformanceLoader(cfg.GetPerformancePolicyCount(), reg, policyStore)
	case loader.StrategyNoop:
		prePolicyLoader = loader.NewNoopLoader()
	}
	return prePolicyLoader.Load(context.Background())
}
