// Package logger initializes the structured logging facility of the PDP server.
// Every package obtains a component-tagged logger through New; enforcement and
// parsing errors additionally carry an error_code field from pkg/errcode.
package logger

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openconext/pdp/pkg/constants"
)

// CallerHook implements zerolog.Hook interface.
type CallerHook struct{}

// Run adds the emitting file and line to the event.
func (h CallerHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if _, file, line, ok := runtime.Caller(3); ok {
		e.Str("file", fmt.Sprintf("%s:%d", path.Base(file), line))
	}
}

// New creates a zerolog.Logger tagged with the given PDP component name.
// Output is JSON unless human-readable messages are requested via the
// PDP_HUMAN_READABLE_LOGS environment variable.
func New(component string) zerolog.Logger {
	l := log.With().Str("component", component).Logger().Hook(CallerHook{})
	if os.Getenv(constants.EnvVarHumanReadableLogMessages) == "true" {
		return l.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return l
}

// SetLogLevel sets the global logging level
func SetLogLevel(verbosity string) error {
	switch strings.ToLower(verbosity) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)

	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)

	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)

	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)

	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)

	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)

	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

	default:
		allowedLevels := []string{"debug", "info", "warn", "error", "fatal", "panic", "disabled", "trace"}
		return fmt.Errorf("Invalid log level '%s' specified. Please specify one of %v", verbosity, allowedLevels)
	}
	return nil
}
