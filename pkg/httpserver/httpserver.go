// Package httpserver implements the HTTP server serving health probes and version information.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openconext/pdp/pkg/health"
	"github.com/openconext/pdp/pkg/logger"
)

const (
	contextTimeoutDuration = 5 * time.Second
)

var (
	log = logger.New("http-server")
)

// HTTPServer is the object wrapper for the PDP probe server
type HTTPServer struct {
	server *http.Server
}

// NewHealthMux makes a new *http.ServeMux
func NewHealthMux(handlers map[string]http.Handler) *http.ServeMux {
	router := http.NewServeMux()
	for url, handler := range handlers {
		router.Handle(url, handler)
	}

	return router
}

// NewHTTPServer creates a new probe server
func NewHTTPServer(probes health.Probes, port int32) *HTTPServer {
	handlers := map[string]http.Handler{
		"/health/ready": health.ReadinessHandler(probes),
		"/health/alive": health.LivenessHandler(probes),
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: NewHealthMux(handlers),
		},
	}
}

// Start runs the Serve operations for the http.server on a separate go routine context
func (s *HTTPServer) Start() {
	go func() {
		log.Info().Msgf("Starting probe server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start probe server")
		}
	}()
}

// Stop halts the http.server
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), contextTimeoutDuration)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Unable to shutdown probe server gracefully")
		return err
	}
	return nil
}
