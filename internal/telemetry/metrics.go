// Package telemetry exposes the process's Prometheus metrics, either on an
// HTTP endpoint or by pushing them to a Pushgateway once a batch run ends.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

// Handler serves the default registry on /metrics.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Server is a running /metrics endpoint.
type Server struct {
	srv  *http.Server
	lis  net.Listener
	errc chan error
}

// Serve starts a /metrics endpoint on addr.
func Serve(addr string, logger zerolog.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}

	s := &Server{
		srv:  &http.Server{Handler: Handler(), ReadHeaderTimeout: 5 * time.Second},
		lis:  lis,
		errc: make(chan error, 1),
	}
	go func() {
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
		close(s.errc)
	}()

	logger.Info().Str("addr", s.Addr()).Msg("serving metrics")
	return s, nil
}

// Addr returns the bound address, useful when addr had port 0.
func (s *Server) Addr() string {
	return s.lis.Addr().String()
}

// Err delivers a serve failure, or is closed after a clean shutdown.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Shutdown stops the endpoint, waiting at most until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Push sends the default registry to a Pushgateway under job, replacing
// whatever the job pushed before.
func Push(url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(prometheus.DefaultGatherer)
	for name, value := range grouping {
		p = p.Grouping(name, value)
	}
	if err := p.Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
