package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/KueenLau/presto/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

// Service exposes the launcher's liveness and Prometheus endpoints while
// suites are scheduled. Both servers run in the background; a server failure
// is logged and recorded but never interrupts suite execution.
type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

func New() *Service {
	return &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
}

func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")
	s.serve(ctx, "healthz", net.JoinHostPort(HealthzHost, HealthzPort), s.Healthz.Start)
	s.serve(ctx, "metrics", net.JoinHostPort(MetricsHost, MetricsPort), s.Metrics.Start)
	log.Info("service started")
}

// serve runs one listener in the background. http.ErrServerClosed is the
// normal shutdown path and is not reported.
func (s *Service) serve(ctx context.Context, name, addr string, start func(context.Context, string) error) {
	go func() {
		log.Info("starting server", "server", name, "addr", addr)
		if err := start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "server", name, "err", err)
			metrics.RecordErrorDetails(fmt.Sprintf("error starting %s server", name), err)
		}
	}()
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")

	if err := s.Healthz.Shutdown(); err != nil {
		log.Warn("healthz shutdown failed", "err", err)
	}
	if err := s.Metrics.Shutdown(); err != nil {
		log.Warn("metrics shutdown failed", "err", err)
	}

	log.Info("service stopped")
}
