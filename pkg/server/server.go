package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/trace-icicle/pkg/api"
	"github.com/ethpandaops/trace-icicle/pkg/cache"
	"github.com/ethpandaops/trace-icicle/pkg/clickhouse"
	"github.com/ethpandaops/trace-icicle/pkg/ethereum"
	"github.com/ethpandaops/trace-icicle/pkg/icicle"
	"github.com/ethpandaops/trace-icicle/pkg/observability"
)

type Server struct {
	log    logrus.FieldLogger
	config *Config

	engine *icicle.Engine
	node   *ethereum.Node
	sink   *clickhouse.Client

	apiServer    *http.Server
	pprofServer  *http.Server
	healthServer *http.Server
}

func NewServer(_ context.Context, log logrus.FieldLogger, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	memoCache, err := cache.New(&config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	engine := icicle.NewEngine(log, icicle.WithCache(memoCache))

	var node *ethereum.Node
	if config.Ethereum != nil {
		node = ethereum.NewNode(log, config.Ethereum)
	}

	var sink *clickhouse.Client

	if config.Summaries != nil {
		sink, err = clickhouse.NewClient(log, config.Summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to create summary sink: %w", err)
		}
	}

	return &Server{
		config: config,
		log:    log,
		engine: engine,
		node:   node,
		sink:   sink,
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start metrics server
	g.Go(func() error {
		observability.StartMetricsServer(ctx, s.config.MetricsAddr)

		return nil
	})

	// Start pprof server if configured
	if s.config.PProfAddr != nil {
		g.Go(func() error {
			if err := s.startPProf(); err != nil && err != http.ErrServerClosed {
				return err
			}

			return nil
		})
	}

	// Start health check server if configured
	if s.config.HealthCheckAddr != nil {
		g.Go(func() error {
			if err := s.startHealthCheck(); err != nil && err != http.ErrServerClosed {
				return err
			}

			return nil
		})
	}

	if s.node != nil {
		if err := s.node.Start(ctx); err != nil {
			return fmt.Errorf("failed to start execution node client: %w", err)
		}
	}

	if s.sink != nil {
		if err := s.sink.Start(ctx); err != nil {
			return fmt.Errorf("failed to start summary sink: %w", err)
		}
	}

	// Start API server
	g.Go(func() error {
		if err := s.startAPI(); err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	// Wait for shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		return s.stop(ctx)
	})

	return g.Wait()
}

func (s *Server) stop(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	if s.node != nil {
		if err := s.node.Stop(ctx); err != nil {
			s.log.WithError(err).Error("failed to stop execution node client")
		}
	}

	if s.sink != nil {
		if err := s.sink.Stop(ctx); err != nil {
			s.log.WithError(err).Error("failed to stop summary sink")
		}
	}

	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown api server")
		}
	}

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	if err := observability.StopMetricsServer(ctx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}

func (s *Server) startAPI() error {
	s.log.WithField("addr", s.config.APIAddr).Info("Starting API server")

	mux := http.NewServeMux()

	handler := api.NewHandler(s.log.WithField("component", "api"), s.engine, s.node, s.sink)
	handler.RegisterRoutes(mux)

	s.apiServer = &http.Server{
		Addr:              s.config.APIAddr,
		Handler:           mux,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.apiServer.ListenAndServe()
}

func (s *Server) startPProf() error {
	s.log.WithField("addr", *s.config.PProfAddr).Info("Starting pprof server")

	s.pprofServer = &http.Server{
		Addr:              *s.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.pprofServer.ListenAndServe()
}

func (s *Server) startHealthCheck() error {
	s.log.WithField("addr", *s.config.HealthCheckAddr).Info("Starting healthcheck server")

	s.healthServer = &http.Server{
		Addr:              *s.config.HealthCheckAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	s.healthServer.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s.healthServer.ListenAndServe()
}
