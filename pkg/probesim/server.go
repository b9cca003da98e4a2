// Package probesim serves a fixture workload with deliberately slow
// and flaky endpoints, used to exercise exec probe timeout behavior
// against a real target.
package probesim

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server hosts the simulated probe endpoints
type Server struct {
	cfg    *Config
	logger zerolog.Logger

	// random decides the /flaky path, injectable for tests
	random func() float64
}

func New(cfg *Config, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		random: rand.Float64,
	}
}

// Router builds the HTTP handler with the probe endpoints plus
// health and metrics
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthy", s.handleHealthy)
	r.Get("/slow", s.handleSlow)
	r.Get("/flaky", s.handleFlaky)
	r.Get("/timeout", s.handleTimeout)
	r.Get("/startup", s.handleStartup)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", srv.Addr).Msg("probe simulator listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealthy(w http.ResponseWriter, r *http.Request) {
	s.respondOK(w)
}

func (s *Server) handleSlow(w http.ResponseWriter, r *http.Request) {
	if !s.sleep(r.Context(), s.cfg.SlowDelay) {
		return
	}
	s.respondOK(w)
}

func (s *Server) handleFlaky(w http.ResponseWriter, r *http.Request) {
	if s.random() < s.cfg.FlakyRate {
		s.logger.Debug().Dur("delay", s.cfg.SlowDelay).Msg("flaky request taking slow path")
		if !s.sleep(r.Context(), s.cfg.SlowDelay) {
			return
		}
	}
	s.respondOK(w)
}

func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	if !s.sleep(r.Context(), s.cfg.TimeoutDelay) {
		return
	}
	s.respondOK(w)
}

func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	if !s.sleep(r.Context(), s.cfg.StartupDelay) {
		return
	}
	s.respondOK(w)
}

func (s *Server) respondOK(w http.ResponseWriter) {
	_, _ = w.Write([]byte("OK"))
}

// sleep blocks for d or until the request is gone. Returns false when
// the caller should stop without responding.
func (s *Server) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
