// Package server hosts the travel assistant behind an HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/hrygo/travelmate/ai/metrics"
	"github.com/hrygo/travelmate/ai/routing"
	"github.com/hrygo/travelmate/internal/profile"
	apiv1 "github.com/hrygo/travelmate/server/router/api/v1"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

type Server struct {
	Profile  *profile.Profile
	Service  *apiv1.TravelService
	Metrics  *metrics.PrometheusExporter
	echo     *echo.Echo
	listener net.Listener
}

// NewServer builds the echo instance and mounts every route.
func NewServer(_ context.Context, p *profile.Profile, detector routing.IntentClassifier, exporter *metrics.PrometheusExporter) (*Server, error) {
	if p == nil {
		return nil, errors.New("profile is required")
	}
	if detector == nil {
		detector = routing.NewDetector(nil)
	}

	e := echo.New()
	e.Debug = p.IsDev()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Profile: p,
		Metrics: exporter,
		echo:    e,
	}

	var recorder apiv1.Metrics
	if exporter != nil {
		recorder = exporter
	}
	s.Service = apiv1.NewTravelService(p, detector, recorder)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": p.Version,
		})
	})
	if exporter != nil {
		e.GET("/metrics", echo.WrapHandler(exporter.Handler()))
	}

	api := e.Group("/api/v1")
	if p.RateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(p.RateLimit),
			Burst:     max(1, int(p.RateLimit)*2),
			ExpiresIn: 3 * time.Minute,
		})
		api.Use(middleware.RateLimiter(store))
	}
	s.Service.RegisterRoutes(api)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the profile's address and serves until Shutdown.
// Idle sessions are swept in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.listener = listener
	s.echo.Listener = listener

	go s.Service.Sessions.RunCleanup(ctx, cleanupInterval)

	slog.Info("api server listening", slog.String("addr", listener.Addr().String()))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	slog.Info("server stopped properly")
}
