// Package v1 serves the travel assistant's JSON API.
// It is the asynchronous boundary between UI clients and the in-process core.
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/travelmate/ai/orchestrator"
	"github.com/hrygo/travelmate/ai/routing"
	"github.com/hrygo/travelmate/ai/session"
	"github.com/hrygo/travelmate/internal/profile"
)

// Metrics is what the API reports besides per-turn measurements.
type Metrics interface {
	orchestrator.MetricsRecorder
	SetActiveSessions(count int)
	RecordRejectedUpdate(reason string)
}

type noopMetrics struct{}

func (noopMetrics) RecordTurn(string, float64, time.Duration) {}
func (noopMetrics) RecordEvictions(int)                       {}
func (noopMetrics) SetActiveSessions(int)                     {}
func (noopMetrics) RecordRejectedUpdate(string)               {}

// TravelService implements the /api/v1 routes.
type TravelService struct {
	Profile  *profile.Profile
	Sessions *SessionStore
	Detector routing.IntentClassifier
	Metrics  Metrics
}

// NewTravelService wires sessions to detector and metrics. metrics may be nil.
func NewTravelService(p *profile.Profile, detector routing.IntentClassifier, metrics Metrics) *TravelService {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	factory := func(userID string) *orchestrator.Orchestrator {
		return orchestrator.New(userID,
			orchestrator.WithDetector(detector),
			orchestrator.WithMetrics(metrics),
			orchestrator.WithSessionOptions(session.WithMaxHistory(p.MaxHistory)),
		)
	}

	store := NewSessionStore(factory, p.SessionTTL)
	store.OnChange(metrics.SetActiveSessions)

	return &TravelService{
		Profile:  p,
		Sessions: store,
		Detector: detector,
		Metrics:  metrics,
	}
}

// RegisterRoutes mounts the API on g.
func (s *TravelService) RegisterRoutes(g *echo.Group) {
	g.POST("/detect", s.Detect)

	g.POST("/sessions", s.CreateSession)
	g.GET("/sessions/:id", s.GetSession)
	g.DELETE("/sessions/:id", s.DeleteSession)

	g.POST("/sessions/:id/messages", s.SendMessage)
	g.GET("/sessions/:id/history", s.GetHistory)
	g.DELETE("/sessions/:id/history", s.ClearHistory)

	g.PUT("/sessions/:id/location", s.UpdateLocation)
	g.PUT("/sessions/:id/trip", s.SetTrip)
	g.PUT("/sessions/:id/preferences", s.UpdatePreferences)
}

// lookup resolves the :id path parameter to a live session.
func (s *TravelService) lookup(c echo.Context) (*orchestrator.Orchestrator, error) {
	orch, ok := s.Sessions.Get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return orch, nil
}

// toHTTPError maps validation errors from the session layer to 400 and records the rejection.
func (s *TravelService) toHTTPError(err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidCoordinates):
		s.Metrics.RecordRejectedUpdate("invalid_coordinates")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrInvalidTravelStyle):
		s.Metrics.RecordRejectedUpdate("invalid_travel_style")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
