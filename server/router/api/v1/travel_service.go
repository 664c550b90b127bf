package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/travelmate/ai/session"
)

type textRequest struct {
	Text string `json:"text"`
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	SessionID string          `json:"session_id"`
	Context   session.Context `json:"context"`
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type tripRequest struct {
	Trip *session.Trip `json:"trip"`
}

type historyResponse struct {
	Messages []session.Message `json:"messages"`
}

// Detect classifies text against an empty context without touching any session.
func (s *TravelService) Detect(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	empty := session.NewManager("").Context()
	return c.JSON(http.StatusOK, s.Detector.Detect(req.Text, empty))
}

// CreateSession starts a new conversation.
func (s *TravelService) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	id, orch := s.Sessions.Create(req.UserID)
	return c.JSON(http.StatusCreated, sessionResponse{
		SessionID: id,
		Context:   orch.ContextManager().Context(),
	})
}

func (s *TravelService) GetSession(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		SessionID: c.Param("id"),
		Context:   orch.ContextManager().Context(),
	})
}

func (s *TravelService) DeleteSession(c echo.Context) error {
	if !s.Sessions.Delete(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SendMessage runs one conversational turn and waits for the reply or the client to go away.
func (s *TravelService) SendMessage(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}

	var req textRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	select {
	case out := <-orch.ProcessAsync(ctx, req.Text):
		if out.Err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, out.Err.Error())
		}
		return c.JSON(http.StatusOK, out.Response)
	case <-ctx.Done():
		return echo.NewHTTPError(http.StatusServiceUnavailable, ctx.Err().Error())
	}
}

func (s *TravelService) GetHistory(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{Messages: orch.ContextManager().ConversationHistory()})
}

func (s *TravelService) ClearHistory(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}
	orch.ContextManager().ClearHistory()
	return c.NoContent(http.StatusNoContent)
}

func (s *TravelService) UpdateLocation(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Lat == nil || req.Lng == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lng are required")
	}

	cm := orch.ContextManager()
	if err := cm.UpdateLocation(*req.Lat, *req.Lng); err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cm.Context())
}

// SetTrip replaces the current trip; {"trip": null} clears it.
func (s *TravelService) SetTrip(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}

	var req tripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cm := orch.ContextManager()
	cm.SetCurrentTrip(req.Trip)
	return c.JSON(http.StatusOK, cm.Context())
}

func (s *TravelService) UpdatePreferences(c echo.Context) error {
	orch, err := s.lookup(c)
	if err != nil {
		return err
	}

	var req session.Preferences
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cm := orch.ContextManager()
	if err := cm.UpdatePreferences(req); err != nil {
		return s.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cm.Context())
}
