package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/travelmate/ai/routing"
	"github.com/hrygo/travelmate/ai/session"
	"github.com/hrygo/travelmate/internal/profile"
)

// MockMetrics is a mock for Metrics.
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordTurn(intent string, confidence float64, latency time.Duration) {
	m.Called(intent, confidence, latency)
}

func (m *MockMetrics) RecordEvictions(n int) {
	m.Called(n)
}

func (m *MockMetrics) SetActiveSessions(count int) {
	m.Called(count)
}

func (m *MockMetrics) RecordRejectedUpdate(reason string) {
	m.Called(reason)
}

type testAPI struct {
	e       *echo.Echo
	service *TravelService
}

func newTestAPI(t *testing.T, metrics Metrics) *testAPI {
	t.Helper()
	p := &profile.Profile{Mode: "dev", MaxHistory: 20, SessionTTL: time.Minute}
	service := NewTravelService(p, routing.NewDetector(nil), metrics)

	e := echo.New()
	service.RegisterRoutes(e.Group("/api/v1"))
	return &testAPI{e: e, service: service}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createSession(t *testing.T, userID string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/sessions", `{"user_id":"`+userID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func decodeContext(t *testing.T, rec *httptest.ResponseRecorder) session.Context {
	t.Helper()
	var sc session.Context
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sc))
	return sc
}

func TestCreateAndGetSession(t *testing.T) {
	api := newTestAPI(t, nil)

	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, "alice", resp.Context.UserID)
	assert.Equal(t, session.DefaultPreferences(), resp.Context.Preferences)
	assert.Nil(t, resp.Context.CurrentLocation)
	assert.Empty(t, resp.Context.RecentInteractions)
}

func TestCreateSession_RequiresUserID(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/api/v1/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSession(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/sessions/nope", ""},
		{http.MethodDelete, "/api/v1/sessions/nope", ""},
		{http.MethodPost, "/api/v1/sessions/nope/messages", `{"text":"hello"}`},
		{http.MethodGet, "/api/v1/sessions/nope/history", ""},
		{http.MethodDelete, "/api/v1/sessions/nope/history", ""},
		{http.MethodPut, "/api/v1/sessions/nope/location", `{"lat":1,"lng":2}`},
		{http.MethodPut, "/api/v1/sessions/nope/trip", `{"trip":null}`},
		{http.MethodPut, "/api/v1/sessions/nope/preferences", `{"language":"fr"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestSendMessage(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"text":"Plan a 5 day trip to Paris"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Action struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		} `json:"action"`
		Message    string  `json:"message"`
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "plan_trip", resp.Intent)
	assert.Equal(t, "create_itinerary", resp.Action.Type)
	assert.Contains(t, resp.Message, "plan a trip to Paris for 5 days")
	assert.InDelta(t, 2.0/3, resp.Confidence, 1e-9)

	var data routing.PlanTripParams
	require.NoError(t, json.Unmarshal(resp.Action.Data, &data))
	require.NotNil(t, data.Destination)
	assert.Equal(t, "Paris", *data.Destination)
	require.NotNil(t, data.Duration)
	assert.Equal(t, 5, *data.Duration)

	rec = api.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 2)
	assert.Equal(t, session.RoleUser, history.Messages[0].Role)
	assert.Equal(t, "Plan a 5 day trip to Paris", history.Messages[0].Content)
	assert.Equal(t, "plan_trip", history.Messages[0].Intent)
	assert.Equal(t, session.RoleAssistant, history.Messages[1].Role)
}

func TestClearHistory(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/sessions/"+id+"/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	orch, ok := api.service.Sessions.Get(id)
	require.True(t, ok)
	assert.Empty(t, orch.ContextManager().ConversationHistory())
}

func TestDeleteSession(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateLocation(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/location", `{"lat":48.8566,"lng":2.3522}`)
	require.Equal(t, http.StatusOK, rec.Code)

	sc := decodeContext(t, rec)
	require.NotNil(t, sc.CurrentLocation)
	assert.Equal(t, session.Location{Lat: 48.8566, Lng: 2.3522}, *sc.CurrentLocation)

	rec = api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/location", `{"lat":48.8566}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLocation_RejectsOutOfRange(t *testing.T) {
	metrics := &MockMetrics{}
	metrics.On("SetActiveSessions", mock.Anything).Maybe()
	metrics.On("RecordRejectedUpdate", "invalid_coordinates").Once()

	api := newTestAPI(t, metrics)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/location", `{"lat":91,"lng":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	orch, ok := api.service.Sessions.Get(id)
	require.True(t, ok)
	assert.Nil(t, orch.ContextManager().Context().CurrentLocation)
	metrics.AssertExpectations(t)
}

func TestSetTrip(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.createSession(t, "alice")

	body := `{"trip":{"destination":"Tokyo","start_date":"2026-04-01","end_date":"2026-04-10","budget":3000,"currency":"USD"}}`
	rec := api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip", body)
	require.Equal(t, http.StatusOK, rec.Code)

	sc := decodeContext(t, rec)
	require.NotNil(t, sc.CurrentTrip)
	assert.Equal(t, "Tokyo", sc.CurrentTrip.Destination)
	assert.Equal(t, 3000.0, sc.CurrentTrip.Budget)

	// The trip is visible to the adjust handler.
	rec = api.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/messages", `{"text":"Please modify day two"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"intent":"adjust_itinerary"`)
	assert.Contains(t, rec.Body.String(), `"destination":"Tokyo"`)

	rec = api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip", `{"trip":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeContext(t, rec).CurrentTrip)
}

func TestUpdatePreferences(t *testing.T) {
	metrics := &MockMetrics{}
	metrics.On("SetActiveSessions", mock.Anything).Maybe()
	metrics.On("RecordRejectedUpdate", "invalid_travel_style").Once()

	api := newTestAPI(t, metrics)
	id := api.createSession(t, "alice")

	rec := api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/preferences", `{"language":"fr","travel_style":"luxury"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	prefs := decodeContext(t, rec).Preferences
	assert.Equal(t, "fr", prefs.Language)
	assert.Equal(t, "USD", prefs.Currency)
	assert.Equal(t, session.StyleLuxury, prefs.TravelStyle)

	rec = api.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/preferences", `{"travel_style":"glamping"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	metrics.AssertExpectations(t)
}

func TestDetect(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/api/v1/detect", `{"text":"I spent $45 on food"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Type       string         `json:"type"`
		Confidence float64        `json:"confidence"`
		Scores     map[string]int `json:"scores"`
		Parameters struct {
			Amount   *float64 `json:"amount"`
			Category string   `json:"category"`
		} `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "track_expense", resp.Type)
	assert.Equal(t, 1, resp.Scores["track_expense"])
	require.NotNil(t, resp.Parameters.Amount)
	assert.Equal(t, 45.0, *resp.Parameters.Amount)
	assert.Equal(t, "food", resp.Parameters.Category)

	assert.Equal(t, 0, api.service.Sessions.Len())
}

func TestActiveSessionsReported(t *testing.T) {
	metrics := &MockMetrics{}
	metrics.On("SetActiveSessions", 1).Once()
	metrics.On("SetActiveSessions", 2).Once()

	api := newTestAPI(t, metrics)
	api.createSession(t, "alice")
	api.createSession(t, "bob")

	metrics.AssertExpectations(t)
}
