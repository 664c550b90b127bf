// Package orchestrator runs one conversational turn of the travel assistant:
// classify the input, record the turn, dispatch to the intent's handler and
// record the reply.
package orchestrator

import (
	"time"

	"github.com/hrygo/travelmate/ai/routing"
)

// ActionType names a follow-up operation suggested to the caller.
type ActionType string

const (
	ActionCreateItinerary ActionType = "create_itinerary"
	ActionTranslate       ActionType = "translate"
	ActionAnalyzeImage    ActionType = "analyze_image"
	ActionAddExpense      ActionType = "add_expense"
	ActionFindNearby      ActionType = "find_nearby"
	ActionModifyItinerary ActionType = "modify_itinerary"
	ActionShowAlert       ActionType = "show_alert"
	ActionGenerateSummary ActionType = "generate_summary"
)

// Action is advisory: the orchestrator never executes it.
type Action struct {
	Data routing.Parameters `json:"data"`
	Type ActionType         `json:"type"`
}

// Response is the assistant's reply to one turn.
type Response struct {
	Action                   *Action        `json:"action,omitempty"`
	Message                  string         `json:"message"`
	Intent                   routing.Intent `json:"intent"`
	Suggestions              []string       `json:"suggestions,omitempty"`
	Confidence               float64        `json:"confidence"`
	RequiresUserConfirmation bool           `json:"requires_user_confirmation,omitempty"`
}

// Outcome carries the result of an asynchronous turn.
type Outcome struct {
	Response *Response
	Err      error
}

// MetricsRecorder receives per-turn measurements.
// *metrics.PrometheusExporter satisfies it.
type MetricsRecorder interface {
	RecordTurn(intent string, confidence float64, latency time.Duration)
	RecordEvictions(n int)
}

type noopRecorder struct{}

func (noopRecorder) RecordTurn(string, float64, time.Duration) {}
func (noopRecorder) RecordEvictions(int)                       {}
