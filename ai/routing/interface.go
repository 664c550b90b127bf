// Package routing classifies free-text travel requests into a fixed set of
// intents by keyword scoring and extracts per-intent parameters.
package routing

import (
	"github.com/pkg/errors"

	"github.com/hrygo/travelmate/ai/session"
)

// ErrUnknownIntent is returned when a rule table names an intent outside the fixed set.
var ErrUnknownIntent = errors.New("unknown intent")

// Intent represents the type of user intent.
type Intent string

const (
	IntentPlanTrip        Intent = "plan_trip"
	IntentTranslateText   Intent = "translate_text"
	IntentRecognizeImage  Intent = "recognize_image"
	IntentTrackExpense    Intent = "track_expense"
	IntentFindNearbyPlace Intent = "find_nearby_place"
	IntentAdjustItinerary Intent = "adjust_itinerary"
	IntentShowAlert       Intent = "show_alert"
	IntentSummarizeTrip   Intent = "summarize_trip"
	IntentChat            Intent = "chat"
)

// canonicalOrder is the declaration order used to break scoring ties.
var canonicalOrder = []Intent{
	IntentPlanTrip,
	IntentTranslateText,
	IntentRecognizeImage,
	IntentTrackExpense,
	IntentFindNearbyPlace,
	IntentAdjustItinerary,
	IntentShowAlert,
	IntentSummarizeTrip,
	IntentChat,
}

// AllIntents returns every intent in canonical order.
func AllIntents() []Intent {
	return append([]Intent(nil), canonicalOrder...)
}

// Valid reports whether i is one of the nine known intents.
func (i Intent) Valid() bool {
	for _, known := range canonicalOrder {
		if i == known {
			return true
		}
	}
	return false
}

// Result is the outcome of classifying one input.
type Result struct {
	Parameters      Parameters     `json:"parameters"`
	Scores          map[Intent]int `json:"scores"`
	Type            Intent         `json:"type"`
	MatchedKeywords []string       `json:"matched_keywords,omitempty"`
	Confidence      float64        `json:"confidence"`
}

// IntentClassifier maps text plus session context to an intent.
// Implementations must be total: every input yields a result.
type IntentClassifier interface {
	Detect(input string, sc session.Context) *Result
}
