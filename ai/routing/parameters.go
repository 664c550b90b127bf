package routing

import (
	"github.com/hrygo/travelmate/ai/session"
)

// Parameters is the per-intent extraction result.
// Each intent has exactly one variant; handlers switch on the concrete type.
type Parameters interface {
	Intent() Intent
}

// PlanTripParams is extracted for IntentPlanTrip.
type PlanTripParams struct {
	Destination  *string `json:"destination,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	Description  string  `json:"description"`
	DurationUnit string  `json:"duration_unit,omitempty"` // day, week or night
}

// ExpenseParams is extracted for IntentTrackExpense.
type ExpenseParams struct {
	Amount      *float64 `json:"amount,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// NearbyParams is extracted for IntentFindNearbyPlace.
type NearbyParams struct {
	Location  *session.Location `json:"location,omitempty"`
	PlaceType string            `json:"place_type"`
}

// AdjustItineraryParams is extracted for IntentAdjustItinerary.
type AdjustItineraryParams struct {
	CurrentTrip *session.Trip `json:"current_trip,omitempty"`
	Change      string        `json:"change"`
}

// TranslateParams is the empty variant for IntentTranslateText.
type TranslateParams struct{}

// ImageParams is the empty variant for IntentRecognizeImage.
type ImageParams struct{}

// AlertParams is the empty variant for IntentShowAlert.
type AlertParams struct{}

// SummaryParams is the empty variant for IntentSummarizeTrip.
type SummaryParams struct{}

// ChatParams is the empty variant for IntentChat.
type ChatParams struct{}

func (PlanTripParams) Intent() Intent        { return IntentPlanTrip }
func (ExpenseParams) Intent() Intent         { return IntentTrackExpense }
func (NearbyParams) Intent() Intent          { return IntentFindNearbyPlace }
func (AdjustItineraryParams) Intent() Intent { return IntentAdjustItinerary }
func (TranslateParams) Intent() Intent       { return IntentTranslateText }
func (ImageParams) Intent() Intent           { return IntentRecognizeImage }
func (AlertParams) Intent() Intent           { return IntentShowAlert }
func (SummaryParams) Intent() Intent         { return IntentSummarizeTrip }
func (ChatParams) Intent() Intent            { return IntentChat }
