package orchestrator

import (
	"fmt"
	"strconv"

	"github.com/hrygo/travelmate/ai/routing"
)

// Fallback phrases used when a parameter is absent.
const (
	fallbackDestination = "your dream destination"
	fallbackAmount      = "unknown amount"
	fallbackCategory    = "general"
	fallbackPlaceType   = "places"
	defaultTargetLang   = "English"
)

// dispatch routes to the handler for intent. Unknown intents are answered by chat.
// Handlers have no side effects; summary is only read by chat.
func dispatch(intent routing.Intent, params routing.Parameters, summary func() string) *Response {
	switch intent {
	case routing.IntentPlanTrip:
		p, _ := params.(routing.PlanTripParams)
		return handlePlanTrip(p)
	case routing.IntentTranslateText:
		p, _ := params.(routing.TranslateParams)
		return handleTranslate(p)
	case routing.IntentRecognizeImage:
		p, _ := params.(routing.ImageParams)
		return handleImageRecognition(p)
	case routing.IntentTrackExpense:
		p, _ := params.(routing.ExpenseParams)
		return handleExpense(p)
	case routing.IntentFindNearbyPlace:
		p, _ := params.(routing.NearbyParams)
		return handleFindNearby(p)
	case routing.IntentAdjustItinerary:
		p, _ := params.(routing.AdjustItineraryParams)
		return handleAdjustItinerary(p)
	case routing.IntentShowAlert:
		p, _ := params.(routing.AlertParams)
		return handleAlert(p)
	case routing.IntentSummarizeTrip:
		p, _ := params.(routing.SummaryParams)
		return handleSummary(p)
	default:
		return handleChat(summary())
	}
}

func handlePlanTrip(p routing.PlanTripParams) *Response {
	destination := fallbackDestination
	if p.Destination != nil {
		destination = *p.Destination
	}

	duration := ""
	if p.Duration != nil {
		unit := p.DurationUnit
		if unit == "" {
			unit = "day"
		}
		if *p.Duration != 1 {
			unit += "s"
		}
		duration = fmt.Sprintf(" for %d %s", *p.Duration, unit)
	}

	return &Response{
		Message: fmt.Sprintf("I'll help you plan a trip to %s%s. Let me create a personalized itinerary based on your preferences.",
			destination, duration),
		Action: &Action{Type: ActionCreateItinerary, Data: p},
		Suggestions: []string{
			"Add budget constraints",
			"Specify travel style (luxury/budget/adventure)",
			"Include must-see attractions",
		},
	}
}

func handleTranslate(p routing.TranslateParams) *Response {
	return &Response{
		Message: fmt.Sprintf("I'll translate that for you. What language would you like me to translate to? Currently set to %s.",
			defaultTargetLang),
		Action:                   &Action{Type: ActionTranslate, Data: p},
		RequiresUserConfirmation: true,
	}
}

func handleImageRecognition(p routing.ImageParams) *Response {
	return &Response{
		Message: "I can help identify landmarks and places in images. Please upload or describe the image you'd like me to analyze.",
		Action:  &Action{Type: ActionAnalyzeImage, Data: p},
		Suggestions: []string{
			"Upload a photo of a landmark",
			"Get location information",
			"Add to itinerary",
		},
	}
}

func handleExpense(p routing.ExpenseParams) *Response {
	amount := fallbackAmount
	if p.Amount != nil {
		amount = strconv.FormatFloat(*p.Amount, 'f', -1, 64)
	}
	category := p.Category
	if category == "" {
		category = fallbackCategory
	}

	return &Response{
		Message: fmt.Sprintf("Logged expense: %s for %s. Your trip budget is being tracked.", amount, category),
		Action:  &Action{Type: ActionAddExpense, Data: p},
		Suggestions: []string{
			"View expense breakdown",
			"Set budget alerts",
			"Split with friends",
		},
	}
}

func handleFindNearby(p routing.NearbyParams) *Response {
	placeType := p.PlaceType
	if placeType == "" {
		placeType = fallbackPlaceType
	}

	return &Response{
		Message: fmt.Sprintf("Finding nearby %s for you. Based on your current location, here are some recommendations.", placeType),
		Action:  &Action{Type: ActionFindNearby, Data: p},
		Suggestions: []string{
			"Show on map",
			"Get directions",
			"Add to itinerary",
		},
	}
}

func handleAdjustItinerary(p routing.AdjustItineraryParams) *Response {
	return &Response{
		Message:                  "I can help you adjust your itinerary. What changes would you like to make?",
		Action:                   &Action{Type: ActionModifyItinerary, Data: p},
		RequiresUserConfirmation: true,
	}
}

func handleAlert(p routing.AlertParams) *Response {
	return &Response{
		Message: "Alert: Check weather conditions and traffic before your next activity. Would you like me to suggest alternatives?",
		Action:  &Action{Type: ActionShowAlert, Data: p},
		Suggestions: []string{
			"View weather forecast",
			"Check traffic conditions",
			"Reschedule activity",
		},
	}
}

func handleSummary(p routing.SummaryParams) *Response {
	return &Response{
		Message: "Here's your trip summary: Total spent, places visited, and highlights from your journey.",
		Action:  &Action{Type: ActionGenerateSummary, Data: p},
	}
}

func handleChat(summary string) *Response {
	return &Response{
		Message: fmt.Sprintf("I'm your AI travel assistant! %s How can I help you with your trip today?", summary),
		Suggestions: []string{
			"Plan a new trip",
			"Find nearby attractions",
			"Track expenses",
			"Adjust itinerary",
		},
	}
}
