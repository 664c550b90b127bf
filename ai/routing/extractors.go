package routing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hrygo/travelmate/ai/session"
)

// Pre-compiled patterns for parameter extraction.
var (
	destinationRegex = regexp.MustCompile(`\bto\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	durationRegex    = regexp.MustCompile(`(\d+)\s*(day|week|night)s?`)
	amountRegex      = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)
)

var (
	expenseCategories = []string{"food", "transport", "accommodation", "activity", "shopping"}
	placeTypes        = []string{"restaurant", "hotel", "cafe", "museum", "park", "attraction"}
)

const (
	defaultExpenseCategory = "other"
	defaultPlaceType       = "place"
)

// extractInput carries everything an extractor may read.
type extractInput struct {
	sc    session.Context
	raw   string
	lower string
}

// paramBuilder produces the parameter variant for one intent.
type paramBuilder func(in *extractInput) Parameters

// rules builds a paramBuilder that runs steps in order over a zero P.
func rules[P Parameters](steps ...func(in *extractInput, p *P)) paramBuilder {
	return func(in *extractInput) Parameters {
		var p P
		for _, step := range steps {
			step(in, &p)
		}
		return p
	}
}

// extractorTable maps every intent to its ordered extraction steps.
var extractorTable = map[Intent]paramBuilder{
	IntentPlanTrip: rules(
		func(in *extractInput, p *PlanTripParams) { p.Description = in.raw },
		func(in *extractInput, p *PlanTripParams) { p.Destination = extractDestination(in.raw) },
		func(in *extractInput, p *PlanTripParams) { p.Duration, p.DurationUnit = extractDuration(in.raw) },
	),
	IntentTrackExpense: rules(
		func(in *extractInput, p *ExpenseParams) { p.Amount = extractAmount(in.raw) },
		func(in *extractInput, p *ExpenseParams) {
			p.Category = firstContained(in.lower, expenseCategories, defaultExpenseCategory)
		},
		func(in *extractInput, p *ExpenseParams) { p.Description = in.raw },
	),
	IntentFindNearbyPlace: rules(
		func(in *extractInput, p *NearbyParams) {
			p.PlaceType = firstContained(in.lower, placeTypes, defaultPlaceType)
		},
		func(in *extractInput, p *NearbyParams) { p.Location = in.sc.CurrentLocation },
	),
	IntentAdjustItinerary: rules(
		func(in *extractInput, p *AdjustItineraryParams) { p.Change = in.raw },
		func(in *extractInput, p *AdjustItineraryParams) { p.CurrentTrip = in.sc.CurrentTrip },
	),
	IntentTranslateText:  rules[TranslateParams](),
	IntentRecognizeImage: rules[ImageParams](),
	IntentShowAlert:      rules[AlertParams](),
	IntentSummarizeTrip:  rules[SummaryParams](),
	IntentChat:           rules[ChatParams](),
}

// extractParameters runs the extractor registered for intent.
func extractParameters(intent Intent, input string, sc session.Context) Parameters {
	build, ok := extractorTable[intent]
	if !ok {
		return ChatParams{}
	}
	return build(&extractInput{
		raw:   input,
		lower: strings.ToLower(input),
		sc:    sc,
	})
}

// extractDestination returns the capitalized word sequence following "to".
func extractDestination(input string) *string {
	m := destinationRegex.FindStringSubmatch(input)
	if m == nil {
		return nil
	}
	return &m[1]
}

// extractDuration returns the first integer followed by day/week/night and its unit.
func extractDuration(input string) (*int, string) {
	m := durationRegex.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return nil, ""
	}
	// Counts that overflow int are treated as no duration.
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, ""
	}
	return &n, m[2]
}

// extractAmount returns the first decimal number, optionally prefixed by "$".
func extractAmount(input string) *float64 {
	m := amountRegex.FindStringSubmatch(input)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

func firstContained(lower string, candidates []string, fallback string) string {
	for _, c := range candidates {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return fallback
}
