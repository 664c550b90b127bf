package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDestination(t *testing.T) {
	testCases := []struct {
		input    string
		expected string // empty means absent
	}{
		{"Plan a 5 day trip to Paris", "Paris"},
		{"Take me to New York City next month", "New York City"},
		{"going to rome", ""},
		{"Plan something", ""},
		{"A potato Farm visit", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := extractDestination(tc.input)
			if tc.expected == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, *got)
		})
	}
}

func TestExtractDuration(t *testing.T) {
	testCases := []struct {
		input    string
		value    int
		unit     string
		expected bool
	}{
		{"5 day trip", 5, "day", true},
		{"a 10-day tour", 0, "", false},
		{"2 weeks in Japan", 2, "week", true},
		{"3nights in Bali", 3, "night", true},
		{"7 Days away", 7, "day", true},
		{"for 4 people", 0, "", false},
		{"plan 99999999999999999999 days", 0, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, unit := extractDuration(tc.input)
			if !tc.expected {
				assert.Nil(t, got)
				assert.Empty(t, unit)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.value, *got)
			assert.Equal(t, tc.unit, unit)
		})
	}
}

func TestExtractAmount(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
		found    bool
	}{
		{"I spent $45 on food", 45, true},
		{"taxi cost 12.50", 12.5, true},
		{"paid $3.75 for coffee and 10 for cake", 3.75, true},
		{"no numbers here", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := extractAmount(tc.input)
			if !tc.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, *got)
		})
	}
}

func TestFirstContained(t *testing.T) {
	assert.Equal(t, "food", firstContained("street food and shopping", expenseCategories, defaultExpenseCategory))
	assert.Equal(t, "transport", firstContained("transport to the hotel", expenseCategories, defaultExpenseCategory))
	assert.Equal(t, "other", firstContained("souvenirs", expenseCategories, defaultExpenseCategory))
	assert.Equal(t, "cafe", firstContained("a cafe near the museum", placeTypes, defaultPlaceType))
	assert.Equal(t, "place", firstContained("somewhere fun", placeTypes, defaultPlaceType))
}

func TestExtractorTable_CoversAllIntents(t *testing.T) {
	for _, intent := range AllIntents() {
		build, ok := extractorTable[intent]
		require.True(t, ok, "missing extractor for %s", intent)

		params := build(&extractInput{raw: "x", lower: "x", sc: emptyContext()})
		assert.Equal(t, intent, params.Intent())
	}
}

func TestExtractParameters_UnknownIntent(t *testing.T) {
	assert.Equal(t, ChatParams{}, extractParameters(Intent("bogus"), "hello", emptyContext()))
}
