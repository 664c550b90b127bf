package routing

import (
	"strings"
)

// RuleMatcher scores an input against every intent's keyword set.
type RuleMatcher struct {
	registry *IntentRegistry
}

// MatchResult holds the per-intent keyword counts of one input.
type MatchResult struct {
	Scores   map[Intent]int
	Keywords map[Intent][]string
	Best     Intent // highest count, first-declared wins ties
	Top      int    // count of Best
}

// NewRuleMatcher creates a matcher over registry. A nil registry uses DefaultRegistry.
func NewRuleMatcher(registry *IntentRegistry) *RuleMatcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &RuleMatcher{registry: registry}
}

// Match lowercases input and counts, per intent, how many keywords occur in it.
// A keyword counts once however often it occurs.
func (m *RuleMatcher) Match(input string) *MatchResult {
	lower := strings.ToLower(input)

	result := &MatchResult{
		Scores:   make(map[Intent]int, len(canonicalOrder)),
		Keywords: make(map[Intent][]string),
		Best:     IntentChat,
	}

	for _, cfg := range m.registry.Configs() {
		count := 0
		for _, kw := range cfg.Keywords {
			if strings.Contains(lower, kw) {
				count++
				result.Keywords[cfg.Intent] = append(result.Keywords[cfg.Intent], kw)
			}
		}
		result.Scores[cfg.Intent] = count

		// Strictly greater keeps the earlier intent on ties.
		if count > result.Top {
			result.Top = count
			result.Best = cfg.Intent
		}
	}

	return result
}

// confidence maps the winning keyword count to [0,1].
// No match yields 0.5; three or more matches saturate at 1.
func confidence(top int) float64 {
	if top <= 0 {
		return 0.5
	}
	return min(float64(top)/3, 1.0)
}
