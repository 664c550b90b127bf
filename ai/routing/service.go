package routing

import (
	"log/slog"

	"github.com/hrygo/travelmate/ai/session"
)

// Detector is the rule-based IntentClassifier.
// It is stateless apart from its keyword registry and safe for concurrent use.
type Detector struct {
	matcher *RuleMatcher
}

var _ IntentClassifier = (*Detector)(nil)

// NewDetector creates a detector over registry. A nil registry uses DefaultRegistry.
func NewDetector(registry *IntentRegistry) *Detector {
	return &Detector{matcher: NewRuleMatcher(registry)}
}

// Detect classifies input and extracts the winning intent's parameters.
// sc is only read, for the location and trip some parameters carry.
func (d *Detector) Detect(input string, sc session.Context) *Result {
	match := d.matcher.Match(input)

	intent := match.Best
	if match.Top == 0 {
		intent = IntentChat
	}

	result := &Result{
		Type:            intent,
		Confidence:      confidence(match.Top),
		Parameters:      extractParameters(intent, input, sc),
		Scores:          match.Scores,
		MatchedKeywords: match.Keywords[intent],
	}

	slog.Debug("intent detected",
		"input", truncate(input, 50),
		"intent", result.Type,
		"confidence", result.Confidence,
		"keywords", result.MatchedKeywords)

	return result
}

// truncate shortens s to at most n runes for logging.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
