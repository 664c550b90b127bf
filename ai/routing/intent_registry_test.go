package routing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/travelmate/ai/configloader"
)

func TestDefaultRegistry_EmbeddedTable(t *testing.T) {
	registry := DefaultRegistry()

	configs := registry.Configs()
	require.Len(t, configs, 9)
	for i, cfg := range configs {
		assert.Equal(t, canonicalOrder[i], cfg.Intent)
		assert.NotEmpty(t, cfg.Keywords, cfg.Intent)
	}

	assert.Equal(t,
		[]string{"plan", "trip", "itinerary", "create", "organize", "schedule", "days"},
		registry.Keywords(IntentPlanTrip))
	assert.Equal(t,
		[]string{"hello", "hi", "how", "tell", "what", "why", "when"},
		registry.Keywords(IntentChat))
}

func TestIntentRegistry_Register(t *testing.T) {
	registry := NewIntentRegistry()

	err := registry.Register(IntentConfig{
		Intent:   IntentShowAlert,
		Keywords: []string{"  Storm ", "storm", "", "FLOOD"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"storm", "flood"}, registry.Keywords(IntentShowAlert))

	err = registry.Register(IntentConfig{Intent: "book_flight", Keywords: []string{"flight"}})
	assert.True(t, errors.Is(err, ErrUnknownIntent))
}

func TestIntentRegistry_CloneIsIndependent(t *testing.T) {
	original := DefaultRegistry()
	clone := original.Clone()

	require.NoError(t, clone.Register(IntentConfig{Intent: IntentChat, Keywords: []string{"yo"}}))

	assert.Equal(t, []string{"yo"}, clone.Keywords(IntentChat))
	assert.Contains(t, original.Keywords(IntentChat), "hello")
}

func TestLoadRegistry_Override(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`intents:
  - intent: show_alert
    keywords: [storm, strike]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, IntentsFile), content, 0o600))

	registry, err := LoadRegistry(configloader.NewLoader(dir, EmbeddedRules()))
	require.NoError(t, err)

	assert.Equal(t, []string{"storm", "strike"}, registry.Keywords(IntentShowAlert))
	// Intents not listed keep their defaults.
	assert.Equal(t, DefaultRegistry().Keywords(IntentPlanTrip), registry.Keywords(IntentPlanTrip))

	detector := NewDetector(registry)
	result := detector.Detect("Is there a strike today?", emptyContext())
	assert.Equal(t, IntentShowAlert, result.Type)
}

func TestLoadRegistry_Errors(t *testing.T) {
	t.Run("Unknown intent", func(t *testing.T) {
		dir := t.TempDir()
		content := []byte("intents:\n  - intent: book_flight\n    keywords: [flight]\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, IntentsFile), content, 0o600))

		_, err := LoadRegistry(configloader.NewLoader(dir, EmbeddedRules()))
		assert.True(t, errors.Is(err, ErrUnknownIntent))
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadRegistry(configloader.NewLoader(t.TempDir(), nil))
		assert.Error(t, err)
	})
}

func TestRuleMatcher_Match(t *testing.T) {
	matcher := NewRuleMatcher(nil)

	result := matcher.Match("What is that monument? Tell me")
	assert.Equal(t, IntentRecognizeImage, result.Best)
	assert.Equal(t, 2, result.Top)
	assert.Equal(t, 2, result.Scores[IntentChat]) // "what", "tell"
	assert.ElementsMatch(t, []string{"what is", "monument"}, result.Keywords[IntentRecognizeImage])

	empty := matcher.Match("zzz")
	assert.Equal(t, 0, empty.Top)
	assert.Equal(t, IntentChat, empty.Best)
	assert.Len(t, empty.Scores, 9)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.5, confidence(0))
	assert.InDelta(t, 1.0/3, confidence(1), 1e-9)
	assert.InDelta(t, 2.0/3, confidence(2), 1e-9)
	assert.Equal(t, 1.0, confidence(3))
	assert.Equal(t, 1.0, confidence(7))
}
