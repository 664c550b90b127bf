package routing

import (
	"embed"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hrygo/travelmate/ai/configloader"
)

// IntentsFile is the rule table file name, both embedded and in override directories.
const IntentsFile = "intents.yaml"

//go:embed intents.yaml
var embeddedRules embed.FS

// EmbeddedRules exposes the built-in rule table for loaders.
func EmbeddedRules() embed.FS {
	return embeddedRules
}

// IntentConfig holds the keyword set of a single intent.
type IntentConfig struct {
	Intent   Intent   `yaml:"intent"`
	Keywords []string `yaml:"keywords"`
}

// rulesFile is the on-disk shape of intents.yaml.
type rulesFile struct {
	Intents []IntentConfig `yaml:"intents"`
}

// IntentRegistry holds keyword sets for all intents in canonical order.
type IntentRegistry struct {
	mu      sync.RWMutex
	configs map[Intent]IntentConfig
}

// NewIntentRegistry creates a registry where every intent has no keywords.
func NewIntentRegistry() *IntentRegistry {
	r := &IntentRegistry{configs: make(map[Intent]IntentConfig, len(canonicalOrder))}
	for _, intent := range canonicalOrder {
		r.configs[intent] = IntentConfig{Intent: intent}
	}
	return r
}

var (
	defaultRegistry     *IntentRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry built from the embedded rule table.
func DefaultRegistry() *IntentRegistry {
	defaultRegistryOnce.Do(func() {
		r, err := loadInto(NewIntentRegistry(), configloader.NewLoader("", embeddedRules))
		if err != nil {
			// The embedded table is part of the binary; failing here is a build defect.
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// LoadRegistry reads IntentsFile through loader on top of the embedded defaults.
// Intents listed in the file replace their keyword set; the rest keep the defaults.
func LoadRegistry(loader *configloader.Loader) (*IntentRegistry, error) {
	return loadInto(DefaultRegistry().Clone(), loader)
}

func loadInto(base *IntentRegistry, loader *configloader.Loader) (*IntentRegistry, error) {
	var file rulesFile
	if err := loader.Load(IntentsFile, &file); err != nil {
		return nil, errors.Wrap(err, "load intent rules")
	}

	for _, cfg := range file.Intents {
		if err := base.Register(cfg); err != nil {
			return nil, err
		}
	}

	slog.Debug("intent registry loaded", "overrides", len(file.Intents))
	return base, nil
}

// Register replaces the keyword set of cfg.Intent.
// Keywords are lowercased and trimmed; blanks and duplicates are dropped.
func (r *IntentRegistry) Register(cfg IntentConfig) error {
	if !cfg.Intent.Valid() {
		return errors.Wrapf(ErrUnknownIntent, "%q", cfg.Intent)
	}

	seen := make(map[string]struct{}, len(cfg.Keywords))
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.Intent] = IntentConfig{Intent: cfg.Intent, Keywords: keywords}
	return nil
}

// Keywords returns the keyword set for intent.
func (r *IntentRegistry) Keywords(intent Intent) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.configs[intent].Keywords...)
}

// Configs returns every intent config in canonical order.
func (r *IntentRegistry) Configs() []IntentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]IntentConfig, 0, len(canonicalOrder))
	for _, intent := range canonicalOrder {
		cfg := r.configs[intent]
		cfg.Keywords = append([]string(nil), cfg.Keywords...)
		out = append(out, cfg)
	}
	return out
}

// Clone returns an independent copy of the registry.
func (r *IntentRegistry) Clone() *IntentRegistry {
	c := NewIntentRegistry()
	for _, cfg := range r.Configs() {
		c.configs[cfg.Intent] = cfg
	}
	return c
}
