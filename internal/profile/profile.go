package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start the assistant.
type Profile struct {
	Mode       string
	Addr       string
	Version    string
	UserID     string // identity of the chat REPL session
	IntentsDir string // optional override directory for intents.yaml
	LogLevel   string
	Port       int
	MaxHistory int
	RateLimit  float64 // API requests per second per client, 0 disables
	SessionTTL time.Duration
}

const (
	defaultPort       = 28090
	defaultMaxHistory = 20
	defaultRateLimit  = 20
	defaultSessionTTL = 30 * time.Minute
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("ignoring non-integer environment value", "key", key, "value", value)
	}
	return defaultValue
}

// FromEnv fills fields that flags left unset from TRAVELMATE_* environment variables.
func (p *Profile) FromEnv() {
	if p.UserID == "" {
		p.UserID = getEnvOrDefault("TRAVELMATE_USER_ID", "default-user")
	}
	if p.IntentsDir == "" {
		p.IntentsDir = getEnvOrDefault("TRAVELMATE_INTENTS_DIR", "")
	}
	if p.LogLevel == "" {
		p.LogLevel = getEnvOrDefault("TRAVELMATE_LOG_LEVEL", "info")
	}
	if p.MaxHistory == 0 {
		p.MaxHistory = getEnvOrDefaultInt("TRAVELMATE_MAX_HISTORY", defaultMaxHistory)
	}
	if p.RateLimit == 0 {
		if v, err := strconv.ParseFloat(getEnvOrDefault("TRAVELMATE_RATE_LIMIT", ""), 64); err == nil {
			p.RateLimit = v
		} else {
			p.RateLimit = defaultRateLimit
		}
	}
	if p.SessionTTL == 0 {
		if d, err := time.ParseDuration(getEnvOrDefault("TRAVELMATE_SESSION_TTL", "")); err == nil {
			p.SessionTTL = d
		} else {
			p.SessionTTL = defaultSessionTTL
		}
	}
}

func checkIntentsDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dir = strings.TrimRight(dir, "\\/")
	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to access intents folder %s", dir)
	}
	if !info.IsDir() {
		return "", errors.Errorf("intents path %s is not a directory", dir)
	}
	return dir, nil
}

// Validate normalizes the profile and rejects values the assistant cannot run with.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port == 0 {
		p.Port = defaultPort
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.MaxHistory <= 0 {
		return errors.Errorf("max history must be positive, got %d", p.MaxHistory)
	}
	if p.RateLimit < 0 {
		return errors.Errorf("rate limit must not be negative, got %v", p.RateLimit)
	}
	if p.SessionTTL < 0 {
		return errors.Errorf("session ttl must not be negative, got %v", p.SessionTTL)
	}

	if _, err := p.SlogLevel(); err != nil {
		return err
	}

	if p.IntentsDir != "" {
		dir, err := checkIntentsDir(p.IntentsDir)
		if err != nil {
			slog.Error("failed to check intents dir", slog.String("dir", p.IntentsDir), slog.String("error", err.Error()))
			return err
		}
		p.IntentsDir = dir
	}

	return nil
}

// SlogLevel parses LogLevel.
func (p *Profile) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(p.LogLevel)); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "invalid log level %q", p.LogLevel)
	}
	return level, nil
}
