package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/travelmate/ai/routing"
	"github.com/hrygo/travelmate/ai/session"
)

// Orchestrator is the single entry point per user turn.
// It owns one session; turns on the same Orchestrator are serialized.
type Orchestrator struct {
	detector routing.IntentClassifier
	metrics  MetricsRecorder
	sessions *session.Manager
	evicted  int64 // evictions already reported to metrics
	mu       sync.Mutex
}

type options struct {
	detector    routing.IntentClassifier
	metrics     MetricsRecorder
	sessionOpts []session.Option
}

// Option configures an Orchestrator.
type Option func(*options)

// WithDetector replaces the default rule-based detector.
func WithDetector(d routing.IntentClassifier) Option {
	return func(o *options) {
		if d != nil {
			o.detector = d
		}
	}
}

// WithMetrics sets the recorder for per-turn metrics.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSessionOptions passes options to the owned session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) {
		o.sessionOpts = append(o.sessionOpts, opts...)
	}
}

// New creates an orchestrator with a fresh session for userID.
func New(userID string, opts ...Option) *Orchestrator {
	cfg := &options{metrics: noopRecorder{}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.detector == nil {
		cfg.detector = routing.NewDetector(nil)
	}

	return &Orchestrator{
		detector: cfg.detector,
		metrics:  cfg.metrics,
		sessions: session.NewManager(userID, cfg.sessionOpts...),
	}
}

// Process handles one user turn and returns the assistant's reply.
// It fails only when ctx is already done before the turn starts.
func (o *Orchestrator) Process(ctx context.Context, userInput string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	sc := o.sessions.Context()

	result := o.detector.Detect(userInput, sc)
	o.sessions.AddMessage(session.RoleUser, userInput, string(result.Type))

	resp := dispatch(result.Type, result.Parameters, o.sessions.Summary)
	resp.Intent = result.Type
	resp.Confidence = result.Confidence

	o.sessions.AddMessage(session.RoleAssistant, resp.Message, "")

	latency := time.Since(start)
	o.metrics.RecordTurn(string(result.Type), result.Confidence, latency)
	if evicted := o.sessions.Evicted(); evicted > o.evicted {
		o.metrics.RecordEvictions(int(evicted - o.evicted))
		o.evicted = evicted
	}

	slog.Debug("turn processed",
		"user_id", sc.UserID,
		"intent", result.Type,
		"confidence", result.Confidence,
		"has_action", resp.Action != nil,
		"latency_us", latency.Microseconds())

	return resp, nil
}

// ProcessAsync runs Process on a new goroutine. The channel receives exactly one Outcome.
func (o *Orchestrator) ProcessAsync(ctx context.Context, userInput string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		resp, err := o.Process(ctx, userInput)
		ch <- Outcome{Response: resp, Err: err}
	}()
	return ch
}

// ContextManager exposes the owned session so callers can seed location, trip or preferences.
func (o *Orchestrator) ContextManager() *session.Manager {
	return o.sessions
}
