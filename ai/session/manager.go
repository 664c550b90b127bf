package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Manager is the single source of truth for one session's context and history.
// All methods are safe for concurrent use.
type Manager struct {
	clock      func() time.Time
	ctx        Context
	history    []Message
	maxHistory int
	lastStamp  int64
	evicted    int64
	mu         sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxHistory overrides the history cap. Values <= 0 keep DefaultMaxHistory.
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

// WithClock sets the time source used for message timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewManager creates a manager for userID with default preferences and empty history.
func NewManager(userID string, opts ...Option) *Manager {
	m := &Manager{
		clock:      time.Now,
		maxHistory: DefaultMaxHistory,
		ctx: Context{
			UserID:             userID,
			Preferences:        DefaultPreferences(),
			RecentInteractions: []Message{},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Context returns a snapshot of the current context.
// The snapshot does not change when the session does; re-fetch it each turn.
func (m *Manager) Context() Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.ctx
	if m.ctx.CurrentLocation != nil {
		loc := *m.ctx.CurrentLocation
		snap.CurrentLocation = &loc
	}
	if m.ctx.CurrentTrip != nil {
		trip := *m.ctx.CurrentTrip
		snap.CurrentTrip = &trip
	}
	snap.RecentInteractions = append([]Message(nil), m.history...)
	if snap.RecentInteractions == nil {
		snap.RecentInteractions = []Message{}
	}
	return snap
}

// UpdateLocation overwrites the current location.
func (m *Manager) UpdateLocation(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return errors.Wrapf(ErrInvalidCoordinates, "lat=%v lng=%v", lat, lng)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.CurrentLocation = &Location{Lat: lat, Lng: lng}
	return nil
}

// SetCurrentTrip replaces the current trip. A nil trip clears it.
func (m *Manager) SetCurrentTrip(trip *Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if trip == nil {
		m.ctx.CurrentTrip = nil
		return
	}
	t := *trip
	m.ctx.CurrentTrip = &t
}

// UpdatePreferences applies prefs. Empty language or currency keep their current value.
func (m *Manager) UpdatePreferences(prefs Preferences) error {
	if prefs.TravelStyle != "" && !prefs.TravelStyle.Valid() {
		return errors.Wrapf(ErrInvalidTravelStyle, "%q", prefs.TravelStyle)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prefs.Language != "" {
		m.ctx.Preferences.Language = prefs.Language
	}
	if prefs.Currency != "" {
		m.ctx.Preferences.Currency = prefs.Currency
	}
	if prefs.TravelStyle != "" {
		m.ctx.Preferences.TravelStyle = prefs.TravelStyle
	}
	return nil
}

// AddMessage appends a message, evicting the oldest entries beyond the cap.
func (m *Manager) AddMessage(role Role, content, intent string) Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Timestamps never go backwards within a session, even if the wall clock does.
	stamp := m.clock().UnixMilli()
	if stamp < m.lastStamp {
		stamp = m.lastStamp
	}
	m.lastStamp = stamp

	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: stamp,
		Intent:    intent,
	}
	m.history = append(m.history, msg)

	if overflow := len(m.history) - m.maxHistory; overflow > 0 {
		m.history = append([]Message(nil), m.history[overflow:]...)
		m.evicted += int64(overflow)
	}
	m.ctx.RecentInteractions = m.history
	return msg
}

// ConversationHistory returns the retained messages, oldest first.
func (m *Manager) ConversationHistory() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Message{}, m.history...)
}

// Evicted returns how many messages have been dropped by the history cap.
func (m *Manager) Evicted() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evicted
}

// Summary renders a one-line digest of the session: trip, location and preferences.
func (m *Manager) Summary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	prefs := m.ctx.Preferences
	if trip := m.ctx.CurrentTrip; trip != nil {
		currency := trip.Currency
		if currency == "" {
			currency = prefs.Currency
		}
		fmt.Fprintf(&sb, "Current trip: %s (%s to %s). Budget: %s%s. ",
			trip.Destination, trip.StartDate, trip.EndDate,
			currency, strconv.FormatFloat(trip.Budget, 'f', -1, 64))
	}
	if loc := m.ctx.CurrentLocation; loc != nil {
		fmt.Fprintf(&sb, "Current location: %.2f, %.2f. ", loc.Lat, loc.Lng)
	}
	fmt.Fprintf(&sb, "Preferences: %s, %s travel style.", prefs.Language, prefs.TravelStyle)
	return sb.String()
}

// ClearHistory drops all messages. Preferences, location and trip are kept.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	m.ctx.RecentInteractions = []Message{}
}
