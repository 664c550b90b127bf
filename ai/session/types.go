// Package session owns the per-user conversational state of the travel assistant:
// preferences, current location and trip, and a bounded conversation history.
package session

import (
	"github.com/pkg/errors"
)

// DefaultMaxHistory is the number of messages retained per session.
const DefaultMaxHistory = 20

var (
	// ErrInvalidCoordinates is returned when a location is outside the valid lat/lng range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidTravelStyle is returned for a travel style outside the supported set.
	ErrInvalidTravelStyle = errors.New("invalid travel style")
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TravelStyle is the user's preferred way of travelling.
type TravelStyle string

const (
	StyleLuxury    TravelStyle = "luxury"
	StyleBudget    TravelStyle = "budget"
	StyleAdventure TravelStyle = "adventure"
	StyleCultural  TravelStyle = "cultural"
)

// Valid reports whether s is one of the supported travel styles.
func (s TravelStyle) Valid() bool {
	switch s {
	case StyleLuxury, StyleBudget, StyleAdventure, StyleCultural:
		return true
	default:
		return false
	}
}

// Preferences holds user-level defaults used when composing replies.
type Preferences struct {
	Language    string      `json:"language"`
	Currency    string      `json:"currency"`
	TravelStyle TravelStyle `json:"travel_style"`
}

// DefaultPreferences returns the preferences every new session starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:    "en",
		Currency:    "USD",
		TravelStyle: StyleAdventure,
	}
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Trip describes the trip the user is currently planning or on.
// Currency is optional; the preference currency is used when empty.
type Trip struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget"`
	Currency    string  `json:"currency,omitempty"`
}

// Message is one turn of the conversation.
// Intent is only set on user messages.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	Intent    string `json:"intent,omitempty"`
}

// Context is a snapshot of a session's state.
type Context struct {
	UserID             string      `json:"user_id"`
	Preferences        Preferences `json:"preferences"`
	CurrentLocation    *Location   `json:"current_location,omitempty"`
	CurrentTrip        *Trip       `json:"current_trip,omitempty"`
	RecentInteractions []Message   `json:"recent_interactions"`
}
