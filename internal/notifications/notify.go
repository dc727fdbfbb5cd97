// Package notifications decides whether a user may be notified right now,
// stores in-app notifications, and folds unread notifications into digest
// summaries for users on daily or weekly delivery.
//
// Gate: channels → quiet hours → frequency. Digest: load unread → group by
// type → persist one summary per type → mark originals read.
package notifications

import (
	"encoding/json"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Event types and frequencies
// --------------------------------------------------------------------------

// EventType tags a notification.
type EventType string

const (
	EventClaimUpdate EventType = "claim_update"
	EventDeadline    EventType = "deadline"
	EventNewLawsuit  EventType = "new_lawsuit"
	EventSystem      EventType = "system"
)

// immediateEvents bypass frequency batching.
var immediateEvents = map[EventType]bool{
	EventClaimUpdate: true,
	EventDeadline:    true,
}

// IsImmediate reports whether an event type is always delivered immediately.
func IsImmediate(t EventType) bool {
	return immediateEvents[t]
}

// Frequency is the user's delivery cadence for non-critical events.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
)

// ParseFrequency validates a frequency tag.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Preferences is a user's notification configuration. JSON field names match
// users.preferences.notificationPreferences.
type Preferences struct {
	Email      bool        `json:"email"`
	SMS        bool        `json:"sms"`
	Push       bool        `json:"push"`
	InApp      bool        `json:"inApp"`
	Frequency  Frequency   `json:"frequency"`
	QuietHours *QuietHours `json:"quietHours,omitempty"`
}

// DefaultPreferences applies to users who never saved any settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Email:     true,
		SMS:       false,
		Push:      true,
		InApp:     true,
		Frequency: FrequencyImmediate,
	}
}

// ParsePreferences overlays stored JSON on the defaults, so keys missing from
// the stored document keep their default value.
func ParsePreferences(raw []byte) (Preferences, error) {
	p := DefaultPreferences()
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return DefaultPreferences(), fmt.Errorf("decode preferences: %w", err)
	}
	if p.Frequency == "" {
		p.Frequency = FrequencyImmediate
	}
	return p, nil
}

// AnyChannel reports whether at least one delivery channel is enabled.
func (p Preferences) AnyChannel() bool {
	return p.Email || p.SMS || p.Push || p.InApp
}

// Notification is one row of the in-app inbox.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      EventType      `json:"type"`
	Content   string         `json:"content"`
	Data      map[string]any `json:"data"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

// IsBatched reports whether the notification is itself a digest summary.
func (n Notification) IsBatched() bool {
	b, _ := n.Data["batched"].(bool)
	return b
}
