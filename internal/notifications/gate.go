package notifications

import "time"

// Decision is the outcome of the notification gate.
type Decision string

const (
	DecisionAllow      Decision = "allow"
	DecisionNoChannel  Decision = "no_channel"
	DecisionQuietHours Decision = "quiet_hours"
	DecisionDeferred   Decision = "deferred" // left for the digest sweep
)

// Decide evaluates the gate in order: channels, quiet hours, frequency.
// now must already be in the clock the user's quiet hours are expressed in.
// Nil preferences allow delivery.
func Decide(p *Preferences, eventType EventType, now time.Time) Decision {
	if p == nil {
		return DecisionAllow
	}
	if !p.AnyChannel() {
		return DecisionNoChannel
	}
	if p.QuietHours != nil && p.QuietHours.Contains(MinuteOfDay(now)) {
		return DecisionQuietHours
	}
	if !IsImmediate(eventType) && (p.Frequency == FrequencyDaily || p.Frequency == FrequencyWeekly) {
		return DecisionDeferred
	}
	return DecisionAllow
}

// MayNotify reports whether a notification of eventType may be sent now
// through at least one channel.
func MayNotify(p *Preferences, eventType EventType, now time.Time) bool {
	return Decide(p, eventType, now) == DecisionAllow
}
