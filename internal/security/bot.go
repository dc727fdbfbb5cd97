package security

import "strings"

var botUserAgents = []string{"bot", "crawler", "spider", "headless"}

// BotVerdict is the result of DetectBot.
type BotVerdict struct {
	IsBot      bool    `json:"is_bot"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// DetectBot scores a client from its request rate (per minute), its recent
// request paths and its user agent. A score of 0.5 or more is a bot.
func DetectBot(requestsPerMinute float64, pattern []string, userAgent string) BotVerdict {
	// Score in tenths to keep thresholds exact.
	score := 0
	var reasons []string

	switch {
	case requestsPerMinute > 60:
		score += 4
		reasons = append(reasons, "High request frequency.")
	case requestsPerMinute > 30:
		score += 2
		reasons = append(reasons, "Moderate request frequency.")
	}

	if len(pattern) > 0 {
		unique := make(map[string]struct{}, len(pattern))
		for _, p := range pattern {
			unique[p] = struct{}{}
		}
		if float64(len(unique))/float64(len(pattern)) < 0.1 {
			score += 3
			reasons = append(reasons, "Repetitive request pattern.")
		}
	}

	ua := strings.ToLower(userAgent)
	for _, marker := range botUserAgents {
		if strings.Contains(ua, marker) {
			score += 5
			reasons = append(reasons, "Bot-like user agent.")
			break
		}
	}

	return BotVerdict{
		IsBot:      score >= 5,
		Confidence: float64(score) / 10,
		Reason:     strings.Join(reasons, " "),
	}
}
