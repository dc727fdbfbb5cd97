// Package listener provides a Postgres LISTEN/NOTIFY consumer for claim
// status changes. It holds a dedicated pgx connection (not from the pool)
// listening on the `claim_status_changed` channel.
//
// The trigger on the claims table fires pg_notify whenever a claim's status
// changes; each event becomes a claim_update notification for the claimant.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classactionfinder/finder-data/internal/notifications"
)

const (
	channel          = "claim_status_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ClaimStatusEvent is the JSON payload from pg_notify('claim_status_changed', ...).
type ClaimStatusEvent struct {
	ClaimID     string `json:"claim_id"`
	UserID      string `json:"user_id"`
	LawsuitName string `json:"lawsuit_name"`
	OldStatus   string `json:"old_status"`
	Status      string `json:"status"`
	Timestamp   int64  `json:"ts"`
}

// Notifier stores a notification and runs the delivery gate.
type Notifier interface {
	Notify(ctx context.Context, userID string, eventType notifications.EventType, content string, data map[string]any) (string, notifications.Decision, error)
}

// Start opens a dedicated connection and listens on the claim_status_changed
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, notifier Notifier, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, notifier, logger)
		if ctx.Err() != nil {
			logger.Info("Claim listener stopped (context cancelled)")
			return
		}

		logger.Error("Claim listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, notifier Notifier, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Claim listener connected", "channel", channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(n.Payload)
		if err != nil {
			logger.Warn("Failed to parse claim event",
				"payload", n.Payload, "error", err)
			continue
		}

		logger.Info("Claim event received",
			"claim_id", event.ClaimID,
			"user_id", event.UserID,
			"status", event.Status)

		// Process asynchronously to avoid blocking the listener
		go HandleEvent(ctx, notifier, event, logger)
	}
}

// ParseEvent decodes and validates a notification payload.
func ParseEvent(payload string) (ClaimStatusEvent, error) {
	var event ClaimStatusEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, fmt.Errorf("decode payload: %w", err)
	}
	if event.UserID == "" || event.ClaimID == "" || event.Status == "" {
		return event, fmt.Errorf("payload missing claim_id, user_id or status")
	}
	return event, nil
}

// HandleEvent turns a status change into a claim_update notification.
func HandleEvent(ctx context.Context, notifier Notifier, event ClaimStatusEvent, logger *slog.Logger) {
	data := map[string]any{
		"claim_id": event.ClaimID,
		"status":   event.Status,
	}
	if event.OldStatus != "" {
		data["old_status"] = event.OldStatus
	}
	if event.LawsuitName != "" {
		data["lawsuit_name"] = event.LawsuitName
	}

	id, decision, err := notifier.Notify(ctx, event.UserID, notifications.EventClaimUpdate, Message(event), data)
	if errors.Is(err, notifications.ErrDuplicate) {
		logger.Debug("Claim update already recorded", "claim_id", event.ClaimID, "status", event.Status)
		return
	}
	if err != nil {
		logger.Warn("Failed to create claim notification",
			"claim_id", event.ClaimID, "user_id", event.UserID, "error", err)
		return
	}
	logger.Info("Claim notification created",
		"claim_id", event.ClaimID, "notification_id", id, "decision", decision)
}

// Message renders the user-facing text for a status change.
func Message(event ClaimStatusEvent) string {
	status := humanStatus(event.Status)
	if event.LawsuitName == "" {
		return "Your claim status changed to " + status
	}
	return fmt.Sprintf("Your claim in %s is now %s", event.LawsuitName, status)
}

func humanStatus(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
}
