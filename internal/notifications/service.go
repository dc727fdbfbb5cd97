package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/classactionfinder/finder-data/internal/db"
)

// Service wires the gate and digest logic to a Store and a clock.
type Service struct {
	store  Store
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a Service evaluating quiet hours in loc.
func NewService(store Store, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, loc: loc, now: time.Now, logger: logger}
}

// Store exposes the underlying store for CRUD-only callers.
func (s *Service) Store() Store {
	return s.store
}

// ShouldSend looks up the user's preferences and runs the gate. Missing
// preferences allow delivery; any other lookup failure is returned.
func (s *Service) ShouldSend(ctx context.Context, userID string, eventType EventType) (Decision, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return DecisionAllow, nil
	}
	if err != nil {
		return "", fmt.Errorf("get preferences: %w", err)
	}
	return Decide(prefs, eventType, s.now().In(s.loc)), nil
}

// Notify stores the notification in the user's inbox and reports whether it
// may also be pushed now. Notifications held back by the gate stay unread
// and are picked up by the next digest.
func (s *Service) Notify(ctx context.Context, userID string, eventType EventType, content string, data map[string]any) (string, Decision, error) {
	id, err := s.store.CreateNotification(ctx, Notification{
		UserID:  userID,
		Type:    eventType,
		Content: content,
		Data:    data,
	})
	if err != nil {
		return "", "", fmt.Errorf("create notification: %w", err)
	}

	decision, err := s.ShouldSend(ctx, userID, eventType)
	if err != nil {
		s.logger.Warn("Gate lookup failed, holding notification", "user_id", userID, "error", err)
		return id, DecisionDeferred, nil
	}
	s.logger.Info("Notification created",
		"user_id", userID, "type", eventType, "id", id, "decision", decision)
	return id, decision, nil
}
