package notifications

import (
	"context"
	"errors"
	"fmt"
)

// Digest folds a user's unread notifications into one summary per type,
// persists the summaries and marks the originals read in one step. Earlier
// summaries are never folded again. Returns the number of summaries created;
// zero when a concurrent digest got there first.
func (s *Service) Digest(ctx context.Context, userID string, frequency Frequency) (int, error) {
	all, err := s.store.ListNotifications(ctx, userID, false)
	if err != nil {
		return 0, fmt.Errorf("list unread: %w", err)
	}

	unread := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsBatched() {
			unread = append(unread, n)
		}
	}
	if len(unread) == 0 {
		return 0, nil
	}

	batched := BatchNotifications(unread)
	summaries := make([]Notification, 0, len(batched))
	var folded []string
	for _, sum := range batched {
		summaries = append(summaries, Notification{
			UserID:  userID,
			Type:    sum.Type,
			Content: sum.Content,
			Data: map[string]any{
				"batched":         true,
				"count":           sum.Count,
				"frequency":       string(frequency),
				"notificationIds": sum.NotificationIDs,
			},
		})
		folded = append(folded, sum.NotificationIDs...)
	}

	err = s.store.FoldDigest(ctx, userID, folded, summaries)
	if errors.Is(err, ErrAlreadyFolded) {
		s.logger.Info("Digest skipped, notifications folded concurrently", "user_id", userID)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fold digest: %w", err)
	}
	return len(summaries), nil
}

// DigestSweep runs Digest for every user on the given frequency. Per-user
// failures are logged and skipped.
func (s *Service) DigestSweep(ctx context.Context, frequency Frequency) (users, summaries int, err error) {
	ids, err := s.store.UsersWithFrequency(ctx, frequency)
	if err != nil {
		return 0, 0, fmt.Errorf("users with frequency: %w", err)
	}

	for _, userID := range ids {
		if ctx.Err() != nil {
			return users, summaries, ctx.Err()
		}
		n, err := s.Digest(ctx, userID, frequency)
		if err != nil {
			s.logger.Warn("Digest failed", "user_id", userID, "frequency", frequency, "error", err)
			continue
		}
		if n > 0 {
			users++
			summaries += n
		}
	}
	return users, summaries, nil
}
