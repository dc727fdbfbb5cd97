package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/notifications"
)

// foreignKeyViolation is the SQLSTATE for an insert referencing a missing row.
const foreignKeyViolation = "23503"

// CreateNotification inserts an unread notification and returns its id.
func (s *Store) CreateNotification(ctx context.Context, n notifications.Notification) (string, error) {
	return insertNotification(ctx, s.pool, n)
}

func insertNotification(ctx context.Context, q execer, n notifications.Notification) (string, error) {
	if err := checkID(n.UserID, "user "+n.UserID); err != nil {
		return "", err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	tag, err := q.Exec(ctx, `
		INSERT INTO `+config.NotificationsTable+` (id, user_id, type, content, data, read)
		VALUES ($1,$2,$3,$4,$5,false)
		ON CONFLICT DO NOTHING`,
		n.ID, n.UserID, string(n.Type), n.Content, marshalJSON(n.Data),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return "", fmt.Errorf("user %s: %w", n.UserID, db.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("%s for user %s: %w", n.Type, n.UserID, notifications.ErrDuplicate)
	}
	return n.ID, nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string, includeRead bool) ([]notifications.Notification, error) {
	if err := checkID(userID, "user "+userID); err != nil {
		return nil, err
	}
	stmt := "list_notifications_unread"
	if includeRead {
		stmt = "list_notifications_all"
	}
	rows, err := s.pool.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []notifications.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNotification(row pgx.Row) (notifications.Notification, error) {
	var n notifications.Notification
	var typ string
	var data []byte
	if err := row.Scan(&n.ID, &n.UserID, &typ, &n.Content, &data, &n.Read, &n.CreatedAt); err != nil {
		return n, err
	}
	n.Type = notifications.EventType(typ)
	if err := unmarshalJSON(data, &n.Data); err != nil {
		return n, fmt.Errorf("decode data: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	if err := checkID(id, "notification "+id); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE `+config.NotificationsTable+` SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// FoldDigest marks the folded notifications read and inserts the digest
// summaries in one transaction. The mark-read only touches unread rows of
// userID; if fewer rows change than were folded, another digest or reader
// got there first and the transaction is rolled back.
func (s *Store) FoldDigest(ctx context.Context, userID string, folded []string, summaries []notifications.Notification) error {
	if err := checkID(userID, "user "+userID); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE `+config.NotificationsTable+` SET read = true
		WHERE user_id = $1 AND id = ANY($2::uuid[]) AND read = false`, userID, folded)
	if err != nil {
		return fmt.Errorf("mark folded read: %w", err)
	}
	if tag.RowsAffected() != int64(len(folded)) {
		return notifications.ErrAlreadyFolded
	}

	for _, n := range summaries {
		if _, err := insertNotification(ctx, tx, n); err != nil {
			return fmt.Errorf("insert summary: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// MarkAllRead marks all of a user's unread notifications read.
func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	if err := checkID(userID, "user "+userID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE `+config.NotificationsTable+` SET read = true
		WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// DeleteNotification removes a notification.
func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	if err := checkID(id, "notification "+id); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+config.NotificationsTable+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// PurgeRead deletes read notifications older than the given number of days.
func (s *Store) PurgeRead(ctx context.Context, olderThanDays int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM `+config.NotificationsTable+`
		WHERE read = true AND created_at < NOW() - make_interval(days => $1)`, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("purge read notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetPreferences returns a user's notification preferences with defaults
// applied for missing keys. Unknown users return db.ErrNotFound.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*notifications.Preferences, error) {
	if err := checkID(userID, "user "+userID); err != nil {
		return nil, err
	}
	var raw []byte
	if err := s.pool.QueryRow(ctx, "get_notification_preferences", userID).Scan(&raw); err != nil {
		return nil, db.NotFound(err, "user "+userID)
	}
	p, err := notifications.ParsePreferences(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences replaces preferences.notificationPreferences, leaving
// the rest of the preferences document untouched.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, p notifications.Preferences) error {
	if err := checkID(userID, "user "+userID); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE `+config.UsersTable+`
		SET preferences = jsonb_set(COALESCE(preferences, '{}'::jsonb),
			'{notificationPreferences}', $2::jsonb, true),
			updated_at = NOW()
		WHERE id = $1`, userID, marshalJSON(p))
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, db.ErrNotFound)
	}
	return nil
}

// UsersWithFrequency returns the ids of users on the given delivery cadence.
func (s *Store) UsersWithFrequency(ctx context.Context, f notifications.Frequency) ([]string, error) {
	rows, err := s.pool.Query(ctx, "users_with_frequency", string(f))
	if err != nil {
		return nil, fmt.Errorf("users with frequency: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
