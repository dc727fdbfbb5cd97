package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/security"
)

// InsertAudit writes an audit log row.
func (s *Store) InsertAudit(ctx context.Context, e security.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var ip any
	if e.IPAddress != "" {
		ip = e.IPAddress
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.AuditLogsTable+` (id, user_id, operation, details, ip_address, timestamp)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.UserID, e.Operation, marshalJSON(e.Details), ip, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// GetUserRecord returns the users row as a JSON object.
func (s *Store) GetUserRecord(ctx context.Context, userID string) (map[string]any, error) {
	if err := checkID(userID, "user "+userID); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT row_to_json(u) FROM `+config.UsersTable+` u WHERE u.id = $1`, userID).Scan(&raw)
	if err != nil {
		return nil, db.NotFound(err, "user "+userID)
	}
	record := map[string]any{}
	if err := unmarshalJSON(raw, &record); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return record, nil
}

// DeleteUser erases a user and their notifications in one transaction.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := checkID(userID, "user "+userID); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+config.NotificationsTable+` WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM `+config.UsersTable+` WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, db.ErrNotFound)
	}
	return tx.Commit(ctx)
}
