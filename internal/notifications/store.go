package notifications

import (
	"context"
	"errors"
)

// ErrAlreadyFolded is returned by Store.FoldDigest when some of the
// notifications to fold were read or folded by someone else first.
var ErrAlreadyFolded = errors.New("notifications already folded")

// ErrDuplicate is returned by Store.CreateNotification when an identical
// claim_update (same user, claim and status) already exists.
var ErrDuplicate = errors.New("notification already exists")

// Store persists notifications and preferences. Implemented by
// internal/store on top of pgx; lookups that find nothing return an error
// wrapping db.ErrNotFound.
type Store interface {
	CreateNotification(ctx context.Context, n Notification) (string, error)
	ListNotifications(ctx context.Context, userID string, includeRead bool) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	// FoldDigest atomically marks folded read and inserts the summaries.
	// Nothing changes unless every folded id was still unread.
	FoldDigest(ctx context.Context, userID string, folded []string, summaries []Notification) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id string) error

	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, p Preferences) error
	UsersWithFrequency(ctx context.Context, f Frequency) ([]string, error)
}
