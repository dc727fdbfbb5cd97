package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/api/handler"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/maintenance"
	"github.com/classactionfinder/finder-data/internal/notifications"
	"github.com/classactionfinder/finder-data/internal/security"
)

var (
	_ acquisition.SourceStore = (*Store)(nil)
	_ notifications.Store     = (*Store)(nil)
	_ security.AuditStore     = (*Store)(nil)
	_ maintenance.Store       = (*Store)(nil)
	_ handler.UserStore       = (*Store)(nil)
)

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "{}"},
		{"nil map", map[string]string(nil), "{}"},
		{"map", map[string]string{"title": "name"}, `{"title":"name"}`},
		{"struct", acquisition.Reliability{Accuracy: 1}, `{"accuracy":1,"completeness":0,"timeliness":0}`},
		{"unsupported", func() {}, "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(marshalJSON(tt.in)); got != tt.want {
				t.Errorf("marshalJSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnmarshalJSONEmpty(t *testing.T) {
	var m map[string]string
	if err := unmarshalJSON(nil, &m); err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if m != nil {
		t.Errorf("m = %v, want untouched", m)
	}
	if err := unmarshalJSON([]byte("{"), &m); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	// The pool is never touched: a malformed id fails before any query.
	s := &Store{}
	ctx := context.Background()

	calls := map[string]func() error{
		"GetSource": func() error { _, err := s.GetSource(ctx, "src-1"); return err },
		"UpdateReliability": func() error {
			return s.UpdateReliability(ctx, "nope", acquisition.Reliability{})
		},
		"RecordAttempt": func() error { return s.RecordAttempt(ctx, "nope", true, time.Now()) },
		"CreateNotification": func() error {
			_, err := s.CreateNotification(ctx, notifications.Notification{UserID: "u1"})
			return err
		},
		"ListNotifications":  func() error { _, err := s.ListNotifications(ctx, "u1", true); return err },
		"MarkRead":           func() error { return s.MarkRead(ctx, "n1") },
		"MarkAllRead":        func() error { return s.MarkAllRead(ctx, "u1") },
		"DeleteNotification": func() error { return s.DeleteNotification(ctx, "") },
		"GetPreferences":     func() error { _, err := s.GetPreferences(ctx, "u1"); return err },
		"UpdatePreferences": func() error {
			return s.UpdatePreferences(ctx, "u1", notifications.DefaultPreferences())
		},
		"GetUserRecord": func() error { _, err := s.GetUserRecord(ctx, "u1"); return err },
		"DeleteUser":    func() error { return s.DeleteUser(ctx, "u1") },
		"FoldDigest": func() error {
			return s.FoldDigest(ctx, "u1", []string{"n1"}, nil)
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, db.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}
