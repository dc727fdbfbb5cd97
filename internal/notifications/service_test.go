package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/classactionfinder/finder-data/internal/db"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type memStore struct {
	mu      sync.Mutex
	seq     int
	notes   map[string]*Notification
	prefs   map[string]Preferences
	prefErr error
	foldErr error // returned once by FoldDigest, leaving the store unchanged
}

func newMemStore() *memStore {
	return &memStore{notes: make(map[string]*Notification), prefs: make(map[string]Preferences)}
}

func (m *memStore) CreateNotification(ctx context.Context, n Notification) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	n.ID = fmt.Sprintf("n%03d", m.seq)
	n.CreatedAt = time.Unix(int64(m.seq), 0)
	m.notes[n.ID] = &n
	return n.ID, nil
}

func (m *memStore) ListNotifications(ctx context.Context, userID string, includeRead bool) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.notes {
		if n.UserID == userID && (includeRead || !n.Read) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notes[id]; ok {
		n.Read = true
	}
	return nil
}

func (m *memStore) FoldDigest(ctx context.Context, userID string, folded []string, summaries []Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.foldErr; err != nil {
		m.foldErr = nil
		return err
	}
	for _, id := range folded {
		n, ok := m.notes[id]
		if !ok || n.Read || n.UserID != userID {
			return ErrAlreadyFolded
		}
	}
	for _, id := range folded {
		m.notes[id].Read = true
	}
	for _, n := range summaries {
		n := n
		m.seq++
		n.ID = fmt.Sprintf("n%03d", m.seq)
		n.CreatedAt = time.Unix(int64(m.seq), 0)
		m.notes[n.ID] = &n
	}
	return nil
}

func (m *memStore) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *memStore) DeleteNotification(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notes, id)
	return nil
}

func (m *memStore) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefErr != nil {
		return nil, m.prefErr
	}
	p, ok := m.prefs[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, db.ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) UpdatePreferences(ctx context.Context, userID string, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[userID] = p
	return nil
}

func (m *memStore) UsersWithFrequency(ctx context.Context, f Frequency) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, p := range m.prefs {
		if p.Frequency == f {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func newTestService(store Store, now time.Time) *Service {
	s := NewService(store, time.UTC, testLogger)
	s.now = func() time.Time { return now }
	return s
}

func TestShouldSendMissingPreferencesFailsOpen(t *testing.T) {
	s := newTestService(newMemStore(), at(720))
	d, err := s.ShouldSend(context.Background(), "ghost", EventNewLawsuit)
	if err != nil || d != DecisionAllow {
		t.Errorf("ShouldSend = %s, %v; want allow", d, err)
	}
}

func TestShouldSendPropagatesStoreErrors(t *testing.T) {
	store := newMemStore()
	store.prefErr = errors.New("connection refused")
	s := newTestService(store, at(720))
	if _, err := s.ShouldSend(context.Background(), "u1", EventNewLawsuit); err == nil {
		t.Error("expected error")
	}
}

func TestShouldSendUsesServiceClock(t *testing.T) {
	store := newMemStore()
	p := DefaultPreferences()
	p.QuietHours = &QuietHours{Start: 1320, End: 360}
	store.prefs["u1"] = p

	night := newTestService(store, at(1380))
	if d, _ := night.ShouldSend(context.Background(), "u1", EventClaimUpdate); d != DecisionQuietHours {
		t.Errorf("23:00 decision = %s", d)
	}
	noon := newTestService(store, at(700))
	if d, _ := noon.ShouldSend(context.Background(), "u1", EventClaimUpdate); d != DecisionAllow {
		t.Errorf("11:40 decision = %s", d)
	}
}

func TestNotifyAlwaysStores(t *testing.T) {
	store := newMemStore()
	store.prefs["u1"] = Preferences{Frequency: FrequencyImmediate} // all channels off
	s := newTestService(store, at(720))

	id, d, err := s.Notify(context.Background(), "u1", EventDeadline, "Opt-out deadline Friday", nil)
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if d != DecisionNoChannel {
		t.Errorf("decision = %s", d)
	}
	if _, ok := store.notes[id]; !ok {
		t.Error("notification not stored")
	}
}

func TestDigest(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestService(store, at(720))

	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventClaimUpdate, Content: "a"})
	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventClaimUpdate, Content: "b"})
	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventNewLawsuit, Content: "Acme data breach"})
	store.CreateNotification(ctx, Notification{UserID: "u2", Type: EventSystem, Content: "other user"})

	n, err := s.Digest(ctx, "u1", FrequencyDaily)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if n != 2 {
		t.Fatalf("created = %d, want 2", n)
	}

	unread, _ := store.ListNotifications(ctx, "u1", false)
	if len(unread) != 2 {
		t.Fatalf("unread = %d, want 2 summaries", len(unread))
	}
	byType := map[EventType]Notification{}
	for _, u := range unread {
		if !u.IsBatched() {
			t.Errorf("unread non-summary left behind: %+v", u)
		}
		byType[u.Type] = u
	}
	if got := byType[EventClaimUpdate].Content; got != "You have 2 updates to your claims." {
		t.Errorf("claim summary = %q", got)
	}
	if got := byType[EventNewLawsuit].Content; got != "Acme data breach" {
		t.Errorf("lawsuit summary = %q", got)
	}
	if got := byType[EventClaimUpdate].Data["frequency"]; got != "daily" {
		t.Errorf("frequency data = %v", got)
	}
	if ids, _ := byType[EventClaimUpdate].Data["notificationIds"].([]string); len(ids) != 2 {
		t.Errorf("notificationIds = %v", byType[EventClaimUpdate].Data["notificationIds"])
	}

	// A second run must not fold the summaries again.
	n, err = s.Digest(ctx, "u1", FrequencyDaily)
	if err != nil || n != 0 {
		t.Errorf("second Digest = %d, %v", n, err)
	}

	other, _ := store.ListNotifications(ctx, "u2", false)
	if len(other) != 1 {
		t.Errorf("u2 touched: %+v", other)
	}
}

func TestDigestFailedFoldLeavesNothingBehind(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestService(store, at(720))

	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventNewLawsuit, Content: "a"})
	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventNewLawsuit, Content: "b"})
	store.foldErr = errors.New("connection reset")

	if _, err := s.Digest(ctx, "u1", FrequencyDaily); err == nil {
		t.Fatal("expected error from failed fold")
	}
	if unread, _ := store.ListNotifications(ctx, "u1", false); len(unread) != 2 {
		t.Fatalf("after failure: %d unread, want the 2 originals", len(unread))
	}

	n, err := s.Digest(ctx, "u1", FrequencyDaily)
	if err != nil || n != 1 {
		t.Fatalf("retry = %d, %v; want 1 summary", n, err)
	}
	all, _ := store.ListNotifications(ctx, "u1", true)
	summaries := 0
	for _, note := range all {
		if note.IsBatched() {
			summaries++
		}
	}
	if summaries != 1 {
		t.Errorf("summaries stored = %d, want 1", summaries)
	}
}

// racingStore marks the originals read between the list and the fold, as a
// concurrent digest would.
type racingStore struct {
	*memStore
}

func (r racingStore) FoldDigest(ctx context.Context, userID string, folded []string, summaries []Notification) error {
	r.MarkAllRead(ctx, userID)
	return r.memStore.FoldDigest(ctx, userID, folded, summaries)
}

func TestDigestConcurrentFoldIsSkipped(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestService(racingStore{store}, at(720))

	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventDeadline, Content: "a"})
	n, err := s.Digest(ctx, "u1", FrequencyWeekly)
	if err != nil || n != 0 {
		t.Errorf("Digest = %d, %v; want 0, nil", n, err)
	}
	if len(store.notes) != 1 {
		t.Errorf("notes = %d, want no summary written", len(store.notes))
	}
}

func TestDigestSweep(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestService(store, at(720))

	daily := DefaultPreferences()
	daily.Frequency = FrequencyDaily
	store.prefs["u1"] = daily
	store.prefs["u2"] = daily
	store.prefs["u3"] = DefaultPreferences()

	store.CreateNotification(ctx, Notification{UserID: "u1", Type: EventNewLawsuit, Content: "x"})
	store.CreateNotification(ctx, Notification{UserID: "u3", Type: EventNewLawsuit, Content: "y"})

	users, summaries, err := s.DigestSweep(ctx, FrequencyDaily)
	if err != nil {
		t.Fatalf("DigestSweep: %v", err)
	}
	if users != 1 || summaries != 1 {
		t.Errorf("users=%d summaries=%d, want 1/1", users, summaries)
	}
	u3, _ := store.ListNotifications(ctx, "u3", false)
	if len(u3) != 1 || u3[0].IsBatched() {
		t.Errorf("immediate user should be untouched: %+v", u3)
	}
}
