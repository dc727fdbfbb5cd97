package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/classactionfinder/finder-data/internal/notifications"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDigestScheduleDue(t *testing.T) {
	daily := []notifications.Frequency{notifications.FrequencyDaily}
	both := []notifications.Frequency{notifications.FrequencyDaily, notifications.FrequencyWeekly}

	s := &DigestSchedule{Hour: 8}
	steps := []struct {
		at   time.Time
		want []notifications.Frequency
	}{
		// 2026-10-19 is a Monday.
		{time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC), nil},
		{time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), both},
		{time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), nil},
		{time.Date(2026, 10, 20, 8, 30, 0, 0, time.UTC), daily},
		{time.Date(2026, 10, 20, 23, 0, 0, 0, time.UTC), nil},
		{time.Date(2026, 10, 26, 10, 0, 0, 0, time.UTC), both},
	}
	for _, step := range steps {
		if got := s.Due(step.at); !reflect.DeepEqual(got, step.want) {
			t.Errorf("Due(%s) = %v, want %v", step.at.Format(time.RFC3339), got, step.want)
		}
	}
}

func TestDigestScheduleMissedMonday(t *testing.T) {
	// A Monday spent entirely before Hour does not produce a weekly digest
	// on Tuesday.
	s := &DigestSchedule{Hour: 23}
	if got := s.Due(time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)); got != nil {
		t.Fatalf("before hour = %v", got)
	}
	got := s.Due(time.Date(2026, 10, 20, 23, 30, 0, 0, time.UTC))
	if !reflect.DeepEqual(got, []notifications.Frequency{notifications.FrequencyDaily}) {
		t.Errorf("tuesday = %v", got)
	}
}

type fakeDigester struct {
	mu    sync.Mutex
	calls []notifications.Frequency
	err   error
}

func (f *fakeDigester) DigestSweep(ctx context.Context, freq notifications.Frequency) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, freq)
	return 1, 2, f.err
}

func TestRunDigests(t *testing.T) {
	d := &fakeDigester{err: errors.New("db down")}
	s := &DigestSchedule{Hour: 0}
	runDigests(context.Background(), d, s, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), testLogger)

	want := []notifications.Frequency{notifications.FrequencyDaily, notifications.FrequencyWeekly}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v, want %v (a failed sweep must not stop the next)", d.calls, want)
	}
}

type fakeStore struct {
	mu          sync.Mutex
	purgedDays  []int
	catchUps    []time.Duration
	purgeResult int64
}

func (f *fakeStore) PurgeRead(ctx context.Context, days int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgedDays = append(f.purgedDays, days)
	return f.purgeResult, nil
}

func (f *fakeStore) CatchUpClaimUpdates(ctx context.Context, window time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catchUps = append(f.catchUps, window)
	return 0, nil
}

func TestStartRunsTasks(t *testing.T) {
	store := &fakeStore{purgeResult: 3}
	cfg := Config{
		CleanupInterval: 5 * time.Millisecond,
		CatchUpInterval: 5 * time.Millisecond,
		RetentionDays:   30,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, store, &fakeDigester{}, cfg, testLogger)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.Lock()
		ready := len(store.purgedDays) > 0 && len(store.catchUps) > 0
		store.mu.Unlock()
		if ready {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.purgedDays) == 0 || store.purgedDays[0] != 30 {
		t.Errorf("purged days = %v", store.purgedDays)
	}
	if len(store.catchUps) == 0 || store.catchUps[0] != 10*time.Millisecond {
		t.Errorf("catch-up windows = %v", store.catchUps)
	}
}
