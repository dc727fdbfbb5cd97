package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
)

// SourceStore persists data sources. Implemented by internal/store.
type SourceStore interface {
	ListSources(ctx context.Context) ([]DataSource, error)
	GetSource(ctx context.Context, id string) (*DataSource, error)
	AddSource(ctx context.Context, src DataSource) (string, error)
	UpdateReliability(ctx context.Context, id string, r Reliability) error
	RecordAttempt(ctx context.Context, id string, success bool, at time.Time) error
}

// Prioritized loads every source and ranks it.
func Prioritized(ctx context.Context, store SourceStore) ([]Ranked, error) {
	sources, err := store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return PrioritizeSources(sources), nil
}

// Probe fetches one source and records the outcome in its success history.
// The fetch error, if any, is returned after the attempt is recorded. A fetch
// that never reached the source, because it was cancelled or could not be
// paced in time, is not recorded.
func Probe(ctx context.Context, store SourceStore, fetcher *Fetcher, id string, logger *slog.Logger) (*Page, error) {
	src, err := store.GetSource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	page, fetchErr := fetcher.Fetch(ctx, *src)
	if fetchErr != nil && (errors.Is(fetchErr, ErrNotSent) || ctx.Err() != nil) {
		return nil, fetchErr
	}
	if err := store.RecordAttempt(ctx, id, fetchErr == nil, time.Now()); err != nil {
		logger.Warn("Failed to record scrape attempt", "source_id", id, "error", err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return page, nil
}

// ProbeResult tracks the outcome of a ProbeAll run.
type ProbeResult struct {
	SourcesFound int
	Succeeded    int
	Failed       int
	Duration     time.Duration
	Errors       []string
}

// Summary returns a human-readable summary.
func (r *ProbeResult) Summary() string {
	return fmt.Sprintf("found=%d succeeded=%d failed=%d dur=%s",
		r.SourcesFound, r.Succeeded, r.Failed, r.Duration.Round(time.Millisecond))
}

// ProbeAll probes every source and records each outcome. Sources are grouped
// by host and each group is probed in priority order by a single worker, so
// a host never sees concurrent requests from one run. Groups are spread over
// a pool of workers. Failures are logged and counted, never fatal.
func ProbeAll(ctx context.Context, store SourceStore, fetcher *Fetcher, workers int, logger *slog.Logger) ProbeResult {
	start := time.Now()
	var result ProbeResult

	ranked, err := Prioritized(ctx, store)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result
	}
	result.SourcesFound = len(ranked)
	if len(ranked) == 0 {
		logger.Info("No data sources to probe")
		result.Duration = time.Since(start)
		return result
	}

	// Group by host, keeping first-seen (priority) order of groups and members.
	var hosts []string
	groups := make(map[string][]Ranked)
	for _, r := range ranked {
		host := hostOf(r.URL)
		if _, seen := groups[host]; !seen {
			hosts = append(hosts, host)
		}
		groups[host] = append(groups[host], r)
	}

	// Worker pool: one channel of groups, N workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(hosts) {
		workers = len(hosts)
	}

	ch := make(chan []Ranked, len(hosts))
	for _, host := range hosts {
		var strictest time.Duration
		for _, r := range groups[host] {
			strictest = max(strictest, requestInterval(r.ScrapingConfig))
		}
		fetcher.Pace(host, strictest)
		ch <- groups[host]
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range ch {
				for _, r := range group {
					if ctx.Err() != nil {
						return
					}
					_, err := Probe(ctx, store, fetcher, r.ID, logger)

					mu.Lock()
					if err != nil {
						logger.Warn("Probe failed", "source_id", r.ID, "name", r.Name, "error", err)
						result.Failed++
						result.Errors = append(result.Errors, fmt.Sprintf("source %s: %v", r.ID, err))
					} else {
						result.Succeeded++
					}
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)

	logger.Info("Probe run complete", "summary", result.Summary())
	return result
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.ToLower(u.Host)
}
