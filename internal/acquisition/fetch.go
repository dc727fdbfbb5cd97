package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxBodyBytes = 5 << 20

// ErrNotSent marks fetch failures that happened before any request reached
// the source.
var ErrNotSent = errors.New("request not sent")

// Page is the result of fetching a source URL.
type Page struct {
	SourceID string
	Status   int
	Body     []byte
	Duration time.Duration
}

// Fetcher downloads source pages. Requests are paced per host: every source
// on a host shares one token bucket running at the strictest interval any of
// them asked for, so a slow-paced host never blocks another.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a Fetcher with a 30s request timeout.
func NewFetcher(userAgent string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
		logger:     logger,
		limiters:   make(map[string]*rate.Limiter),
	}
}

// requestInterval is the minimum spacing between requests to a source: the
// larger of its politeness delay and the interval implied by its throttling.
func requestInterval(cfg ScrapingConfig) time.Duration {
	interval := time.Duration(cfg.PolitenessDelay) * time.Millisecond
	if cfg.Throttling > 0 {
		if perReq := time.Minute / time.Duration(cfg.Throttling); perReq > interval {
			interval = perReq
		}
	}
	return interval
}

// Pace makes requests to host at least interval apart for the life of the
// Fetcher. A shorter interval than one already set is ignored.
func (f *Fetcher) Pace(host string, interval time.Duration) {
	f.limiterFor(host, interval)
}

func (f *Fetcher) limiterFor(host string, interval time.Duration) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if l, ok := f.limiters[host]; ok {
		if limit < l.Limit() {
			l.SetLimit(limit)
		}
		return l
	}
	l := rate.NewLimiter(limit, 1)
	f.limiters[host] = l
	return l
}

// Fetch performs a rate-limited GET of the source URL. Non-2xx responses are
// returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, src DataSource) (*Page, error) {
	if src.URL == "" {
		return nil, fmt.Errorf("source %s has no url", src.ID)
	}
	limiter := f.limiterFor(hostOf(src.URL), requestInterval(src.ScrapingConfig))
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w: %w", ErrNotSent, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("source %s returned %d: %s", src.ID, resp.StatusCode, truncate(body, 200))
	}

	f.logger.Debug("Fetched source", "source_id", src.ID, "status", resp.StatusCode,
		"bytes", len(body), "duration", elapsed)

	return &Page{SourceID: src.ID, Status: resp.StatusCode, Body: body, Duration: elapsed}, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
