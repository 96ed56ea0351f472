// Package waktusolat fetches monthly prayer timetables from the Waktu Solat
// GPS endpoint.
//
// One request returns the whole month for the zone containing a coordinate.
// Rate limiting is handled via a token bucket limiter; transport failures are
// retried with exponential backoff.
package waktusolat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/timetable"
)

const gpsPath = "/v2/solat/gps"

// Observer is notified after every HTTP attempt. status is "ok", "network" or
// "decode".
type Observer func(status string, elapsed time.Duration)

// Client implements timetable.Provider.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	loc         *time.Location
	maxAttempts int
	retryBase   time.Duration
	observe     Observer
	logger      *slog.Logger
}

// Options tune a Client. Zero values fall back to defaults.
type Options struct {
	RequestsPerMinute int
	MaxAttempts       int
	RetryBase         time.Duration
	Location          *time.Location
	Observer          Observer
}

// NewClient creates a Waktu Solat client with rate limiting.
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 30
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 2 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	rps := float64(opts.RequestsPerMinute) / 60.0
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		loc:         opts.Location,
		maxAttempts: opts.MaxAttempts,
		retryBase:   opts.RetryBase,
		observe:     opts.Observer,
		logger:      logger,
	}
}

// Fetch returns the month containing anchor for the zone at the coordinate.
// Transport and HTTP status failures wrap timetable.ErrNetwork and are
// retried; payload failures wrap timetable.ErrDecode and are not.
func (c *Client) Fetch(ctx context.Context, at geo.Coordinate, anchor timetable.Date) (*timetable.Month, error) {
	if !at.IsSet() {
		return nil, fmt.Errorf("fetch timetable: coordinate %s not set", at)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.logger.Warn("Retrying timetable fetch", "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", timetable.ErrNetwork, ctx.Err())
			}
		}

		month, err := c.fetchOnce(ctx, at, anchor)
		if err == nil {
			c.logger.Info("Fetched timetable",
				"zone", month.Zone, "year", month.Year, "month", int(month.Month),
				"days", len(month.Days), "anchor", anchor.String())
			return month, nil
		}
		if !errors.Is(err, timetable.ErrNetwork) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// backoff is the wait before retry attempt n (n >= 1): base, 2*base, 4*base...
func (c *Client) backoff(n int) time.Duration {
	return c.retryBase * time.Duration(1<<(n-1))
}

func (c *Client) fetchOnce(ctx context.Context, at geo.Coordinate, anchor timetable.Date) (*timetable.Month, error) {
	start := time.Now()
	month, err := c.get(ctx, at, anchor)
	if c.observe != nil {
		status := "ok"
		switch {
		case errors.Is(err, timetable.ErrDecode):
			status = "decode"
		case err != nil:
			status = "network"
		}
		c.observe(status, time.Since(start))
	}
	return month, err
}

// get performs one rate-limited GET against the GPS endpoint. The endpoint
// serves the current month when year and month are omitted.
func (c *Client) get(ctx context.Context, at geo.Coordinate, anchor timetable.Date) (*timetable.Month, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", timetable.ErrNetwork, err)
	}

	u := fmt.Sprintf("%s%s/%.4f/%.4f", c.baseURL, gpsPath, at.Latitude, at.Longitude)
	if !anchor.IsZero() {
		u += fmt.Sprintf("?year=%d&month=%d", anchor.Year, int(anchor.Month))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", timetable.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", timetable.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: waktusolat returned %d: %s", timetable.ErrNetwork, resp.StatusCode, truncate(body, 200))
	}

	return timetable.Decode(body, c.loc)
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
