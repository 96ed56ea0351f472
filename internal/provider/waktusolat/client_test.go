package waktusolat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/timetable"
)

const monthPayload = `{
	"zone": "WLY01",
	"year": 2025,
	"month_number": 2,
	"prayers": [
		{"day": 2, "fajr": 1738531200, "syuruk": 1738535700, "dhuhr": 1738558200, "asr": 1738570200, "maghrib": 1738579200, "isha": 1738583700},
		{"day": 1, "fajr": 1738444800, "syuruk": 1738449300, "dhuhr": 1738471800, "asr": 1738483800, "maghrib": 1738492800, "isha": 1738497300}
	]
}`

var (
	kl     = geo.Coordinate{Latitude: 3.139, Longitude: 101.6869}
	anchor = timetable.Date{Year: 2025, Month: time.February, Day: 1}
)

func testClient(url string, observe Observer) *Client {
	return NewClient(url, Options{
		RequestsPerMinute: 600000,
		MaxAttempts:       3,
		RetryBase:         time.Millisecond,
		Location:          time.FixedZone("MYT", 8*3600),
		Observer:          observe,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchDecodesMonth(t *testing.T) {
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, monthPayload)
	}))
	defer srv.Close()

	month, err := testClient(srv.URL, nil).Fetch(context.Background(), kl, anchor)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := "/v2/solat/gps/3.1390/101.6869"; path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if want := fmt.Sprintf("year=%d&month=%d", anchor.Year, int(anchor.Month)); query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if month.Zone != "WLY01" || month.Month != time.February || len(month.Days) != 2 {
		t.Errorf("month = %s %v with %d days", month.Zone, month.Month, len(month.Days))
	}
	if month.Days[0].Day != 1 {
		t.Errorf("Days[0].Day = %d, want 1", month.Days[0].Day)
	}
}

func TestFetchRetriesNetworkFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, monthPayload)
	}))
	defer srv.Close()

	var statuses []string
	observe := func(status string, _ time.Duration) { statuses = append(statuses, status) }

	if _, err := testClient(srv.URL, observe).Fetch(context.Background(), kl, anchor); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
	want := []string{"network", "network", "ok"}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("statuses[%d] = %q, want %q", i, statuses[i], want[i])
		}
	}
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).Fetch(context.Background(), kl, anchor)
	if !errors.Is(err, timetable.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestFetchDoesNotRetryDecodeFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"zone": "WLY01", "prayers": "nope"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).Fetch(context.Background(), kl, anchor)
	if !errors.Is(err, timetable.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestFetchRejectsUnsetCoordinate(t *testing.T) {
	c := testClient("http://127.0.0.1:0", nil)
	if _, err := c.Fetch(context.Background(), geo.UnsetCoordinate(), anchor); err == nil {
		t.Error("Fetch with unset coordinate succeeded")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate([]byte("abcdef"), 3); got != "abc..." {
		t.Errorf("truncate = %q, want abc...", got)
	}
	if got := truncate([]byte("ab"), 3); got != "ab" {
		t.Errorf("truncate = %q, want ab", got)
	}
}

func TestBackoff(t *testing.T) {
	c := NewClient("http://example.invalid", Options{RetryBase: 2 * time.Second}, nil)
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}
	for _, tt := range tests {
		if got := c.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
