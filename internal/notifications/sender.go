package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink receives every planning pass. ReplaceAll drops whatever the sink held
// before and keeps exactly the given set.
type Sink interface {
	ReplaceAll(ctx context.Context, reminders []Reminder) error
}

// Deliverer shows a due reminder to the user.
type Deliverer interface {
	Deliver(ctx context.Context, r Reminder) error
}

// --------------------------------------------------------------------------
// Memory sink
// --------------------------------------------------------------------------

// MemorySink holds the latest plan and tracks which reminders were delivered.
type MemorySink struct {
	mu         sync.RWMutex
	reminders  []Reminder
	delivered  map[string]bool
	replacedAt time.Time
}

func NewMemorySink() *MemorySink {
	return &MemorySink{delivered: make(map[string]bool)}
}

func (s *MemorySink) ReplaceAll(_ context.Context, reminders []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivered := make(map[string]bool, len(reminders))
	for _, r := range reminders {
		if s.delivered[r.ID] {
			delivered[r.ID] = true
		}
	}
	s.reminders = append([]Reminder(nil), reminders...)
	s.delivered = delivered
	s.replacedAt = time.Now()
	return nil
}

// Reminders returns a copy of the current plan and when it was installed.
func (s *MemorySink) Reminders() ([]Reminder, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Reminder(nil), s.reminders...), s.replacedAt
}

// ClaimDue returns reminders due at now that were not yet claimed and marks
// them delivered.
func (s *MemorySink) ClaimDue(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Reminder
	for _, r := range s.reminders {
		if r.FireAt.After(now) || s.delivered[r.ID] {
			continue
		}
		s.delivered[r.ID] = true
		due = append(due, r)
	}
	return due
}

// --------------------------------------------------------------------------
// Log deliverer
// --------------------------------------------------------------------------

// LogDeliverer writes due reminders to the log. Nil-safe: a nil deliverer
// drops reminders silently.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(ctx context.Context, r Reminder) error {
	if d == nil {
		return nil
	}
	d.logger.InfoContext(ctx, "Reminder due",
		"id", r.ID, "category", r.Category, "fire_at", r.FireAt.Format(time.RFC3339),
		"title", r.Title, "body", r.Body)
	return nil
}
