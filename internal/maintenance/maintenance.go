// Package maintenance runs the periodic refresh passes on cron schedules.
// The daily job refetches the timetable; the tick job re-plans reminders and
// re-evaluates travel mode from whatever is cached.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/albapepper/waktu/internal/refresh"
)

// Runner executes one refresh pass. refresh.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, req refresh.Request) (*refresh.Snapshot, error)
}

// Config holds the cron specs. An empty spec disables that job.
type Config struct {
	RefreshSchedule string // forced refetch, e.g. "5 0 * * *"
	TickSchedule    string // cache-only re-plan, e.g. "*/15 * * * *"
	Location        *time.Location
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		RefreshSchedule: "5 0 * * *",
		TickSchedule:    "*/15 * * * *",
		Location:        time.UTC,
	}
}

// Scheduler wraps a cron instance bound to one Runner.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger
	cfg    Config
}

// New registers the configured jobs. Invalid specs are reported here.
func New(runner Runner, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(cfg.Location)),
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}

	jobs := []struct {
		name string
		spec string
		req  refresh.Request
	}{
		{"refresh", cfg.RefreshSchedule, refresh.Request{Force: true}},
		{"tick", cfg.TickSchedule, refresh.Request{}},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		name, req := j.name, j.req
		if _, err := s.cron.AddFunc(j.spec, func() { s.runJob(name, req) }); err != nil {
			return nil, fmt.Errorf("add %s job %q: %w", name, j.spec, err)
		}
	}
	return s, nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler until ctx is cancelled. Intended to be called
// with `go`.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("Scheduler started",
		"timezone", s.cfg.Location.String(),
		"refresh", s.cfg.RefreshSchedule,
		"tick", s.cfg.TickSchedule)

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runJob(name string, req refresh.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	_, err := s.runner.Run(ctx, req)
	dur := time.Since(start).Round(time.Millisecond)

	switch {
	case err == nil:
		s.logger.Info("Scheduled refresh done", "job", name, "duration", dur)
	case errors.Is(err, refresh.ErrNoLocation), errors.Is(err, refresh.ErrSuperseded):
		s.logger.Debug("Scheduled refresh skipped", "job", name, "reason", err)
	default:
		s.logger.Warn("Scheduled refresh failed", "job", name, "duration", dur, "error", err)
	}
}
