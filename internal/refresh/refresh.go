// Package refresh sequences one refresh pass: load settings, evaluate travel
// mode, fetch or fall back to the cached timetable, resolve today, locate the
// current prayer, plan reminders and commit the result.
//
// All I/O happens here. The resolver, travel state machine, tracker and
// planner it drives are pure.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/albapepper/waktu/internal/calendar"
	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/metrics"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/settings"
	"github.com/albapepper/waktu/internal/timetable"
	"github.com/albapepper/waktu/internal/travel"
)

// MinMove is the smallest location change, in metres, that counts as a move.
const MinMove = 500.0

// fetchTimeout bounds one coalesced provider fetch, retries included.
const fetchTimeout = 2 * time.Minute

var (
	// ErrNoLocation means no current coordinate has been captured yet.
	ErrNoLocation = errors.New("no location available")
	// ErrNoTimetable means neither the provider nor the cache could supply
	// today's timetable.
	ErrNoTimetable = errors.New("no timetable available for today")
	// ErrSuperseded means a newer pass committed first; this pass was
	// discarded.
	ErrSuperseded = errors.New("refresh superseded by a newer pass")
)

// Source says where a snapshot's timetable came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceCache    Source = "cache"
	SourceNone     Source = "none"
)

// Snapshot is the committed outcome of a refresh pass.
type Snapshot struct {
	RunID       string              `json:"run_id"`
	Generation  uint64              `json:"generation"`
	GeneratedAt time.Time           `json:"generated_at"`
	Date        timetable.Date      `json:"date"`
	Place       settings.Place      `json:"place"`
	Traveling   bool                `json:"traveling"`
	Transition  travel.Transition   `json:"transition"`
	Source      Source              `json:"source"`
	Prayers     []prayer.Prayer     `json:"prayers"`
	FullPrayers []prayer.Prayer     `json:"full_prayers"`
	Position    prayer.Position     `json:"position"`
	Hijri       *calendar.HijriDate `json:"hijri,omitempty"`
	Reminders   int                 `json:"reminders"`
}

// Request tunes one pass.
type Request struct {
	Force bool
	Event travel.Event
}

// Options configure an Orchestrator.
type Options struct {
	Location            *time.Location
	HijriOffset         int
	Title               string
	TravelNotifications bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator runs refresh passes. Safe for concurrent use.
type Orchestrator struct {
	provider timetable.Provider
	cache    *timetable.Cache
	settings *settings.Store
	sink     notifications.Sink
	opts     Options
	logger   *slog.Logger

	flights singleflight.Group
	started atomic.Uint64

	mu        sync.Mutex
	committed uint64
	applied   uint64 // generation of the last fetch written to the cache
	snapshot  *Snapshot
}

// New creates an Orchestrator.
func New(provider timetable.Provider, cache *timetable.Cache, store *settings.Store, sink notifications.Sink, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = notifications.DefaultTitle
	}
	return &Orchestrator{
		provider: provider,
		cache:    cache,
		settings: store,
		sink:     sink,
		opts:     opts,
		logger:   logger,
	}
}

// Snapshot returns the last committed snapshot, or nil.
func (o *Orchestrator) Snapshot() *Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// Settings exposes the settings store the orchestrator reads.
func (o *Orchestrator) Settings() *settings.Store {
	return o.settings
}

// Location is the zone civil days are computed in.
func (o *Orchestrator) Location() *time.Location {
	return o.opts.Location
}

// Today is the current civil day in the configured zone.
func (o *Orchestrator) Today() timetable.Date {
	return timetable.DateOf(o.opts.Now().In(o.opts.Location))
}

// --------------------------------------------------------------------------
// Refresh pass
// --------------------------------------------------------------------------

// Run executes one refresh pass and commits its snapshot and reminder plan.
//
// A pass older than the last committed one returns ErrSuperseded and changes
// nothing. When no timetable resolves for today an empty snapshot is
// committed and ErrNoTimetable is returned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Snapshot, error) {
	gen := o.started.Add(1)
	now := o.opts.Now()
	loc := o.opts.Location
	today := timetable.DateOf(now.In(loc))

	st, err := o.settings.Load(ctx)
	if err != nil {
		metrics.Refreshes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	coord := st.Current.Coordinate
	if !coord.IsSet() {
		metrics.Refreshes.WithLabelValues("no_location").Inc()
		return nil, ErrNoLocation
	}

	moved := travel.Evaluate(st.Travel, travel.Input{Current: coord, Home: st.Home, Event: req.Event})
	if moved.State != st.Travel {
		if err := o.settings.SaveTravel(ctx, moved.State); err != nil {
			o.logger.Warn("Failed to persist travel state", "error", err)
		}
	}
	if moved.Transition != travel.None {
		metrics.TravelTransitions.WithLabelValues(moved.Transition.String()).Inc()
		o.logger.Info("Travel mode changed", "transition", moved.Transition, "distance_m", int(moved.Distance))
	}
	traveling := moved.State.Traveling

	o.cache.Restore(ctx)

	source := SourceCache
	if o.needsFetch(req.Force, st, today) {
		month, err := o.fetch(ctx, coord, today, req.Force)
		if err != nil {
			o.logger.Warn("Timetable fetch failed, using cache", "error", err)
		} else {
			if err := o.applyFetch(ctx, gen, coord, month); err != nil {
				return o.Snapshot(), err
			}
			source = SourceProvider
		}
	}

	snap := &Snapshot{
		RunID:       uuid.NewString(),
		Generation:  gen,
		GeneratedAt: now,
		Date:        today,
		Place:       st.Current,
		Traveling:   traveling,
		Transition:  moved.Transition,
		Source:      source,
	}
	if h, err := calendar.Today(now, loc, o.opts.HijriOffset); err == nil {
		snap.Hijri = &h
	}

	resolver := prayer.Resolver{Days: o.cache}
	grouped, ok := resolver.Resolve(today, st.Offsets, traveling, false)
	if !ok {
		snap.Source = SourceNone
		snap.Prayers = []prayer.Prayer{}
		snap.FullPrayers = []prayer.Prayer{}
		if err := o.commit(ctx, snap, nil); err != nil {
			return o.Snapshot(), err
		}
		metrics.Refreshes.WithLabelValues("no_timetable").Inc()
		return snap, ErrNoTimetable
	}
	full, _ := resolver.Resolve(today, st.Offsets, traveling, true)

	snap.Prayers = grouped
	snap.FullPrayers = full
	snap.Position = prayer.Locate(now, grouped, func() (prayer.Prayer, bool) {
		next, ok := resolver.Resolve(today.AddDays(1), st.Offsets, traveling, false)
		if !ok || len(next) == 0 {
			return prayer.Prayer{}, false
		}
		return next[0], true
	})

	reminders := o.plan(now, today, st, traveling, resolver, moved.Transition)
	snap.Reminders = len(reminders)

	if err := o.commit(ctx, snap, reminders); err != nil {
		return o.Snapshot(), err
	}
	metrics.Refreshes.WithLabelValues("ok").Inc()
	o.logger.Info("Refresh complete",
		"run_id", snap.RunID, "date", today.String(), "source", snap.Source,
		"traveling", traveling, "reminders", len(reminders))
	return snap, nil
}

// needsFetch decides whether the provider is consulted at all.
func (o *Orchestrator) needsFetch(force bool, st settings.Settings, today timetable.Date) bool {
	if force {
		return true
	}
	if st.LastFetch == nil || geo.Distance(*st.LastFetch, st.Current.Coordinate) >= MinMove {
		return true
	}
	if _, ok := o.cache.Day(today); !ok {
		return true
	}

	last := o.Snapshot()
	return last == nil || last.Date != today || len(last.Prayers) == 0
}

// fetch coalesces concurrent requests for the same coordinate and month. A
// forced fetch always starts a new flight.
//
// The flight runs detached from ctx so one caller giving up does not fail the
// others that joined it; ctx only bounds how long this caller waits.
func (o *Orchestrator) fetch(ctx context.Context, at geo.Coordinate, anchor timetable.Date, force bool) (*timetable.Month, error) {
	key := fmt.Sprintf("%s|%04d-%02d", at.Key(), anchor.Year, int(anchor.Month))
	if force {
		o.flights.Forget(key)
	}

	flight := o.flights.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		start := time.Now()
		m, err := o.provider.Fetch(fctx, at, anchor)
		o.logger.Debug("Provider fetch finished", "key", key, "elapsed", time.Since(start), "error", err)
		return m, err
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			o.logger.Debug("Joined in-flight timetable fetch", "key", key)
		}
		return res.Val.(*timetable.Month), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", timetable.ErrNetwork, ctx.Err())
	}
}

// applyFetch makes month the cached timetable unless a newer pass has
// already committed or applied its own fetch.
func (o *Orchestrator) applyFetch(ctx context.Context, gen uint64, at geo.Coordinate, month *timetable.Month) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen < o.committed || gen < o.applied {
		metrics.Refreshes.WithLabelValues("superseded").Inc()
		o.logger.Info("Discarding superseded fetch", "generation", gen, "committed", o.committed, "applied", o.applied)
		return ErrSuperseded
	}
	if err := o.cache.Store(ctx, month); err != nil {
		o.logger.Warn("Failed to persist timetable", "error", err)
	}
	if err := o.settings.SaveLastFetch(ctx, at); err != nil {
		o.logger.Warn("Failed to persist fetch location", "error", err)
	}
	o.applied = gen
	return nil
}

func (o *Orchestrator) plan(now time.Time, today timetable.Date, st settings.Settings, traveling bool, resolver prayer.Resolver, transition travel.Transition) []notifications.Reminder {
	prefs := st.Notifications
	loc := o.opts.Location

	days := make(map[timetable.Date][]prayer.Prayer)
	for _, d := range notifications.PlanDates(today, prefs.NaggingMode) {
		if list, ok := resolver.Resolve(d, st.Offsets, traveling, false); ok {
			days[d] = list
		}
	}

	var special []calendar.Occurrence
	if prefs.CalendarEvents {
		occ, err := calendar.Upcoming(now, loc, o.opts.HijriOffset, calendar.Events)
		if err != nil {
			o.logger.Warn("Skipping calendar reminders", "error", err)
		}
		special = occ
	}

	reminders := notifications.Plan(now, notifications.Input{
		Days:               days,
		Preferences:        prefs,
		Place:              st.Current.Name(),
		Traveling:          traveling,
		SpecialDates:       special,
		RefreshCheckpoints: notifications.RefreshCheckpoints(today, prefs.NaggingMode, loc),
		Title:              o.opts.Title,
	})

	if transition != travel.None && o.opts.TravelNotifications {
		notice := notifications.TravelNotice(now, transition == travel.TurnedOn, st.Current.Name(), o.opts.Title)
		reminders = append([]notifications.Reminder{notice}, reminders...)
	}
	return reminders
}

// commit installs snap and hands reminders to the sink unless a newer pass
// already committed.
func (o *Orchestrator) commit(ctx context.Context, snap *Snapshot, reminders []notifications.Reminder) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if snap.Generation < o.committed {
		metrics.Refreshes.WithLabelValues("superseded").Inc()
		o.logger.Info("Discarding superseded refresh", "generation", snap.Generation, "committed", o.committed)
		return ErrSuperseded
	}
	if o.sink != nil {
		if err := o.sink.ReplaceAll(ctx, reminders); err != nil {
			metrics.Refreshes.WithLabelValues("error").Inc()
			return fmt.Errorf("replace reminders: %w", err)
		}
	}
	o.committed = snap.Generation
	o.snapshot = snap
	metrics.RemindersPlanned.Set(float64(len(reminders)))
	return nil
}
