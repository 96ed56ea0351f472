package refresh

import (
	"context"
	"fmt"

	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/settings"
	"github.com/albapepper/waktu/internal/timetable"
	"github.com/albapepper/waktu/internal/travel"
)

// SetLocation records a new current coordinate. Moves shorter than MinMove
// from the stored coordinate are ignored and report false.
func (o *Orchestrator) SetLocation(ctx context.Context, at geo.Coordinate, label string) (bool, error) {
	if !at.IsSet() {
		return false, fmt.Errorf("set location: coordinate %s out of range", at)
	}
	st, err := o.settings.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	prev := st.Current.Coordinate
	if prev.IsSet() && geo.Distance(prev, at) < MinMove {
		if label != "" && label != st.Current.Label {
			st.Current.Label = label
			return false, o.settings.SaveCurrent(ctx, st.Current)
		}
		return false, nil
	}
	if err := o.settings.SaveCurrent(ctx, settings.Place{Coordinate: at, Label: label}); err != nil {
		return false, err
	}
	o.logger.Info("Location updated", "coordinate", at.String(), "label", label)
	return true, nil
}

// SetHome stores home, or clears it when nil.
func (o *Orchestrator) SetHome(ctx context.Context, home *geo.Coordinate) error {
	if home != nil && !home.IsSet() {
		return fmt.Errorf("set home: coordinate %s out of range", *home)
	}
	return o.settings.SaveHome(ctx, home)
}

// SetTraveling applies a manual travel-mode change and runs a pass that
// honours it.
func (o *Orchestrator) SetTraveling(ctx context.Context, on bool) (*Snapshot, error) {
	st, err := o.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := o.settings.SaveTravel(ctx, travel.Toggle(st.Travel, on)); err != nil {
		return nil, err
	}
	return o.Run(ctx, Request{Event: travel.ManualToggle})
}

// SetAutomatic turns automatic travel detection on or off.
func (o *Orchestrator) SetAutomatic(ctx context.Context, on bool) error {
	st, err := o.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return o.settings.SaveTravel(ctx, travel.SetAutomatic(st.Travel, on))
}

// Prayers resolves date with the stored offsets and travel mode. When the
// cache does not hold date's month it is fetched once and the lookup retried.
func (o *Orchestrator) Prayers(ctx context.Context, date timetable.Date, full bool) ([]prayer.Prayer, bool, error) {
	st, err := o.settings.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load settings: %w", err)
	}
	o.cache.Restore(ctx)

	resolver := prayer.Resolver{Days: o.cache}
	if list, ok := resolver.Resolve(date, st.Offsets, st.Travel.Traveling, full); ok {
		return list, true, nil
	}
	if !st.Current.Coordinate.IsSet() {
		return nil, false, ErrNoLocation
	}

	month, err := o.fetch(ctx, st.Current.Coordinate, date, false)
	if err != nil {
		return nil, false, err
	}
	if err := o.cache.Store(ctx, month); err != nil {
		o.logger.Warn("Failed to persist timetable", "error", err)
	}
	list, ok := resolver.Resolve(date, st.Offsets, st.Travel.Traveling, full)
	return list, ok, nil
}

// FetchMonth downloads the month containing anchor for the current location,
// bypassing any in-flight request, and makes it the cached month.
func (o *Orchestrator) FetchMonth(ctx context.Context, anchor timetable.Date) (*timetable.Month, error) {
	st, err := o.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	coord := st.Current.Coordinate
	if !coord.IsSet() {
		return nil, ErrNoLocation
	}

	gen := o.started.Add(1)
	month, err := o.fetch(ctx, coord, anchor, true)
	if err != nil {
		return nil, err
	}
	if err := o.applyFetch(ctx, gen, coord, month); err != nil {
		return nil, err
	}
	return month, nil
}
