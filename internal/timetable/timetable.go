// Package timetable holds the raw monthly prayer timetable as supplied by the
// upstream provider, its wire codec, and the single-month cache the resolver
// reads from.
//
// A Month is immutable once fetched. Refetching replaces it wholesale.
package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/albapepper/waktu/internal/geo"
)

// Provider failures. Implementations wrap one of these so callers can tell a
// transport problem from a payload problem.
var (
	ErrNetwork = errors.New("timetable provider network failure")
	ErrDecode  = errors.New("timetable provider decode failure")
)

// Provider supplies a fresh monthly timetable for a coordinate. The anchor is
// any day inside the wanted month.
type Provider interface {
	Fetch(ctx context.Context, at geo.Coordinate, anchor Date) (*Month, error)
}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// DayTimetable is the six base instants for one calendar day.
type DayTimetable struct {
	Day     int
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time
}

// Instants returns the base instants in canonical order.
func (d DayTimetable) Instants() [6]time.Time {
	return [6]time.Time{d.Fajr, d.Sunrise, d.Dhuhr, d.Asr, d.Maghrib, d.Isha}
}

// Increasing reports whether the instants are strictly increasing and none is
// zero. The resolver does not require it; the provider is authoritative.
func (d DayTimetable) Increasing() bool {
	ts := d.Instants()
	for i, t := range ts {
		if t.IsZero() {
			return false
		}
		if i > 0 && !t.After(ts[i-1]) {
			return false
		}
	}
	return true
}

// Month is one calendar month of DayTimetables for a provider zone.
// Days[i] holds day i+1.
type Month struct {
	Zone  string
	Year  int
	Month time.Month
	Days  []DayTimetable
}

// Covers reports whether the month is the one containing d.
func (m *Month) Covers(d Date) bool {
	return m != nil && m.Year == d.Year && m.Month == d.Month
}

// Day returns the timetable for d, or false when d lies outside the month or
// the month has no entry for it.
func (m *Month) Day(d Date) (DayTimetable, bool) {
	if !m.Covers(d) || d.Day < 1 || d.Day > len(m.Days) {
		return DayTimetable{}, false
	}
	return m.Days[d.Day-1], true
}

// Validate checks that day numbers run 1..N without gaps and N fits the
// calendar month.
func (m *Month) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("month %d out of range", m.Month)
	}
	if len(m.Days) == 0 {
		return fmt.Errorf("%04d-%02d has no days", m.Year, int(m.Month))
	}
	limit := daysIn(m.Year, m.Month)
	if len(m.Days) > limit {
		return fmt.Errorf("%04d-%02d has %d days, calendar allows %d", m.Year, int(m.Month), len(m.Days), limit)
	}
	for i, d := range m.Days {
		if d.Day != i+1 {
			return fmt.Errorf("%04d-%02d: day %d at position %d", m.Year, int(m.Month), d.Day, i+1)
		}
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
