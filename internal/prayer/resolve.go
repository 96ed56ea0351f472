package prayer

import (
	"time"

	"github.com/albapepper/waktu/internal/timetable"
)

// DaySource looks up raw timetables by calendar day. timetable.Cache
// satisfies it.
type DaySource interface {
	Day(d timetable.Date) (timetable.DayTimetable, bool)
}

// Resolver resolves days against a DaySource.
type Resolver struct {
	Days DaySource
}

// Resolve returns the ordered prayers for date. It reports false when the
// source has no timetable for the day; callers should fetch and retry.
func (r Resolver) Resolve(date timetable.Date, offsets Offsets, traveling, full bool) ([]Prayer, bool) {
	day, ok := r.Days.Day(date)
	if !ok {
		return nil, false
	}
	return Resolve(day, date, offsets, traveling, full), true
}

// Resolve applies offsets, Friday substitution and travel grouping to one
// raw day.
//
// With traveling set and full unset the result is exactly four prayers:
// Fajr, Sunrise, Dhuhr/Asr and Maghrib/Isha. The combined entries sit on the
// unadjusted Dhuhr and Maghrib instants shifted by their own offsets.
// Otherwise the result is the six base slots, with Jumuah in place of Dhuhr
// on Fridays. Source order is kept as-is even if the day is malformed.
func Resolve(day timetable.DayTimetable, date timetable.Date, offsets Offsets, traveling, full bool) []Prayer {
	fajr := New(Fajr, shift(day.Fajr, offsets.Fajr))
	sunrise := New(Sunrise, shift(day.Sunrise, offsets.Sunrise))

	if traveling && !full {
		return []Prayer{
			fajr,
			sunrise,
			New(DhuhrAsr, shift(day.Dhuhr, offsets.DhuhrAsr)),
			New(MaghribIsha, shift(day.Maghrib, offsets.MaghribIsha)),
		}
	}

	noon := Dhuhr
	if date.Weekday() == time.Friday {
		noon = Jumuah
	}

	return []Prayer{
		fajr,
		sunrise,
		New(noon, shift(day.Dhuhr, offsets.Dhuhr)),
		New(Asr, shift(day.Asr, offsets.Asr)),
		New(Maghrib, shift(day.Maghrib, offsets.Maghrib)),
		New(Isha, shift(day.Isha, offsets.Isha)),
	}
}

func shift(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}
