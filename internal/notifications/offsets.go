package notifications

import (
	"time"

	"github.com/albapepper/waktu/internal/timetable"
)

// OffsetsFor lists the minutes-before-prayer a reminder is due at for one
// prayer. 0 is the at-time reminder. Values may repeat; Plan deduplicates.
func OffsetsFor(pref Preference, naggingMode bool, naggingStart int) []int {
	var out []int
	if pref.Enabled {
		out = append(out, 0)
		if pref.PreMinutes > 0 {
			out = append(out, pref.PreMinutes)
		}
	}
	if naggingMode && pref.Nagging {
		out = append(out, Cascade(naggingStart)...)
	}
	return out
}

// Cascade is the escalating nagging sequence starting at start minutes:
// start, start-15, ... while above 15, the remainder if at least 5, then 10
// and 5 whenever they are below start.
func Cascade(start int) []int {
	if start <= 0 {
		return nil
	}
	var out []int
	m := start
	for m > cascadeStep {
		out = append(out, m)
		m -= cascadeStep
	}
	if m >= cascadeFloor {
		out = append(out, m)
	}
	for _, f := range forcedNags {
		if f < start {
			out = append(out, f)
		}
	}
	return out
}

// HorizonDays is how many days past today get reminders: 1 in nagging mode,
// otherwise 3.
func HorizonDays(naggingMode bool) int {
	if naggingMode {
		return 1
	}
	return 3
}

// PlanDates lists today and the horizon days after it.
func PlanDates(today timetable.Date, naggingMode bool) []timetable.Date {
	n := HorizonDays(naggingMode)
	out := make([]timetable.Date, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, today.AddDays(i))
	}
	return out
}

// RefreshCheckpoints are the instants refresh nudges fire at: local noon two
// and three days out, plus tomorrow in nagging mode.
func RefreshCheckpoints(today timetable.Date, naggingMode bool, loc *time.Location) []time.Time {
	days := []int{2, 3}
	if naggingMode {
		days = []int{1, 2, 3}
	}
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, today.AddDays(d).At(refreshHour, 0, loc))
	}
	return out
}
