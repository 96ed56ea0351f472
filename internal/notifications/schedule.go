package notifications

import (
	"fmt"
	"sort"
	"time"

	"github.com/albapepper/waktu/internal/calendar"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/timetable"
)

// Input is everything one planning pass looks at.
type Input struct {
	// Days maps each date in scope to its resolved prayers. Dates with an
	// empty or malformed list are skipped.
	Days map[timetable.Date][]prayer.Prayer

	Preferences Preferences

	// Place names the location in reminder bodies.
	Place     string
	Traveling bool

	SpecialDates       []calendar.Occurrence
	RefreshCheckpoints []time.Time

	// Title defaults to DefaultTitle.
	Title string
}

// Plan builds the complete reminder set. Only reminders firing strictly
// after now are kept; IDs are unique. The result is sorted by fire time.
func Plan(now time.Time, in Input) []Reminder {
	title := in.Title
	if title == "" {
		title = DefaultTitle
	}

	var out []Reminder
	seen := make(map[string]struct{})
	add := func(r Reminder) {
		if !r.FireAt.After(now) {
			return
		}
		if _, dup := seen[r.ID]; dup {
			return
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	prefs := in.Preferences
	for date, list := range in.Days {
		if !wellFormed(list) {
			continue
		}
		for _, p := range list {
			pref := prefs.For(p.Key)
			for _, m := range OffsetsFor(pref, prefs.NaggingMode, prefs.NaggingStart) {
				add(Reminder{
					ID:       prayerReminderID(p, m, date),
					FireAt:   p.Time.Add(-time.Duration(m) * time.Minute),
					Title:    title,
					Body:     prayerBody(p, m, in.Place, in.Traveling, list),
					Category: prayerCategory(pref, m),
					Prayer:   p.Key.String(),
					Offset:   m,
				})
			}
		}
	}

	if prefs.CalendarEvents {
		for _, o := range in.SpecialDates {
			add(Reminder{
				ID:       fmt.Sprintf("HijriEvent-%02d-%02d-%04d", o.Event.Month, o.Event.Day, o.At.Year()),
				FireAt:   o.At,
				Title:    title,
				Body:     fmt.Sprintf("%s (%s)", o.Event.Title, o.Event.Subtitle),
				Category: CategoryCalendarEvent,
			})
		}
	}

	for _, at := range in.RefreshCheckpoints {
		add(Reminder{
			ID:       fmt.Sprintf("RefreshReminder-%04d-%02d-%02d", at.Year(), int(at.Month()), at.Day()),
			FireAt:   at,
			Title:    title,
			Body:     refreshBody,
			Category: CategoryRefreshNudge,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].FireAt.Before(out[j].FireAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TravelNotice is the immediate reminder announcing an automatic travel-mode
// change.
func TravelNotice(now time.Time, turnedOn bool, place, title string) Reminder {
	if title == "" {
		title = DefaultTitle
	}
	state := "off"
	if turnedOn {
		state = "on"
	}
	return Reminder{
		ID:       "TravelingMode",
		FireAt:   now.Add(time.Second),
		Title:    title,
		Body:     fmt.Sprintf("Traveling mode automatically turned %s at %s", state, place),
		Category: CategoryTravelNotice,
	}
}

func prayerReminderID(p prayer.Prayer, minutes int, date timetable.Date) string {
	return fmt.Sprintf("%s-%d-%d-%d-%d", p.Names.Transliteration, minutes, date.Year, int(date.Month), date.Day)
}

func prayerCategory(pref Preference, minutes int) Category {
	if minutes == 0 || (pref.Enabled && minutes == pref.PreMinutes) {
		return CategoryPrayer
	}
	return CategoryNagging
}

func wellFormed(list []prayer.Prayer) bool {
	if len(list) == 0 {
		return false
	}
	for _, p := range list {
		if p.Time.IsZero() || !p.Key.Valid() {
			return false
		}
	}
	return true
}
