// Package notifications plans the reminders for resolved prayer days and hands
// them to a Sink.
//
// Pipeline: resolved days + preferences → Plan → Sink.ReplaceAll. A plan is
// always the complete set; sinks replace whatever they held before. A
// background dispatch worker delivers due reminders from the memory sink.
package notifications

import (
	"fmt"
	"time"

	"github.com/albapepper/waktu/internal/prayer"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	DefaultTitle = "Waktu Solat"

	refreshHour      = 12 // local noon
	dispatchInterval = 30 * time.Second

	maxPreMinutes  = 30
	preMinutesStep = 5
	cascadeStep    = 15
	cascadeFloor   = 5
)

// NaggingStarts are the allowed first offsets of a nagging cascade.
var NaggingStarts = []int{10, 15, 30, 45}

// Minutes always added to a cascade when below its start.
var forcedNags = []int{10, 5}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Category classifies a reminder.
type Category string

const (
	CategoryPrayer        Category = "prayer"
	CategoryNagging       Category = "nagging"
	CategoryCalendarEvent Category = "calendar-event"
	CategoryRefreshNudge  Category = "refresh-nudge"
	CategoryTravelNotice  Category = "travel-notice"
)

// Reminder is one scheduled local notification. IDs are deterministic, so
// planning the same inputs twice yields the same set.
type Reminder struct {
	ID       string    `json:"id"`
	FireAt   time.Time `json:"fire_at"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Category Category  `json:"category"`
	Prayer   string    `json:"prayer,omitempty"`
	Offset   int       `json:"offset_minutes,omitempty"`
}

// Preference is the reminder configuration of one base prayer.
type Preference struct {
	Enabled    bool `json:"enabled"`
	PreMinutes int  `json:"pre_minutes"`
	Nagging    bool `json:"nagging"`
}

// Preferences holds one Preference per base prayer plus the global knobs.
type Preferences struct {
	Prayers        map[prayer.Key]Preference `json:"prayers"`
	NaggingMode    bool                      `json:"nagging_mode"`
	NaggingStart   int                       `json:"nagging_start"`
	CalendarEvents bool                      `json:"calendar_events"`
}

// DefaultPreferences enables an at-time reminder for every prayer, with no
// pre-reminder, nagging off and calendar reminders on.
func DefaultPreferences() Preferences {
	p := Preferences{
		Prayers:        make(map[prayer.Key]Preference, len(prayer.BaseKeys)),
		NaggingStart:   30,
		CalendarEvents: true,
	}
	for _, k := range prayer.BaseKeys {
		p.Prayers[k] = Preference{Enabled: true}
	}
	return p
}

// For returns the preference governing k. Grouped and substituted keys share
// their base prayer's record.
func (p Preferences) For(k prayer.Key) Preference {
	return p.Prayers[k.Base()]
}

// Validate rejects non-base keys and out-of-range values. Errors unwrap to
// prayer.ErrOutOfRange.
func (p Preferences) Validate() error {
	for k, pref := range p.Prayers {
		if !k.IsBase() {
			return fmt.Errorf("preferences for %v: only base prayers carry preferences: %w", k, prayer.ErrOutOfRange)
		}
		if pref.PreMinutes < 0 || pref.PreMinutes > maxPreMinutes || pref.PreMinutes%preMinutesStep != 0 {
			return &prayer.RangeError{
				Field:   "notifications." + k.String() + ".pre_minutes",
				Value:   pref.PreMinutes,
				Allowed: fmt.Sprintf("0..%d step %d", maxPreMinutes, preMinutesStep),
			}
		}
	}
	for _, s := range NaggingStarts {
		if p.NaggingStart == s {
			return nil
		}
	}
	return &prayer.RangeError{
		Field:   "notifications.nagging_start",
		Value:   p.NaggingStart,
		Allowed: fmt.Sprint(NaggingStarts),
	}
}
