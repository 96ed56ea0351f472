// Package calendar converts between the Gregorian and Umm al-Qura Hijri
// calendars and resolves the recurring Islamic dates reminders are sent for.
package calendar

import (
	"fmt"
	"time"

	"github.com/hablullah/go-hijri"
)

// EventHour is the local hour special-date reminders fire at.
const EventHour = 9

var monthNames = [...]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhul-Qadah", "Dhul-Hijjah",
}

// HijriDate is a day in the Umm al-Qura calendar.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// MonthName is the English transliteration of the month.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > len(monthNames) {
		return fmt.Sprintf("Month %d", h.Month)
	}
	return monthNames[h.Month-1]
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName(), h.Year)
}

// Today returns the Hijri date of now in loc, shifted by offsetDays to match
// local moon sighting.
func Today(now time.Time, loc *time.Location, offsetDays int) (HijriDate, error) {
	local := now.In(loc).AddDate(0, 0, offsetDays)
	u, err := hijri.CreateUmmAlQuraDate(civil(local.Year(), local.Month(), local.Day()))
	if err != nil {
		return HijriDate{}, fmt.Errorf("convert %s to hijri: %w", local.Format("2006-01-02"), err)
	}
	return HijriDate{Year: int(u.Year), Month: int(u.Month), Day: int(u.Day)}, nil
}

// ToGregorian returns the Gregorian civil day of h, undoing offsetDays.
func ToGregorian(h HijriDate, offsetDays int) (year int, month time.Month, day int) {
	u := hijri.UmmAlQuraDate{Year: int64(h.Year), Month: int64(h.Month), Day: int64(h.Day)}
	g := u.ToGregorian()
	shifted := civil(g.Year(), g.Month(), g.Day()).AddDate(0, 0, -offsetDays)
	return shifted.Year(), shifted.Month(), shifted.Day()
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// --------------------------------------------------------------------------
// Special dates
// --------------------------------------------------------------------------

// Event is a recurring date fixed in the Hijri calendar.
type Event struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
}

// Events are the dates reminders are offered for.
var Events = []Event{
	{"Islamic New Year", "Start of Hijri year", 1, 1},
	{"Day Before Ashura", "Recommended to fast", 1, 9},
	{"Day of Ashura", "Recommended to fast", 1, 10},
	{"First Day of Ramadan", "Begin obligatory fast", 9, 1},
	{"Last 10 Nights of Ramadan", "Seek Laylatul Qadr", 9, 21},
	{"27th Night of Ramadan", "Likely Laylatul Qadr", 9, 27},
	{"Eid Al-Fitr", "Celebration of ending the fast", 10, 1},
	{"First 10 Days of Dhul-Hijjah", "Most beloved days", 12, 1},
	{"Beginning of Hajj", "Pilgrimage begins", 12, 8},
	{"Day of Arafah", "Recommended to fast", 12, 9},
	{"Eid Al-Adha", "Celebration of sacrifice during Hajj", 12, 10},
	{"End of Eid Al-Adha", "Hajj and Eid end", 12, 13},
}

// Occurrence is an Event resolved to a local instant.
type Occurrence struct {
	Event Event     `json:"event"`
	At    time.Time `json:"at"`
}

// Upcoming resolves each event to its nearest occurrence strictly after now,
// at EventHour local time.
func Upcoming(now time.Time, loc *time.Location, offsetDays int, events []Event) ([]Occurrence, error) {
	today, err := Today(now, loc, offsetDays)
	if err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0, len(events))
	for _, ev := range events {
		for _, year := range []int{today.Year, today.Year + 1} {
			y, m, d := ToGregorian(HijriDate{Year: year, Month: ev.Month, Day: ev.Day}, offsetDays)
			at := time.Date(y, m, d, EventHour, 0, 0, 0, loc)
			if at.After(now) {
				out = append(out, Occurrence{Event: ev, At: at})
				break
			}
		}
	}
	return out, nil
}
