package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const icsProductID = "-//waktu//Prayer Reminders//EN"

// ErrEmptyPlan is returned by EncodeICS when there is nothing to export. A
// VCALENDAR must hold at least one component.
var ErrEmptyPlan = errors.New("no reminders to export")

// EncodeICS renders reminders as an iCalendar feed, one zero-length VEVENT
// per reminder. stamp is written as DTSTAMP.
func EncodeICS(reminders []Reminder, stamp time.Time) ([]byte, error) {
	if len(reminders) == 0 {
		return nil, ErrEmptyPlan
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, r := range reminders {
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, r.ID+"@waktu")
		vevent.Props.SetText(ical.PropSummary, r.Title)
		vevent.Props.SetText(ical.PropDescription, r.Body)
		vevent.Props.SetText(ical.PropCategories, string(r.Category))
		vevent.Props.SetDateTime(ical.PropDateTimeStart, r.FireAt.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, r.FireAt.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		cal.Children = append(cal.Children, vevent.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
