package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/waktu/internal/calendar"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/timetable"
)

var myt = time.FixedZone("MYT", 8*3600)

// Monday 6 January 2025.
var monday = timetable.Date{Year: 2025, Month: time.January, Day: 6}

func sampleDay(d timetable.Date) []prayer.Prayer {
	raw := timetable.DayTimetable{
		Day:     d.Day,
		Fajr:    d.At(5, 0, myt),
		Sunrise: d.At(6, 15, myt),
		Dhuhr:   d.At(13, 0, myt),
		Asr:     d.At(16, 30, myt),
		Maghrib: d.At(19, 5, myt),
		Isha:    d.At(20, 20, myt),
	}
	return prayer.Resolve(raw, d, prayer.Offsets{}, false, false)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --------------------------------------------------------------------------
// Offsets
// --------------------------------------------------------------------------

func TestCascade(t *testing.T) {
	tests := []struct {
		start int
		want  []int
	}{
		{10, []int{10, 5}},
		{15, []int{15, 10, 5}},
		{30, []int{30, 15, 10, 5}},
		{45, []int{45, 30, 15, 10, 5}},
		{0, nil},
	}
	for _, tt := range tests {
		if got := Cascade(tt.start); !equalInts(got, tt.want) {
			t.Errorf("Cascade(%d) = %v, want %v", tt.start, got, tt.want)
		}
	}
}

func TestOffsetsFor(t *testing.T) {
	tests := []struct {
		name  string
		pref  Preference
		mode  bool
		start int
		want  []int
	}{
		{"disabled", Preference{}, false, 30, nil},
		{"at time only", Preference{Enabled: true}, false, 30, []int{0}},
		{"with pre reminder", Preference{Enabled: true, PreMinutes: 10}, false, 30, []int{0, 10}},
		{"nagging flag without mode", Preference{Enabled: true, Nagging: true}, false, 30, []int{0}},
		{"nagging only", Preference{Nagging: true}, true, 15, []int{15, 10, 5}},
	}
	for _, tt := range tests {
		if got := OffsetsFor(tt.pref, tt.mode, tt.start); !equalInts(got, tt.want) {
			t.Errorf("%s: OffsetsFor = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlanDates(t *testing.T) {
	if got := PlanDates(monday, false); len(got) != 4 || got[3] != monday.AddDays(3) {
		t.Errorf("PlanDates(normal) = %v, want today plus 3 days", got)
	}
	if got := PlanDates(monday, true); len(got) != 2 || got[1] != monday.AddDays(1) {
		t.Errorf("PlanDates(nagging) = %v, want today plus 1 day", got)
	}
}

func TestRefreshCheckpoints(t *testing.T) {
	got := RefreshCheckpoints(monday, false, myt)
	want := []time.Time{monday.AddDays(2).At(12, 0, myt), monday.AddDays(3).At(12, 0, myt)}
	if len(got) != len(want) {
		t.Fatalf("RefreshCheckpoints = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("checkpoint[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if n := len(RefreshCheckpoints(monday, true, myt)); n != 3 {
		t.Errorf("nagging checkpoints = %d, want 3", n)
	}
}

// --------------------------------------------------------------------------
// Plan
// --------------------------------------------------------------------------

func TestPlanFajrOffsetsDeduplicated(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.NaggingMode = true
	prefs.NaggingStart = 30
	prefs.Prayers[prayer.Fajr] = Preference{Enabled: true, PreMinutes: 5, Nagging: true}

	now := monday.At(0, 0, myt)
	got := Plan(now, Input{
		Days:        map[timetable.Date][]prayer.Prayer{monday: sampleDay(monday)},
		Preferences: prefs,
		Place:       "Kuala Lumpur",
	})

	var offsets []int
	categories := make(map[int]Category)
	for _, r := range got {
		if r.Prayer != "Fajr" {
			continue
		}
		offsets = append(offsets, r.Offset)
		categories[r.Offset] = r.Category
	}
	sort.Ints(offsets)
	if want := []int{0, 5, 10, 15, 30}; !equalInts(offsets, want) {
		t.Fatalf("Fajr offsets = %v, want %v", offsets, want)
	}
	for _, m := range []int{0, 5} {
		if categories[m] != CategoryPrayer {
			t.Errorf("category at %d = %q, want %q", m, categories[m], CategoryPrayer)
		}
	}
	for _, m := range []int{10, 15, 30} {
		if categories[m] != CategoryNagging {
			t.Errorf("category at %d = %q, want %q", m, categories[m], CategoryNagging)
		}
	}
}

func TestPlanOnlyFutureUniqueSorted(t *testing.T) {
	now := monday.At(13, 0, myt) // exactly Dhuhr
	got := Plan(now, Input{
		Days:               map[timetable.Date][]prayer.Prayer{monday: sampleDay(monday), monday.AddDays(1): sampleDay(monday.AddDays(1))},
		Preferences:        DefaultPreferences(),
		Place:              "Kuala Lumpur",
		RefreshCheckpoints: RefreshCheckpoints(monday, false, myt),
	})

	seen := make(map[string]bool)
	for i, r := range got {
		if !r.FireAt.After(now) {
			t.Errorf("reminder %s fires at %v, not after %v", r.ID, r.FireAt, now)
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
		if i > 0 && r.FireAt.Before(got[i-1].FireAt) {
			t.Errorf("reminders out of order at %d", i)
		}
	}
	if seen["Dhuhr-0-2025-1-6"] {
		t.Error("at-time Dhuhr reminder firing at now was kept")
	}
	if !seen["Asr-0-2025-1-6"] {
		t.Error("Asr-0-2025-1-6 missing")
	}
	if !seen["Fajr-0-2025-1-7"] {
		t.Error("Fajr-0-2025-1-7 missing")
	}
	if !seen["RefreshReminder-2025-01-08"] || !seen["RefreshReminder-2025-01-09"] {
		t.Errorf("refresh nudges missing from %v", seen)
	}

	// Asr, Maghrib and Isha today + 6 tomorrow + 2 nudges
	if len(got) != 11 {
		t.Errorf("len(Plan) = %d, want 11", len(got))
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	in := Input{
		Days:        map[timetable.Date][]prayer.Prayer{monday: sampleDay(monday), monday.AddDays(1): sampleDay(monday.AddDays(1))},
		Preferences: DefaultPreferences(),
		Place:       "Kuala Lumpur",
	}
	now := monday.At(0, 0, myt)
	a, b := Plan(now, in), Plan(now, in)
	if len(a) != len(b) {
		t.Fatalf("len differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].FireAt.Equal(b[i].FireAt) {
			t.Errorf("reminder %d differs: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestPlanSkipsEmptyAndMalformedDays(t *testing.T) {
	broken := sampleDay(monday.AddDays(1))
	broken[2].Time = time.Time{}

	got := Plan(monday.At(0, 0, myt), Input{
		Days: map[timetable.Date][]prayer.Prayer{
			monday:            nil,
			monday.AddDays(1): broken,
		},
		Preferences: DefaultPreferences(),
	})
	if len(got) != 0 {
		t.Errorf("Plan = %d reminders, want 0", len(got))
	}
}

func TestPlanBodies(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Prayers[prayer.Fajr] = Preference{Enabled: true, PreMinutes: 10}

	got := Plan(monday.At(0, 0, myt), Input{
		Days:        map[timetable.Date][]prayer.Prayer{monday: sampleDay(monday)},
		Preferences: prefs,
		Place:       "Kuala Lumpur",
		Traveling:   true,
	})
	bodies := make(map[string]string)
	for _, r := range got {
		bodies[r.ID] = r.Body
		if r.Title != DefaultTitle {
			t.Errorf("%s title = %q, want %q", r.ID, r.Title, DefaultTitle)
		}
	}

	tests := map[string]string{
		"Fajr-0-2025-1-6":    "Time for Fajr at 5:00 AM in Kuala Lumpur (traveling) [ends at 6:15 AM]",
		"Fajr-10-2025-1-6":   "10m until Fajr in Kuala Lumpur (traveling) [5:00 AM]",
		"Shurooq-0-2025-1-6": "Time for Shurooq (end of Fajr) at 6:15 AM in Kuala Lumpur (traveling)",
	}
	for id, want := range tests {
		if bodies[id] != want {
			t.Errorf("body[%s] = %q, want %q", id, bodies[id], want)
		}
	}
}

func TestPlanCalendarEventsToggle(t *testing.T) {
	occ := calendar.Occurrence{
		Event: calendar.Event{Title: "Day of Arafah", Subtitle: "Recommended to fast", Month: 12, Day: 9},
		At:    time.Date(2025, time.June, 5, calendar.EventHour, 0, 0, 0, myt),
	}
	now := monday.At(0, 0, myt)

	prefs := DefaultPreferences()
	got := Plan(now, Input{Preferences: prefs, SpecialDates: []calendar.Occurrence{occ}})
	if len(got) != 1 {
		t.Fatalf("len(Plan) = %d, want 1", len(got))
	}
	if got[0].ID != "HijriEvent-12-09-2025" {
		t.Errorf("ID = %q, want HijriEvent-12-09-2025", got[0].ID)
	}
	if got[0].Body != "Day of Arafah (Recommended to fast)" {
		t.Errorf("Body = %q", got[0].Body)
	}
	if got[0].Category != CategoryCalendarEvent {
		t.Errorf("Category = %q, want %q", got[0].Category, CategoryCalendarEvent)
	}

	prefs.CalendarEvents = false
	if got := Plan(now, Input{Preferences: prefs, SpecialDates: []calendar.Occurrence{occ}}); len(got) != 0 {
		t.Errorf("calendar reminders off: len(Plan) = %d, want 0", len(got))
	}
}

func TestTravelNotice(t *testing.T) {
	now := monday.At(10, 0, myt)
	r := TravelNotice(now, true, "Ipoh", "")
	if r.ID != "TravelingMode" {
		t.Errorf("ID = %q, want TravelingMode", r.ID)
	}
	if !r.FireAt.After(now) {
		t.Errorf("FireAt = %v, want after %v", r.FireAt, now)
	}
	if want := "Traveling mode automatically turned on at Ipoh"; r.Body != want {
		t.Errorf("Body = %q, want %q", r.Body, want)
	}
	if r := TravelNotice(now, false, "Ipoh", "Custom"); r.Title != "Custom" || !strings.Contains(r.Body, "turned off") {
		t.Errorf("off notice = %+v", r)
	}
}

// --------------------------------------------------------------------------
// Preferences
// --------------------------------------------------------------------------

func TestPreferencesValidate(t *testing.T) {
	if err := DefaultPreferences().Validate(); err != nil {
		t.Fatalf("DefaultPreferences().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Preferences)
	}{
		{"pre minutes off step", func(p *Preferences) { p.Prayers[prayer.Asr] = Preference{Enabled: true, PreMinutes: 7} }},
		{"pre minutes too large", func(p *Preferences) { p.Prayers[prayer.Asr] = Preference{Enabled: true, PreMinutes: 35} }},
		{"nagging start", func(p *Preferences) { p.NaggingStart = 20 }},
		{"grouped key", func(p *Preferences) { p.Prayers[prayer.DhuhrAsr] = Preference{Enabled: true} }},
	}
	for _, tt := range tests {
		p := DefaultPreferences()
		tt.mutate(&p)
		err := p.Validate()
		if !errors.Is(err, prayer.ErrOutOfRange) {
			t.Errorf("%s: Validate() = %v, want ErrOutOfRange", tt.name, err)
		}
	}
}

func TestPreferencesForSharesBaseRecord(t *testing.T) {
	p := DefaultPreferences()
	p.Prayers[prayer.Dhuhr] = Preference{Enabled: true, PreMinutes: 15}
	if got := p.For(prayer.Jumuah); got.PreMinutes != 15 {
		t.Errorf("For(Jumuah).PreMinutes = %d, want 15", got.PreMinutes)
	}
	if got := p.For(prayer.DhuhrAsr); got.PreMinutes != 15 {
		t.Errorf("For(DhuhrAsr).PreMinutes = %d, want 15", got.PreMinutes)
	}
}

// --------------------------------------------------------------------------
// Sink and dispatch
// --------------------------------------------------------------------------

type failingDeliverer struct{ calls int }

func (f *failingDeliverer) Deliver(context.Context, Reminder) error {
	f.calls++
	return errors.New("boom")
}

func TestMemorySinkClaimDue(t *testing.T) {
	ctx := context.Background()
	now := monday.At(12, 0, myt)
	sink := NewMemorySink()
	plan := []Reminder{
		{ID: "a", FireAt: now.Add(-time.Minute)},
		{ID: "b", FireAt: now.Add(time.Hour)},
	}
	if err := sink.ReplaceAll(ctx, plan); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	due := sink.ClaimDue(now)
	if len(due) != 1 || due[0].ID != "a" {
		t.Fatalf("ClaimDue = %v, want [a]", due)
	}
	if due := sink.ClaimDue(now); len(due) != 0 {
		t.Errorf("second ClaimDue = %v, want none", due)
	}

	// A replan keeps delivery state for surviving IDs.
	if err := sink.ReplaceAll(ctx, plan); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if due := sink.ClaimDue(now.Add(2 * time.Hour)); len(due) != 1 || due[0].ID != "b" {
		t.Errorf("ClaimDue after replan = %v, want [b]", due)
	}

	got, _ := sink.Reminders()
	if len(got) != 2 {
		t.Errorf("Reminders() = %d, want 2", len(got))
	}
}

func TestDispatchDueCountsFailures(t *testing.T) {
	now := monday.At(12, 0, myt)
	sink := NewMemorySink()
	_ = sink.ReplaceAll(context.Background(), []Reminder{
		{ID: "a", FireAt: now.Add(-time.Minute)},
		{ID: "b", FireAt: now.Add(-2 * time.Minute)},
	})

	d := &failingDeliverer{}
	sent, failed := dispatchDue(context.Background(), sink, d, now, discardLogger())
	if sent != 0 || failed != 2 || d.calls != 2 {
		t.Errorf("dispatchDue = (%d, %d) calls %d, want (0, 2) calls 2", sent, failed, d.calls)
	}

	sent, failed = dispatchDue(context.Background(), sink, NewLogDeliverer(discardLogger()), now, discardLogger())
	if sent != 0 || failed != 0 {
		t.Errorf("redispatch = (%d, %d), want (0, 0)", sent, failed)
	}
}

func TestNilLogDeliverer(t *testing.T) {
	var d *LogDeliverer
	if err := d.Deliver(context.Background(), Reminder{ID: "x"}); err != nil {
		t.Errorf("nil Deliver = %v", err)
	}
}

// --------------------------------------------------------------------------
// iCalendar
// --------------------------------------------------------------------------

func TestEncodeICS(t *testing.T) {
	got := Plan(monday.At(0, 0, myt), Input{
		Days:        map[timetable.Date][]prayer.Prayer{monday: sampleDay(monday)},
		Preferences: DefaultPreferences(),
		Place:       "Kuala Lumpur",
	})
	data, err := EncodeICS(got, monday.At(0, 0, myt))
	if err != nil {
		t.Fatalf("EncodeICS: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:Fajr-0-2025-1-6@waktu",
		"DTSTART:20250105T210000Z",
		"SUMMARY:Waktu Solat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 6 {
		t.Errorf("VEVENT count = %d, want 6", n)
	}
}

func TestEncodeICSEmptyPlan(t *testing.T) {
	if _, err := EncodeICS(nil, time.Now()); !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("EncodeICS(nil) = %v, want ErrEmptyPlan", err)
	}
}
