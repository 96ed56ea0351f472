package prayer

import (
	"testing"
	"time"
)

func TestLocate(t *testing.T) {
	today := Resolve(sampleDay(monday), monday, Offsets{}, false, false)
	tomorrow := Resolve(sampleDay(monday.AddDays(1)), monday.AddDays(1), Offsets{}, false, false)
	supplyTomorrow := func() (Prayer, bool) { return tomorrow[0], true }
	unresolved := func() (Prayer, bool) { return Prayer{}, false }

	tests := []struct {
		name        string
		now         time.Time
		supplier    func() (Prayer, bool)
		wantCurrent *Prayer
		wantNext    *Prayer
	}{
		{"before fajr wraps to last", at(monday, 4, 0), supplyTomorrow, &today[5], &today[0]},
		{"between dhuhr and asr", at(monday, 14, 0), supplyTomorrow, &today[2], &today[3]},
		{"exactly at asr counts as passed", today[3].Time, supplyTomorrow, &today[3], &today[4]},
		{"after isha rolls to tomorrow", at(monday, 23, 0), supplyTomorrow, &today[5], &tomorrow[0]},
		{"after isha, tomorrow unresolved", at(monday, 23, 0), unresolved, &today[5], nil},
		{"after isha, no supplier", at(monday, 23, 0), nil, &today[5], nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Locate(tt.now, today, tt.supplier)
			checkPrayer(t, "Current", got.Current, tt.wantCurrent)
			checkPrayer(t, "Next", got.Next, tt.wantNext)
		})
	}
}

func TestLocateEmpty(t *testing.T) {
	called := false
	got := Locate(at(monday, 12, 0), nil, func() (Prayer, bool) {
		called = true
		return Prayer{}, true
	})
	if got.Current != nil || got.Next != nil {
		t.Errorf("Locate(empty) = %+v, want empty position", got)
	}
	if called {
		t.Error("tomorrow supplier called for empty list")
	}
}

func checkPrayer(t *testing.T, label string, got, want *Prayer) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %v at %v, want nil", label, got.Key, got.Time)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %v at %v", label, want.Key, want.Time)
	case want != nil && !got.Equal(*want):
		t.Errorf("%s = %v at %v, want %v at %v", label, got.Key, got.Time, want.Key, want.Time)
	}
}
