package prayer

import "time"

// Position is the current and next prayer relative to an instant. Either may
// be nil.
type Position struct {
	Current *Prayer `json:"current"`
	Next    *Prayer `json:"next"`
}

// Locate finds the current and next prayer at now.
//
// Next is the first prayer strictly after now, so a prayer whose instant
// equals now already counts as current. Before the first prayer of the day,
// Current is the last entry of today's list. After the last prayer, Next
// comes from tomorrowFirst, which may report false when tomorrow is not
// resolvable.
func Locate(now time.Time, today []Prayer, tomorrowFirst func() (Prayer, bool)) Position {
	if len(today) == 0 {
		return Position{}
	}

	for i := range today {
		if !today[i].Time.After(now) {
			continue
		}
		next := today[i]
		current := today[len(today)-1]
		if i > 0 {
			current = today[i-1]
		}
		return Position{Current: &current, Next: &next}
	}

	current := today[len(today)-1]
	pos := Position{Current: &current}
	if tomorrowFirst != nil {
		if first, ok := tomorrowFirst(); ok {
			pos.Next = &first
		}
	}
	return pos
}
