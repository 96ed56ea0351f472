package timetable

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// wireMonth is the waktusolat GPS month payload. The cache persists the same
// shape so a stored month and a fetched one decode identically.
type wireMonth struct {
	Zone        string    `json:"zone"`
	Year        int       `json:"year"`
	MonthNumber int       `json:"month_number"`
	Prayers     []wireDay `json:"prayers"`
}

// wireDay carries unix-second instants.
type wireDay struct {
	Day     int   `json:"day"`
	Fajr    int64 `json:"fajr"`
	Syuruk  int64 `json:"syuruk"`
	Dhuhr   int64 `json:"dhuhr"`
	Asr     int64 `json:"asr"`
	Maghrib int64 `json:"maghrib"`
	Isha    int64 `json:"isha"`
}

// Decode parses a month payload, placing instants in loc. Failures wrap
// ErrDecode.
func Decode(data []byte, loc *time.Location) (*Month, error) {
	if loc == nil {
		loc = time.UTC
	}

	var w wireMonth
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	sort.Slice(w.Prayers, func(i, j int) bool { return w.Prayers[i].Day < w.Prayers[j].Day })

	m := &Month{
		Zone:  w.Zone,
		Year:  w.Year,
		Month: time.Month(w.MonthNumber),
		Days:  make([]DayTimetable, 0, len(w.Prayers)),
	}
	for _, p := range w.Prayers {
		m.Days = append(m.Days, DayTimetable{
			Day:     p.Day,
			Fajr:    unix(p.Fajr, loc),
			Sunrise: unix(p.Syuruk, loc),
			Dhuhr:   unix(p.Dhuhr, loc),
			Asr:     unix(p.Asr, loc),
			Maghrib: unix(p.Maghrib, loc),
			Isha:    unix(p.Isha, loc),
		})
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return m, nil
}

// Encode renders m in the wire shape Decode accepts.
func Encode(m *Month) ([]byte, error) {
	w := wireMonth{
		Zone:        m.Zone,
		Year:        m.Year,
		MonthNumber: int(m.Month),
		Prayers:     make([]wireDay, 0, len(m.Days)),
	}
	for _, d := range m.Days {
		w.Prayers = append(w.Prayers, wireDay{
			Day:     d.Day,
			Fajr:    d.Fajr.Unix(),
			Syuruk:  d.Sunrise.Unix(),
			Dhuhr:   d.Dhuhr.Unix(),
			Asr:     d.Asr.Unix(),
			Maghrib: d.Maghrib.Unix(),
			Isha:    d.Isha.Unix(),
		})
	}
	return json.Marshal(w)
}

func unix(sec int64, loc *time.Location) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).In(loc)
}
