// Package prayer resolves a day's prayers from raw timetable instants and
// tracks which prayer is current and next.
//
// Everything here is pure: inputs are values, outputs are fresh values, and
// nothing performs I/O.
package prayer

import "time"

// Names are the display names of a prayer.
type Names struct {
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	English         string `json:"english"`
}

// Prayer is one resolved prayer instant. Values are never mutated after
// construction.
type Prayer struct {
	Key          Key       `json:"key"`
	Names        Names     `json:"names"`
	Time         time.Time `json:"time"`
	Icon         string    `json:"icon"`
	Rakah        string    `json:"rakah"`
	SunnahBefore string    `json:"sunnah_before"`
	SunnahAfter  string    `json:"sunnah_after"`
}

// New builds the prayer for key at t with its static metadata.
func New(key Key, t time.Time) Prayer {
	meta := catalog[key]
	return Prayer{
		Key:          key,
		Names:        meta.names,
		Time:         t,
		Icon:         meta.icon,
		Rakah:        meta.rakah,
		SunnahBefore: meta.sunnahBefore,
		SunnahAfter:  meta.sunnahAfter,
	}
}

// Equal compares by key and instant.
func (p Prayer) Equal(o Prayer) bool {
	return p.Key == o.Key && p.Time.Equal(o.Time)
}

type metadata struct {
	names        Names
	icon         string
	rakah        string
	sunnahBefore string
	sunnahAfter  string
}

var catalog = map[Key]metadata{
	Fajr:        {Names{"الفَجْر", "Fajr", "Dawn"}, "sunrise", "2", "2", "0"},
	Sunrise:     {Names{"الشُرُوق", "Shurooq", "Sunrise"}, "sunrise.fill", "0", "0", "0"},
	Dhuhr:       {Names{"الظُهْر", "Dhuhr", "Noon"}, "sun.max", "4", "2 and 2", "2"},
	Asr:         {Names{"العَصْر", "Asr", "Afternoon"}, "sun.min", "4", "0", "0"},
	Maghrib:     {Names{"المَغْرِب", "Maghrib", "Sunset"}, "sunset", "3", "0", "2"},
	Isha:        {Names{"العِشَاء", "Isha", "Night"}, "moon", "4", "0", "2"},
	Jumuah:      {Names{"الجُمُعَة", "Jumuah", "Friday"}, "sun.max.fill", "2", "0", "2 and 2"},
	DhuhrAsr:    {Names{"الظُهْر وَالْعَصْر", "Dhuhr/Asr", "Daytime"}, "sun.max", "2 and 2", "0", "0"},
	MaghribIsha: {Names{"المَغْرِب وَالْعِشَاء", "Maghrib/Isha", "Nighttime"}, "sunset", "3 and 2", "0", "0"},
}
