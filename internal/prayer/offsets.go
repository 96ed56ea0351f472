package prayer

import (
	"errors"
	"fmt"
)

// Offset bounds in minutes, inclusive.
const (
	MinOffset = -10
	MaxOffset = 10
)

// ErrOutOfRange marks a configuration value outside its declared bound.
var ErrOutOfRange = errors.New("configuration value out of range")

// RangeError names the rejected field. It unwraps to ErrOutOfRange.
type RangeError struct {
	Field   string
	Value   int
	Allowed string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %d is out of range (allowed: %s)", e.Field, e.Value, e.Allowed)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Offsets are per-slot minute adjustments applied to the raw timetable.
type Offsets struct {
	Fajr        int `json:"fajr"`
	Sunrise     int `json:"sunrise"`
	Dhuhr       int `json:"dhuhr"`
	Asr         int `json:"asr"`
	Maghrib     int `json:"maghrib"`
	Isha        int `json:"isha"`
	DhuhrAsr    int `json:"dhuhr_asr"`
	MaghribIsha int `json:"maghrib_isha"`
}

// Validate rejects any slot outside [MinOffset, MaxOffset].
func (o Offsets) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"fajr", o.Fajr},
		{"sunrise", o.Sunrise},
		{"dhuhr", o.Dhuhr},
		{"asr", o.Asr},
		{"maghrib", o.Maghrib},
		{"isha", o.Isha},
		{"dhuhr_asr", o.DhuhrAsr},
		{"maghrib_isha", o.MaghribIsha},
	}
	for _, f := range fields {
		if f.value < MinOffset || f.value > MaxOffset {
			return &RangeError{
				Field:   "offset." + f.name,
				Value:   f.value,
				Allowed: fmt.Sprintf("%d..%d", MinOffset, MaxOffset),
			}
		}
	}
	return nil
}
