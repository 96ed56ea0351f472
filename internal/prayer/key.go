package prayer

import "fmt"

// Key is a canonical prayer key: one of the six base slots or a derived
// variant (Jumuah on Fridays, the two combined travel prayers).
type Key int

const (
	Fajr Key = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
	Jumuah
	DhuhrAsr
	MaghribIsha
)

// BaseKeys lists the six base slots in daily order.
var BaseKeys = [...]Key{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

var keyNames = [...]string{
	Fajr:        "Fajr",
	Sunrise:     "Sunrise",
	Dhuhr:       "Dhuhr",
	Asr:         "Asr",
	Maghrib:     "Maghrib",
	Isha:        "Isha",
	Jumuah:      "Jumuah",
	DhuhrAsr:    "Dhuhr/Asr",
	MaghribIsha: "Maghrib/Isha",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

func (k Key) Valid() bool {
	return k >= Fajr && k <= MaghribIsha
}

// Base maps a key to the base slot whose preferences it shares. Jumuah and
// Dhuhr/Asr share Dhuhr; Maghrib/Isha shares Maghrib.
func (k Key) Base() Key {
	switch k {
	case Jumuah, DhuhrAsr:
		return Dhuhr
	case MaghribIsha:
		return Maghrib
	default:
		return k
	}
}

func (k Key) IsBase() bool {
	return k >= Fajr && k <= Isha
}

// ParseKey accepts a canonical key name or a transliterated display name.
func ParseKey(s string) (Key, error) {
	for k, name := range keyNames {
		if name == s {
			return Key(k), nil
		}
	}
	for k, meta := range catalog {
		if meta.names.Transliteration == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown prayer key %q", s)
}

func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid prayer key %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
