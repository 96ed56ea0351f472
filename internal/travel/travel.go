// Package travel derives travel mode from the distance between the current
// position and home. A manual toggle suppresses exactly one automatic
// evaluation.
package travel

import (
	"fmt"

	"github.com/albapepper/waktu/internal/geo"
)

// Threshold is the distance from home, in metres, at or beyond which travel
// mode turns on.
const Threshold = 48 * geo.Mile

// Transition is the automatic change made by an evaluation, if any.
type Transition int

const (
	None Transition = iota
	TurnedOn
	TurnedOff
)

var transitionNames = [...]string{None: "none", TurnedOn: "turned_on", TurnedOff: "turned_off"}

func (t Transition) String() string {
	if t < None || t > TurnedOff {
		return fmt.Sprintf("Transition(%d)", int(t))
	}
	return transitionNames[t]
}

func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Transition) UnmarshalText(b []byte) error {
	for i, name := range transitionNames {
		if name == string(b) {
			*t = Transition(i)
			return nil
		}
	}
	return fmt.Errorf("unknown travel transition %q", b)
}

// State is the persisted travel-mode snapshot.
type State struct {
	Traveling             bool       `json:"traveling"`
	Automatic             bool       `json:"automatic"`
	LastTransition        Transition `json:"last_transition"`
	ManualOverridePending bool       `json:"manual_override_pending"`
}

// DefaultState has automatic detection on and travel mode off.
func DefaultState() State {
	return State{Automatic: true}
}

// Event is an explicit command fed into Evaluate.
type Event int

const (
	NoEvent Event = iota
	// ManualToggle reports that the user just changed travel mode by hand.
	ManualToggle
)

// Input is everything an evaluation looks at besides the prior state.
type Input struct {
	Current geo.Coordinate
	Home    *geo.Coordinate
	Event   Event
}

// Result is the evaluated state and the transition it made. Distance is in
// metres, or -1 when no distance was computed.
type Result struct {
	State      State
	Transition Transition
	Distance   float64
}

// Evaluate runs one automatic travel-mode check.
//
// Nothing changes when home is absent, either coordinate is unset, automatic
// detection is off, or a manual override is pending (from Toggle or a
// ManualToggle event). A pending override is consumed by that pass.
// Otherwise travel mode turns on at or beyond Threshold and off below it.
func Evaluate(s State, in Input) Result {
	skip := in.Home == nil ||
		!in.Current.IsSet() ||
		!in.Home.IsSet() ||
		!s.Automatic ||
		s.ManualOverridePending ||
		in.Event == ManualToggle
	if skip {
		s.ManualOverridePending = false
		return Result{State: s, Transition: None, Distance: -1}
	}

	distance := geo.Distance(in.Current, *in.Home)
	away := distance >= Threshold

	switch {
	case away && !s.Traveling:
		s.Traveling = true
		s.LastTransition = TurnedOn
	case !away && s.Traveling:
		s.Traveling = false
		s.LastTransition = TurnedOff
	default:
		s.LastTransition = None
	}
	return Result{State: s, Transition: s.LastTransition, Distance: distance}
}

// Toggle applies a manual travel-mode change and arms the one-shot override
// the next Evaluate consumes.
func Toggle(s State, traveling bool) State {
	s.Traveling = traveling
	s.LastTransition = None
	s.ManualOverridePending = true
	return s
}

// SetAutomatic turns automatic detection on or off.
func SetAutomatic(s State, on bool) State {
	s.Automatic = on
	return s
}
