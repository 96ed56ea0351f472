package travel

import (
	"encoding/json"
	"testing"

	"github.com/albapepper/waktu/internal/geo"
)

var (
	home     = geo.Coordinate{Latitude: 3.1390, Longitude: 101.6869} // Kuala Lumpur
	nearby   = geo.Coordinate{Latitude: 3.0733, Longitude: 101.5185} // Shah Alam, ~20 km
	faraway  = geo.Coordinate{Latitude: 4.5975, Longitude: 101.0901} // Ipoh, ~175 km
	boundary = geo.Coordinate{Latitude: 3.8335, Longitude: 101.6869} // ~77.2 km due north
)

func ptr(c geo.Coordinate) *geo.Coordinate { return &c }

func TestEvaluate(t *testing.T) {
	auto := DefaultState()
	traveling := State{Traveling: true, Automatic: true}

	tests := []struct {
		name           string
		state          State
		in             Input
		wantTraveling  bool
		wantTransition Transition
	}{
		{"far from home turns on", auto, Input{Current: faraway, Home: ptr(home)}, true, TurnedOn},
		{"near home stays off", auto, Input{Current: nearby, Home: ptr(home)}, false, None},
		{"back home turns off", traveling, Input{Current: nearby, Home: ptr(home)}, false, TurnedOff},
		{"still away stays on", traveling, Input{Current: faraway, Home: ptr(home)}, true, None},
		{"no home", auto, Input{Current: faraway}, false, None},
		{"unset current", auto, Input{Current: geo.UnsetCoordinate(), Home: ptr(home)}, false, None},
		{"unset home", auto, Input{Current: faraway, Home: ptr(geo.UnsetCoordinate())}, false, None},
		{"automatic off", State{}, Input{Current: faraway, Home: ptr(home)}, false, None},
		{"manual event skips", auto, Input{Current: faraway, Home: ptr(home), Event: ManualToggle}, false, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.state, tt.in)
			if got.State.Traveling != tt.wantTraveling {
				t.Errorf("Traveling = %v, want %v", got.State.Traveling, tt.wantTraveling)
			}
			if got.Transition != tt.wantTransition {
				t.Errorf("Transition = %v, want %v", got.Transition, tt.wantTransition)
			}
			if got.State.ManualOverridePending {
				t.Error("ManualOverridePending left set")
			}
		})
	}
}

func TestEvaluateThreshold(t *testing.T) {
	d := geo.Distance(boundary, home)
	got := Evaluate(DefaultState(), Input{Current: boundary, Home: ptr(home)})
	if want := d >= Threshold; got.State.Traveling != want {
		t.Errorf("at %.0f m Traveling = %v, want %v", d, got.State.Traveling, want)
	}
	if got.Distance != d {
		t.Errorf("Distance = %v, want %v", got.Distance, d)
	}
}

func TestToggleSuppressesOneEvaluation(t *testing.T) {
	s := Toggle(DefaultState(), true)
	if !s.Traveling || !s.ManualOverridePending {
		t.Fatalf("Toggle() = %+v, want traveling with pending override", s)
	}

	// At home: the first pass must keep the manual choice.
	first := Evaluate(s, Input{Current: nearby, Home: ptr(home)})
	if !first.State.Traveling || first.Transition != None {
		t.Fatalf("first pass = %+v, want manual state kept", first)
	}
	if first.State.ManualOverridePending {
		t.Fatal("override not consumed by first pass")
	}

	// The second pass evaluates normally again.
	second := Evaluate(first.State, Input{Current: nearby, Home: ptr(home)})
	if second.State.Traveling || second.Transition != TurnedOff {
		t.Errorf("second pass = %+v, want turned off", second)
	}
}

func TestSkipKeepsLastTransition(t *testing.T) {
	s := State{Traveling: true, Automatic: true, LastTransition: TurnedOn}
	got := Evaluate(s, Input{Current: faraway})
	if got.State.LastTransition != TurnedOn {
		t.Errorf("LastTransition = %v, want unchanged turned_on", got.State.LastTransition)
	}
	if got.Distance != -1 {
		t.Errorf("Distance = %v, want -1", got.Distance)
	}
}

func TestStateJSON(t *testing.T) {
	in := State{Traveling: true, Automatic: true, LastTransition: TurnedOff}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
