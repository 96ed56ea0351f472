package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	kl := Coordinate{Latitude: 3.1390, Longitude: 101.6869}
	tests := []struct {
		name    string
		a, b    Coordinate
		wantKm  float64
		tolerKm float64
	}{
		{"same point", kl, kl, 0, 0.001},
		{"kuala lumpur to shah alam", kl, Coordinate{Latitude: 3.0733, Longitude: 101.5185}, 20, 2},
		{"kuala lumpur to ipoh", kl, Coordinate{Latitude: 4.5975, Longitude: 101.0901}, 175, 10},
		{"one degree of latitude", Coordinate{0, 0}, Coordinate{1, 0}, 111.19, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b) / 1000
			if math.Abs(got-tt.wantKm) > tt.tolerKm {
				t.Errorf("Distance() = %.2f km, want %.2f ± %.2f", got, tt.wantKm, tt.tolerKm)
			}
			if back := Distance(tt.b, tt.a) / 1000; math.Abs(back-got) > 1e-9 {
				t.Errorf("Distance is not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"sentinel", UnsetCoordinate(), false},
		{"latitude sentinel only", Coordinate{Latitude: Unset, Longitude: 101}, false},
		{"valid", Coordinate{Latitude: 3.1, Longitude: 101.6}, true},
		{"out of range", Coordinate{Latitude: 91, Longitude: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsSet(); got != tt.want {
				t.Errorf("IsSet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	c := Coordinate{Latitude: 3.139012, Longitude: 101.686855}
	if got, want := c.Key(), "3.1390,101.6869"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
