package gpsunits

import (
	"errors"
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		from  string
		to    string
		want  float64
	}{
		{"km to m", 5.2, "km", "m", 5200},
		{"m to km", 5200, "m", "km", 5.2},
		{"m/s to km/h", 10, "m/s", "km/h", 36},
		{"m/min to km/h", 100, "m/min", "km/h", 6},
		{"minutes to seconds", 90, "min", "s", 5400},
		{"g to m/s2", 1, "g", "m/s2", 9.80665},
		{"percent to fraction", 50, "%", "ratio", 0.5},
		{"same unit passthrough", 42, "bpm", "bpm", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert(%v, %q, %q) error = %v", tt.value, tt.from, tt.to, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert(%v, %q, %q) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvert_Unsupported(t *testing.T) {
	cases := [][2]string{
		{"m", "km/h"},   // cross-dimension
		{"m", "parsec"}, // unknown unit
		{"", "m"},
	}
	for _, c := range cases {
		_, err := Convert(1, c[0], c[1])
		if err == nil {
			t.Errorf("Convert(%q -> %q) expected error", c[0], c[1])
			continue
		}
		var unsupported *UnsupportedConversionError
		if !errors.As(err, &unsupported) {
			t.Errorf("Convert(%q -> %q) error = %T, want *UnsupportedConversionError", c[0], c[1], err)
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"km", "m"}, {"yd", "m"}, {"mi", "km"},
		{"m/s", "km/h"}, {"mph", "km/h"},
		{"min", "s"}, {"ms", "s"},
		{"g", "m/s2"}, {"%", "ratio"},
	}
	for _, p := range pairs {
		there, err := Convert(7.5, p[0], p[1])
		if err != nil {
			t.Fatalf("Convert(%q -> %q) error = %v", p[0], p[1], err)
		}
		back, err := Convert(there, p[1], p[0])
		if err != nil {
			t.Fatalf("Convert(%q -> %q) error = %v", p[1], p[0], err)
		}
		if math.Abs(back-7.5) > 1e-9 {
			t.Errorf("round trip %q <-> %q: 7.5 -> %v -> %v", p[0], p[1], there, back)
		}
	}
}

func TestCanonicalUnit(t *testing.T) {
	tests := []struct {
		dim  Dimension
		want string
	}{
		{DimDistance, "m"},
		{DimSpeed, "km/h"},
		{DimTime, "s"},
		{DimAccel, "m/s2"},
		{DimRatio, "ratio"},
	}
	for _, tt := range tests {
		got, ok := CanonicalUnit(tt.dim)
		if !ok || got != tt.want {
			t.Errorf("CanonicalUnit(%q) = %q, %v, want %q", tt.dim, got, ok, tt.want)
		}
	}
}

func TestUnitsByDimension_CanonicalFirst(t *testing.T) {
	units := UnitsByDimension(DimDistance)
	if len(units) == 0 {
		t.Fatal("no distance units registered")
	}
	if !units[0].IsCanonical {
		t.Errorf("first unit %q is not canonical", units[0].Code)
	}
}
