package gpsunits

import (
	"errors"
	"math"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hint  TimeFormat
		want  float64
	}{
		{"bare seconds", "4752", TimeAuto, 4752},
		{"decimal seconds", "90.5", TimeAuto, 90.5},
		{"comma decimal seconds", "12,5", TimeAuto, 12.5},
		{"hh:mm:ss", "01:19:12", TimeAuto, 4752},
		{"h:mm:ss single digit hour", "1:02:03", TimeAuto, 3723},
		{"dot delimited hms", "01.19.12", TimeAuto, 4752},
		{"space delimited hms", "01 19 12", TimeAuto, 4752},
		{"hms with millisecond suffix", "01:19:22.500", TimeAuto, 4762.5},
		{"two-part defaults to mm:ss", "19:22", TimeAuto, 1162},
		{"two-part with hh:mm hint", "19:22", TimeHHMM, 69720},
		{"first part over 23 forces mm:ss", "90:30", TimeHHMM, 5430},
		{"mm:ss with fraction", "03:30.250", TimeAuto, 210.25},
		{"zero", "0", TimeAuto, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input, tt.hint)
			if err != nil {
				t.Fatalf("ParseDuration(%q, %q) error = %v", tt.input, tt.hint, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseDuration(%q, %q) = %v, want %v", tt.input, tt.hint, got, tt.want)
			}
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1:2:3:4:5", "12:xx", "--5"} {
		got, err := ParseDuration(input, TimeAuto)
		if err == nil {
			t.Errorf("ParseDuration(%q) expected error, got %v", input, got)
			continue
		}
		var invalid *InvalidDurationError
		if !errors.As(err, &invalid) {
			t.Errorf("ParseDuration(%q) error = %T, want *InvalidDurationError", input, err)
		}
		if !math.IsNaN(got) {
			t.Errorf("ParseDuration(%q) = %v, want NaN on error", input, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		layout  TimeFormat
		want    string
	}{
		{"hh:mm:ss", 4752, TimeHHMMSS, "01:19:12"},
		{"hh:mm:ss with millis", 4762.5, TimeHHMMSS, "01:19:22.500"},
		{"mm:ss", 1162, TimeMMSS, "19:22"},
		{"mm:ss over an hour keeps minutes", 5430, TimeMMSS, "90:30"},
		{"hh:mm truncates seconds", 4752, TimeHHMM, "01:19"},
		{"bare seconds", 90, TimeSS, "90"},
		{"negative", -61, TimeMMSS, "-01:01"},
		{"nan renders empty", math.NaN(), TimeHHMMSS, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds, tt.layout); got != tt.want {
				t.Errorf("FormatDuration(%v, %q) = %q, want %q", tt.seconds, tt.layout, got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 59, 60, 3599, 3600, 4752, 86399} {
		s := FormatDuration(seconds, TimeHHMMSS)
		got, err := ParseDuration(s, TimeAuto)
		if err != nil {
			t.Fatalf("ParseDuration(%q) error = %v", s, err)
		}
		if got != seconds {
			t.Errorf("round trip %v -> %q -> %v", seconds, s, got)
		}
	}
}
