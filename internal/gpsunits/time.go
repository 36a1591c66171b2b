package gpsunits

// time.go parses and formats the textual duration encodings GPS vendors
// put in spreadsheet cells.
//
// Accepted inputs: "hh:mm:ss", "hh:mm", "mm:ss", bare seconds, the same
// forms delimited by "."/","/space, and an optional millisecond suffix
// ("01:19:22.500"). A pure numeric string is read as seconds directly;
// training durations are never implicitly re-scaled.
//
// Two-part values are ambiguous. "19:22" reads as mm:ss (1162s) unless
// the caller passes an hh:mm hint; a first part over 23 or a second part
// over 59 forces mm:ss even against the hint. Legitimate hh:mm values
// under 24 hours are therefore misclassified without a hint; callers that
// know the column is wall-clock-shaped must say so.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TimeFormat names one textual duration layout.
type TimeFormat string

const (
	TimeAuto   TimeFormat = ""
	TimeHHMMSS TimeFormat = "hh:mm:ss"
	TimeHHMM   TimeFormat = "hh:mm"
	TimeMMSS   TimeFormat = "mm:ss"
	TimeSS     TimeFormat = "ss"
)

// IsTimeLayout reports whether a unit code names a textual time layout
// rather than a linear unit.
func IsTimeLayout(code string) bool {
	switch TimeFormat(code) {
	case TimeHHMMSS, TimeHHMM, TimeMMSS, TimeSS:
		return true
	}
	return false
}

// InvalidDurationError reports a time string that matched no supported
// encoding. The accompanying value is always NaN, never zero.
type InvalidDurationError struct {
	Input string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %q", e.Input)
}

var (
	reNumber = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?$`)
	// h:m:s with a millisecond suffix; any of : . , space delimit fields.
	reHMSMilli = regexp.MustCompile(`^(\d{1,3})[:.,\s](\d{1,2})[:.,\s](\d{1,2})[.,:](\d{1,3})$`)
	reHMS      = regexp.MustCompile(`^(\d{1,3})[:.,\s](\d{1,2})[:.,\s](\d{1,2})$`)
	// mm:ss with a fractional-second suffix. Only : and space can delimit
	// the two main fields here; "." and "," already mean the suffix.
	reMSMilli  = regexp.MustCompile(`^(\d{1,3})[:\s](\d{1,2})[.,](\d{1,3})$`)
	reTwoPart  = regexp.MustCompile(`^(\d{1,3})[:\s](\d{1,2})$`)
)

// ParseDuration converts a textual duration to seconds. hint resolves the
// two-part ambiguity; pass TimeAuto when the caller has no expectation.
// Unparseable input returns NaN together with an InvalidDurationError so
// a bad cell can never silently become zero seconds.
func ParseDuration(s string, hint TimeFormat) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), &InvalidDurationError{Input: s}
	}

	// Bare number: seconds, comma accepted as decimal separator.
	if reNumber.MatchString(s) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return math.NaN(), &InvalidDurationError{Input: s}
		}
		return v, nil
	}

	if m := reHMSMilli.FindStringSubmatch(s); m != nil {
		return clockSeconds(m[1], m[2], m[3]) + fractionSeconds(m[4]), nil
	}
	if m := reHMS.FindStringSubmatch(s); m != nil {
		return clockSeconds(m[1], m[2], m[3]), nil
	}
	if m := reMSMilli.FindStringSubmatch(s); m != nil {
		// A fractional suffix means the two main fields are minutes and
		// seconds regardless of hint.
		a, b := atoi(m[1]), atoi(m[2])
		return float64(a*60+b) + fractionSeconds(m[3]), nil
	}
	if m := reTwoPart.FindStringSubmatch(s); m != nil {
		a, b := atoi(m[1]), atoi(m[2])
		if a > 23 || b > 59 {
			return float64(a*60 + b), nil
		}
		if hint == TimeHHMM {
			return float64(a*3600 + b*60), nil
		}
		return float64(a*60 + b), nil
	}

	return math.NaN(), &InvalidDurationError{Input: s}
}

// FormatDuration renders seconds in the requested layout with zero-padded
// fields. A fractional second is rendered as a three-digit millisecond
// suffix on layouts that end in seconds. NaN renders as the empty string.
func FormatDuration(seconds float64, layout TimeFormat) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}

	neg := seconds < 0
	if neg {
		seconds = -seconds
	}

	total := int(seconds)
	millis := int(math.Round((seconds - float64(total)) * 1000))
	if millis >= 1000 {
		total++
		millis -= 1000
	}

	var out string
	switch layout {
	case TimeHHMM:
		out = fmt.Sprintf("%02d:%02d", total/3600, (total%3600)/60)
	case TimeMMSS:
		out = fmt.Sprintf("%02d:%02d", total/60, total%60)
		if millis > 0 {
			out += fmt.Sprintf(".%03d", millis)
		}
	case TimeSS:
		out = strconv.Itoa(total)
		if millis > 0 {
			out += fmt.Sprintf(".%03d", millis)
		}
	default: // TimeHHMMSS
		out = fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
		if millis > 0 {
			out += fmt.Sprintf(".%03d", millis)
		}
	}

	if neg {
		return "-" + out
	}
	return out
}

func clockSeconds(h, m, s string) float64 {
	return float64(atoi(h)*3600 + atoi(m)*60 + atoi(s))
}

// fractionSeconds reads a 1-3 digit suffix as fractional seconds, so
// ".5" is 500ms and ".500" is also 500ms.
func fractionSeconds(digits string) float64 {
	v, err := strconv.ParseFloat("0."+digits, 64)
	if err != nil {
		return 0
	}
	return v
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
