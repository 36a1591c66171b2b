package gpsunits

// value.go is the string-or-number entry point used by profile
// application and the display-conversion endpoint. It routes time-layout
// conversions through the duration parser and everything else through
// the linear pair table.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericCellRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber coerces a spreadsheet cell to a float64. It tolerates
// thousands separators, a decimal comma, and surrounding whitespace.
// Returns NaN and false when the cell is not numeric.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}

	// "1 234,5" and "1,234.5" both appear in vendor exports. A comma is a
	// decimal separator only when no dot is present.
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, " ", "")

	if !numericCellRegex.MatchString(s) {
		return math.NaN(), false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// ConvertValue converts a raw cell value between units. Time layouts on
// either side route through ParseDuration/FormatDuration; numeric units
// go through the linear table. The result is a float64, or a string when
// toUnit is a time layout.
func ConvertValue(raw any, fromUnit, toUnit string) (any, error) {
	seconds, isTime, err := inputSeconds(raw, fromUnit)
	if err != nil {
		return math.NaN(), err
	}

	if isTime || IsTimeLayout(toUnit) {
		// Normalize the source side to seconds, then either format or
		// scale to the target time unit.
		if !isTime {
			seconds, err = Convert(seconds, fromUnit, "s")
			if err != nil {
				return math.NaN(), err
			}
		}
		if IsTimeLayout(toUnit) {
			return FormatDuration(seconds, TimeFormat(toUnit)), nil
		}
		return Convert(seconds, "s", toUnit)
	}

	return Convert(seconds, fromUnit, toUnit)
}

// inputSeconds extracts a numeric value from raw. The second return is
// true when the value is already in seconds because the source side is
// time-shaped (a time layout unit, or a string cell holding a clock
// encoding).
func inputSeconds(raw any, fromUnit string) (float64, bool, error) {
	switch v := raw.(type) {
	case float64:
		if IsTimeLayout(fromUnit) {
			return v, true, nil
		}
		return v, false, nil
	case float32:
		return float64(v), IsTimeLayout(fromUnit), nil
	case int:
		return float64(v), IsTimeLayout(fromUnit), nil
	case int64:
		return float64(v), IsTimeLayout(fromUnit), nil
	case string:
		if IsTimeLayout(fromUnit) {
			sec, err := ParseDuration(v, TimeFormat(fromUnit))
			return sec, true, err
		}
		if u, ok := GetUnit(fromUnit); ok && u.Dimension == DimTime {
			// Time columns declared with a linear unit still receive
			// clock-encoded cells; only bare numbers honor the unit.
			if n, ok := ParseNumber(v); ok {
				return n, false, nil
			}
			sec, err := ParseDuration(v, TimeAuto)
			return sec, true, err
		}
		if n, ok := ParseNumber(v); ok {
			return n, false, nil
		}
		return math.NaN(), false, fmt.Errorf("non-numeric value %q for unit %s", v, fromUnit)
	case nil:
		return math.NaN(), false, fmt.Errorf("nil value for unit %s", fromUnit)
	default:
		return math.NaN(), false, fmt.Errorf("unsupported value type %T", raw)
	}
}
