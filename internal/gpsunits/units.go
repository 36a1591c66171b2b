// Package gpsunits is the stateless unit conversion engine for GPS metric
// values.
//
// Two regimes coexist:
//
//  1. Linear dimensions (distance, speed, acceleration, ratio, count,
//     heart rate, load) convert through a symmetric factor table keyed by
//     unit-code pairs within one dimension.
//  2. Time values are textual and non-linear: vendors export durations as
//     hh:mm:ss, hh:mm, mm:ss, bare seconds, and dot/comma/space-delimited
//     variants, with or without a millisecond suffix. Those route through
//     the duration parser in time.go.
//
// Converting between units with no table entry is an error, never a
// silent pass-through.
package gpsunits

import (
	"fmt"
	"sort"
	"sync"
)

// Dimension groups units that are mutually convertible.
type Dimension string

const (
	DimDistance  Dimension = "distance"
	DimSpeed     Dimension = "speed"
	DimTime      Dimension = "time"
	DimAccel     Dimension = "accel"
	DimRatio     Dimension = "ratio"
	DimCount     Dimension = "count"
	DimHeartRate Dimension = "heartrate"
	DimLoad      Dimension = "load"
)

// Unit describes one unit's linear factor relative to its dimension's
// canonical unit. Time-string layouts are not units; they are handled by
// the duration parser.
type Unit struct {
	Code        string
	Name        string
	Dimension   Dimension
	Factor      float64 // value_in_canonical = value * Factor
	IsCanonical bool
}

// UnsupportedConversionError reports a conversion with no table entry,
// either because a unit code is unknown or the units belong to different
// dimensions.
type UnsupportedConversionError struct {
	From string
	To   string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion: %s -> %s", e.From, e.To)
}

var (
	unitsMu sync.RWMutex
	units   = make(map[string]Unit)

	// pairs holds the symmetric conversion table: factor to multiply a
	// value in `from` by to obtain `to`, for every unit pair sharing a
	// dimension.
	pairs = make(map[[2]string]float64)
)

// RegisterUnit adds a unit to the registry and extends the pair table
// with conversions to and from every existing unit of the same dimension.
// Panics if the code is already registered.
func RegisterUnit(u Unit) {
	unitsMu.Lock()
	defer unitsMu.Unlock()

	if _, exists := units[u.Code]; exists {
		panic(fmt.Sprintf("unit already registered: %s", u.Code))
	}
	if u.Factor == 0 {
		panic(fmt.Sprintf("unit %s has zero conversion factor", u.Code))
	}

	for _, other := range units {
		if other.Dimension != u.Dimension {
			continue
		}
		pairs[[2]string{u.Code, other.Code}] = u.Factor / other.Factor
		pairs[[2]string{other.Code, u.Code}] = other.Factor / u.Factor
	}
	pairs[[2]string{u.Code, u.Code}] = 1

	units[u.Code] = u
}

// GetUnit returns a unit by code.
func GetUnit(code string) (Unit, bool) {
	unitsMu.RLock()
	defer unitsMu.RUnlock()
	u, ok := units[code]
	return u, ok
}

// UnitsByDimension returns all units of one dimension, canonical unit
// first, then sorted by code.
func UnitsByDimension(d Dimension) []Unit {
	unitsMu.RLock()
	defer unitsMu.RUnlock()

	var out []Unit
	for _, u := range units {
		if u.Dimension == d {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsCanonical != out[j].IsCanonical {
			return out[i].IsCanonical
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// AllUnits returns every registered unit sorted by dimension then code.
func AllUnits() []Unit {
	unitsMu.RLock()
	defer unitsMu.RUnlock()

	out := make([]Unit, 0, len(units))
	for _, u := range units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dimension != out[j].Dimension {
			return out[i].Dimension < out[j].Dimension
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// CanonicalUnit returns the canonical unit code for a dimension.
func CanonicalUnit(d Dimension) (string, bool) {
	unitsMu.RLock()
	defer unitsMu.RUnlock()

	for _, u := range units {
		if u.Dimension == d && u.IsCanonical {
			return u.Code, true
		}
	}
	return "", false
}

// Convert converts a numeric value between two linear units. The factor
// is looked up from the pair table; a missing entry means the units are
// unknown or belong to different dimensions and yields an
// UnsupportedConversionError.
func Convert(value float64, fromUnit, toUnit string) (float64, error) {
	if fromUnit == toUnit {
		return value, nil
	}

	unitsMu.RLock()
	factor, ok := pairs[[2]string{fromUnit, toUnit}]
	unitsMu.RUnlock()

	if !ok {
		return 0, &UnsupportedConversionError{From: fromUnit, To: toUnit}
	}
	return value * factor, nil
}

func init() {
	for _, u := range []Unit{
		// Distance: canonical meters.
		{Code: "m", Name: "meters", Dimension: DimDistance, Factor: 1, IsCanonical: true},
		{Code: "km", Name: "kilometers", Dimension: DimDistance, Factor: 1000},
		{Code: "yd", Name: "yards", Dimension: DimDistance, Factor: 0.9144},
		{Code: "mi", Name: "miles", Dimension: DimDistance, Factor: 1609.344},

		// Speed: canonical km/h.
		{Code: "km/h", Name: "kilometers per hour", Dimension: DimSpeed, Factor: 1, IsCanonical: true},
		{Code: "m/s", Name: "meters per second", Dimension: DimSpeed, Factor: 3.6},
		{Code: "m/min", Name: "meters per minute", Dimension: DimSpeed, Factor: 0.06},
		{Code: "mph", Name: "miles per hour", Dimension: DimSpeed, Factor: 1.609344},

		// Time: canonical seconds. Textual layouts route through
		// ParseDuration/FormatDuration, not this table.
		{Code: "s", Name: "seconds", Dimension: DimTime, Factor: 1, IsCanonical: true},
		{Code: "ms", Name: "milliseconds", Dimension: DimTime, Factor: 0.001},
		{Code: "min", Name: "minutes", Dimension: DimTime, Factor: 60},
		{Code: "h", Name: "hours", Dimension: DimTime, Factor: 3600},

		// Acceleration: canonical m/s².
		{Code: "m/s2", Name: "meters per second squared", Dimension: DimAccel, Factor: 1, IsCanonical: true},
		{Code: "g", Name: "g-force", Dimension: DimAccel, Factor: 9.80665},

		// Ratio: canonical unit fraction.
		{Code: "ratio", Name: "fraction", Dimension: DimRatio, Factor: 1, IsCanonical: true},
		{Code: "%", Name: "percent", Dimension: DimRatio, Factor: 0.01},

		// Passthrough dimensions.
		{Code: "count", Name: "count", Dimension: DimCount, Factor: 1, IsCanonical: true},
		{Code: "bpm", Name: "beats per minute", Dimension: DimHeartRate, Factor: 1, IsCanonical: true},
		{Code: "au", Name: "arbitrary units", Dimension: DimLoad, Factor: 1, IsCanonical: true},
	} {
		RegisterUnit(u)
	}
}
