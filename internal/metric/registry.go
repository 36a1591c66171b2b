// Package metric holds the canonical metric registry: the closed,
// vendor-neutral vocabulary every vendor column is ultimately mapped to.
//
// Adding support for a new GPS vendor requires only a new profile that
// references existing canonical codes. The registry itself changes only
// when a wholly new dimension of measurement appears.
package metric

import (
	"fmt"
	"sort"
	"sync"

	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
)

// Version identifies the canonical schema revision persisted with every
// processed report.
const Version = "1.2"

// FormulaOp is an arithmetic operation for derived metrics.
type FormulaOp string

const (
	OpAdd      FormulaOp = "add"
	OpSubtract FormulaOp = "subtract"
	OpMultiply FormulaOp = "multiply"
	OpDivide   FormulaOp = "divide"
)

// Formula derives a metric from two operand metrics.
type Formula struct {
	Operation FormulaOp `json:"operation"`
	Operand1  string    `json:"operand1"`
	Operand2  string    `json:"operand2"`
}

// Metric is one entry of the canonical vocabulary.
type Metric struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	Dimension      gpsunits.Dimension `json:"dimension"`
	CanonicalUnit  string             `json:"canonicalUnit"`
	SupportedUnits []string           `json:"supportedUnits"`
	IsDerived      bool               `json:"isDerived,omitempty"`
	Formula        *Formula           `json:"formula,omitempty"`
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Metric)
)

// Register adds a metric to the registry. Panics on a duplicate code or a
// canonical unit of the wrong dimension; both are programming errors in
// the built-in list.
func Register(m Metric) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[m.Code]; exists {
		panic(fmt.Sprintf("metric already registered: %s", m.Code))
	}
	u, ok := gpsunits.GetUnit(m.CanonicalUnit)
	if !ok || u.Dimension != m.Dimension {
		panic(fmt.Sprintf("metric %s: canonical unit %q does not belong to dimension %s", m.Code, m.CanonicalUnit, m.Dimension))
	}

	if len(m.SupportedUnits) == 0 {
		for _, du := range gpsunits.UnitsByDimension(m.Dimension) {
			m.SupportedUnits = append(m.SupportedUnits, du.Code)
		}
	}

	registry[m.Code] = m
}

// Get returns a metric by canonical code.
func Get(code string) (Metric, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[code]
	return m, ok
}

// All returns every registered metric sorted by category then code.
func All() []Metric {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Metric, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Count returns the number of registered metrics.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

func init() {
	for _, m := range []Metric{
		{Code: "total_distance_m", Name: "Total distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},
		{Code: "hsr_distance_m", Name: "High-speed running distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},
		{Code: "sprint_distance_m", Name: "Sprint distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},
		{Code: "zone3_distance_m", Name: "Zone 3 distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},
		{Code: "zone4_distance_m", Name: "Zone 4 distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},
		{Code: "zone5_distance_m", Name: "Zone 5 distance", Category: "distance", Dimension: gpsunits.DimDistance, CanonicalUnit: "m"},

		{Code: "max_speed_kmh", Name: "Maximum speed", Category: "speed", Dimension: gpsunits.DimSpeed, CanonicalUnit: "km/h"},
		{Code: "avg_speed_kmh", Name: "Average speed", Category: "speed", Dimension: gpsunits.DimSpeed, CanonicalUnit: "km/h"},

		{Code: "duration_s", Name: "Session duration", Category: "time", Dimension: gpsunits.DimTime, CanonicalUnit: "s"},
		{Code: "time_in_play_s", Name: "Time in play", Category: "time", Dimension: gpsunits.DimTime, CanonicalUnit: "s"},

		{Code: "sprints_count", Name: "Sprints", Category: "count", Dimension: gpsunits.DimCount, CanonicalUnit: "count"},
		{Code: "accelerations_count", Name: "Accelerations", Category: "count", Dimension: gpsunits.DimCount, CanonicalUnit: "count"},
		{Code: "decelerations_count", Name: "Decelerations", Category: "count", Dimension: gpsunits.DimCount, CanonicalUnit: "count"},

		{Code: "max_acceleration_ms2", Name: "Maximum acceleration", Category: "accel", Dimension: gpsunits.DimAccel, CanonicalUnit: "m/s2"},
		{Code: "max_deceleration_ms2", Name: "Maximum deceleration", Category: "accel", Dimension: gpsunits.DimAccel, CanonicalUnit: "m/s2"},

		{Code: "avg_heart_rate_bpm", Name: "Average heart rate", Category: "heartrate", Dimension: gpsunits.DimHeartRate, CanonicalUnit: "bpm"},
		{Code: "max_heart_rate_bpm", Name: "Maximum heart rate", Category: "heartrate", Dimension: gpsunits.DimHeartRate, CanonicalUnit: "bpm"},

		{Code: "player_load_au", Name: "Player load", Category: "load", Dimension: gpsunits.DimLoad, CanonicalUnit: "au"},

		{Code: "hsr_ratio", Name: "HSR share of total distance", Category: "ratio", Dimension: gpsunits.DimRatio, CanonicalUnit: "ratio",
			IsDerived: true, Formula: &Formula{Operation: OpDivide, Operand1: "hsr_distance_m", Operand2: "total_distance_m"}},
	} {
		Register(m)
	}
}
