package profile

// layout.go is the strategy registry for vendors whose exports have a
// rigid, undeclared layout: no usable headers, columns always in the same
// positions. Such vendors resolve columns by index instead of by header
// lookup. The fallback is keyed by gpsSystem and is never applied to a
// vendor that has no registered layout.

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// PositionalColumn binds one fixed column index to a canonical key.
type PositionalColumn struct {
	Index        int
	CanonicalKey string
	DisplayName  string
	Unit         string
}

// PositionalLayout describes a fixed-layout vendor export.
type PositionalLayout struct {
	System  string
	Columns []PositionalColumn
}

var (
	layoutsMu sync.RWMutex
	layouts   = make(map[string]PositionalLayout)
)

// RegisterLayout adds a fixed-layout strategy for a vendor. Panics if the
// vendor already has one.
func RegisterLayout(l PositionalLayout) {
	layoutsMu.Lock()
	defer layoutsMu.Unlock()

	key := strings.ToUpper(l.System)
	if _, exists := layouts[key]; exists {
		panic(fmt.Sprintf("layout already registered: %s", l.System))
	}
	layouts[key] = l
}

// LayoutFor returns the positional layout for a vendor, if one exists.
// Vendor matching is case-insensitive.
func LayoutFor(gpsSystem string) (PositionalLayout, bool) {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()
	l, ok := layouts[strings.ToUpper(gpsSystem)]
	return l, ok
}

// LayoutSystems returns the vendors with registered layouts, sorted.
func LayoutSystems() []string {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	out := make([]string, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, l.System)
	}
	sort.Strings(out)
	return out
}

func init() {
	// B-SIGHT exports carry no meaningful header row; the column order is
	// fixed by the vendor's report generator.
	RegisterLayout(PositionalLayout{
		System: "B-SIGHT",
		Columns: []PositionalColumn{
			{Index: 0, CanonicalKey: "athlete_name", DisplayName: "Player"},
			{Index: 1, CanonicalKey: "duration_s", DisplayName: "Time", Unit: "mm:ss"},
			{Index: 2, CanonicalKey: "total_distance_m", DisplayName: "Distance", Unit: "m"},
			{Index: 3, CanonicalKey: "hsr_distance_m", DisplayName: "HSR", Unit: "m"},
			{Index: 4, CanonicalKey: "sprint_distance_m", DisplayName: "Sprint distance", Unit: "m"},
			{Index: 5, CanonicalKey: "max_speed_kmh", DisplayName: "Max speed", Unit: "km/h"},
			{Index: 6, CanonicalKey: "sprints_count", DisplayName: "Sprints", Unit: "count"},
		},
	})
}
