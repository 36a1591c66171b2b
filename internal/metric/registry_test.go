package metric

import (
	"testing"

	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
)

func TestGet(t *testing.T) {
	m, ok := Get("total_distance_m")
	if !ok {
		t.Fatal("total_distance_m not registered")
	}
	if m.CanonicalUnit != "m" || m.Dimension != gpsunits.DimDistance {
		t.Errorf("total_distance_m = %+v", m)
	}

	if _, ok := Get("nope"); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestSupportedUnitsAutoFilled(t *testing.T) {
	m, _ := Get("max_speed_kmh")
	if len(m.SupportedUnits) == 0 {
		t.Fatal("supported units should be filled from the dimension")
	}
	found := map[string]bool{}
	for _, u := range m.SupportedUnits {
		found[u] = true
	}
	for _, want := range []string{"km/h", "m/s", "m/min"} {
		if !found[want] {
			t.Errorf("max_speed_kmh missing supported unit %q, have %v", want, m.SupportedUnits)
		}
	}
}

func TestDerivedMetricHasFormula(t *testing.T) {
	m, ok := Get("hsr_ratio")
	if !ok {
		t.Fatal("hsr_ratio not registered")
	}
	if !m.IsDerived || m.Formula == nil {
		t.Fatalf("hsr_ratio = %+v, want derived with formula", m)
	}
	if m.Formula.Operation != OpDivide || m.Formula.Operand1 != "hsr_distance_m" {
		t.Errorf("formula = %+v", m.Formula)
	}
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != Count() {
		t.Fatalf("All() = %d entries, Count() = %d", len(all), Count())
	}
	for i := 1; i < len(all); i++ {
		a, b := all[i-1], all[i]
		if a.Category > b.Category || (a.Category == b.Category && a.Code > b.Code) {
			t.Fatalf("All() not sorted at %d: %s/%s before %s/%s", i, a.Category, a.Code, b.Category, b.Code)
		}
	}
}

func TestEveryCanonicalUnitMatchesDimension(t *testing.T) {
	for _, m := range All() {
		u, ok := gpsunits.GetUnit(m.CanonicalUnit)
		if !ok {
			t.Errorf("%s: canonical unit %q is not registered", m.Code, m.CanonicalUnit)
			continue
		}
		if u.Dimension != m.Dimension {
			t.Errorf("%s: unit %q has dimension %s, metric says %s", m.Code, m.CanonicalUnit, u.Dimension, m.Dimension)
		}
	}
}
