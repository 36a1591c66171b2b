package profile

import (
	"testing"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/metric"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

func polarLikeProfile() *GpsProfile {
	return &GpsProfile{
		ID:        "prof-1",
		GpsSystem: "Polar",
		Version:   1,
		ColumnMapping: []ColumnMapping{
			{Type: KindColumn, SourceHeader: "Player name", CanonicalKey: canon.AthleteNameKey, Order: 0},
			{Type: KindColumn, SourceHeader: "Total distance (km)", CanonicalKey: "total_distance_m", Unit: "km", Order: 1},
			{Type: KindColumn, SourceHeader: "Sprints", CanonicalKey: "sprints_count", Unit: "count", Order: 2},
		},
	}
}

func TestApplyProfile_ResolvesByNormalizedHeader(t *testing.T) {
	s := &sheet.ParsedSheet{
		Headers: []string{"Player name", "  total distance (KM) ", "Sprints"},
		Rows:    [][]string{{"Петров", "5.2", "12"}},
	}

	applied, warnings := ApplyProfile(s, polarLikeProfile())

	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(applied.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(applied.Columns))
	}
	if applied.Columns[1].Index != 1 {
		t.Errorf("distance column index = %d, want 1", applied.Columns[1].Index)
	}
}

func TestApplyProfile_MissingHeaderWarnsAndSkips(t *testing.T) {
	s := &sheet.ParsedSheet{
		Headers: []string{"Player name", "Sprints"},
		Rows:    [][]string{{"Петров", "12"}},
	}

	applied, warnings := ApplyProfile(s, polarLikeProfile())

	if len(applied.Columns) != 2 {
		t.Fatalf("columns = %d, want 2 (missing column skipped)", len(applied.Columns))
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one COLUMN_NOT_FOUND", warnings)
	}
	w := warnings[0]
	if w.Code != canon.WarnColumnNotFound || w.Column != "Total distance (km)" {
		t.Errorf("warning = %+v", w)
	}
}

func TestApplyProfile_SortsByOrder(t *testing.T) {
	p := polarLikeProfile()
	p.ColumnMapping[0].Order = 10
	p.ColumnMapping[2].Order = 5

	s := &sheet.ParsedSheet{
		Headers: []string{"Player name", "Total distance (km)", "Sprints"},
	}

	applied, _ := ApplyProfile(s, p)

	got := []string{}
	for _, c := range applied.Columns {
		got = append(got, c.CanonicalKey)
	}
	want := []string{"total_distance_m", "sprints_count", canon.AthleteNameKey}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column order = %v, want %v", got, want)
		}
	}
}

func TestApplyProfile_PositionalFallback(t *testing.T) {
	// B-SIGHT sheets carry junk headers; missing names resolve by the
	// vendor's fixed column positions.
	p := &GpsProfile{
		GpsSystem: "B-SIGHT",
		ColumnMapping: []ColumnMapping{
			{Type: KindColumn, SourceHeader: "Player", CanonicalKey: canon.AthleteNameKey, Order: 0},
			{Type: KindColumn, SourceHeader: "Distance", CanonicalKey: "total_distance_m", Unit: "m", Order: 1},
		},
	}
	s := &sheet.ParsedSheet{
		Headers: []string{"col1", "col2", "col3", "col4", "col5", "col6", "col7"},
		Rows:    [][]string{{"Петров", "19:22", "5200", "300", "120", "31.4", "12"}},
	}

	applied, warnings := ApplyProfile(s, p)

	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none (positional fallback)", warnings)
	}
	if len(applied.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(applied.Columns))
	}
	if applied.Columns[0].Index != 0 || applied.Columns[1].Index != 2 {
		t.Errorf("indexes = %d, %d, want 0, 2", applied.Columns[0].Index, applied.Columns[1].Index)
	}
}

func TestApplyProfile_NoFallbackWithoutLayout(t *testing.T) {
	p := polarLikeProfile() // Polar has no positional layout
	s := &sheet.ParsedSheet{
		Headers: []string{"colA", "colB", "colC"},
	}

	applied, warnings := ApplyProfile(s, p)

	if len(applied.Columns) != 0 {
		t.Errorf("columns = %d, want 0", len(applied.Columns))
	}
	if len(warnings) != 3 {
		t.Errorf("warnings = %d, want 3", len(warnings))
	}
}

func TestApplyProfile_FormulaColumn(t *testing.T) {
	p := &GpsProfile{
		GpsSystem: "STATSports",
		ColumnMapping: []ColumnMapping{
			{Type: KindColumn, SourceHeader: "Player Display Name", CanonicalKey: canon.AthleteNameKey, Order: 0},
			{Type: KindColumn, SourceHeader: "Total Distance(m)", CanonicalKey: "total_distance_m", Unit: "m", Order: 1},
			{Type: KindColumn, SourceHeader: "HSR Distance(m)", CanonicalKey: "hsr_distance_m", Unit: "m", Order: 2},
			{Type: KindFormula, Name: "HSR %", CanonicalKey: "hsr_ratio", Order: 3,
				Formula: &metric.Formula{Operation: metric.OpDivide, Operand1: "hsr_distance_m", Operand2: "total_distance_m"}},
		},
	}
	s := &sheet.ParsedSheet{
		Headers: []string{"Player Display Name", "Total Distance(m)", "HSR Distance(m)"},
	}

	applied, warnings := ApplyProfile(s, p)

	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(applied.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(applied.Columns))
	}
	last := applied.Columns[3]
	if !last.IsDerived() || last.Index != -1 || last.Formula == nil {
		t.Errorf("formula column = %+v, want derived with index -1", last)
	}
}

func TestBuiltInProfilesValidate(t *testing.T) {
	for _, p := range BuiltIn() {
		p := p
		if err := p.Validate(); err != nil {
			t.Errorf("builtin profile %s: %v", p.GpsSystem, err)
		}
	}
}

func TestProfileValidate_UnknownKey(t *testing.T) {
	p := polarLikeProfile()
	p.ColumnMapping[1].CanonicalKey = "made_up_metric"
	if err := p.Validate(); err == nil {
		t.Error("unknown canonical key should fail validation")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	p := polarLikeProfile()
	snap := p.Snapshot(p.CreatedAt)

	p.ColumnMapping[0].SourceHeader = "changed"
	if snap.ColumnMapping[0].SourceHeader == "changed" {
		t.Error("snapshot must not share the mapping slice with the profile")
	}
}
