package canon

import (
	"errors"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Иван Петров", "иван петров"},
		{"Фёдоров", "федоров"},
		{"O'Neil", "o neil"},
		{"Jean-Pierre  Dupont", "jean pierre dupont"},
		{"  José  ", "jose"},
		{"Smith_J.", "smith j"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolver_Precedence(t *testing.T) {
	rowTwo := 2
	mappings := []MappingInput{
		{RowIndex: &rowTwo, ReportName: "I. Petrov", PlayerID: "p1"},
	}
	roster := []PlayerRef{
		{ID: "p2", FirstName: "Алексей", LastName: "Сидоров"},
	}

	r, err := NewResolver(mappings, roster)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	// Explicit row index wins regardless of the row's name.
	m := r.Resolve(2, "Сидоров Алексей")
	if m.PlayerID != "p1" || m.Type != MappingManual || m.Confidence != 1.0 {
		t.Errorf("Resolve(2) = %+v, want manual p1 at 1.0", m)
	}

	// Manual mapping by submitted report name.
	m = r.Resolve(7, "i. petrov")
	if m.PlayerID != "p1" || m.Type != MappingManual {
		t.Errorf("Resolve by report name = %+v, want manual p1", m)
	}

	// Roster fallback in either name order, reduced confidence.
	for _, name := range []string{"Алексей Сидоров", "Сидоров Алексей"} {
		m = r.Resolve(8, name)
		if m.PlayerID != "p2" || m.Type != MappingAuto || m.Confidence != 0.8 {
			t.Errorf("Resolve(%q) = %+v, want auto p2 at 0.8", name, m)
		}
	}

	// Unmatched rows are retained with no identity.
	m = r.Resolve(9, "Unknown Player")
	if m.PlayerID != "" || m.Type != MappingNone || m.Confidence != 0 {
		t.Errorf("Resolve(unknown) = %+v, want none", m)
	}
}

func TestResolver_ManualBeatsRosterName(t *testing.T) {
	mappings := []MappingInput{
		{ReportName: "Алексей Сидоров", PlayerID: "p1"},
	}
	roster := []PlayerRef{
		{ID: "p2", FirstName: "Алексей", LastName: "Сидоров"},
	}

	r, err := NewResolver(mappings, roster)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	m := r.Resolve(0, "Алексей Сидоров")
	if m.PlayerID != "p1" || m.Type != MappingManual {
		t.Errorf("manual mapping should not be overwritten by roster name, got %+v", m)
	}
}

func TestNewResolver_ConfiguredAutoConfidence(t *testing.T) {
	orig := AutoMatchConfidence
	AutoMatchConfidence = 0.9
	defer func() { AutoMatchConfidence = orig }()

	r, err := NewResolver(nil, []PlayerRef{
		{ID: "p1", FirstName: "Иван", LastName: "Петров"},
	})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	m := r.Resolve(0, "Иван Петров")
	if m.PlayerID != "p1" || m.Type != MappingAuto {
		t.Fatalf("Resolve = %+v, want auto p1", m)
	}
	if m.Confidence != 0.9 {
		t.Errorf("confidence = %v, want the configured 0.9", m.Confidence)
	}
}

func TestNewResolver_DuplicatePlayer(t *testing.T) {
	mappings := []MappingInput{
		{ReportName: "Петров И.", PlayerID: "p1"},
		{ReportName: "Иван Петров", PlayerID: "p1"},
		{ReportName: "Сидоров", PlayerID: "p2"},
	}

	_, err := NewResolver(mappings, nil)
	if err == nil {
		t.Fatal("NewResolver() expected duplicate mapping error")
	}

	var dup *DuplicateMappingError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %T, want *DuplicateMappingError", err)
	}
	if dup.Code() != "duplicate_player_mapping" {
		t.Errorf("Code() = %q", dup.Code())
	}
	if len(dup.Collisions) != 1 {
		t.Fatalf("collisions = %d, want 1", len(dup.Collisions))
	}
	c := dup.Collisions[0]
	if c.PlayerID != "p1" || len(c.ReportNames) != 2 {
		t.Errorf("collision = %+v, want p1 with both report names", c)
	}
}

func TestNewResolver_EmptyPlayerIDSkipped(t *testing.T) {
	// Entries without a selected player are placeholders, not mappings.
	mappings := []MappingInput{
		{ReportName: "Петров"},
		{ReportName: "Сидоров"},
	}

	r, err := NewResolver(mappings, nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	if m := r.Resolve(0, "Петров"); m.PlayerID != "" {
		t.Errorf("placeholder mapping should not resolve, got %+v", m)
	}
}
