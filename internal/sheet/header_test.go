package sheet

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Total Distance", "total distance"},
		{"  Total   Distance  ", "total distance"},
		{"TOTAL\tDISTANCE", "total distance"},
		{"Макс. скорость", "макс. скорость"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMakeHeaderIndex_FirstOccurrenceWins(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Name", "Distance", "  name ", "Speed"})

	pos, ok := idx.Lookup("name")
	if !ok || pos != 0 {
		t.Errorf("Lookup(name) = %d, %v, want 0, true", pos, ok)
	}
}

func TestHeaderIndexLookup(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Player Name", "Total Distance", "", "Max Speed"})

	tests := []struct {
		header string
		want   int
		ok     bool
	}{
		{"Player Name", 0, true},
		{"player name", 0, true},
		{"  Total   Distance ", 1, true},
		{"Max Speed", 3, true},
		{"Sprints", 0, false},
	}
	for _, tt := range tests {
		pos, ok := idx.Lookup(tt.header)
		if ok != tt.ok || (ok && pos != tt.want) {
			t.Errorf("Lookup(%q) = %d, %v, want %d, %v", tt.header, pos, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeHeaders_DropsBlanks(t *testing.T) {
	got := NormalizeHeaders([]string{"A", "", "  ", "B"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("NormalizeHeaders = %v", got)
	}
}
