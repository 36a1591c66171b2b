package sheet

import (
	"errors"
	"testing"
)

func TestParse_CSV(t *testing.T) {
	data := []byte("Player Name,Total Distance,Max Speed\nИван Петров,5200,31.4\nСидоров,4800,29.1\n")

	sheet, err := Parse(data, "session.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(sheet.Headers) != 3 {
		t.Fatalf("headers = %d, want 3", len(sheet.Headers))
	}
	if sheet.Headers[0] != "Player Name" {
		t.Errorf("Headers[0] = %q", sheet.Headers[0])
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(sheet.Rows))
	}
	if sheet.Rows[0][0] != "Иван Петров" {
		t.Errorf("Rows[0][0] = %q", sheet.Rows[0][0])
	}
}

func TestParse_RaggedRows(t *testing.T) {
	data := []byte("a,b,c\n1,2\n1,2,3,4\n")

	sheet, err := Parse(data, "ragged.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for i, row := range sheet.Rows {
		if len(row) != 3 {
			t.Errorf("row %d width = %d, want 3", i, len(row))
		}
	}
	if sheet.Rows[0][2] != "" {
		t.Errorf("short row should be padded, got %q", sheet.Rows[0][2])
	}
	if sheet.Rows[1][2] != "3" {
		t.Errorf("long row should be truncated after width, got %q", sheet.Rows[1][2])
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	sheet, err := Parse([]byte("a,b,c\n"), "empty.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(sheet.Rows))
	}
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := Parse([]byte(""), "empty.csv")
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Parse() error = %v, want ErrEmptyFile", err)
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("whatever"), "report.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	// Latin-1 bytes that are not valid UTF-8 must not break the reader.
	data := []byte("name,dist\nJos\xe9,100\n")

	sheet, err := Parse(data, "latin1.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(sheet.Rows))
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`="12345"`, "12345"},
		{`"quoted"`, "quoted"},
		{"  padded  ", "padded"},
		{"=A1+B1", "A1+B1"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsEmptyRow(t *testing.T) {
	if !IsEmptyRow([]string{"", "  ", "\t"}) {
		t.Error("whitespace-only row should be empty")
	}
	if IsEmptyRow([]string{"", "x", ""}) {
		t.Error("row with a value should not be empty")
	}
}
