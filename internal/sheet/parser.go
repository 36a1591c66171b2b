// Package sheet decodes uploaded spreadsheet files into a uniform
// header-plus-rows structure and owns header normalization for the
// rest of the ingestion pipeline.
//
// Supported inputs are UTF-8 CSV text and binary Excel workbooks
// (.xlsx/.xls). Only the first sheet of a workbook is read; multi-sheet
// uploads are out of scope. Cell values are kept as raw strings so that
// later stages (unit conversion, sanitization) see exactly what the
// vendor exported.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile indicates the decoded sheet has zero rows.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoSheet indicates the workbook contains no sheets.
	ErrNoSheet = errors.New("workbook has no sheets")

	// ErrUnsupportedFormat indicates the file extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ParsedSheet is the ephemeral product of one upload: the header row plus
// all data rows, every cell as its raw string value. It is never persisted
// beyond the report's rawData blob.
type ParsedSheet struct {
	Headers []string
	Rows    [][]string
}

// Parse decodes fileData into a ParsedSheet based on the file extension.
// CSV is decoded as UTF-8 text; .xlsx/.xls as binary workbooks. The first
// row is treated as the header row. Parse is a pure transform with no side
// effects.
func Parse(fileData []byte, fileName string) (*ParsedSheet, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var records [][]string
	var err error

	switch ext {
	case ".csv":
		records, err = parseCSV(sanitizeUTF8(fileData))
	case ".xlsx", ".xls":
		records, err = parseExcel(fileData)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	width := len(headers)

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, fitWidth(rec, width))
	}

	return &ParsedSheet{Headers: headers, Rows: rows}, nil
}

// parseCSV decodes CSV bytes. FieldsPerRecord is disabled because vendor
// exports routinely have ragged trailing columns.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// parseExcel decodes an Excel workbook and returns the rows of its first
// sheet.
func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// fitWidth pads or truncates a record to the header width so every row
// indexes safely against the header.
func fitWidth(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	if len(rec) > width {
		return rec[:width]
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so the CSV reader never chokes on vendor exports
// saved in legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// IsEmptyRow reports whether every cell in the row is blank.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, an Excel formula prefix (="..."), and stray
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
