package canon

// sanitize.go strips the rows of a vendor export that are not athlete
// data: totals/averages footers, placeholder rows, and rows with no
// metric values at all. Every removal is counted per predicate and
// surfaced in the warning ledger — rows are never just disappeared.

import (
	"strings"

	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
)

// summaryKeywords mark aggregate rows, Russian and English. Matching is
// a case-insensitive substring check against textual cells.
var summaryKeywords = []string{
	"итого", "итог", "всего", "сумма", "среднее",
	"total", "sum", "average", "mean", "summary", "aggregate",
}

// serviceMarkers are the placeholder cell values of service rows.
var serviceMarkers = map[string]bool{
	"": true, "-": true, "—": true, "n/a": true,
}

// SanitizeResult reports what survived and why the rest was dropped.
// KeptIndexes holds each surviving row's index in the original row set
// so row-index player mappings stay correct downstream.
type SanitizeResult struct {
	FilteredRows [][]string
	KeptIndexes  []int
	DroppedCount int
	Warnings     []Warning
}

// DropUselessRows applies three predicates in order — summary row,
// service row, empty-metrics row — dropping a row on the first match.
// Counts accumulate per predicate and are reported as separate warning
// codes plus an aggregate ROWS_SANITIZED entry when anything was
// removed. Returned warnings are the sanitizer's own only; the caller
// appends them to the upstream ledger.
func DropUselessRows(rows [][]string, columns []Column) SanitizeResult {
	metricCols := make([]Column, 0, len(columns))
	for _, c := range columns {
		if c.Index >= 0 && c.CanonicalKey != AthleteNameKey {
			metricCols = append(metricCols, c)
		}
	}

	res := SanitizeResult{}
	var summary, service, emptyMetrics int

	for i, row := range rows {
		switch {
		case isSummaryRow(row):
			summary++
		case isServiceRow(row):
			service++
		case len(metricCols) > 0 && isEmptyMetricsRow(row, metricCols):
			emptyMetrics++
		default:
			res.FilteredRows = append(res.FilteredRows, row)
			res.KeptIndexes = append(res.KeptIndexes, i)
			continue
		}
		res.DroppedCount++
	}

	if summary > 0 {
		res.Warnings = append(res.Warnings, RowsDropped(WarnSummaryRowsDropped, summary))
	}
	if service > 0 {
		res.Warnings = append(res.Warnings, RowsDropped(WarnServiceRowsDropped, service))
	}
	if emptyMetrics > 0 {
		res.Warnings = append(res.Warnings, RowsDropped(WarnEmptyMetricsDropped, emptyMetrics))
	}
	if res.DroppedCount > 0 {
		res.Warnings = append(res.Warnings, RowsSanitized(res.DroppedCount))
	}

	return res
}

// isSummaryRow reports whether any textual cell contains a summary
// keyword. Numeric cells cannot trip it: "10.5" never matches even
// though vendors love ambiguous formatting.
func isSummaryRow(row []string) bool {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, numeric := gpsunits.ParseNumber(cell); numeric {
			continue
		}
		lower := strings.ToLower(cell)
		for _, kw := range summaryKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// isServiceRow reports whether every cell is empty or a placeholder
// marker.
func isServiceRow(row []string) bool {
	for _, cell := range row {
		if !serviceMarkers[strings.ToLower(strings.TrimSpace(cell))] {
			return false
		}
	}
	return true
}

// isEmptyMetricsRow reports whether every configured metric cell is
// empty, non-numeric, or zero.
func isEmptyMetricsRow(row []string, metricCols []Column) bool {
	for _, c := range metricCols {
		if c.Index >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[c.Index])
		if cell == "" {
			continue
		}
		v, ok := gpsunits.ParseNumber(cell)
		if !ok {
			// A clock-encoded duration counts as a value.
			if sec, err := gpsunits.ParseDuration(cell, gpsunits.TimeAuto); err == nil && sec != 0 {
				return false
			}
			continue
		}
		if v != 0 {
			return false
		}
	}
	return true
}
