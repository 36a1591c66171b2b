// Package canon turns a vendor sheet that has been mapped through a
// profile into the final canonical row set: it validates the athlete-name
// column, resolves rows to roster players, strips summary/service/empty
// rows, converts values into canonical units, and keeps the warning
// ledger that explains every count change along the way.
package canon

import (
	"fmt"
	"strings"
)

// WarningCode identifies one kind of degraded-but-recoverable condition.
// The set is closed so the UI and tests can assert on codes.
type WarningCode string

const (
	WarnColumnNotFound       WarningCode = "COLUMN_NOT_FOUND"
	WarnPositionMappedAsName WarningCode = "POSITION_MAPPED_AS_NAME"
	WarnSummaryRowsDropped   WarningCode = "SUMMARY_ROWS_DROPPED"
	WarnServiceRowsDropped   WarningCode = "SERVICE_ROWS_DROPPED"
	WarnEmptyMetricsDropped  WarningCode = "EMPTY_METRICS_ROWS_DROPPED"
	WarnRowsSanitized        WarningCode = "ROWS_SANITIZED"
	WarnUnsupportedUnit      WarningCode = "UNSUPPORTED_CONVERSION"
	WarnMissingColumns       WarningCode = "MISSING_COLUMNS"
)

// Warning is one ledger entry. Warnings accumulate additively through
// every pipeline stage; no stage may clear what an earlier stage wrote.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Count   int         `json:"count,omitempty"`
	Column  string      `json:"column,omitempty"`
}

// ColumnNotFound reports a configured source header absent from the file.
func ColumnNotFound(sourceHeader, canonicalKey string) Warning {
	return Warning{
		Code:    WarnColumnNotFound,
		Message: fmt.Sprintf("Column not found: %q (canonical key %s skipped)", sourceHeader, canonicalKey),
		Column:  sourceHeader,
	}
}

// PositionMappedAsName reports that the configured name column holds
// position codes. suggestion may be empty when no alternative header
// exists.
func PositionMappedAsName(column, suggestion string) Warning {
	msg := fmt.Sprintf("Column %q appears to contain position codes, not athlete names", column)
	if suggestion != "" {
		msg += fmt.Sprintf("; consider %q instead", suggestion)
	}
	return Warning{Code: WarnPositionMappedAsName, Message: msg, Column: column}
}

// RowsDropped reports one sanitizer predicate's count.
func RowsDropped(code WarningCode, count int) Warning {
	var what string
	switch code {
	case WarnSummaryRowsDropped:
		what = "summary rows (totals/averages)"
	case WarnServiceRowsDropped:
		what = "service rows (empty/placeholder)"
	case WarnEmptyMetricsDropped:
		what = "rows with no metric values"
	default:
		what = "rows"
	}
	return Warning{
		Code:    code,
		Message: fmt.Sprintf("Dropped %d %s", count, what),
		Count:   count,
	}
}

// RowsSanitized is the aggregate entry emitted when any rows were removed.
func RowsSanitized(total int) Warning {
	return Warning{
		Code:    WarnRowsSanitized,
		Message: fmt.Sprintf("Removed %d non-athlete rows before canonicalization", total),
		Count:   total,
	}
}

// UnsupportedUnit reports a single-metric conversion failure. The run
// continues with reduced coverage.
func UnsupportedUnit(canonicalKey, fromUnit, toUnit string) Warning {
	return Warning{
		Code:    WarnUnsupportedUnit,
		Message: fmt.Sprintf("Cannot convert %s from %q to %q", canonicalKey, fromUnit, toUnit),
		Column:  canonicalKey,
	}
}

// MissingColumns is the primary profile-mismatch signal: every configured
// source header had no non-empty value anywhere in the sheet.
func MissingColumns(headers []string) Warning {
	return Warning{
		Code:    WarnMissingColumns,
		Message: "mapping:missing-columns:" + strings.Join(headers, ","),
		Count:   len(headers),
	}
}
