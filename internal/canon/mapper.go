package canon

// mapper.go is the final pipeline stage: it reads each surviving row
// through the resolved canonical columns, converts values into each
// metric's canonical unit, attaches player identity and provenance, and
// produces the per-metric team summary plus the ImportMeta audit block.

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
	"github.com/uteam-club/uteam-sub004/internal/metric"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// CanonicalRow is one athlete's canonicalized measurements plus
// row-level provenance. Metric values are keyed by canonical code and
// flattened alongside the fixed fields when serialized.
type CanonicalRow struct {
	AthleteID   string
	AthleteName string
	RowIndex    int
	Confidence  float64
	MappingType string
	Metrics     map[string]any
}

// MarshalJSON flattens metric values next to the fixed fields, matching
// the persisted processedData.canonical contract.
func (r CanonicalRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Metrics)+5)
	for k, v := range r.Metrics {
		out[k] = v
	}
	if r.AthleteID != "" {
		out["athlete_id"] = r.AthleteID
	}
	out["athlete_name"] = r.AthleteName
	out["__rowIndex"] = r.RowIndex
	out["confidenceScore"] = r.Confidence
	out["mappingType"] = r.MappingType
	return json.Marshal(out)
}

// UnmarshalJSON reverses the flattening.
func (r *CanonicalRow) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Metrics = make(map[string]any)
	for k, v := range raw {
		switch k {
		case "athlete_id":
			r.AthleteID, _ = v.(string)
		case "athlete_name":
			r.AthleteName, _ = v.(string)
		case "__rowIndex":
			if f, ok := v.(float64); ok {
				r.RowIndex = int(f)
			}
		case "confidenceScore":
			r.Confidence, _ = v.(float64)
		case "mappingType":
			r.MappingType, _ = v.(string)
		default:
			r.Metrics[k] = v
		}
	}
	return nil
}

// Counts tracks how many rows entered, survived sanitization, and were
// canonicalized. canonical <= filtered <= input always holds.
type Counts struct {
	Input     int `json:"input"`
	Filtered  int `json:"filtered"`
	Canonical int `json:"canonical"`
}

// ImportMeta is the audit trail attached to every canonicalization run.
// It is additive across pipeline stages and never silently dropped.
type ImportMeta struct {
	Counts   Counts    `json:"counts"`
	Warnings []Warning `json:"warnings"`
}

// Result is the canonical output of one run.
type Result struct {
	Rows    []CanonicalRow     `json:"rows"`
	Summary map[string]float64 `json:"summary"`
	Meta    ImportMeta         `json:"meta"`
}

// Options carries the request-scoped state built upstream.
type Options struct {
	Resolver *Resolver
	// InputCount is the pre-sanitization row count for meta.counts.
	InputCount int
	// OriginalIndexes maps each row passed in to its index in the
	// original sheet (the sanitizer's KeptIndexes). Nil means identity.
	OriginalIndexes []int
	// PriorWarnings is the ledger accumulated by earlier stages; mapper
	// warnings are appended after it.
	PriorWarnings []Warning
	// AllRows is the full pre-sanitization row set, used by the
	// missing-columns check so a header whose values were all on
	// sanitized rows is not reported as absent. Nil falls back to the
	// surviving rows.
	AllRows [][]string
}

// MapRowsToCanonical converts the surviving rows through the canonical
// columns. Rows with no resolvable player are retained (for later manual
// mapping) but excluded from the team summary. When no column matched
// any value in the whole sheet, a MISSING_COLUMNS warning lists every
// configured source header that never produced a value — the primary
// signal that the profile does not fit the uploaded file.
func MapRowsToCanonical(rows [][]string, columns []Column, opts Options) *Result {
	res := &Result{
		Summary: make(map[string]float64),
		Meta: ImportMeta{
			Counts: Counts{
				Input:    opts.InputCount,
				Filtered: len(rows),
			},
			Warnings: append([]Warning{}, opts.PriorWarnings...),
		},
	}

	nameIdx := -1
	for _, c := range columns {
		if c.CanonicalKey == AthleteNameKey && c.Index >= 0 {
			nameIdx = c.Index
			break
		}
	}

	badUnits := make(map[string]bool) // one warning per column, not per row
	matched := make(map[string]bool)  // source headers that produced a value

	for i, row := range rows {
		origIndex := i
		if opts.OriginalIndexes != nil && i < len(opts.OriginalIndexes) {
			origIndex = opts.OriginalIndexes[i]
		}

		name := ""
		if nameIdx >= 0 && nameIdx < len(row) {
			name = sheet.CleanCell(row[nameIdx])
		}

		out := CanonicalRow{
			AthleteName: name,
			RowIndex:    origIndex,
			MappingType: MappingNone,
			Metrics:     make(map[string]any, len(columns)),
		}

		if opts.Resolver != nil {
			m := opts.Resolver.Resolve(origIndex, name)
			out.AthleteID = m.PlayerID
			out.Confidence = m.Confidence
			out.MappingType = m.Type
		}

		for _, c := range columns {
			if c.CanonicalKey == AthleteNameKey || c.IsDerived() {
				continue
			}
			val, ok := convertCell(row, c, badUnits, &res.Meta.Warnings)
			if !ok {
				out.Metrics[c.CanonicalKey] = nil
				continue
			}
			out.Metrics[c.CanonicalKey] = val
			matched[c.SourceHeader] = true
		}

		for _, c := range columns {
			if !c.IsDerived() {
				continue
			}
			out.Metrics[c.CanonicalKey] = evalFormula(c.Formula, columns, out.Metrics)
		}

		if out.AthleteID != "" {
			for key, v := range out.Metrics {
				if f, ok := v.(float64); ok && !math.IsNaN(f) {
					res.Summary[key] += f
				}
			}
		}

		res.Rows = append(res.Rows, out)
	}

	res.Meta.Counts.Canonical = len(res.Rows)

	if len(matched) == 0 {
		allRows := opts.AllRows
		if allRows == nil {
			allRows = rows
		}
		var missing []string
		seen := make(map[string]bool)
		for _, c := range columns {
			if c.CanonicalKey == AthleteNameKey || c.IsDerived() || seen[c.SourceHeader] {
				continue
			}
			seen[c.SourceHeader] = true
			if columnHasValue(allRows, c.Index) {
				continue
			}
			missing = append(missing, c.SourceHeader)
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			res.Meta.Warnings = append(res.Meta.Warnings, MissingColumns(missing))
		}
	}

	return res
}

// columnHasValue reports whether any row carries a non-empty cell at
// the column's index.
func columnHasValue(rows [][]string, index int) bool {
	if index < 0 {
		return false
	}
	for _, row := range rows {
		if index < len(row) && sheet.CleanCell(row[index]) != "" {
			return true
		}
	}
	return false
}

// convertCell reads one raw cell and converts it into the metric's
// canonical unit. A conversion failure for one metric degrades coverage
// (value nil, one UNSUPPORTED_CONVERSION warning per column); it never
// aborts the run.
func convertCell(row []string, c Column, badUnits map[string]bool, warnings *[]Warning) (any, bool) {
	if c.Index < 0 || c.Index >= len(row) {
		return nil, false
	}
	raw := sheet.CleanCell(row[c.Index])
	if raw == "" {
		return nil, false
	}

	m, ok := metric.Get(c.CanonicalKey)
	if !ok {
		return nil, false
	}

	fromUnit := c.Unit
	if c.Transform != "" && gpsunits.IsTimeLayout(c.Transform) {
		fromUnit = c.Transform
	}
	if fromUnit == "" {
		fromUnit = m.CanonicalUnit
	}

	val, err := gpsunits.ConvertValue(raw, fromUnit, m.CanonicalUnit)
	if err != nil {
		if _, unsupported := err.(*gpsunits.UnsupportedConversionError); unsupported && !badUnits[c.CanonicalKey] {
			badUnits[c.CanonicalKey] = true
			*warnings = append(*warnings, UnsupportedUnit(c.CanonicalKey, fromUnit, m.CanonicalUnit))
		}
		return nil, false
	}
	if f, ok := val.(float64); ok && math.IsNaN(f) {
		return nil, false
	}
	return val, true
}

// evalFormula computes a derived metric from two operands already mapped
// into the row. Operands are resolved by canonical key first, then by
// source header. Missing or non-numeric operands yield nil; division by
// zero yields nil rather than Inf.
func evalFormula(f *metric.Formula, columns []Column, metrics map[string]any) any {
	a, okA := operandValue(f.Operand1, columns, metrics)
	b, okB := operandValue(f.Operand2, columns, metrics)
	if !okA || !okB {
		return nil
	}

	switch f.Operation {
	case metric.OpAdd:
		return a + b
	case metric.OpSubtract:
		return a - b
	case metric.OpMultiply:
		return a * b
	case metric.OpDivide:
		if b == 0 {
			return nil
		}
		return a / b
	}
	return nil
}

func operandValue(operand string, columns []Column, metrics map[string]any) (float64, bool) {
	if v, ok := metrics[operand]; ok {
		f, isNum := v.(float64)
		return f, isNum && !math.IsNaN(f)
	}
	// Operand named by source header rather than canonical key.
	norm := sheet.NormalizeHeader(operand)
	for _, c := range columns {
		if sheet.NormalizeHeader(c.SourceHeader) == norm {
			if v, ok := metrics[c.CanonicalKey]; ok {
				f, isNum := v.(float64)
				return f, isNum && !math.IsNaN(f)
			}
		}
	}
	return 0, false
}

// MetricKeys returns the canonical keys of the metric-bearing columns in
// configured order, excluding the athlete-name column.
func MetricKeys(columns []Column) []string {
	keys := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.CanonicalKey == AthleteNameKey {
			continue
		}
		keys = append(keys, c.CanonicalKey)
	}
	return keys
}

// NameValues extracts the name-column values for validation sampling.
func NameValues(rows [][]string, columns []Column) []string {
	idx := -1
	for _, c := range columns {
		if c.CanonicalKey == AthleteNameKey && c.Index >= 0 {
			idx = c.Index
			break
		}
	}
	if idx < 0 {
		return nil
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
