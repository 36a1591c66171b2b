package profile

import (
	"sort"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// Applied is the result of resolving a profile against an actual sheet:
// the ordered canonical columns that matched, plus the data rows they
// index into.
type Applied struct {
	Columns []canon.Column
	Rows    [][]string
}

// ApplyProfile resolves the profile's declared source headers against the
// sheet's normalized headers.
//
// A direct mapping whose header is absent from the file emits a
// COLUMN_NOT_FOUND warning and is skipped; the report still processes
// with partial coverage. Vendors with a registered positional layout
// resolve missing headers by fixed column index instead — that fallback
// never applies to a vendor without a layout. Matched columns are sorted
// by their configured order.
func ApplyProfile(s *sheet.ParsedSheet, p *GpsProfile) (*Applied, []canon.Warning) {
	idx := sheet.MakeHeaderIndex(s.Headers)

	layout, hasLayout := LayoutFor(p.GpsSystem)
	positional := make(map[string]PositionalColumn)
	if hasLayout {
		for _, pc := range layout.Columns {
			positional[pc.CanonicalKey] = pc
		}
	}

	var columns []canon.Column
	var warnings []canon.Warning

	for _, m := range p.ColumnMapping {
		switch m.Type {
		case KindFormula:
			columns = append(columns, canon.Column{
				SourceHeader: m.SourceHeader,
				CanonicalKey: m.CanonicalKey,
				DisplayName:  displayName(m),
				Order:        m.Order,
				IsVisible:    m.IsVisible,
				Unit:         m.Unit,
				Index:        -1,
				Formula:      m.Formula,
			})

		case KindColumn:
			pos, found := idx.Lookup(m.SourceHeader)
			if !found && hasLayout {
				if pc, ok := positional[m.CanonicalKey]; ok && pc.Index < len(s.Headers) {
					pos, found = pc.Index, true
				}
			}
			if !found {
				warnings = append(warnings, canon.ColumnNotFound(m.SourceHeader, m.CanonicalKey))
				continue
			}
			columns = append(columns, canon.Column{
				SourceHeader: m.SourceHeader,
				CanonicalKey: m.CanonicalKey,
				DisplayName:  displayName(m),
				Order:        m.Order,
				IsVisible:    m.IsVisible,
				Unit:         m.Unit,
				Transform:    m.Transform,
				Index:        pos,
			})
		}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].Order < columns[j].Order
	})

	return &Applied{Columns: columns, Rows: s.Rows}, warnings
}

func displayName(m ColumnMapping) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	if m.Name != "" {
		return m.Name
	}
	return m.SourceHeader
}
