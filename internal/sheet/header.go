package sheet

import "strings"

// NormalizeHeader canonicalizes a column header for matching: trims,
// collapses internal whitespace runs to a single space, and lowercases.
// Every header comparison in the pipeline must go through this function;
// raw headers are never compared directly.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

// NormalizeHeaders normalizes a header row and drops blank headers.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		n := NormalizeHeader(h)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// HeaderIndex maps normalized column headers to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a raw header row. When the
// same normalized header appears twice the first occurrence wins, matching
// how coaches read the sheet left to right.
func MakeHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(CleanCell(h))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// Lookup resolves a header against the index, tolerating a
// trim-mismatched source header.
func (idx HeaderIndex) Lookup(header string) (int, bool) {
	pos, ok := idx[NormalizeHeader(header)]
	return pos, ok
}
