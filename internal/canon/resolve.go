package canon

// resolve.go maps data rows to roster players. Two lookup maps are built
// once per report and passed explicitly through the run — never
// process-wide state: byIndex (explicit row-index mappings, highest
// precedence) and byName (normalized-name fallback over submitted report
// names and roster full names).

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mapping types recorded on canonical rows.
const (
	MappingManual = "manual"
	MappingAuto   = "auto"
	MappingNone   = "none"
)

// AutoMatchConfidence is the score recorded for roster-name matches
// without an explicit coach mapping. Overridden from service
// configuration at startup; manual mappings are always 1.0.
var AutoMatchConfidence = 0.8

// PlayerRef is the roster-lookup collaborator's view of a player.
type PlayerRef struct {
	ID        string
	FirstName string
	LastName  string
}

// MappingInput is one submitted player-mapping entry: either an explicit
// row index or a report name, bound to a roster player.
type MappingInput struct {
	RowIndex   *int   `json:"rowIndex,omitempty"`
	ReportName string `json:"reportName"`
	PlayerID   string `json:"selectedPlayerId"`
}

// Match is the resolution of one row to a player. PlayerID is empty for
// unmatched rows, which are retained with zero confidence.
type Match struct {
	PlayerID   string
	Confidence float64
	Type       string
}

// DuplicateMappingError rejects a batch in which two mapping entries
// resolve to the same player. Every offending player is listed with all
// report-row names that collided.
type DuplicateMappingError struct {
	Collisions []MappingCollision
}

// MappingCollision is one player claimed by multiple report rows.
type MappingCollision struct {
	PlayerID    string   `json:"playerId"`
	ReportNames []string `json:"reportNames"`
}

func (e *DuplicateMappingError) Error() string {
	parts := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		parts = append(parts, fmt.Sprintf("%s <- [%s]", c.PlayerID, strings.Join(c.ReportNames, ", ")))
	}
	return "duplicate_player_mapping: " + strings.Join(parts, "; ")
}

// Code returns the stable error code asserted on by clients.
func (e *DuplicateMappingError) Code() string { return "duplicate_player_mapping" }

// Resolver holds the per-report lookup maps.
type Resolver struct {
	byIndex map[int]Match
	byName  map[string]Match
}

// NewResolver builds the lookup maps and enforces the batch invariant
// that no two mapping entries resolve to the same player. Violations
// reject the whole batch before any row is processed.
func NewResolver(mappings []MappingInput, roster []PlayerRef) (*Resolver, error) {
	if err := checkDuplicates(mappings); err != nil {
		return nil, err
	}

	r := &Resolver{
		byIndex: make(map[int]Match),
		byName:  make(map[string]Match),
	}

	for _, m := range mappings {
		if m.PlayerID == "" {
			continue
		}
		match := Match{PlayerID: m.PlayerID, Confidence: 1.0, Type: MappingManual}
		if m.RowIndex != nil {
			r.byIndex[*m.RowIndex] = match
		}
		if key := NormalizeName(m.ReportName); key != "" {
			r.byName[key] = match
		}
	}

	// Roster full names fill gaps the submitted mappings left open.
	for _, p := range roster {
		match := Match{PlayerID: p.ID, Confidence: AutoMatchConfidence, Type: MappingAuto}
		for _, full := range []string{
			p.FirstName + " " + p.LastName,
			p.LastName + " " + p.FirstName,
		} {
			key := NormalizeName(full)
			if key == "" {
				continue
			}
			if _, taken := r.byName[key]; !taken {
				r.byName[key] = match
			}
		}
	}

	return r, nil
}

// Resolve maps one row to a player: explicit row-index mapping first,
// normalized-name lookup second, unmatched last. Unmatched rows are
// retained by the caller unless sanitized away.
func (r *Resolver) Resolve(rowIndex int, rowName string) Match {
	if m, ok := r.byIndex[rowIndex]; ok {
		return m
	}
	if m, ok := r.byName[NormalizeName(rowName)]; ok {
		return m
	}
	return Match{Type: MappingNone}
}

func checkDuplicates(mappings []MappingInput) error {
	names := make(map[string][]string)
	for _, m := range mappings {
		if m.PlayerID == "" {
			continue
		}
		names[m.PlayerID] = append(names[m.PlayerID], m.ReportName)
	}

	var collisions []MappingCollision
	for id, reportNames := range names {
		if len(reportNames) > 1 {
			collisions = append(collisions, MappingCollision{PlayerID: id, ReportNames: reportNames})
		}
	}
	if len(collisions) == 0 {
		return nil
	}

	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].PlayerID < collisions[j].PlayerID
	})
	return &DuplicateMappingError{Collisions: collisions}
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes an athlete name for matching: lowercase,
// NFKD with combining marks stripped, ё folded to е, punctuation
// (apostrophes, hyphens, underscores, periods) collapsed to spaces, and
// whitespace collapsed.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	name = strings.ReplaceAll(name, "ё", "е")

	name = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '’', '`', '-', '–', '—', '_', '.':
			return ' '
		}
		return r
	}, name)

	return strings.Join(strings.Fields(name), " ")
}
