package canon

// namecheck.go detects a common profile mistake: the configured
// "athlete name" column actually holds position codes (GK, CB, ...),
// usually because the vendor export shuffled columns. Detection is
// heuristic and only ever produces a warning plus a suggested
// alternative header; it never blocks the run.

import (
	"strings"
	"unicode"
)

// NameSampleSize caps how many non-empty values are inspected.
// Overridden from service configuration at startup.
var NameSampleSize = 50

// positionVocab is the closed vocabulary of 1-3 letter position
// abbreviations, English and Russian.
var positionVocab = map[string]bool{
	// English
	"gk": true, "d": true, "df": true, "cb": true, "lb": true, "rb": true,
	"wb": true, "lwb": true, "rwb": true, "sw": true,
	"m": true, "mf": true, "cm": true, "dm": true, "cdm": true, "am": true,
	"cam": true, "lm": true, "rm": true, "w": true, "lw": true, "rw": true,
	"f": true, "fw": true, "cf": true, "st": true, "ss": true,
	// Russian
	"вр": true, "зщ": true, "цз": true, "лз": true, "пз": true,
	"оп": true, "цп": true, "ап": true, "лп": true, "пп": true,
	"нп": true, "нап": true, "фрв": true, "пзщ": true,
}

// namePatterns are substrings that mark a header as name-shaped, used
// when searching for an alternative to a mis-mapped name column.
var namePatterns = []string{
	"name", "player", "athlete", "surname",
	"имя", "фамилия", "фио", "игрок", "спортсмен",
}

// NameColumnStats is the result of sampling a candidate name column.
type NameColumnStats struct {
	PosRatio         float64 `json:"posRatio"`
	NameRatio        float64 `json:"nameRatio"`
	IsPositionMapped bool    `json:"isPositionMapped"`
	Sampled          int     `json:"sampled"`
}

// DetectPositionLike samples up to NameSampleSize non-empty values and
// classifies each as position-like, name-like, or neither. The column is
// flagged when at least 60% of samples look like positions and fewer
// than 30% look like names. locale is advisory; the vocabulary covers
// both English and Russian abbreviations regardless.
func DetectPositionLike(values []string, locale string) NameColumnStats {
	_ = locale

	var sampled, posLike, nameLike int
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sampled++
		switch {
		case isPositionLike(v):
			posLike++
		case isNameLike(v):
			nameLike++
		}
		if sampled >= NameSampleSize {
			break
		}
	}

	if sampled == 0 {
		return NameColumnStats{}
	}

	stats := NameColumnStats{
		PosRatio:  float64(posLike) / float64(sampled),
		NameRatio: float64(nameLike) / float64(sampled),
		Sampled:   sampled,
	}
	stats.IsPositionMapped = stats.PosRatio >= 0.6 && stats.NameRatio < 0.3
	return stats
}

// ValidateAthleteNameColumn checks the values of the configured name
// column. When they look like position codes it returns a
// POSITION_MAPPED_AS_NAME warning together with an alternative header
// suggestion (empty if none was found).
func ValidateAthleteNameColumn(values []string, headers []string, configured string, locale string) (Warning, string, bool) {
	stats := DetectPositionLike(values, locale)
	if !stats.IsPositionMapped {
		return Warning{}, "", false
	}

	suggestion := SuggestNameHeader(headers, configured)
	return PositionMappedAsName(configured, suggestion), suggestion, true
}

// SuggestNameHeader scans the full header list for a name-shaped header,
// excluding the currently configured one. Matching is a case-insensitive
// substring check against the name-pattern vocabulary.
func SuggestNameHeader(headers []string, exclude string) string {
	excludeLower := strings.ToLower(strings.TrimSpace(exclude))
	for _, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if lower == "" || lower == excludeLower {
			continue
		}
		for _, pat := range namePatterns {
			if strings.Contains(lower, pat) {
				return h
			}
		}
	}
	return ""
}

// isPositionLike reports whether a value matches the position vocabulary
// or the generic short all-caps token shape (1-3 letters whose case fold
// equals its uppercase form).
func isPositionLike(v string) bool {
	if positionVocab[strings.ToLower(v)] {
		return true
	}

	runes := []rune(v)
	if len(runes) < 1 || len(runes) > 3 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return v == strings.ToUpper(v)
}

// isNameLike reports whether a value plausibly is an athlete name:
// longer than 3 characters, starts with a letter, and is not itself a
// position code.
func isNameLike(v string) bool {
	runes := []rune(v)
	if len(runes) <= 3 {
		return false
	}
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	return !positionVocab[strings.ToLower(v)]
}
