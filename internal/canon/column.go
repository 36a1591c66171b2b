package canon

import "github.com/uteam-club/uteam-sub004/internal/metric"

// AthleteNameKey is the reserved canonical key for the column holding
// athlete names. Identity resolution and name validation key off it.
const AthleteNameKey = "athlete_name"

// Column is one resolved canonical column: a profile mapping entry bound
// to an actual position in the uploaded sheet (or to a formula for
// derived columns).
type Column struct {
	SourceHeader string          `json:"sourceHeader"`
	CanonicalKey string          `json:"canonicalKey"`
	DisplayName  string          `json:"displayName"`
	Order        int             `json:"order"`
	IsVisible    bool            `json:"isVisible"`
	Unit         string          `json:"unit,omitempty"`
	Transform    string          `json:"transform,omitempty"`
	Index        int             `json:"-"` // position in the sheet row; -1 for derived columns
	Formula      *metric.Formula `json:"formula,omitempty"`
}

// IsDerived reports whether the column is computed from other columns
// rather than read from the sheet.
func (c Column) IsDerived() bool {
	return c.Formula != nil
}
