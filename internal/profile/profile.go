// Package profile models club-authored GPS mapping profiles and applies
// them to parsed sheets.
//
// A profile is the durable description of how one vendor's export maps
// onto the canonical metric schema. It is immutable once referenced by a
// report; edits bump the version and reports keep the snapshot they were
// processed with.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/metric"
)

// MappingKind discriminates the two shapes a column mapping can take.
// The union is matched exhaustively; field presence is never probed ad
// hoc.
type MappingKind string

const (
	// KindColumn binds a source header directly to a canonical key.
	KindColumn MappingKind = "column"
	// KindFormula derives a value from two other mapped columns.
	KindFormula MappingKind = "formula"
)

// ColumnMapping is one element of a profile's columnMapping list.
//
// For KindColumn, SourceHeader and CanonicalKey are required. For
// KindFormula, Formula is required and its operands name other mapping
// entries (by canonical key or source header). Transform optionally
// carries a time-layout hint ("hh:mm", "mm:ss") used to disambiguate
// two-part clock values in that column.
type ColumnMapping struct {
	Type         MappingKind     `json:"type"`
	Name         string          `json:"name"`
	SourceHeader string          `json:"sourceHeader,omitempty"`
	MappedColumn string          `json:"mappedColumn,omitempty"`
	CanonicalKey string          `json:"canonicalKey,omitempty"`
	DisplayName  string          `json:"displayName,omitempty"`
	IsVisible    bool            `json:"isVisible"`
	Order        int             `json:"order"`
	Unit         string          `json:"unit,omitempty"`
	Transform    string          `json:"transform,omitempty"`
	Formula      *metric.Formula `json:"formula,omitempty"`
}

// Validate checks the mapping is well-formed for its kind.
func (m ColumnMapping) Validate() error {
	switch m.Type {
	case KindColumn:
		if m.SourceHeader == "" {
			return fmt.Errorf("column mapping %q: sourceHeader is required", m.Name)
		}
		if m.CanonicalKey == "" {
			return fmt.Errorf("column mapping %q: canonicalKey is required", m.Name)
		}
		return nil
	case KindFormula:
		if m.Formula == nil {
			return fmt.Errorf("formula mapping %q: formula is required", m.Name)
		}
		if m.CanonicalKey == "" {
			return fmt.Errorf("formula mapping %q: canonicalKey is required", m.Name)
		}
		switch m.Formula.Operation {
		case metric.OpAdd, metric.OpSubtract, metric.OpMultiply, metric.OpDivide:
		default:
			return fmt.Errorf("formula mapping %q: unknown operation %q", m.Name, m.Formula.Operation)
		}
		if m.Formula.Operand1 == "" || m.Formula.Operand2 == "" {
			return fmt.Errorf("formula mapping %q: both operands are required", m.Name)
		}
		return nil
	default:
		return fmt.Errorf("mapping %q: unknown type %q", m.Name, m.Type)
	}
}

// GpsProfile binds one vendor's export format to canonical metrics.
type GpsProfile struct {
	ID            string          `json:"id"`
	ClubID        string          `json:"clubId,omitempty"`
	GpsSystem     string          `json:"gpsSystem"`
	Sport         string          `json:"sport,omitempty"`
	Version       int             `json:"version"`
	ColumnMapping []ColumnMapping `json:"columnMapping"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks every mapping entry and verifies canonical keys exist
// in the metric registry (the athlete-name pseudo-key is allowed).
func (p *GpsProfile) Validate() error {
	if p.GpsSystem == "" {
		return errors.New("profile: gpsSystem is required")
	}
	if len(p.ColumnMapping) == 0 {
		return errors.New("profile: columnMapping is empty")
	}

	for _, m := range p.ColumnMapping {
		if err := m.Validate(); err != nil {
			return err
		}
		if m.CanonicalKey == "" || m.CanonicalKey == canon.AthleteNameKey {
			continue
		}
		if _, ok := metric.Get(m.CanonicalKey); !ok {
			return fmt.Errorf("profile: unknown canonical key %q", m.CanonicalKey)
		}
	}
	return nil
}

// NameMapping returns the mapping entry bound to the athlete-name key,
// if the profile declares one.
func (p *GpsProfile) NameMapping() (ColumnMapping, bool) {
	for _, m := range p.ColumnMapping {
		if m.CanonicalKey == canon.AthleteNameKey {
			return m, true
		}
	}
	return ColumnMapping{}, false
}
