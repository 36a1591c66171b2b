package profile

import "time"

// Snapshot is the immutable copy of a profile taken at processing time
// and persisted with the report. Later profile edits bump the version
// and never touch snapshots already referenced by reports.
type Snapshot struct {
	ProfileID     string          `json:"profileId"`
	GpsSystem     string          `json:"gpsSystem"`
	Version       int             `json:"version"`
	ColumnMapping []ColumnMapping `json:"columnMapping"`
	CreatedAt     time.Time       `json:"createdAt"`
	TakenAt       time.Time       `json:"takenAt"`
}

// Snapshot deep-copies the profile's mapping list so later in-memory
// edits cannot leak into a persisted report.
func (p *GpsProfile) Snapshot(now time.Time) Snapshot {
	mapping := make([]ColumnMapping, len(p.ColumnMapping))
	copy(mapping, p.ColumnMapping)
	for i, m := range mapping {
		if m.Formula != nil {
			f := *m.Formula
			mapping[i].Formula = &f
		}
	}

	return Snapshot{
		ProfileID:     p.ID,
		GpsSystem:     p.GpsSystem,
		Version:       p.Version,
		ColumnMapping: mapping,
		CreatedAt:     p.CreatedAt,
		TakenAt:       now,
	}
}
