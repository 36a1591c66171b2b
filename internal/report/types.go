// Package report orchestrates the ingestion pipeline end to end and owns
// report persistence: the processed canonical blob, the raw-data blob
// kept for reprocessing, the profile snapshot, and the append-only
// change log for post-hoc manual edits.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/profile"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// DBTX is the interface for database operations, satisfied by both
// *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Ingest status values persisted on a report.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

var (
	// ErrProfileNotFound indicates the referenced profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrReportNotFound indicates the report does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrNoMappings indicates an upload was submitted without any player
	// mappings; ingestion cannot attribute rows and rejects the upload.
	ErrNoMappings = errors.New("no player mappings submitted")
)

// Canonical is the persisted processedData.canonical blob consumed by
// downstream UI and analytics.
type Canonical struct {
	Version   string              `json:"version"`
	Units     map[string]string   `json:"units"`
	ProfileID string              `json:"profileId"`
	GpsSystem string              `json:"gpsSystem"`
	Rows      []canon.CanonicalRow `json:"rows"`
	Summary   map[string]float64  `json:"summary"`
	Warnings  []canon.Warning     `json:"warnings"`
	Meta      canon.ImportMeta    `json:"meta"`
}

// GpsReport is one processed upload.
type GpsReport struct {
	ID           string             `json:"id"`
	ClubID       string             `json:"clubId"`
	TeamID       string             `json:"teamId"`
	ProfileID    string             `json:"profileId"`
	GpsSystem    string             `json:"gpsSystem"`
	FileName     string             `json:"fileName"`
	IngestStatus string             `json:"ingestStatus"`
	RawData      *sheet.ParsedSheet `json:"rawData,omitempty"`
	Canonical    *Canonical         `json:"canonical,omitempty"`
	Snapshot     *profile.Snapshot  `json:"profileSnapshot,omitempty"`
	UploadedBy   string             `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// IngestRequest carries one upload through the pipeline.
type IngestRequest struct {
	ClubID     string
	TeamID     string
	ProfileID  string
	FileName   string
	FileBytes  []byte
	Mappings   []canon.MappingInput
	UploadedBy string
	Locale     string
}

// ChangeEntry is one append-only audit record for a manual edit to a
// canonical value. History is never overwritten.
type ChangeEntry struct {
	ID           string    `json:"id"`
	ReportDataID string    `json:"reportDataId"`
	FieldName    string    `json:"fieldName"`
	OldValue     string    `json:"oldValue"`
	NewValue     string    `json:"newValue"`
	ChangedByID  string    `json:"changedById"`
	ChangedAt    time.Time `json:"changedAt"`
	ChangeReason string    `json:"changeReason,omitempty"`
}

// FieldEdit is one requested change to a canonical cell, addressed by
// the row's original sheet index.
type FieldEdit struct {
	RowIndex int    `json:"rowIndex"`
	Field    string `json:"field"`
	NewValue any    `json:"newValue"`
}

// BulkEditRequest is the transactional edit path for an ingested report:
// field edits, player-row deletions, and metric-column deletions applied
// atomically with one change-log entry per changed field.
type BulkEditRequest struct {
	Edits          []FieldEdit `json:"edits"`
	DeletedPlayers []string    `json:"deletedPlayers"`
	DeletedMetrics []string    `json:"deletedMetrics"`
	EditorID       string      `json:"-"`
	Reason         string      `json:"reason,omitempty"`
}
