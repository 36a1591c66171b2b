package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/logging"
	"github.com/uteam-club/uteam-sub004/internal/metric"
	"github.com/uteam-club/uteam-sub004/internal/profile"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// Service runs the ingestion pipeline and the edit path.
type Service struct {
	store *Store
}

// NewService creates the report service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{store: NewStore(pool)}
}

// Store exposes the persistence layer to the HTTP handlers that only
// read (profiles list, change log).
func (s *Service) Store() *Store { return s.store }

// Ingest processes one uploaded file end to end: parse, apply profile,
// validate the name column, resolve players, sanitize, canonicalize, and
// persist the report with its profile snapshot — all inside one
// transaction so a failed upload never leaves a partial report.
//
// The pipeline has exactly two suspension points: reading the file bytes
// (done by the caller) and the roster batch lookup. Every transform
// stage in between runs to completion synchronously.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*GpsReport, error) {
	log := logging.FromContext(ctx).With("profile_id", req.ProfileID, "file", req.FileName)

	if len(req.Mappings) == 0 {
		return nil, ErrNoMappings
	}

	prof, err := s.store.GetProfile(ctx, req.ClubID, req.ProfileID)
	if err != nil {
		return nil, err
	}

	parsed, err := sheet.Parse(req.FileBytes, req.FileName)
	if err != nil {
		return nil, err
	}
	log.Info("sheet parsed", "headers", len(parsed.Headers), "rows", len(parsed.Rows))

	// Duplicate pre-flight happens before the roster I/O so a bad batch
	// fails fast, then the resolver is rebuilt with roster names folded in.
	if _, err := canon.NewResolver(req.Mappings, nil); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Mappings))
	for _, m := range req.Mappings {
		if m.PlayerID != "" {
			ids = append(ids, m.PlayerID)
		}
	}
	roster, err := s.store.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resolver, err := canon.NewResolver(req.Mappings, roster)
	if err != nil {
		return nil, err
	}

	canonical, err := BuildCanonical(parsed, prof, resolver, req.Locale)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := prof.Snapshot(now)
	rep := &GpsReport{
		ID:           uuid.NewString(),
		ClubID:       req.ClubID,
		TeamID:       req.TeamID,
		ProfileID:    prof.ID,
		GpsSystem:    prof.GpsSystem,
		FileName:     req.FileName,
		IngestStatus: StatusProcessed,
		RawData:      parsed,
		Canonical:    canonical,
		Snapshot:     &snapshot,
		UploadedBy:   req.UploadedBy,
		CreatedAt:    now,
	}

	tx, err := s.store.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.store.InsertReport(ctx, tx, rep); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Info("report ingested",
		"report_id", rep.ID,
		"input_rows", canonical.Meta.Counts.Input,
		"canonical_rows", canonical.Meta.Counts.Canonical,
		"warnings", len(canonical.Warnings),
	)
	return rep, nil
}

// Reprocess re-runs canonicalization from the stored rawData with the
// profile's current version, taking a fresh snapshot. Existing player
// attributions are reused via the rows' recorded identities.
func (s *Service) Reprocess(ctx context.Context, clubID, reportID string) (*GpsReport, error) {
	tx, err := s.store.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rep, err := s.store.GetReport(ctx, tx, clubID, reportID)
	if err != nil {
		return nil, err
	}
	if rep.RawData == nil {
		return nil, fmt.Errorf("report %s has no raw data to reprocess", reportID)
	}

	prof, err := s.store.GetProfile(ctx, clubID, rep.ProfileID)
	if err != nil {
		return nil, err
	}

	mappings := mappingsFromRows(rep.Canonical)
	resolver, err := canon.NewResolver(mappings, nil)
	if err != nil {
		return nil, err
	}

	canonical, err := BuildCanonical(rep.RawData, prof, resolver, "")
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateCanonical(ctx, tx, reportID, canonical); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	rep.Canonical = canonical
	logging.FromContext(ctx).Info("report reprocessed", "report_id", reportID, "profile_version", prof.Version)
	return rep, nil
}

// ChangeLog returns the report's append-only edit history, scoped to
// the owning club like every other report read.
func (s *Service) ChangeLog(ctx context.Context, clubID, reportID string) ([]ChangeEntry, error) {
	return s.store.GetChangeLog(ctx, clubID, reportID)
}

// BuildCanonical is the pure pipeline core shared by Ingest and
// Reprocess: profile application, name-column validation, sanitization,
// and canonical mapping, with the warning ledger accumulating additively
// through every stage.
func BuildCanonical(parsed *sheet.ParsedSheet, prof *profile.GpsProfile, resolver *canon.Resolver, locale string) (*Canonical, error) {
	applied, warnings := profile.ApplyProfile(parsed, prof)

	if nameMapping, ok := prof.NameMapping(); ok {
		values := canon.NameValues(applied.Rows, applied.Columns)
		if w, _, flagged := canon.ValidateAthleteNameColumn(values, parsed.Headers, nameMapping.SourceHeader, locale); flagged {
			warnings = append(warnings, w)
		}
	}

	sanitized := canon.DropUselessRows(applied.Rows, applied.Columns)
	warnings = append(warnings, sanitized.Warnings...)

	result := canon.MapRowsToCanonical(sanitized.FilteredRows, applied.Columns, canon.Options{
		Resolver:        resolver,
		InputCount:      len(applied.Rows),
		OriginalIndexes: sanitized.KeptIndexes,
		PriorWarnings:   warnings,
		AllRows:         applied.Rows,
	})

	units := make(map[string]string)
	for _, key := range canon.MetricKeys(applied.Columns) {
		if m, ok := metric.Get(key); ok {
			units[key] = m.CanonicalUnit
		}
	}

	return &Canonical{
		Version:   metric.Version,
		Units:     units,
		ProfileID: prof.ID,
		GpsSystem: prof.GpsSystem,
		Rows:      result.Rows,
		Summary:   result.Summary,
		Warnings:  result.Meta.Warnings,
		Meta:      result.Meta,
	}, nil
}

// mappingsFromRows rebuilds mapping inputs from previously attributed
// rows so reprocessing keeps the coach's manual work.
func mappingsFromRows(c *Canonical) []canon.MappingInput {
	if c == nil {
		return nil
	}
	var out []canon.MappingInput
	for _, row := range c.Rows {
		if row.AthleteID == "" {
			continue
		}
		idx := row.RowIndex
		out = append(out, canon.MappingInput{
			RowIndex:   &idx,
			ReportName: row.AthleteName,
			PlayerID:   row.AthleteID,
		})
	}
	return out
}
