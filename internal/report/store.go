package report

// store.go is the pgx persistence layer: gps_profiles, gps_reports,
// gps_report_change_log, and the roster lookup. Nullable columns go
// through pgtype values; JSON blobs are marshaled at the boundary.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/profile"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// Store wraps the connection pool with the queries the service needs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for transaction control.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// GetProfile loads one profile by id, scoped to a club.
func (s *Store) GetProfile(ctx context.Context, clubID, profileID string) (*profile.GpsProfile, error) {
	var p profile.GpsProfile
	var mappingJSON []byte
	var createdAt pgtype.Timestamptz
	var sport pgtype.Text

	err := s.pool.QueryRow(ctx, `
		SELECT id, gps_system, sport, version, column_mapping, created_at
		FROM gps_profiles
		WHERE id = $1 AND club_id = $2`,
		profileID, clubID,
	).Scan(&p.ID, &p.GpsSystem, &sport, &p.Version, &mappingJSON, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if err := json.Unmarshal(mappingJSON, &p.ColumnMapping); err != nil {
		return nil, fmt.Errorf("decode column mapping: %w", err)
	}
	p.ClubID = clubID
	p.Sport = sport.String
	p.CreatedAt = createdAt.Time
	return &p, nil
}

// ListProfiles returns a club's profiles, newest first.
func (s *Store) ListProfiles(ctx context.Context, clubID string) ([]profile.GpsProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, gps_system, sport, version, column_mapping, created_at
		FROM gps_profiles
		WHERE club_id = $1
		ORDER BY created_at DESC`,
		clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []profile.GpsProfile
	for rows.Next() {
		var p profile.GpsProfile
		var mappingJSON []byte
		var createdAt pgtype.Timestamptz
		var sport pgtype.Text
		if err := rows.Scan(&p.ID, &p.GpsSystem, &sport, &p.Version, &mappingJSON, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(mappingJSON, &p.ColumnMapping); err != nil {
			return nil, fmt.Errorf("decode column mapping for %s: %w", p.ID, err)
		}
		p.ClubID = clubID
		p.Sport = sport.String
		p.CreatedAt = createdAt.Time
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveProfile inserts a new profile (version 1) or a new version of an
// existing one. Profiles referenced by reports are never mutated in
// place.
func (s *Store) SaveProfile(ctx context.Context, p *profile.GpsProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.Version = 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	mappingJSON, err := json.Marshal(p.ColumnMapping)
	if err != nil {
		return fmt.Errorf("encode column mapping: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO gps_profiles (id, club_id, gps_system, sport, version, column_mapping, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET column_mapping = EXCLUDED.column_mapping,
		    version = gps_profiles.version + 1`,
		p.ID, p.ClubID, p.GpsSystem, toPgText(p.Sport), p.Version, mappingJSON, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetPlayersByIDs is the roster-lookup collaborator: one batch query for
// player names by id.
func (s *Store) GetPlayersByIDs(ctx context.Context, ids []string) ([]canon.PlayerRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, first_name, last_name
		FROM players
		WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	defer rows.Close()

	var out []canon.PlayerRef
	for rows.Next() {
		var p canon.PlayerRef
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertReport persists a freshly processed report inside the given
// transaction.
func (s *Store) InsertReport(ctx context.Context, db DBTX, r *GpsReport) error {
	rawJSON, err := json.Marshal(r.RawData)
	if err != nil {
		return fmt.Errorf("encode raw data: %w", err)
	}
	canonJSON, err := json.Marshal(map[string]*Canonical{"canonical": r.Canonical})
	if err != nil {
		return fmt.Errorf("encode canonical: %w", err)
	}
	snapJSON, err := json.Marshal(r.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO gps_reports
			(id, club_id, team_id, profile_id, gps_system, file_name,
			 ingest_status, raw_data, processed_data, profile_snapshot,
			 uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		r.ID, r.ClubID, r.TeamID, r.ProfileID, r.GpsSystem, r.FileName,
		r.IngestStatus, rawJSON, canonJSON, snapJSON,
		toPgText(r.UploadedBy), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport loads a report including its canonical blob and snapshot.
func (s *Store) GetReport(ctx context.Context, db DBTX, clubID, reportID string) (*GpsReport, error) {
	var r GpsReport
	var rawJSON, canonJSON, snapJSON []byte
	var uploadedBy pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := db.QueryRow(ctx, `
		SELECT id, club_id, team_id, profile_id, gps_system, file_name,
		       ingest_status, raw_data, processed_data, profile_snapshot,
		       uploaded_by, created_at, updated_at
		FROM gps_reports
		WHERE id = $1 AND club_id = $2`,
		reportID, clubID,
	).Scan(&r.ID, &r.ClubID, &r.TeamID, &r.ProfileID, &r.GpsSystem, &r.FileName,
		&r.IngestStatus, &rawJSON, &canonJSON, &snapJSON,
		&uploadedBy, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	if len(rawJSON) > 0 {
		r.RawData = &sheet.ParsedSheet{}
		if err := json.Unmarshal(rawJSON, r.RawData); err != nil {
			return nil, fmt.Errorf("decode raw data: %w", err)
		}
	}
	if len(canonJSON) > 0 {
		var wrapper struct {
			Canonical *Canonical `json:"canonical"`
		}
		if err := json.Unmarshal(canonJSON, &wrapper); err != nil {
			return nil, fmt.Errorf("decode canonical: %w", err)
		}
		r.Canonical = wrapper.Canonical
	}
	if len(snapJSON) > 0 {
		r.Snapshot = &profile.Snapshot{}
		if err := json.Unmarshal(snapJSON, r.Snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	r.UploadedBy = uploadedBy.String
	r.CreatedAt = createdAt.Time
	r.UpdatedAt = updatedAt.Time
	return &r, nil
}

// UpdateCanonical replaces the report's canonical blob inside the given
// transaction. Callers must append change-log entries in the same
// transaction; a canonical update without its log entries must never
// commit.
func (s *Store) UpdateCanonical(ctx context.Context, db DBTX, reportID string, c *Canonical) error {
	canonJSON, err := json.Marshal(map[string]*Canonical{"canonical": c})
	if err != nil {
		return fmt.Errorf("encode canonical: %w", err)
	}

	tag, err := db.Exec(ctx, `
		UPDATE gps_reports
		SET processed_data = $2, updated_at = now()
		WHERE id = $1`,
		reportID, canonJSON,
	)
	if err != nil {
		return fmt.Errorf("update canonical: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// AppendChangeLog inserts change-log entries inside the given
// transaction. The table is append-only; there is no update or delete
// path.
func (s *Store) AppendChangeLog(ctx context.Context, db DBTX, entries []ChangeEntry) error {
	for _, e := range entries {
		_, err := db.Exec(ctx, `
			INSERT INTO gps_report_change_log
				(id, report_data_id, field_name, old_value, new_value,
				 changed_by_id, changed_at, change_reason)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, e.ReportDataID, e.FieldName, e.OldValue, e.NewValue,
			toPgText(e.ChangedByID), e.ChangedAt, toPgText(e.ChangeReason),
		)
		if err != nil {
			return fmt.Errorf("append change log: %w", err)
		}
	}
	return nil
}

// GetChangeLog returns a report's full edit history, oldest first.
// Entries within one bulk edit share a timestamp, so the time-ordered
// entry id is the tiebreaker. The report's club ownership is verified
// first; the log table itself carries no club column.
func (s *Store) GetChangeLog(ctx context.Context, clubID, reportID string) ([]ChangeEntry, error) {
	var owned bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM gps_reports WHERE id = $1 AND club_id = $2)`,
		reportID, clubID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("check report ownership: %w", err)
	}
	if !owned {
		return nil, ErrReportNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, report_data_id, field_name, old_value, new_value,
		       changed_by_id, changed_at, change_reason
		FROM gps_report_change_log
		WHERE report_data_id = $1
		ORDER BY changed_at ASC, id ASC`,
		reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("get change log: %w", err)
	}
	defer rows.Close()

	var out []ChangeEntry
	for rows.Next() {
		var e ChangeEntry
		var changedBy, reason pgtype.Text
		var changedAt pgtype.Timestamptz
		if err := rows.Scan(&e.ID, &e.ReportDataID, &e.FieldName, &e.OldValue, &e.NewValue,
			&changedBy, &changedAt, &reason); err != nil {
			return nil, err
		}
		e.ChangedByID = changedBy.String
		e.ChangedAt = changedAt.Time
		e.ChangeReason = reason.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
