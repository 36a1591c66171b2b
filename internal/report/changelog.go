package report

// changelog.go implements the transactional edit path. The diff of
// {field edits, deleted players, deleted metrics} is computed against
// the latest stored canonical snapshot and written back atomically with
// one appended change-log entry per changed field. A storage failure
// anywhere rolls the whole edit back; canonical data and its log can
// never diverge.

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/logging"
)

// BulkEdit applies a coach's manual corrections to an ingested report.
func (s *Service) BulkEdit(ctx context.Context, clubID, reportID string, req BulkEditRequest) (*GpsReport, error) {
	tx, err := s.store.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rep, err := s.store.GetReport(ctx, tx, clubID, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Canonical == nil {
		return nil, fmt.Errorf("report %s has no canonical data", reportID)
	}

	now := time.Now().UTC()
	entries := applyEdits(rep.Canonical, req, reportID, now)
	if len(entries) == 0 {
		return rep, nil // nothing changed; no new log entries, no write
	}

	recomputeSummary(rep.Canonical)

	if err := s.store.UpdateCanonical(ctx, tx, reportID, rep.Canonical); err != nil {
		return nil, err
	}
	if err := s.store.AppendChangeLog(ctx, tx, entries); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	logging.FromContext(ctx).Info("report edited",
		"report_id", reportID,
		"changed_fields", len(entries),
		"editor", req.EditorID,
	)
	return rep, nil
}

// applyEdits mutates the canonical blob in place and returns one change
// entry per field that actually changed. Edits to unknown rows or fields
// are ignored rather than failing the batch.
func applyEdits(c *Canonical, req BulkEditRequest, reportID string, now time.Time) []ChangeEntry {
	var entries []ChangeEntry

	// V7 ids are time-ordered, so entries sharing the batch timestamp
	// still sort in insertion order.
	record := func(field, oldVal, newVal string) {
		entries = append(entries, ChangeEntry{
			ID:           uuid.Must(uuid.NewV7()).String(),
			ReportDataID: reportID,
			FieldName:    field,
			OldValue:     oldVal,
			NewValue:     newVal,
			ChangedByID:  req.EditorID,
			ChangedAt:    now,
			ChangeReason: req.Reason,
		})
	}

	byIndex := make(map[int]*canon.CanonicalRow, len(c.Rows))
	for i := range c.Rows {
		byIndex[c.Rows[i].RowIndex] = &c.Rows[i]
	}

	for _, edit := range req.Edits {
		row, ok := byIndex[edit.RowIndex]
		if !ok {
			continue
		}
		old, exists := row.Metrics[edit.Field]
		if !exists {
			continue
		}
		if valueString(old) == valueString(edit.NewValue) {
			continue
		}
		record(fieldKey(edit.RowIndex, edit.Field), valueString(old), valueString(edit.NewValue))
		row.Metrics[edit.Field] = edit.NewValue
	}

	if len(req.DeletedPlayers) > 0 {
		deleted := make(map[string]bool, len(req.DeletedPlayers))
		for _, id := range req.DeletedPlayers {
			deleted[id] = true
		}
		kept := c.Rows[:0]
		for _, row := range c.Rows {
			if row.AthleteID != "" && deleted[row.AthleteID] {
				record(fieldKey(row.RowIndex, "__row"), row.AthleteName, "")
				continue
			}
			kept = append(kept, row)
		}
		c.Rows = kept
	}

	for _, key := range req.DeletedMetrics {
		removed := false
		for i := range c.Rows {
			if _, ok := c.Rows[i].Metrics[key]; ok {
				delete(c.Rows[i].Metrics, key)
				removed = true
			}
		}
		if removed {
			record("__metric:"+key, key, "")
			delete(c.Units, key)
			delete(c.Summary, key)
		}
	}

	return entries
}

// recomputeSummary rebuilds the per-metric sums over player-resolved
// rows after edits changed the underlying values.
func recomputeSummary(c *Canonical) {
	summary := make(map[string]float64)
	for _, row := range c.Rows {
		if row.AthleteID == "" {
			continue
		}
		for key, v := range row.Metrics {
			if f, ok := toFloat(v); ok {
				summary[key] += f
			}
		}
	}
	c.Summary = summary
	c.Meta.Counts.Canonical = len(c.Rows)
}

func fieldKey(rowIndex int, field string) string {
	return fmt.Sprintf("row[%d].%s", rowIndex, field)
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := toFloat(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
