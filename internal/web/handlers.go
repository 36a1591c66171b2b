package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
	"github.com/uteam-club/uteam-sub004/internal/metric"
	"github.com/uteam-club/uteam-sub004/internal/profile"
	"github.com/uteam-club/uteam-sub004/internal/report"
)

// clubID extracts the tenant scope from the request. Every data route is
// club-scoped; a request without a club is rejected before any query
// runs.
func clubID(r *http.Request) string {
	if id := r.Header.Get("X-Club-ID"); id != "" {
		return id
	}
	return r.URL.Query().Get("clubId")
}

// userID identifies the acting user for audit attribution.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// ingestContext bounds one ingest run by the configured upload timeout.
// Large workbooks can take far longer than the router-level request
// timeout allows for ordinary routes.
func (s *Server) ingestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.Upload.Timeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
}

// handleIngest accepts a multipart upload with the raw file, the profile
// reference, and the coach's player mappings, and runs the full
// ingestion pipeline.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeBadRequest(w, "invalid_file", "file exceeds the maximum upload size or the form is malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "invalid_file", "no file provided")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var mappings []canon.MappingInput
	if raw := r.FormValue("mappings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mappings); err != nil {
			writeBadRequest(w, "invalid_mappings", "mappings must be a JSON array")
			return
		}
	}

	locale := r.FormValue("locale")
	if locale == "" {
		locale = s.cfg.Upload.DefaultLocale
	}

	ctx, cancel := s.ingestContext(r)
	defer cancel()

	rep, err := s.service.Ingest(ctx, report.IngestRequest{
		ClubID:     club,
		TeamID:     r.FormValue("teamId"),
		ProfileID:  r.FormValue("profileId"),
		FileName:   header.Filename,
		FileBytes:  fileBytes,
		Mappings:   mappings,
		UploadedBy: userID(r),
		Locale:     locale,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	store := s.service.Store()
	rep, err := store.GetReport(r.Context(), store.Pool(), club, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// handleBulkEdit applies field edits, player-row deletions, and
// metric-column deletions in one transaction, recording each change in
// the report's change log.
func (s *Server) handleBulkEdit(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	var req report.BulkEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid_body", "request body must be valid JSON")
		return
	}
	req.EditorID = userID(r)

	rep, err := s.service.BulkEdit(r.Context(), club, chi.URLParam(r, "reportID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReprocess(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	rep, err := s.service.Reprocess(r.Context(), club, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleChangeLog(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	entries, err := s.service.ChangeLog(r.Context(), club, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if entries == nil {
		entries = []report.ChangeEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleListProfiles returns the club's stored profiles followed by the
// vendor starter profiles, which clients use as creation templates.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	profiles, err := s.service.Store().ListProfiles(r.Context(), club)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := struct {
		Profiles []profile.GpsProfile `json:"profiles"`
		Starters []profile.GpsProfile `json:"starters"`
	}{Profiles: profiles, Starters: profile.BuiltIn()}
	if resp.Profiles == nil {
		resp.Profiles = []profile.GpsProfile{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	var p profile.GpsProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid_body", "request body must be valid JSON")
		return
	}
	p.ClubID = club

	if err := p.Validate(); err != nil {
		writeBadRequest(w, "invalid_profile", err.Error())
		return
	}

	if err := s.service.Store().SaveProfile(r.Context(), &p); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	club := clubID(r)
	if club == "" {
		writeBadRequest(w, "missing_club", "X-Club-ID header is required")
		return
	}

	p, err := s.service.Store().GetProfile(r.Context(), club, chi.URLParam(r, "profileID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleListMetrics dumps the canonical metric registry so clients can
// build mapping UIs without hardcoding the metric set.
func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Version string          `json:"version"`
		Metrics []metric.Metric `json:"metrics"`
	}{Version: metric.Version, Metrics: metric.All()})
}

// handleConvertUnits converts a single value between units, exposing the
// same conversion table the pipeline uses.
func (s *Server) handleConvertUnits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeBadRequest(w, "missing_units", "from and to query parameters are required")
		return
	}

	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		writeBadRequest(w, "invalid_value", "value must be a number")
		return
	}

	result, err := gpsunits.Convert(value, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Value  float64 `json:"value"`
		From   string  `json:"from"`
		To     string  `json:"to"`
		Result float64 `json:"result"`
	}{Value: value, From: from, To: to, Result: result})
}
