package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/uteam-club/uteam-sub004/internal/config"
	"github.com/uteam-club/uteam-sub004/internal/report"
)

func testServer() *Server {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 10 * time.Second
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Upload.DefaultLocale = "ru"
	return NewServer(report.NewService(nil), cfg)
}

func TestHandleListMetrics(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Version string `json:"version"`
		Metrics []struct {
			Code string `json:"code"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Version == "" || len(resp.Metrics) == 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandleConvertUnits(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/units/convert?value=5.2&from=km&to=m", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result != 5200 {
		t.Errorf("result = %v, want 5200", resp.Result)
	}
}

func TestHandleConvertUnits_Unsupported(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/units/convert?value=5&from=m&to=km/h", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "unsupported_conversion" {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestHandleConvertUnits_BadValue(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/units/convert?value=abc&from=km&to=m", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClubScopeRequired(t *testing.T) {
	srv := testServer()
	for _, path := range []string{
		"/api/profiles",
		"/api/reports/some-id",
		"/api/reports/some-id/changelog",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s without club: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestIngestContext_UploadTimeout(t *testing.T) {
	srv := testServer()
	srv.cfg.Upload.Timeout = 5 * time.Minute
	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)

	ctx, cancel := srv.ingestContext(req)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("ingest context should carry the configured upload deadline")
	}
	if remaining := time.Until(deadline); remaining > 5*time.Minute || remaining < 4*time.Minute {
		t.Errorf("deadline in %v, want about 5m", remaining)
	}

	srv.cfg.Upload.Timeout = 0
	ctx, cancel = srv.ingestContext(req)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero upload timeout should leave the context unbounded")
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
