package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testProber(t *testing.T) *Prober {
	t.Helper()
	return NewProber(fastConfig())
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) StatusResponse {
	t.Helper()
	var body StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if body := decodeStatus(t, rec); body.Status != "healthy" {
		t.Errorf("expected healthy, got %q", body.Status)
	}
}

func TestReadinessHandler_Healthy(t *testing.T) {
	p := testProber(t)
	p.Register(NewProbeFunc("db", func(ctx context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	ReadinessHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if body := decodeStatus(t, rec); body.Status != "healthy" {
		t.Errorf("expected healthy, got %q", body.Status)
	}
}

func TestReadinessHandler_Unhealthy(t *testing.T) {
	p := testProber(t)
	p.Register(NewProbeFunc("db", func(ctx context.Context) error {
		return errors.New("connection refused")
	}))

	rec := httptest.NewRecorder()
	ReadinessHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if body := decodeStatus(t, rec); body.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", body.Status)
	}
}

func TestReadinessHandler_DegradedStillReady(t *testing.T) {
	p := testProber(t)
	attempted := false
	p.Register(NewProbeFunc("flaky", func(ctx context.Context) error {
		if !attempted {
			attempted = true
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}))

	rec := httptest.NewRecorder()
	ReadinessHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected degraded to still be ready, got %d", rec.Code)
	}
	if body := decodeStatus(t, rec); body.Status != "degraded" {
		t.Errorf("expected degraded, got %q", body.Status)
	}
}

func TestDetailedHandler(t *testing.T) {
	p := testProber(t)
	p.Register(NewProbeFunc("db", func(ctx context.Context) error { return nil }))
	p.Register(NewProbeFunc("queue", func(ctx context.Context) error {
		return errors.New("down")
	}))

	rec := httptest.NewRecorder()
	DetailedHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	body := decodeStatus(t, rec)
	if body.Status != "unhealthy" {
		t.Errorf("expected unhealthy overall, got %q", body.Status)
	}
	if len(body.Probes) != 2 {
		t.Fatalf("expected 2 probe entries, got %d", len(body.Probes))
	}
	if body.Probes["db"].Status != "healthy" {
		t.Errorf("expected db healthy, got %q", body.Probes["db"].Status)
	}
	queue := body.Probes["queue"]
	if queue.Status != "unhealthy" {
		t.Errorf("expected queue unhealthy, got %q", queue.Status)
	}
	if queue.Error == "" {
		t.Error("expected queue error detail in response")
	}
}

func TestSingleProbeHandler(t *testing.T) {
	p := testProber(t)
	p.Register(NewProbeFunc("db", func(ctx context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	SingleProbeHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe?probe=db", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body ProbeResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected healthy, got %q", body.Status)
	}
	if body.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", body.Attempts)
	}
}

func TestSingleProbeHandler_MissingParam(t *testing.T) {
	p := testProber(t)

	rec := httptest.NewRecorder()
	SingleProbeHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSingleProbeHandler_NotFound(t *testing.T) {
	p := testProber(t)

	rec := httptest.NewRecorder()
	SingleProbeHandler(p).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe?probe=missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRegisterHandlers(t *testing.T) {
	p := testProber(t)
	p.Register(NewProbeFunc("db", func(ctx context.Context) error { return nil }))

	mux := http.NewServeMux()
	RegisterHandlers(mux, p)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 from %s, got %d", path, rec.Code)
		}
	}
}
