package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		value      any
		wantStatus int
		wantBody   string
	}{
		{"encodes value", http.StatusCreated, map[string]int{"n": 1}, http.StatusCreated, `{"n":1}` + "\n"},
		{"infinite float", http.StatusOK, map[string]float64{"total": math.Inf(1)}, http.StatusInternalServerError, `{"error":"internal server error"}` + "\n"},
		{"nan float", http.StatusOK, map[string]float64{"interest": math.NaN()}, http.StatusInternalServerError, `{"error":"internal server error"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeJSON(rec, tt.status, tt.value)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestProjectHugeAmount(t *testing.T) {
	h := NewProjectionHandler(nil)

	tests := []struct {
		name  string
		query string
	}{
		{"overflowing amount", "amount=1e308&cadence=weekly&years=1&rate=0.07"},
		{"years above cap", "years=100000"},
		{"overflowing years", "years=2305843009213693952"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projections?"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.Project(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error == "" {
				t.Fatalf("expected error body, got %q (%v)", rec.Body.String(), err)
			}
		})
	}
}
