package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/compoundjoy/server/internal/app"
	"github.com/compoundjoy/server/internal/config"
	"github.com/compoundjoy/server/internal/db"
	"github.com/compoundjoy/server/internal/model"
	"github.com/compoundjoy/server/internal/storage"
	"github.com/shopspring/decimal"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	app     *app.App
}

func newTestServer(t *testing.T, store storage.Storage) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "api.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		AppEnv:          "development",
		DBDriver:        "sqlite",
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		RateLimitClaims: 2,
		RateLimitWindow: time.Minute,
	}

	a := app.NewWithStorage(cfg, database, store)
	t.Cleanup(func() { a.Close() })

	return &testServer{t: t, handler: SetupRoutes(a), app: a}
}

func (s *testServer) token(userID string) string {
	s.t.Helper()
	token, err := s.app.AuthService.GenerateJWT(userID)
	if err != nil {
		s.t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

// do sends a request as userID ("" for anonymous) and decodes the JSON
// response into out when out is non-nil.
func (s *testServer) do(method, path, userID string, body any, out any) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	var body map[string]string
	if code := s.do(http.MethodGet, "/healthz", "", nil, &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/goals"},
		{http.MethodPost, "/api/goals"},
		{http.MethodGet, "/api/stats"},
		{http.MethodGet, "/api/export"},
		{http.MethodPost, "/api/admin/claim"},
	}
	for _, p := range paths {
		var body map[string]string
		if code := s.do(p.method, p.path, "", nil, &body); code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", p.method, p.path, code)
		}
		if body["error"] == "" {
			t.Fatalf("%s %s: missing error body", p.method, p.path)
		}
	}
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	var goal model.Goal
	code := s.do(http.MethodPost, "/api/goals", "alice", map[string]any{
		"name":          "Laptop",
		"target_amount": 1200,
	}, &goal)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if goal.Icon != model.DefaultGoalIcon || goal.AnnualReturnRate != model.DefaultAnnualReturnRate {
		t.Fatalf("defaults missing: %+v", goal)
	}

	for _, amount := range []float64{50, 50, 100} {
		code := s.do(http.MethodPost, "/api/goals/"+goal.ID+"/contributions", "alice", map[string]any{"amount": amount}, nil)
		if code != http.StatusCreated {
			t.Fatalf("contribution status = %d", code)
		}
	}

	var got model.Goal
	if code := s.do(http.MethodGet, "/api/goals/"+goal.ID, "alice", nil, &got); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if !got.CurrentAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("current = %v, want 200", got.CurrentAmount)
	}

	var stats model.Stats
	s.do(http.MethodGet, "/api/stats", "alice", nil, &stats)
	if !stats.TotalSaved.Equal(decimal.NewFromInt(200)) || stats.TotalContributions != 3 || stats.CompletedGoals != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	var total map[string]decimal.Decimal
	s.do(http.MethodGet, "/api/stats/total", "alice", nil, &total)
	if !total["total_saved"].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total = %v", total)
	}

	var contributions []model.Contribution
	s.do(http.MethodGet, "/api/goals/"+goal.ID+"/contributions", "alice", nil, &contributions)
	if len(contributions) != 3 {
		t.Fatalf("contributions = %d", len(contributions))
	}

	if code := s.do(http.MethodDelete, "/api/goals/"+goal.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	if code := s.do(http.MethodGet, "/api/goals/"+goal.ID, "alice", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", code)
	}
}

func TestCentContributionsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)

	var goal model.Goal
	s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"name": "Jar", "target_amount": "1.20"}, &goal)

	for _, amount := range []any{0.1, "0.2", 0.3} {
		if code := s.do(http.MethodPost, "/api/goals/"+goal.ID+"/contributions", "alice", map[string]any{"amount": amount}, nil); code != http.StatusCreated {
			t.Fatalf("contribution %v status = %d", amount, code)
		}
	}

	var got map[string]any
	s.do(http.MethodGet, "/api/goals/"+goal.ID, "alice", nil, &got)
	if got["current_amount"] != "0.6" || got["remaining"] != "0.6" || got["progress"] != 50.0 {
		t.Fatalf("goal = %v", got)
	}

	var contributions []model.Contribution
	s.do(http.MethodGet, "/api/goals/"+goal.ID+"/contributions", "alice", nil, &contributions)
	sum := decimal.Zero
	for _, c := range contributions {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(decimal.RequireFromString("0.6")) {
		t.Fatalf("contributions sum to %s", sum)
	}
}

func TestGoalErrors(t *testing.T) {
	s := newTestServer(t, nil)

	var goal model.Goal
	s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"name": "Bike", "target_amount": 300}, &goal)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"empty name", http.MethodPost, "/api/goals", "alice", map[string]any{"name": "", "target_amount": 10}, http.StatusBadRequest},
		{"zero target", http.MethodPost, "/api/goals", "alice", map[string]any{"name": "x", "target_amount": 0}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/goals", "alice", map[string]any{"name": "x", "target_amount": 5, "user_id": "bob"}, http.StatusBadRequest},
		{"negative contribution", http.MethodPost, "/api/goals/" + goal.ID + "/contributions", "alice", map[string]any{"amount": -5}, http.StatusBadRequest},
		{"sub cent contribution", http.MethodPost, "/api/goals/" + goal.ID + "/contributions", "alice", map[string]any{"amount": 0.001}, http.StatusBadRequest},
		{"non numeric contribution", http.MethodPost, "/api/goals/" + goal.ID + "/contributions", "alice", map[string]any{"amount": "lots"}, http.StatusBadRequest},
		{"foreign contribution", http.MethodPost, "/api/goals/" + goal.ID + "/contributions", "bob", map[string]any{"amount": 5}, http.StatusNotFound},
		{"foreign get", http.MethodGet, "/api/goals/" + goal.ID, "bob", nil, http.StatusNotFound},
		{"foreign delete", http.MethodDelete, "/api/goals/" + goal.ID, "bob", nil, http.StatusNotFound},
		{"bad sort", http.MethodGet, "/api/goals?sort=size", "alice", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing", "alice", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := s.do(tt.method, tt.path, tt.user, tt.body, nil); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
		})
	}

	var got model.Goal
	s.do(http.MethodGet, "/api/goals/"+goal.ID, "alice", nil, &got)
	if !got.CurrentAmount.IsZero() {
		t.Fatalf("rejected writes changed the ledger: %v", got.CurrentAmount)
	}
}

func TestProjectionEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	var body struct {
		Total      float64 `json:"total"`
		Deposited  float64 `json:"deposited"`
		Cadence    string  `json:"cadence"`
		Series     []any   `json:"series"`
		Affordable []struct {
			Name string `json:"name"`
		} `json:"affordable"`
		Labels struct {
			Deposited string `json:"deposited"`
		} `json:"labels"`
	}
	code := s.do(http.MethodGet, "/api/projections?amount=20&cadence=weekly&years=1&rate=0.10", "", nil, &body)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Deposited != 1040 || body.Total <= 1040 {
		t.Fatalf("deposited=%v total=%v", body.Deposited, body.Total)
	}
	if body.Labels.Deposited != "$1,040" {
		t.Fatalf("label = %q", body.Labels.Deposited)
	}
	if len(body.Series) != 26 || body.Cadence != "weekly" {
		t.Fatalf("series=%d cadence=%q", len(body.Series), body.Cadence)
	}
	if len(body.Affordable) != 1 {
		t.Fatalf("affordable = %v", body.Affordable)
	}

	for _, query := range []string{"cadence=daily", "amount=abc", "years=1.5", "rate=-1", "years=101", "amount=1e308&rate=0.07"} {
		if code := s.do(http.MethodGet, "/api/projections?"+query, "", nil, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", query, code)
		}
	}
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	if code := s.do(http.MethodGet, "/api/admin/profiles", "alice", nil, nil); code != http.StatusForbidden {
		t.Fatalf("profiles before claim = %d", code)
	}
	if code := s.do(http.MethodPost, "/api/admin/claim", "alice", nil, nil); code != http.StatusOK {
		t.Fatalf("claim = %d", code)
	}
	if code := s.do(http.MethodPost, "/api/admin/claim", "bob", nil, nil); code != http.StatusConflict {
		t.Fatalf("second claim = %d", code)
	}

	var status map[string]bool
	s.do(http.MethodGet, "/api/admin/status", "alice", nil, &status)
	if !status["is_admin"] {
		t.Fatalf("status = %v", status)
	}

	var bob model.Profile
	if code := s.do(http.MethodPut, "/api/profile", "bob", map[string]string{"display_name": "Bob"}, &bob); code != http.StatusOK {
		t.Fatalf("upsert = %d", code)
	}

	var alice model.Profile
	s.do(http.MethodGet, "/api/profile", "alice", nil, &alice)

	if code := s.do(http.MethodDelete, "/api/admin/profiles/"+alice.ID, "alice", nil, nil); code != http.StatusForbidden {
		t.Fatalf("self delete = %d", code)
	}
	if code := s.do(http.MethodPatch, "/api/admin/profiles/"+bob.ID+"/role", "alice", map[string]string{"role": "root"}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad role = %d", code)
	}
	if code := s.do(http.MethodDelete, "/api/admin/profiles/"+bob.ID, "bob", nil, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin delete = %d", code)
	}

	var profiles []model.Profile
	s.do(http.MethodGet, "/api/admin/profiles", "alice", nil, &profiles)
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d", len(profiles))
	}

	if code := s.do(http.MethodDelete, "/api/admin/profiles/"+bob.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	if code := s.do(http.MethodGet, "/api/profile", "bob", nil, nil); code != http.StatusNotFound {
		t.Fatalf("bob profile = %d", code)
	}
}

func TestClaimRateLimited(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(http.MethodPost, "/api/admin/claim", "alice", nil, nil)
	for i := 0; i < 2; i++ {
		if code := s.do(http.MethodPost, "/api/admin/claim", "mallory", nil, nil); code != http.StatusConflict {
			t.Fatalf("attempt %d: status = %d, want 409", i, code)
		}
	}
	if code := s.do(http.MethodPost, "/api/admin/claim", "mallory", nil, nil); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}
}

func TestExportEndpoints(t *testing.T) {
	store := storage.NewMemoryStorage()
	s := newTestServer(t, store)

	var goal model.Goal
	s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"name": "Trip", "target_amount": 3000}, &goal)
	s.do(http.MethodPost, "/api/goals/"+goal.ID+"/contributions", "alice", map[string]any{"amount": 75, "note": "first"}, nil)

	var export model.LedgerExport
	if code := s.do(http.MethodGet, "/api/export", "alice", nil, &export); code != http.StatusOK {
		t.Fatalf("export = %d", code)
	}
	if len(export.Goals) != 1 || !export.Stats.TotalSaved.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("export = %+v", export)
	}

	var archived map[string]string
	if code := s.do(http.MethodPost, "/api/exports", "alice", nil, &archived); code != http.StatusCreated {
		t.Fatalf("archive = %d", code)
	}
	if !strings.HasPrefix(archived["url"], "memory://exports/alice/") {
		t.Fatalf("url = %q", archived["url"])
	}
}

func TestArchiveDisabled(t *testing.T) {
	s := newTestServer(t, nil)

	if code := s.do(http.MethodPost, "/api/exports", "alice", nil, nil); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
}
