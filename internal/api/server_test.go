package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/talgya/hex-island/internal/island"
	"github.com/talgya/hex-island/internal/persistence"
)

func newTestServer(t *testing.T, generate bool) (*Server, http.Handler) {
	t.Helper()
	sess := island.NewSession(island.SmallTestConfig(), nil)
	if generate {
		if _, err := sess.Regenerate(context.Background(), 0); err != nil {
			t.Fatalf("Regenerate: %v", err)
		}
	}
	s := &Server{Session: sess, AdminKey: "secret", RegenLimit: 2}
	return s, s.Handler()
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusBeforeGeneration(t *testing.T) {
	_, h := newTestServer(t, false)
	if rec := do(h, http.MethodGet, "/api/v1/status", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want 503", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	_, h := newTestServer(t, true)
	rec := do(h, http.MethodGet, "/api/v1/status", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}

	var body struct {
		Size     int            `json:"size"`
		Cells    int            `json:"cells"`
		BaseSeed int64          `json:"base_seed"`
		Kinds    map[string]int `json:"kinds"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Size != 6 || body.Cells != 36 || body.BaseSeed != island.DefaultConfig().Base.Seed {
		t.Errorf("unexpected status %+v", body)
	}
	total := 0
	for _, n := range body.Kinds {
		total += n
	}
	if total != 36 {
		t.Errorf("kind counts sum to %d, want 36", total)
	}
}

func TestBulkIsland(t *testing.T) {
	_, h := newTestServer(t, true)
	rec := do(h, http.MethodGet, "/api/v1/island", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var body struct {
		Cells []cellEntry `json:"cells"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Cells) != 36 {
		t.Errorf("cells = %d, want 36", len(body.Cells))
	}
}

func TestCellDetail(t *testing.T) {
	_, h := newTestServer(t, true)

	rec := do(h, http.MethodGet, "/api/v1/island/0/0", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var body struct {
		Cell      cellEntry   `json:"cell"`
		Neighbors []cellEntry `json:"neighbors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Cell.Q != 0 || body.Cell.R != 0 {
		t.Errorf("cell = %+v", body.Cell)
	}
	// (0,0) keeps only (1,0) and (0,1) of its six neighbours inside the grid.
	if len(body.Neighbors) != 2 {
		t.Errorf("neighbors = %d, want 2", len(body.Neighbors))
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/island/6/0", http.StatusNotFound},
		{"/api/v1/island/x/0", http.StatusBadRequest},
		{"/api/v1/island/3", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(h, http.MethodGet, tt.path, "", ""); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestRegenerateAuth(t *testing.T) {
	_, h := newTestServer(t, true)
	if rec := do(h, http.MethodPost, "/api/v1/regenerate", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/api/v1/regenerate", "", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	s, _ := newTestServer(t, true)
	s.AdminKey = ""
	if rec := do(s.Handler(), http.MethodPost, "/api/v1/regenerate", "", "x"); rec.Code != http.StatusForbidden {
		t.Errorf("disabled admin = %d, want 403", rec.Code)
	}
}

func TestRegenerateAndRateLimit(t *testing.T) {
	s, h := newTestServer(t, true)
	db, err := persistence.Open(filepath.Join(t.TempDir(), "island.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	s.DB = db

	rec := do(h, http.MethodPost, "/api/v1/regenerate", `{"seed": 77}`, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ID       string `json:"id"`
		BaseSeed int64  `json:"base_seed"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.BaseSeed != 77 || body.ID == "" {
		t.Errorf("unexpected response %+v", body)
	}
	if cur, _ := s.Session.Current(); cur.Config.Base.Seed != 77 {
		t.Errorf("session not regenerated, seed = %d", cur.Config.Base.Seed)
	}

	if rec := do(h, http.MethodPost, "/api/v1/regenerate", "", "secret"); rec.Code != http.StatusOK {
		t.Fatalf("second regenerate = %d", rec.Code)
	}
	rec = do(h, http.MethodPost, "/api/v1/regenerate", "", "secret")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third regenerate = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	if rec := do(h, http.MethodPost, "/api/v1/regenerate", "{bad", "secret"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("limited client with bad body = %d, want 429", rec.Code)
	}
}

func TestRegenerateWrongMethodKeepsQuota(t *testing.T) {
	_, h := newTestServer(t, true)
	for i := 0; i < 3; i++ {
		rec := do(h, http.MethodGet, "/api/v1/regenerate", "", "secret")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("GET #%d = %d, want 405", i+1, rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("Allow = %q, want POST", rec.Header().Get("Allow"))
		}
	}
	if rec := do(h, http.MethodPut, "/api/v1/regenerate", "", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT without token = %d, want 405", rec.Code)
	}

	// RegenLimit is 2, so both POSTs must still fit.
	for i := 0; i < 2; i++ {
		if rec := do(h, http.MethodPost, "/api/v1/regenerate", "", "secret"); rec.Code != http.StatusOK {
			t.Fatalf("POST #%d = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRegenerateBadBody(t *testing.T) {
	_, h := newTestServer(t, true)
	if rec := do(h, http.MethodPost, "/api/v1/regenerate", "{bad", "secret"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad body = %d, want 400", rec.Code)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") {
		t.Fatal("first request denied")
	}
	if rl.Allow("a") {
		t.Fatal("second request allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("other client denied")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Errorf("RetryAfter = %d, want 61", got)
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("request after window denied")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Errorf("clientIP = %q", ip)
	}
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	if ip := clientIP(req); ip != "1.2.3.4" {
		t.Errorf("clientIP with XFF = %q", ip)
	}
}

func TestCORS(t *testing.T) {
	_, h := newTestServer(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("missing CORS origin header")
	}
}
