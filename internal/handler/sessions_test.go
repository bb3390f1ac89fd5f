package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-dashboard/internal/dashboard"
	"crypto-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, apiKey string) (*gin.Engine, *dashboard.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := dashboard.NewRegistry()
	r := gin.New()
	New(testTracer, registry, apiKey).RegisterRoutes(r)
	return r, registry
}

func TestListSessions(t *testing.T) {
	r, registry := newTestRouter(t, "")
	id := registry.Register("SHA256:abc", dashboard.NewState(domain.Ethereum, domain.Range6H, domain.ThemeDark))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sessions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int                     `json:"count"`
		Sessions []dashboard.SessionInfo `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Sessions) != 1 {
		t.Fatalf("expected one session, got %+v", resp)
	}
	got := resp.Sessions[0]
	if got.ID != id || got.User != "SHA256:abc" || got.Asset != "ethereum" || got.Range != "6h" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestListSessionsEmpty(t *testing.T) {
	r, _ := newTestRouter(t, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sessions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"count":0,"sessions":[]}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestListSessionsRequiresAPIKey(t *testing.T) {
	r, _ := newTestRouter(t, "secret")

	tests := []struct {
		header   string
		expected int
	}{
		{"", http.StatusUnauthorized},
		{"wrong", http.StatusForbidden},
		{"secret", http.StatusOK},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sessions", nil)
		if tt.header != "" {
			req.Header.Set("X-API-Key", tt.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != tt.expected {
			t.Errorf("key %q: expected %d, got %d", tt.header, tt.expected, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health should not require a key, got %d", w.Code)
	}
}

func TestListSessionsAcceptsBearerToken(t *testing.T) {
	r, _ := newTestRouter(t, "secret")

	for token, expected := range map[string]int{
		"Bearer secret": http.StatusOK,
		"Bearer nope":   http.StatusForbidden,
		"Basic secret":  http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sessions", nil)
		req.Header.Set("Authorization", token)
		r.ServeHTTP(w, req)
		if w.Code != expected {
			t.Errorf("authorization %q: expected %d, got %d", token, expected, w.Code)
		}
	}
}
