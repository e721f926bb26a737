package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hellocms/blackforest/internal/auth"
	"github.com/hellocms/blackforest/internal/config"
	"github.com/hellocms/blackforest/internal/handler"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/router"
	"github.com/hellocms/blackforest/internal/terminal"
	"github.com/hellocms/blackforest/internal/ws"
)

const testSecret = "router-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, AllowedOrigins: []string{"http://localhost:3000"}}
	sessions := handler.NewSessionHandler(terminal.NewRegistry(time.Hour), func(string) terminal.Backend {
		t.Fatal("backend should not be reached")
		return nil
	}, handler.SessionOptions{})
	return router.New(cfg, logger.Nop(), ws.NewHub(nil), sessions)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestSessionRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name  string
		token func() string
		path  string
		want  int
	}{
		{"no token", func() string { return "" }, "/branches/B1/sessions/s1", http.StatusUnauthorized},
		{"wrong role", func() string {
			tok, _ := auth.GenerateToken(testSecret, "u1", "B1", "", "admin", time.Hour)
			return tok
		}, "/branches/B1/sessions/s1", http.StatusForbidden},
		{"other branch", func() string {
			tok, _ := auth.GenerateToken(testSecret, "u1", "B2", "", "branch", time.Hour)
			return tok
		}, "/branches/B1/sessions/s1", http.StatusForbidden},
		{"unknown session", func() string {
			tok, _ := auth.GenerateToken(testSecret, "u1", "B1", "", "branch", time.Hour)
			return tok
		}, "/branches/B1/sessions/s1", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tok := tc.token(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}
