package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	var scoped bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = logger.FromContext(r.Context()) != logger.Default()
		w.WriteHeader(http.StatusConflict)
	})
	handler := chimw.RequestID(middleware.RequestLogger(base)(inner))

	req := httptest.NewRequest("POST", "/branches/B1/sessions/s1/cart/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !scoped {
		t.Error("expected a request-scoped logger in context")
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusConflict) {
		t.Errorf("status field: got %v, want %d", fields["status"], http.StatusConflict)
	}
	if fields["path"] != "/branches/B1/sessions/s1/cart/items" {
		t.Errorf("path field: got %v", fields["path"])
	}
	if fields["request_id"] == "" || fields["request_id"] == nil {
		t.Error("expected request_id field")
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level: got %v, want warn", entries[0].Level)
	}
}
