package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexa091904/semi-project/internal/health"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func serve(h *health.Handler, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("health", func(t *testing.T) {
		w := serve(health.NewHandler(nil), "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		w := serve(health.NewHandler(map[string]health.Checker{"database": ok}), "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","checks":{"database":"ok"}}`, w.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		w := serve(health.NewHandler(map[string]health.Checker{"database": ok, "events": down}), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
