package rest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, wsHandler http.Handler) *Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "tictactoe_test_total", Help: "test counter"})
	reg.MustRegister(counter)
	counter.Inc()

	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), wsHandler, reg)
}

func TestServer_Routes(t *testing.T) {
	wsCalled := false
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		wsCalled = true
		w.WriteHeader(http.StatusForbidden)
	})
	server := newTestServer(t, wsHandler)

	t.Run("Ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tictactoe_test_total 1")
	})

	t.Run("WebSocket route is delegated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

		require.True(t, wsCalled)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
