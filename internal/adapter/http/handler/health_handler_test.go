package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	err error
}

func (s stubModel) Ready(context.Context) error { return s.err }

func serveHealth(t *testing.T, handler *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)

	req, _ := http.NewRequest("GET", path, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy when no dependencies", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(nil, nil, nil), "/health")

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		err := json.Unmarshal(w.Body.Bytes(), &status)
		require.NoError(t, err)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["model"])
		assert.Equal(t, "not configured", status.Components["database"])
		assert.Equal(t, "not configured", status.Components["redis"])
	})

	t.Run("healthy when model is ready", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(stubModel{}, nil, nil), "/health")

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Components["model"])
	})

	t.Run("unhealthy when model is down", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(stubModel{err: errors.New("model not ready")}, nil, nil), "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "error: model not ready", status.Components["model"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ready when no model configured", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(nil, nil, nil), "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ready")
	})

	t.Run("not ready when model is down", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(stubModel{err: errors.New("connection refused")}, nil, nil), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "model unavailable")
	})
}
