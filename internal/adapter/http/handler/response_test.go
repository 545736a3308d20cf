package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

func serveOnce(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	req, _ := http.NewRequest("GET", "/test", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRespondSuccess(t *testing.T) {
	w := serveOnce(func(c *gin.Context) {
		c.Set(requestIDKey, "test-request-id")
		respondSuccess(c, http.StatusOK, map[string]string{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotNil(t, response.Data)
	assert.Nil(t, response.Error)
	require.NotNil(t, response.Meta)
	assert.Equal(t, "test-request-id", response.Meta.RequestID)
	assert.Empty(t, response.Meta.Warning)
}

func TestRespondClassification(t *testing.T) {
	t.Run("label result has no warning", func(t *testing.T) {
		w := serveOnce(func(c *gin.Context) {
			output := &usecase.ClassifyOutput{
				Result: entity.LabelCenter.String(),
				Label:  entity.LabelCenter.String(),
			}
			respondClassification(c, http.StatusOK, output, output.Warning)
		})

		var response Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Empty(t, response.Meta.Warning)
		assert.NotContains(t, w.Body.String(), `"warning"`)
	})

	t.Run("warning result is echoed in meta", func(t *testing.T) {
		w := serveOnce(func(c *gin.Context) {
			output := &usecase.ClassifyOutput{
				Result:  entity.WarningNoText,
				Warning: entity.WarningNoText,
			}
			respondClassification(c, http.StatusOK, output, output.Warning)
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var response Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, entity.WarningNoText, response.Meta.Warning)
	})
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
	}{
		{"bad request", http.StatusBadRequest, "INVALID_REQUEST", "invalid input"},
		{"tokenization", http.StatusUnprocessableEntity, "TOKENIZATION_ERROR", "tokenization failed: input is not valid UTF-8"},
		{"internal", http.StatusInternalServerError, "INTERNAL_ERROR", "something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveOnce(func(c *gin.Context) {
				respondError(c, tt.status, tt.code, tt.message)
			})

			assert.Equal(t, tt.status, w.Code)

			var response Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Nil(t, response.Data)
			require.NotNil(t, response.Error)
			assert.Equal(t, tt.code, response.Error.Code)
			assert.Equal(t, tt.message, response.Error.Message)
			assert.NotEmpty(t, response.Meta.RequestID)
		})
	}
}

func TestNewMeta(t *testing.T) {
	t.Run("uses existing request ID", func(t *testing.T) {
		w := serveOnce(func(c *gin.Context) {
			c.Set(requestIDKey, "existing-id")
			c.JSON(http.StatusOK, newMeta(c))
		})

		var meta MetaInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
		assert.Equal(t, "existing-id", meta.RequestID)
		assert.NotEmpty(t, meta.Timestamp)
	})

	t.Run("generates new request ID when not set", func(t *testing.T) {
		w := serveOnce(func(c *gin.Context) {
			c.JSON(http.StatusOK, newMeta(c))
		})

		var meta MetaInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
		assert.NotEmpty(t, meta.RequestID)
	})
}
