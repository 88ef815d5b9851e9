package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatusName(t *testing.T) {
	assert.Equal(t, "OK", StatusName(http.StatusOK))
	assert.Equal(t, "CREATED", StatusName(http.StatusCreated))
	assert.Equal(t, "BAD_REQUEST", StatusName(http.StatusBadRequest))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", StatusName(http.StatusInternalServerError))
}

func TestSuccess_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, gin.H{"user": gin.H{"id": "u1"}}, "user registered", nil)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(201), body["status_code"])
	assert.Equal(t, "CREATED", body["status"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "user registered", body["message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotContains(t, body, "error")
}

func TestError_AbortsWithEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error[any](c, 0, "invalid payload", map[string]string{"email": "is required"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BAD_REQUEST", body["status"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"email": "is required"}, body["error"])
	assert.NotContains(t, body, "data")
}
