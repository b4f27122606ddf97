package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Code)
}

func TestJSONErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONErrorCode(c, http.StatusConflict, "lotFull", "the lot has no available spots", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"message":"the lot has no available spots","code":"lotFull"}`, w.Body.String())
}

func TestHealthy(t *testing.T) {
	assert.False(t, HealthStatus{}.Healthy())
	assert.True(t, HealthStatus{Mongo: true, Redis: []bool{true, true}, CheckedAt: time.Now()}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: []bool{true, false}, CheckedAt: time.Now()}.Healthy())
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", HashToken("test"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.WarnLevel, parseLevel("warn", true))
	assert.Equal(t, zap.InfoLevel, parseLevel("", true))
	assert.Equal(t, zap.DebugLevel, parseLevel("nonsense", false))
}
