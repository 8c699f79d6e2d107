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

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.GET("/test", fn)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	w := serve(t, func(c *gin.Context) {
		Success(c, gin.H{"clientSecret": "pi_1_secret"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	// 数据不包一层信封
	assert.Equal(t, "pi_1_secret", data["clientSecret"])
	assert.NotContains(t, data, "data")
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		fn       gin.HandlerFunc
		status   int
		expected string
	}{
		{"param error default", func(c *gin.Context) { ParamError(c, "") }, http.StatusBadRequest, "Missing required fields"},
		{"param error custom", func(c *gin.Context) { ParamError(c, "Missing user_id") }, http.StatusBadRequest, "Missing user_id"},
		{"auth error", func(c *gin.Context) { AuthError(c, "") }, http.StatusUnauthorized, "Unauthorized"},
		{"permission error", func(c *gin.Context) { PermissionError(c, "nope") }, http.StatusForbidden, "nope"},
		{"not found", func(c *gin.Context) { NotFoundError(c, "") }, http.StatusNotFound, "Not found"},
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
		{"server error", func(c *gin.Context) { ServerError(c, "db down") }, http.StatusInternalServerError, "db down"},
		{"unknown status falls back to status text", func(c *gin.Context) { Error(c, http.StatusConflict, "") }, http.StatusConflict, "Conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.fn)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.expected, parseError(t, w).Error)
		})
	}
}
