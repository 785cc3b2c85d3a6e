package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

func render(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Error(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestError_IncludesDetails(t *testing.T) {
	status, body := render(t, apperror.New(apperror.ErrCodeProfileIncomplete, "заполните профиль").WithDetail("profile_completion", 75))

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PROFILE_INCOMPLETE", body["code"])
	assert.Equal(t, "заполните профиль", body["error"])
	assert.Equal(t, float64(75), body["profile_completion"])
}

func TestError_HidesInternalDetails(t *testing.T) {
	status, body := render(t, apperror.Dependency(errors.New("pq: connection refused"), "не удалось сохранить").WithDetail("secret", "x"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DEPENDENCY_FAILURE", body["code"])
	assert.Equal(t, "внутренняя ошибка сервера", body["error"])
	assert.NotContains(t, body, "secret")
}

func TestError_PlainErrorIsDependencyFailure(t *testing.T) {
	status, body := render(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DEPENDENCY_FAILURE", body["code"])
}

func TestFields_TopLevelKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fields(c, gin.H{"application": gin.H{"id": "a1"}, "success": false})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a1", body["application"].(map[string]any)["id"])
	assert.NotContains(t, body, "data")
}
