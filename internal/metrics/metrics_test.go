package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_RecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/applications/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/applications/:id", "204"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/123", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/applications/:id", "204"))
	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesWorkflowCounters(t *testing.T) {
	ApplicationSubmitted()
	ApplicationDecision("approved")
	ReconciliationRepair("transaction", 2)
	ReconciliationRepair("property", 0)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "rental_applications_submitted_total"))
	assert.True(t, strings.Contains(body, `rental_applications_decisions_total{decision="approved"}`))
	assert.True(t, strings.Contains(body, `rental_reconciliation_repairs_total{kind="transaction"}`))
	assert.False(t, strings.Contains(body, `kind="property"`))
}
