package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alanmaizon/gt-translator/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Metrics())
	router.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gin":     GetRequestID(c),
			"context": GetRequestIDFromContext(c.Request.Context()),
		})
	})
	return router
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	res := httptest.NewRecorder()

	testEngine().ServeHTTP(res, req)

	requestID := res.Header().Get("X-Request-Id")
	if requestID == "" {
		t.Fatalf("expected generated request id header")
	}
	want := `{"context":"` + requestID + `","gin":"` + requestID + `"}`
	if strings.TrimSpace(res.Body.String()) != want {
		t.Fatalf("unexpected body %s, want %s", res.Body.String(), want)
	}
}

func TestRequestIDKeepsCallerValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Request-Id", "req-123")
	res := httptest.NewRecorder()

	testEngine().ServeHTTP(res, req)

	if got := res.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected caller request id, got %q", got)
	}
}

func TestGetRequestIDFromContextWithoutValue(t *testing.T) {
	if got := GetRequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id without a value, got %q", got)
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	matched := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/probe", "200")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	beforeMatched := testutil.ToFloat64(matched)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	router := testEngine()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/probe", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/123", nil))

	if got := testutil.ToFloat64(matched); got != beforeMatched+1 {
		t.Fatalf("matched counter: got %f, want %f", got, beforeMatched+1)
	}
	if got := testutil.ToFloat64(unmatched); got != beforeUnmatched+1 {
		t.Fatalf("unmatched counter: got %f, want %f", got, beforeUnmatched+1)
	}
}
