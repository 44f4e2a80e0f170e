package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New("knoll")
	b := New("knoll")

	a.Question(OutcomeAnswered)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.QuestionsTotal.WithLabelValues(OutcomeAnswered)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.QuestionsTotal.WithLabelValues(OutcomeAnswered)))
}

func TestQuestion_RateLimitedAlsoCountsTotal(t *testing.T) {
	m := New("knoll")

	m.Question(OutcomeRateLimited)
	m.Question(OutcomeRateLimited)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLimitedTotal))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Question(OutcomeAnswered)
		m.AgentRun("ok", time.Second)
		m.ToolCall("wikipedia_search", "ok")
		m.MessageSent("ok")
		m.PendingUpdates(3)
	})
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New("knoll")
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `knoll_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
