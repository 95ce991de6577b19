package telemetry

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeError, Outcome(errors.New("x")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	before := testutil.ToFloat64(ToolCalls.WithLabelValues("browse_web", OutcomeSuccess))
	ToolCalls.WithLabelValues("browse_web", OutcomeSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ToolCalls.WithLabelValues("browse_web", OutcomeSuccess)))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "web_agent_tool_calls_total")
}
