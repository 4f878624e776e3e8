package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := cv.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordTransition(t *testing.T) {
	before := getCounterValue(SessionTransitionsTotal, "authenticated")
	RecordTransition("authenticated")
	require.Equal(t, before+1, getCounterValue(SessionTransitionsTotal, "authenticated"))
}

func TestRecordLoginAttempt(t *testing.T) {
	before := getCounterValue(LoginAttemptsTotal, "invalid_credentials")
	RecordLoginAttempt("invalid_credentials")
	RecordLoginAttempt("invalid_credentials")
	require.Equal(t, before+2, getCounterValue(LoginAttemptsTotal, "invalid_credentials"))
}

func TestRecordSelfHeal(t *testing.T) {
	before := getCounter(StorageSelfHealsTotal)
	RecordSelfHeal()
	require.Equal(t, before+1, getCounter(StorageSelfHealsTotal))
}

func TestRecordGuardDecision(t *testing.T) {
	before := getCounterValue(GuardDecisionsTotal, "unauthorized")
	RecordGuardDecision("unauthorized")
	require.Equal(t, before+1, getCounterValue(GuardDecisionsTotal, "unauthorized"))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordAPIRequest("POST /api/auth/login", "200")
	RecordTransition("anonymous")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "convivio_stub_api_requests_total")
	require.Contains(t, string(body), "convivio_session_transitions_total")
}
