package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin()
	c.RecordLogin()
	c.RecordWebhookProcessed()
	c.RecordWebhookDuplicate()
	c.RecordParseFallback()
	c.RecordSweep()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.logins))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.webhooksProcessed))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.webhookDuplicates))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.parseFallbacks))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.sweeps))
}

func TestCollector_LabeledCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordWebhookRejected("bad_auth")
	c.RecordWebhookRejected("bad_auth")
	c.RecordRemindersSent("slack", 3)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.webhooksRejected.WithLabelValues("bad_auth")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.remindersSent.WithLabelValues("slack")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(reg).ServeHTTP(recorder, req)

	require.Equal(t, 200, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "prremind_logins_total 1")
}
