// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is the recording interface used by handlers and the
// scheduler.
type MetricsCollector interface {
	RecordLogin()
	RecordWebhookProcessed()
	RecordWebhookRejected(reason string)
	RecordWebhookDuplicate()
	RecordParseFallback()
	RecordRemindersSent(channel string, count int)
	RecordSweep()
}

// Collector is the Prometheus-backed implementation.
type Collector struct {
	logins            prometheus.Counter
	webhooksProcessed prometheus.Counter
	webhooksRejected  *prometheus.CounterVec
	webhookDuplicates prometheus.Counter
	parseFallbacks    prometheus.Counter
	remindersSent     *prometheus.CounterVec
	sweeps            prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prremind_logins_total",
			Help: "Total number of successful OAuth logins",
		}),
		webhooksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prremind_webhooks_processed_total",
			Help: "Total number of inbound webhook emails stored",
		}),
		webhooksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prremind_webhooks_rejected_total",
			Help: "Total number of inbound webhook emails rejected, by reason",
		}, []string{"reason"}),
		webhookDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prremind_webhook_duplicates_total",
			Help: "Total number of replayed webhook emails skipped by dedupe",
		}),
		parseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prremind_parse_fallbacks_total",
			Help: "Total number of emails stored with only the fallback subject title",
		}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prremind_reminders_sent_total",
			Help: "Total number of PR reminders delivered, by channel",
		}, []string{"channel"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prremind_reminder_sweeps_total",
			Help: "Total number of scheduler reminder sweeps",
		}),
	}

	reg.MustRegister(
		c.logins,
		c.webhooksProcessed,
		c.webhooksRejected,
		c.webhookDuplicates,
		c.parseFallbacks,
		c.remindersSent,
		c.sweeps,
	)

	return c
}

func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

func (c *Collector) RecordWebhookProcessed() {
	c.webhooksProcessed.Inc()
}

func (c *Collector) RecordWebhookRejected(reason string) {
	c.webhooksRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordWebhookDuplicate() {
	c.webhookDuplicates.Inc()
}

func (c *Collector) RecordParseFallback() {
	c.parseFallbacks.Inc()
}

func (c *Collector) RecordRemindersSent(channel string, count int) {
	c.remindersSent.WithLabelValues(channel).Add(float64(count))
}

func (c *Collector) RecordSweep() {
	c.sweeps.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
