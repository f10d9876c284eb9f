package metrics

import (
	"github.com/stretchr/testify/mock"
)

// MockMetricsCollector is a mock implementation of the MetricsCollector interface
type MockMetricsCollector struct {
	mock.Mock
}

func (m *MockMetricsCollector) RecordLogin() {
	m.Called()
}

func (m *MockMetricsCollector) RecordWebhookProcessed() {
	m.Called()
}

func (m *MockMetricsCollector) RecordWebhookRejected(reason string) {
	m.Called(reason)
}

func (m *MockMetricsCollector) RecordWebhookDuplicate() {
	m.Called()
}

func (m *MockMetricsCollector) RecordParseFallback() {
	m.Called()
}

func (m *MockMetricsCollector) RecordRemindersSent(channel string, count int) {
	m.Called(channel, count)
}

func (m *MockMetricsCollector) RecordSweep() {
	m.Called()
}
