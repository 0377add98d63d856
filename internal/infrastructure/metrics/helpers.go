package metrics

import "time"

// RecordLoginStep records one executed login step
func (m *Metrics) RecordLoginStep(step string) {
	m.LoginStepsTotal.WithLabelValues(step).Inc()
}

// RecordLoginFailure records a failed login step with its reason
func (m *Metrics) RecordLoginFailure(step, reason string) {
	m.LoginFailures.WithLabelValues(step, reason).Inc()
}

// RecordScan records a completed dry-run scan
func (m *Metrics) RecordScan(dialogs int, duration time.Duration) {
	m.ScansTotal.Inc()
	m.DialogsPerScan.Observe(float64(dialogs))
	m.ScanDuration.Observe(duration.Seconds())
}

// RecordCleanup records a completed delete pass
func (m *Metrics) RecordCleanup(deleted, errors int, duration time.Duration) {
	m.CleanupsTotal.Inc()
	m.MessagesDeleted.Add(float64(deleted))
	m.DeleteErrors.Add(float64(errors))
	m.CleanupDuration.Observe(duration.Seconds())
}

// RecordFloodWait records one honored flood wait pause
func (m *Metrics) RecordFloodWait() {
	m.FloodWaitsTotal.Inc()
}

// RecordStalk records one completed presence report
func (m *Metrics) RecordStalk() {
	m.StalksTotal.Inc()
}

// RecordConnDial records a connection build attempt
func (m *Metrics) RecordConnDial(err error) {
	m.ConnDialsTotal.Inc()
	if err != nil {
		m.ConnDialErrors.Inc()
	} else {
		m.ActiveConnections.Inc()
	}
}

// RecordConnClose records a connection teardown
func (m *Metrics) RecordConnClose() {
	m.ActiveConnections.Dec()
}
