package metrics

// RecordChangeEvent records one change event published on the notification bus.
func RecordChangeEvent(kind string) {
	ChangeEventsPublishedTotal.WithLabelValues(kind).Inc()
}

// UpdateSubscribers updates the gauge of currently attached stream subscribers.
func UpdateSubscribers(count int) {
	SSESubscribers.Set(float64(count))
}

// UpdateScheduledPending updates the gauge of outstanding scheduled publications.
func UpdateScheduledPending(count int) {
	ScheduledPending.Set(float64(count))
}

// RecordScheduledFired records a scheduled publication firing.
// Result should be "success", "failure" or "cancelled".
func RecordScheduledFired(result string) {
	ScheduledFiredTotal.WithLabelValues(result).Inc()
}

// RecordAuthRequest records a registration or login attempt.
// Operation is "register" or "login"; result names the outcome
// ("success", "invalid", "duplicate", "not_found", "invalid_password",
// "error").
func RecordAuthRequest(operation, result string) {
	AuthRequestsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateNewsTotal updates the total count of news rows in the database.
// This gauge is refreshed periodically by the stats job.
func UpdateNewsTotal(count int64) {
	NewsTotal.Set(float64(count))
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
