package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncChallengesIssued()
	IncChallengesAccepted()
	IncMatchesResolved()
	IncTimeoutSweeps()
	AddChallengesExpired(count float64)
	ObserveResolutionDuration(seconds float64)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(seconds float64)
}
