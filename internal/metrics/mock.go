package metrics

var _ Metrics = (*MockMetrics)(nil)

// MockMetrics is a no-op Metrics implementation that records call counts.
type MockMetrics struct {
	ChallengesIssuedCount   int
	ChallengesAcceptedCount int
	MatchesResolvedCount    int
	TimeoutSweepsCount      int
	ChallengesExpiredTotal  float64
	ResolutionObservations  []float64
	NotifSentCount          int
	NotifFailedCount        int
	StartupTime             float64
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncChallengesIssued() {
	m.ChallengesIssuedCount++
}

func (m *MockMetrics) IncChallengesAccepted() {
	m.ChallengesAcceptedCount++
}

func (m *MockMetrics) IncMatchesResolved() {
	m.MatchesResolvedCount++
}

func (m *MockMetrics) IncTimeoutSweeps() {
	m.TimeoutSweepsCount++
}

func (m *MockMetrics) AddChallengesExpired(count float64) {
	m.ChallengesExpiredTotal += count
}

func (m *MockMetrics) ObserveResolutionDuration(seconds float64) {
	m.ResolutionObservations = append(m.ResolutionObservations, seconds)
}

func (m *MockMetrics) IncNotifSent() {
	m.NotifSentCount++
}

func (m *MockMetrics) IncNotifFailed() {
	m.NotifFailedCount++
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.StartupTime = seconds
}
