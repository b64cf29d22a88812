package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	ChallengesIssued   prometheus.Counter
	ChallengesAccepted prometheus.Counter
	MatchesResolved    prometheus.Counter
	TimeoutSweeps      prometheus.Counter
	ChallengesExpired  prometheus.Counter
	ResolutionDuration prometheus.Histogram
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ChallengesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_issued_total",
			Help: "The total number of challenges created.",
		}),
		ChallengesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_accepted_total",
			Help: "The total number of challenges accepted.",
		}),
		MatchesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_resolved_total",
			Help: "The total number of matches resolved with a winner.",
		}),
		TimeoutSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_timeout_sweeps_total",
			Help: "The total number of challenge timeout sweeps run.",
		}),
		ChallengesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_expired_total",
			Help: "The total number of challenges forfeited by the timeout sweep.",
		}),
		ResolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ladder_match_resolution_duration_seconds",
			Help:    "The duration of individual match resolutions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ladder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ChallengesIssued,
		s.ChallengesAccepted,
		s.MatchesResolved,
		s.TimeoutSweeps,
		s.ChallengesExpired,
		s.ResolutionDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncChallengesIssued() {
	s.ChallengesIssued.Inc()
}

func (s *Service) IncChallengesAccepted() {
	s.ChallengesAccepted.Inc()
}

func (s *Service) IncMatchesResolved() {
	s.MatchesResolved.Inc()
}

func (s *Service) IncTimeoutSweeps() {
	s.TimeoutSweeps.Inc()
}

func (s *Service) AddChallengesExpired(count float64) {
	s.ChallengesExpired.Add(count)
}

func (s *Service) ObserveResolutionDuration(seconds float64) {
	s.ResolutionDuration.Observe(seconds)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
