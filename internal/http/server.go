package http

import (
	"net/http"

	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/config"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/mauv0809/ladder-league/internal/metrics"
	"github.com/mauv0809/ladder-league/internal/notifier"
	"github.com/mauv0809/ladder-league/internal/ranking"
)

func NewServer(ladders ladder.LadderStore, challenges challenge.ChallengeStore, matches match.MatchStore, engine *ranking.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Ladders:        ladders,
		Challenges:     challenges,
		Matches:        matches,
		Engine:         engine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/games", Chain(s.CreateGameHandler(), paramsMiddleware))
	s.Router.Handle("/ladders", Chain(s.LaddersHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.UpsertPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/join", Chain(s.JoinHandler(), paramsMiddleware))
	s.Router.Handle("/leave", Chain(s.LeaveHandler(), paramsMiddleware))
	s.Router.Handle("/window", Chain(s.ChallengeWindowHandler(), paramsMiddleware))
	s.Router.Handle("/challenges", Chain(s.ListChallengesHandler(), paramsMiddleware))
	s.Router.Handle("/challenge", Chain(s.IssueChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/challenge/accept", Chain(s.AcceptChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/challenge/cancel", Chain(s.CancelChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/challenge/postpone", Chain(s.PostponeChallengeHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/result", Chain(s.ReportResultHandler(), paramsMiddleware))
	s.Router.Handle("/sweep-timeouts", Chain(s.SweepTimeoutsHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/standings", Chain(s.StandingsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
