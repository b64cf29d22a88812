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

type Server struct {
	Ladders        ladder.LadderStore
	Challenges     challenge.ChallengeStore
	Matches        match.MatchStore
	Engine         *ranking.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
