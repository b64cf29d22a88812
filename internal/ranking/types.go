package ranking

import (
	"github.com/mauv0809/ladder-league/internal/metrics"
	"github.com/mauv0809/ladder-league/internal/pubsub"
)

// Engine handles the business logic that spans the rank table, challenges
// and matches.
type Engine struct {
	ladders    LadderStore
	challenges ChallengeStore
	matches    MatchStore
	pubsub     pubsub.PubSubClient
	notifier   Notifier
	metrics    metrics.Metrics
}
