package ladder

import "sync"

// MockStore is a mock implementation of the LadderStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateGameFunc        func(name, abv string) (*Game, error)
	CreateLadderFunc      func(params CreateLadderParams) (*Ladder, error)
	GetLadderFunc         func(ladderID string) (*Ladder, error)
	GetLadderBySlugFunc   func(slug string) (*Ladder, error)
	ListLaddersFunc       func() ([]*Ladder, error)
	UpsertPlayerFunc      func(playerID, name string) error
	GetPlayerFunc         func(playerID string) (*Player, error)
	JoinFunc              func(ladderID, playerID string) (*Rank, error)
	RemoveRankFunc        func(ladderID, playerID string) (*Rank, error)
	GetRankFunc           func(ladderID, playerID string) (*Rank, error)
	StandingsFunc         func(ladderID string) ([]StandingEntry, error)
	ChallengeWindowFunc   func(ladderID, playerID string) ([]int, error)
	ApplyMatchOutcomeFunc func(ladderID, winnerID, loserID string) (*MatchOutcome, error)

	// Call records
	JoinCalls       []struct{ LadderID, PlayerID string }
	RemoveRankCalls []struct{ LadderID, PlayerID string }
	ApplyMatchOutcomeCalls []struct {
		LadderID string
		WinnerID string
		LoserID  string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateGame(name, abv string) (*Game, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(name, abv)
	}
	return &Game{Name: name, Abv: abv}, nil
}

func (m *MockStore) CreateLadder(params CreateLadderParams) (*Ladder, error) {
	if m.CreateLadderFunc != nil {
		return m.CreateLadderFunc(params)
	}
	return &Ladder{Name: params.Name}, nil
}

func (m *MockStore) GetLadder(ladderID string) (*Ladder, error) {
	if m.GetLadderFunc != nil {
		return m.GetLadderFunc(ladderID)
	}
	return nil, ErrLadderNotFound
}

func (m *MockStore) GetLadderBySlug(slug string) (*Ladder, error) {
	if m.GetLadderBySlugFunc != nil {
		return m.GetLadderBySlugFunc(slug)
	}
	return nil, ErrLadderNotFound
}

func (m *MockStore) ListLadders() ([]*Ladder, error) {
	if m.ListLaddersFunc != nil {
		return m.ListLaddersFunc()
	}
	return nil, nil
}

func (m *MockStore) UpsertPlayer(playerID, name string) error {
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(playerID, name)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) Join(ladderID, playerID string) (*Rank, error) {
	m.mu.Lock()
	m.JoinCalls = append(m.JoinCalls, struct{ LadderID, PlayerID string }{ladderID, playerID})
	m.mu.Unlock()
	if m.JoinFunc != nil {
		return m.JoinFunc(ladderID, playerID)
	}
	return &Rank{LadderID: ladderID, PlayerID: playerID, Position: 1, Arrow: ArrowUp}, nil
}

func (m *MockStore) RemoveRank(ladderID, playerID string) (*Rank, error) {
	m.mu.Lock()
	m.RemoveRankCalls = append(m.RemoveRankCalls, struct{ LadderID, PlayerID string }{ladderID, playerID})
	m.mu.Unlock()
	if m.RemoveRankFunc != nil {
		return m.RemoveRankFunc(ladderID, playerID)
	}
	return &Rank{LadderID: ladderID, PlayerID: playerID, Position: 1, Arrow: ArrowUp}, nil
}

func (m *MockStore) GetRank(ladderID, playerID string) (*Rank, error) {
	if m.GetRankFunc != nil {
		return m.GetRankFunc(ladderID, playerID)
	}
	return nil, ErrNotRanked
}

func (m *MockStore) Standings(ladderID string) ([]StandingEntry, error) {
	if m.StandingsFunc != nil {
		return m.StandingsFunc(ladderID)
	}
	return nil, nil
}

func (m *MockStore) ChallengeWindow(ladderID, playerID string) ([]int, error) {
	if m.ChallengeWindowFunc != nil {
		return m.ChallengeWindowFunc(ladderID, playerID)
	}
	return nil, nil
}

func (m *MockStore) ApplyMatchOutcome(ladderID, winnerID, loserID string) (*MatchOutcome, error) {
	m.mu.Lock()
	m.ApplyMatchOutcomeCalls = append(m.ApplyMatchOutcomeCalls, struct {
		LadderID string
		WinnerID string
		LoserID  string
	}{ladderID, winnerID, loserID})
	m.mu.Unlock()
	if m.ApplyMatchOutcomeFunc != nil {
		return m.ApplyMatchOutcomeFunc(ladderID, winnerID, loserID)
	}
	return &MatchOutcome{WinnerArrow: ArrowUp, LoserArrow: ArrowDown}, nil
}

func (m *MockStore) Clear() {}
