package match

import (
	"sync"

	"github.com/mauv0809/ladder-league/internal/ladder"
)

// MockStore is a mock implementation of the MatchStore interface for testing.
type MockStore struct {
	mu sync.Mutex

	GetFunc            func(matchID string) (*Match, error)
	GetByChallengeFunc func(challengeID string) (*Match, error)
	ListByLadderFunc   func(ladderID string) ([]*Match, error)
	RecordResultFunc   func(matchID, winnerID string, winnerRank int, winnerArrow ladder.Arrow, forfeit bool) (*Match, error)
	SetCharactersFunc  func(matchID, challengerCharacter, challengeeCharacter string) error

	RecordResultCalls []struct {
		MatchID    string
		WinnerID   string
		WinnerRank int
		Forfeit    bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(matchID string) (*Match, error) {
	if m.GetFunc != nil {
		return m.GetFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) GetByChallenge(challengeID string) (*Match, error) {
	if m.GetByChallengeFunc != nil {
		return m.GetByChallengeFunc(challengeID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) ListByLadder(ladderID string) ([]*Match, error) {
	if m.ListByLadderFunc != nil {
		return m.ListByLadderFunc(ladderID)
	}
	return nil, nil
}

func (m *MockStore) RecordResult(matchID, winnerID string, winnerRank int, winnerArrow ladder.Arrow, forfeit bool) (*Match, error) {
	m.mu.Lock()
	m.RecordResultCalls = append(m.RecordResultCalls, struct {
		MatchID    string
		WinnerID   string
		WinnerRank int
		Forfeit    bool
	}{matchID, winnerID, winnerRank, forfeit})
	m.mu.Unlock()
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(matchID, winnerID, winnerRank, winnerArrow, forfeit)
	}
	return &Match{ID: matchID, WinnerID: &winnerID, WinnerRank: &winnerRank, Forfeit: forfeit}, nil
}

func (m *MockStore) SetCharacters(matchID, challengerCharacter, challengeeCharacter string) error {
	if m.SetCharactersFunc != nil {
		return m.SetCharactersFunc(matchID, challengerCharacter, challengeeCharacter)
	}
	return nil
}
