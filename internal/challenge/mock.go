package challenge

import (
	"sync"
	"time"

	"github.com/mauv0809/ladder-league/internal/match"
)

// MockStore is a mock implementation of the ChallengeStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	CreateFunc              func(ladderID, challengerID, challengeeID, note string) (*Challenge, error)
	GetFunc                 func(challengeID string) (*Challenge, error)
	ListByLadderFunc        func(ladderID string) ([]*Challenge, error)
	OpenForLadderFunc       func(ladderID string) ([]*Challenge, error)
	AcceptFunc              func(challengeID string) (*match.Match, error)
	CancelFunc              func(challengeID string) error
	CancelOpenForPlayerFunc func(ladderID, playerID string) (int64, error)
	CloseForMatchFunc       func(challengeID string, forfeit bool) error
	PostponeFunc            func(challengeID string, newDeadline time.Time) error
	ExpireOverdueFunc       func(asOf time.Time) (int64, error)

	CreateCalls []struct {
		LadderID     string
		ChallengerID string
		ChallengeeID string
		Note         string
	}
	AcceptCalls              []string
	CancelCalls              []string
	CancelOpenForPlayerCalls []struct{ LadderID, PlayerID string }
	CloseForMatchCalls       []struct {
		ChallengeID string
		Forfeit     bool
	}
	ExpireOverdueCalls []time.Time
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(ladderID, challengerID, challengeeID, note string) (*Challenge, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, struct {
		LadderID     string
		ChallengerID string
		ChallengeeID string
		Note         string
	}{ladderID, challengerID, challengeeID, note})
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ladderID, challengerID, challengeeID, note)
	}
	return &Challenge{LadderID: ladderID, ChallengerID: challengerID, ChallengeeID: challengeeID, Status: StatusNotAccepted, Note: note}, nil
}

func (m *MockStore) Get(challengeID string) (*Challenge, error) {
	if m.GetFunc != nil {
		return m.GetFunc(challengeID)
	}
	return nil, ErrChallengeNotFound
}

func (m *MockStore) ListByLadder(ladderID string) ([]*Challenge, error) {
	if m.ListByLadderFunc != nil {
		return m.ListByLadderFunc(ladderID)
	}
	return nil, nil
}

func (m *MockStore) OpenForLadder(ladderID string) ([]*Challenge, error) {
	if m.OpenForLadderFunc != nil {
		return m.OpenForLadderFunc(ladderID)
	}
	return nil, nil
}

func (m *MockStore) Accept(challengeID string) (*match.Match, error) {
	m.mu.Lock()
	m.AcceptCalls = append(m.AcceptCalls, challengeID)
	m.mu.Unlock()
	if m.AcceptFunc != nil {
		return m.AcceptFunc(challengeID)
	}
	return &match.Match{ChallengeID: challengeID}, nil
}

func (m *MockStore) Cancel(challengeID string) error {
	m.mu.Lock()
	m.CancelCalls = append(m.CancelCalls, challengeID)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(challengeID)
	}
	return nil
}

func (m *MockStore) CancelOpenForPlayer(ladderID, playerID string) (int64, error) {
	m.mu.Lock()
	m.CancelOpenForPlayerCalls = append(m.CancelOpenForPlayerCalls, struct{ LadderID, PlayerID string }{ladderID, playerID})
	m.mu.Unlock()
	if m.CancelOpenForPlayerFunc != nil {
		return m.CancelOpenForPlayerFunc(ladderID, playerID)
	}
	return 0, nil
}

func (m *MockStore) CloseForMatch(challengeID string, forfeit bool) error {
	m.mu.Lock()
	m.CloseForMatchCalls = append(m.CloseForMatchCalls, struct {
		ChallengeID string
		Forfeit     bool
	}{challengeID, forfeit})
	m.mu.Unlock()
	if m.CloseForMatchFunc != nil {
		return m.CloseForMatchFunc(challengeID, forfeit)
	}
	return nil
}

func (m *MockStore) Postpone(challengeID string, newDeadline time.Time) error {
	if m.PostponeFunc != nil {
		return m.PostponeFunc(challengeID, newDeadline)
	}
	return nil
}

func (m *MockStore) ExpireOverdue(asOf time.Time) (int64, error) {
	m.mu.Lock()
	m.ExpireOverdueCalls = append(m.ExpireOverdueCalls, asOf)
	m.mu.Unlock()
	if m.ExpireOverdueFunc != nil {
		return m.ExpireOverdueFunc(asOf)
	}
	return 0, nil
}
