package session_repo

import (
	"sync"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"
	"slot_engine/internal/repository"

	"github.com/shopspring/decimal"
)

// Реализация репозитория сессий в памяти.
// Аккумуляторы не потокобезопасны, поэтому все обращения к ним идут под
// мьютексом репозитория
type repo struct {
	mtx      sync.RWMutex
	sessions map[string]*engine.SessionAccumulator
}

func NewSessionRepository() repository.SessionRepository {
	return &repo{
		sessions: make(map[string]*engine.SessionAccumulator),
	}
}

// Record - учет спина в аккумуляторе сессии.
// При первом обращении по идентификатору создается новый аккумулятор
func (r *repo) Record(sessionID string, bet, payout decimal.Decimal) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	acc, ok := r.sessions[sessionID]
	if !ok {
		acc = engine.NewSessionAccumulator()
		r.sessions[sessionID] = acc
	}

	acc.Add(bet, payout)
}

// State - снимок аккумулятора сессии. Второй результат false, если сессии нет
func (r *repo) State(sessionID string) (model.SessionState, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	acc, ok := r.sessions[sessionID]
	if !ok {
		return model.SessionState{}, false
	}

	return model.SessionState{
		SessionID:   sessionID,
		TotalBet:    acc.TotalBet(),
		TotalPayout: acc.TotalPayout(),
		Spins:       acc.Spins(),
		RealizedRTP: acc.RealizedRTP(),
	}, true
}
