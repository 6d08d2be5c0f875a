package repository

import (
	"context"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"

	"github.com/shopspring/decimal"
)

// MachineStateRepository — живое состояние машины: текущая модель барабанов,
// профиль волатильности, суммарные итоги и журнал смен модели
type MachineStateRepository interface {
	// Model возвращает живую модель барабанов (неизменяемую, безопасную
	// для одновременного чтения)
	Model() *engine.ReelModel
	Volatility() *engine.VolatilityProfile
	// SwapModel делает новую модель живой и пишет запись в журнал
	SwapModel(m *engine.ReelModel, adj model.Adjustment)
	// RecordSpin учитывает спин в итогах и скользящем окне RTP
	RecordSpin(bet, payout decimal.Decimal)
	State() model.MachineState
}

// SessionRepository — аккумуляторы сессий по идентификатору
type SessionRepository interface {
	// Record учитывает спин в аккумуляторе сессии, создавая его при первом обращении
	Record(sessionID string, bet, payout decimal.Decimal)
	State(sessionID string) (model.SessionState, bool)
}

// SpinHistoryRepository — журнал спинов и персистентные итоги машины
type SpinHistoryRepository interface {
	InsertSpin(ctx context.Context, rec model.SpinRecord) error
	IncrementTotals(ctx context.Context, bet, payout decimal.Decimal) error
	GetTotals(ctx context.Context) (bet, payout decimal.Decimal, spins int64, err error)
}
