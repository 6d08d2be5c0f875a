package spin

import (
	"time"

	"github.com/shopspring/decimal"
)

type SpinRequest struct {
	SessionID string          `json:"session_id,omitempty"` // Пустой — сервер заведёт новую сессию
	Bet       decimal.Decimal `json:"bet"`                  // Размер ставки (> 0)
}

type SpinResponse struct {
	SessionID      string          `json:"session_id"`
	Outcome        []string        `json:"outcome"`         // ID символов по барабанам
	Bet            decimal.Decimal `json:"bet"`             // Ставка
	RawPayout      decimal.Decimal `json:"raw_payout"`      // Выплата до волатильности
	AdjustedPayout decimal.Decimal `json:"adjusted_payout"` // Выплата к начислению
	Timestamp      time.Time       `json:"timestamp"`
}

type CalibrateRequest struct {
	TargetRTP     float64 `json:"target_rtp,omitempty"`     // 0 — из конфигурации
	Tolerance     float64 `json:"tolerance,omitempty"`      // 0 — из конфигурации
	MaxIterations int     `json:"max_iterations,omitempty"` // 0 — из конфигурации
	Seed          int64   `json:"seed,omitempty"`           // 0 — недетерминированный прогон
}

type CalibrateResponse struct {
	AchievedRTP float64 `json:"achieved_rtp"`
	CIWidth     float64 `json:"ci_width"` // Ширина 95% доверительного интервала
	Iterations  int     `json:"iterations"`
	Converged   bool    `json:"converged"`
}

type SessionStateResponse struct {
	SessionID   string          `json:"session_id"`
	TotalBet    decimal.Decimal `json:"total_bet"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Spins       int64           `json:"spins"`
	RealizedRTP float64         `json:"realized_rtp"`
}

type MachineStateResponse struct {
	TotalSpins  int64           `json:"total_spins"`
	TotalBet    decimal.Decimal `json:"total_bet"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	CurrentRTP  float64         `json:"current_rtp"`
	WindowRTP   float64         `json:"window_rtp"` // RTP в скользящем окне последних спинов
	TargetRTP   float64         `json:"target_rtp"`
	Adjustments []Adjustment    `json:"adjustments"` // Журнал смен модели
}

type Adjustment struct {
	Timestamp   time.Time `json:"timestamp"`
	Reason      string    `json:"reason"`
	AchievedRTP float64   `json:"achieved_rtp"`
	Iterations  int       `json:"iterations"`
	Converged   bool      `json:"converged"`
}
