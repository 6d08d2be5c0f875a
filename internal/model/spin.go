package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Spin — запрос на один спин
type Spin struct {
	SessionID string          // Пустой — сервис заведёт новую сессию
	Bet       decimal.Decimal // Ставка (> 0)
}

// SpinRecord — результат одного спина, отдаётся вызывающему и публикуется
// во внешний сток. Транспорт записи — забота вызывающего
type SpinRecord struct {
	SessionID      string
	Outcome        []string // Идентификаторы символов по барабанам
	Bet            decimal.Decimal
	RawPayout      decimal.Decimal // Выплата до профиля волатильности
	AdjustedPayout decimal.Decimal // Выплата после профиля волатильности (реально выплачивается)
	Timestamp      time.Time
}

// SessionState — снимок аккумулятора сессии
type SessionState struct {
	SessionID   string
	TotalBet    decimal.Decimal
	TotalPayout decimal.Decimal
	Spins       int64
	RealizedRTP float64
}

// MachineState — снимок состояния машины: суммарные итоги, RTP в скользящем
// окне и журнал смен модели
type MachineState struct {
	TotalSpins  int64
	TotalBet    decimal.Decimal
	TotalPayout decimal.Decimal
	CurrentRTP  float64
	WindowRTP   float64
	TargetRTP   float64
	Adjustments []Adjustment
}

// Adjustment — запись журнала о смене живой модели после калибровки
type Adjustment struct {
	Timestamp   time.Time
	Reason      string
	AchievedRTP float64
	Iterations  int
	Converged   bool
}

// CalibrationRequest — параметры прогона калибровки. Нулевые значения
// заменяются настройками машины из конфигурации
type CalibrationRequest struct {
	TargetRTP     float64
	Tolerance     float64
	MaxIterations int
	Seed          int64 // 0 — недетерминированный прогон
}

// CalibrationReport — итог прогона калибровки для вызывающего.
// Converged=false — не ошибка: лучшая модель уже установлена живой,
// повтор с другими параметрами — решение вызывающего
type CalibrationReport struct {
	AchievedRTP float64
	CIWidth     float64
	Iterations  int
	Converged   bool
}
