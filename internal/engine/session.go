package engine

import "github.com/shopspring/decimal"

// SessionAccumulator — бегущие итоги одной игровой сессии: суммарная ставка,
// суммарная выплата, количество спинов. Мутируется ровно одним писателем за
// сессию — внутренней блокировки нет, сериализация записей лежит на владельце
type SessionAccumulator struct {
	totalBet    decimal.Decimal
	totalPayout decimal.Decimal
	spins       int64
}

// NewSessionAccumulator создаёт пустой аккумулятор сессии
func NewSessionAccumulator() *SessionAccumulator {
	return &SessionAccumulator{}
}

// Add учитывает один спин
func (a *SessionAccumulator) Add(bet, payout decimal.Decimal) {
	a.totalBet = a.totalBet.Add(bet)
	a.totalPayout = a.totalPayout.Add(payout)
	a.spins++
}

// TotalBet возвращает суммарную ставку сессии
func (a *SessionAccumulator) TotalBet() decimal.Decimal {
	return a.totalBet
}

// TotalPayout возвращает суммарную выплату сессии
func (a *SessionAccumulator) TotalPayout() decimal.Decimal {
	return a.totalPayout
}

// Spins возвращает количество спинов сессии
func (a *SessionAccumulator) Spins() int64 {
	return a.spins
}

// RealizedRTP возвращает реализованный RTP сессии (выплата/ставка).
// Пока ставок не было — 0
func (a *SessionAccumulator) RealizedRTP() float64 {
	if a.totalBet.IsZero() {
		return 0
	}
	rtp, _ := a.totalPayout.Div(a.totalBet).Float64()
	return rtp
}
