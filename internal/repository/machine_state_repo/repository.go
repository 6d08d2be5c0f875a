package machine_state_repo

import (
	"sync"
	"time"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// windowSize Размер скользящего окна спинов для анализа RTP
	windowSize = 500
)

// Результат спина для окна
type spinResult struct {
	bet    float64
	payout float64
}

// Реализация репозитория для хранения живого состояния машины.
// Модель и профиль неизменяемы, подмена модели — атомарная замена указателя
// под мьютексом; параллельные спины по старой модели не блокируются
type StateRepo struct {
	mtx sync.RWMutex

	liveModel  *engine.ReelModel
	volatility *engine.VolatilityProfile
	targetRTP  float64

	totalSpins  int64
	totalBet    decimal.Decimal
	totalPayout decimal.Decimal

	spinWindow  []spinResult
	adjustments []model.Adjustment
}

// NewMachineStateRepository Конструктор репозитория с начальной моделью
func NewMachineStateRepository(m *engine.ReelModel, v *engine.VolatilityProfile, targetRTP float64) *StateRepo {
	return &StateRepo{
		liveModel:   m,
		volatility:  v,
		targetRTP:   targetRTP,
		totalBet:    decimal.Zero,
		totalPayout: decimal.Zero,
		spinWindow:  make([]spinResult, 0, windowSize),
		adjustments: make([]model.Adjustment, 0),
	}
}

// Model Получение живой модели барабанов
func (r *StateRepo) Model() *engine.ReelModel {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.liveModel
}

// Volatility Получение профиля волатильности
func (r *StateRepo) Volatility() *engine.VolatilityProfile {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.volatility
}

// SwapModel Подмена живой модели после калибровки с записью в журнал
func (r *StateRepo) SwapModel(m *engine.ReelModel, adj model.Adjustment) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	adj.Timestamp = time.Now()
	r.adjustments = append(r.adjustments, adj)
	r.liveModel = m
}

// RecordSpin Обновление итогов машины после спина
func (r *StateRepo) RecordSpin(bet, payout decimal.Decimal) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.totalSpins++
	r.totalBet = r.totalBet.Add(bet)
	r.totalPayout = r.totalPayout.Add(payout)

	// Добавляем спин в окно
	betF, _ := bet.Float64()
	payoutF, _ := payout.Float64()
	r.spinWindow = append(r.spinWindow, spinResult{bet: betF, payout: payoutF})

	// Поддерживаем размер окна
	if len(r.spinWindow) > windowSize {
		r.spinWindow = r.spinWindow[1:]
	}
}

// State Снимок состояния машины
func (r *StateRepo) State() model.MachineState {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	currentRTP := 0.0
	if r.totalBet.IsPositive() {
		currentRTP, _ = r.totalPayout.Div(r.totalBet).Float64()
	}

	// RTP в окне последних спинов
	var windowBet, windowPayout float64
	for _, spin := range r.spinWindow {
		windowBet += spin.bet
		windowPayout += spin.payout
	}
	windowRTP := 0.0
	if windowBet > 0 {
		windowRTP = windowPayout / windowBet
	}

	return model.MachineState{
		TotalSpins:  r.totalSpins,
		TotalBet:    r.totalBet,
		TotalPayout: r.totalPayout,
		CurrentRTP:  currentRTP,
		WindowRTP:   windowRTP,
		TargetRTP:   r.targetRTP,
		Adjustments: append([]model.Adjustment(nil), r.adjustments...),
	}
}
