package engine

import (
	"context"
	"math"
)

const (
	// defaultBatchSpins — начальный размер батча симуляции
	defaultBatchSpins = 20000
	// defaultMaxSpinsPerIteration — потолок адаптивного батча за итерацию
	defaultMaxSpinsPerIteration = 2000000
	// reweightGain — коэффициент усиления перевеса платящих символов
	reweightGain = 1.5
	// maxLogStep — ограничение шага экспоненты за итерацию, для устойчивости
	maxLogStep = 0.5
)

// CalibrationResult — результат одного прогона калибровки.
// Converged=false (CalibrationNotConverged) — не жёсткая ошибка: прикладывается
// лучшая найденная модель, решение о повторе с другими параметрами — за вызывающим
type CalibrationResult struct {
	Model       *ReelModel // Лучшая найденная модель; становится "живой" после калибровки
	AchievedRTP float64    // Оценка достигнутого RTP по последней симуляции лучшей модели
	CIWidth     float64    // Ширина 95% доверительного интервала оценки RTP
	Iterations  int        // Сколько итераций выполнено
	Converged   bool
}

// Calibrator подгоняет веса символов модели барабанов так, чтобы симулированный
// RTP сходился к целевому в пределах допуска. RTP считается по скорректированной
// (после профиля волатильности) выплате — именно она реально выплачивается.
// Калибровка потребляет источник энтропии так же, как спин: фиксированный seed
// даёт воспроизводимый прогон. Операция длительная и CPU-bound: между батчами
// симуляции проверяется отмена контекста. Исходная модель не мутируется —
// каждая итерация строит новую, поэтому параллельные спины по текущей модели
// не блокируются
type Calibrator struct {
	Evaluator     Evaluator
	Rule          PayoutRule
	Volatility    *VolatilityProfile
	Source        EntropySource
	TargetRTP     float64
	Tolerance     float64
	MaxIterations int

	// BatchSpins и MaxSpins управляют адаптивным размером батча; 0 — значения
	// по умолчанию. Батч наращивается пока стандартная ошибка не станет <= Tolerance/3
	BatchSpins int
	MaxSpins   int
}

// Calibrate выполняет цикл "симулируй и подстрой" над копией модели
func (c *Calibrator) Calibrate(ctx context.Context, model *ReelModel) (*CalibrationResult, error) {
	if err := c.validate(model); err != nil {
		return nil, err
	}

	batch := c.BatchSpins
	if batch <= 0 {
		batch = defaultBatchSpins
	}
	maxSpins := c.MaxSpins
	if maxSpins <= 0 {
		maxSpins = defaultMaxSpinsPerIteration
	}

	current := model
	best := model
	bestRTP := math.Inf(1)
	bestDev := math.Inf(1)
	bestCI := 0.0
	iterations := 0

	for iter := 1; iter <= c.MaxIterations; iter++ {
		iterations = iter
		rtp, stderr, err := c.simulate(ctx, current, batch, maxSpins)
		if err != nil {
			return nil, err
		}

		dev := rtp - c.TargetRTP
		if math.Abs(dev) < bestDev {
			best = current
			bestDev = math.Abs(dev)
			bestRTP = rtp
			bestCI = 2 * 1.96 * stderr
		}

		if math.Abs(dev) <= c.Tolerance {
			return &CalibrationResult{
				Model:       best,
				AchievedRTP: bestRTP,
				CIWidth:     bestCI,
				Iterations:  iter,
				Converged:   true,
			}, nil
		}

		next, ok, err := c.reweight(current, rtp)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Платящих символов нет — двигать массу некуда, сходимость недостижима
			break
		}
		current = next
	}

	return &CalibrationResult{
		Model:       best,
		AchievedRTP: bestRTP,
		CIWidth:     bestCI,
		Iterations:  iterations,
		Converged:   false,
	}, nil
}

func (c *Calibrator) validate(model *ReelModel) error {
	if model == nil {
		return invalidConfigf("reel model is nil")
	}
	if c.Evaluator == nil {
		return invalidConfigf("evaluator is nil")
	}
	if c.Volatility == nil {
		return invalidConfigf("volatility profile is nil")
	}
	if c.Source == nil {
		return invalidConfigf("entropy source is nil")
	}
	if err := c.Rule.Validate(); err != nil {
		return err
	}
	if c.TargetRTP <= 0 || math.IsNaN(c.TargetRTP) || math.IsInf(c.TargetRTP, 0) {
		return invalidConfigf("target RTP must be positive, got %v", c.TargetRTP)
	}
	if c.Tolerance <= 0 {
		return invalidConfigf("tolerance must be positive, got %v", c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return invalidConfigf("max iterations must be >= 1, got %d", c.MaxIterations)
	}
	return nil
}

// simulate прогоняет батчи спинов по модели и оценивает RTP со стандартной ошибкой.
// Ставка в симуляции единичная, поэтому RTP равен среднему скорректированной выплаты.
// Батч удваивается пока стандартная ошибка не уложится в Tolerance/3 либо
// не упрёмся в потолок спинов; между батчами проверяется отмена контекста
func (c *Calibrator) simulate(ctx context.Context, model *ReelModel, batch, maxSpins int) (rtp, stderr float64, err error) {
	var (
		n      int
		sum    float64
		sumSq  float64
		target = c.Tolerance / 3
	)

	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		for i := 0; i < batch; i++ {
			outcome, err := Draw(model, c.Source)
			if err != nil {
				return 0, 0, err
			}
			raw, err := c.Evaluator.Evaluate(outcome, model.Table(), c.Rule)
			if err != nil {
				return 0, 0, err
			}
			adjusted := c.Volatility.Adjust(raw)
			sum += adjusted
			sumSq += adjusted * adjusted
		}
		n += batch

		mean := sum / float64(n)
		variance := sumSq/float64(n) - mean*mean
		if variance < 0 {
			variance = 0
		}
		stderr = math.Sqrt(variance / float64(n))

		if stderr <= target || n >= maxSpins {
			return mean, stderr, nil
		}
		batch = n // Удвоение объёма выборки
	}
}

// reweight строит новую модель, смещая массу весов платящих символов
// пропорционально знаку и величине отклонения: при RTP ниже целевого платящие
// символы становятся тяжелее, при RTP выше — легче. Возвращает ok=false когда
// в таблице нет ни одного платящего символа
func (c *Calibrator) reweight(model *ReelModel, rtp float64) (*ReelModel, bool, error) {
	table := model.Table()

	maxMult := 0.0
	for i := 0; i < table.Len(); i++ {
		if m := table.Symbol(i).Multiplier; m > maxMult {
			maxMult = m
		}
	}
	if maxMult <= 0 {
		return nil, false, nil
	}

	dev := c.TargetRTP - rtp
	weights := model.RawWeights()
	for r := range weights {
		for i := range weights[r] {
			mult := table.Symbol(i).Multiplier
			if mult <= 0 || weights[r][i] <= 0 {
				continue
			}
			step := reweightGain * dev * (mult / maxMult)
			if step > maxLogStep {
				step = maxLogStep
			} else if step < -maxLogStep {
				step = -maxLogStep
			}
			weights[r][i] *= math.Exp(step)
		}
	}

	next, err := NewReelModel(table, weights)
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}
