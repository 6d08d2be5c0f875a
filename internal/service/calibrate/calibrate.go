package calibrate

import (
	"context"
	"time"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"

	"go.uber.org/zap"
)

// Calibrate подгоняет веса живой модели под целевой RTP.
// Нулевые параметры запроса заменяются настройками машины из конфигурации.
// Лучшая найденная модель становится живой даже без сходимости —
// Converged=false отражается в отчёте, решение о повторе за вызывающим.
// Параллельные спины продолжают идти по старой модели до подмены
func (s *serv) Calibrate(ctx context.Context, req model.CalibrationRequest) (*model.CalibrationReport, error) {
	target := req.TargetRTP
	if target <= 0 {
		target = s.machineCfg.TargetRTP()
	}
	tolerance := req.Tolerance
	if tolerance <= 0 {
		tolerance = s.machineCfg.Tolerance()
	}
	maxIterations := req.MaxIterations
	if maxIterations < 1 {
		maxIterations = s.machineCfg.MaxIterations()
	}

	// Фиксированный seed — воспроизводимый прогон
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	calibrator := &engine.Calibrator{
		Evaluator:     s.evaluator,
		Rule:          s.rule,
		Volatility:    s.stateRepo.Volatility(),
		Source:        engine.NewPseudoSource(seed),
		TargetRTP:     target,
		Tolerance:     tolerance,
		MaxIterations: maxIterations,
	}

	// Снимок живой модели; калибровка работает над копиями и не держит блокировок
	res, err := calibrator.Calibrate(ctx, s.stateRepo.Model())
	if err != nil {
		return nil, err
	}

	s.stateRepo.SwapModel(res.Model, model.Adjustment{
		Reason:      "calibration",
		AchievedRTP: res.AchievedRTP,
		Iterations:  res.Iterations,
		Converged:   res.Converged,
	})

	s.logger.Info("calibration finished",
		zap.Float64("target_rtp", target),
		zap.Float64("achieved_rtp", res.AchievedRTP),
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged),
	)

	return &model.CalibrationReport{
		AchievedRTP: res.AchievedRTP,
		CIWidth:     res.CIWidth,
		Iterations:  res.Iterations,
		Converged:   res.Converged,
	}, nil
}
