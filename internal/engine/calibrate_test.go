package engine

import (
	"context"
	"errors"
	"math"
	"testing"
)

// calibrationFixture — машина с частыми мелкими выигрышами: дисперсия выплаты
// невысокая, оценка RTP в симуляции стабильная
func calibrationFixture(t *testing.T) (*ReelModel, Calibrator) {
	t.Helper()

	table, err := NewSymbolTable([]SymbolSpec{
		{ID: "cherry", Multiplier: 0.5, Weight: 40},
		{ID: "lemon", Multiplier: 1, Weight: 30},
		{ID: "seven", Multiplier: 4, Weight: 10},
		{ID: "blank", Multiplier: 0, Weight: 20},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, err := NewUniformReelModel(table, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	profile, err := NewVolatilityProfile(4, DefaultVolatilityBands())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return model, Calibrator{
		Evaluator:     NewMatchCountEvaluator(),
		Rule:          PayoutRule{MinMatchCount: 2},
		Volatility:    profile,
		Source:        NewPseudoSource(1),
		TargetRTP:     0.95,
		Tolerance:     0.01,
		MaxIterations: 40,
	}
}

func TestCalibrator_Converges(t *testing.T) {
	if testing.Short() {
		t.Skip("simulation-heavy")
	}

	model, cal := calibrationFixture(t)

	res, err := cal.Calibrate(context.Background(), model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("calibration did not converge after %d iterations, achieved RTP %v", res.Iterations, res.AchievedRTP)
	}
	if math.Abs(res.AchievedRTP-0.95) > cal.Tolerance {
		t.Fatalf("achieved RTP %v outside tolerance of target 0.95", res.AchievedRTP)
	}

	// Контрольная симуляция по откалиброванной модели независимым источником
	const rounds = 100000
	src := NewPseudoSource(99)
	total := 0.0
	for i := 0; i < rounds; i++ {
		outcome, err := Draw(res.Model, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		raw, err := cal.Evaluator.Evaluate(outcome, res.Model.Table(), cal.Rule)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total += cal.Volatility.Adjust(raw)
	}
	realized := total / rounds
	// Допуск 0.01 плюс статистический шум двух оценок
	if math.Abs(realized-0.95) > 0.02 {
		t.Fatalf("realized RTP %v too far from target 0.95", realized)
	}
}

func TestCalibrator_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("simulation-heavy")
	}

	model, cal := calibrationFixture(t)

	cal.Source = NewPseudoSource(42)
	first, err := cal.Calibrate(context.Background(), model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cal.Source = NewPseudoSource(42)
	second, err := cal.Calibrate(context.Background(), model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.AchievedRTP != second.AchievedRTP || first.Iterations != second.Iterations {
		t.Fatalf("same seed gave different runs: %+v vs %+v", first, second)
	}
	fw, sw := first.Model.RawWeights(), second.Model.RawWeights()
	for r := range fw {
		for i := range fw[r] {
			if fw[r][i] != sw[r][i] {
				t.Fatalf("reel %d symbol %d: weight mismatch %v vs %v", r, i, fw[r][i], sw[r][i])
			}
		}
	}
}

func TestCalibrator_IdempotentOnConvergedModel(t *testing.T) {
	if testing.Short() {
		t.Skip("simulation-heavy")
	}

	// Модель с точным RTP 0.95 по построению: один барабан, каждый спин платит,
	// средняя скорректированная выплата = 0.5×1.9 = 0.95 (средняя полоса, ×1.0)
	table, err := NewSymbolTable([]SymbolSpec{
		{ID: "pay", Multiplier: 1.9, Weight: 1},
		{ID: "blank", Multiplier: 0, Weight: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, err := NewUniformReelModel(table, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	profile, err := NewVolatilityProfile(4, DefaultVolatilityBands())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cal := Calibrator{
		Evaluator:     NewMatchCountEvaluator(),
		Rule:          PayoutRule{MinMatchCount: 1},
		Volatility:    profile,
		Source:        NewPseudoSource(5),
		TargetRTP:     0.95,
		Tolerance:     0.02,
		MaxIterations: 10,
	}

	res, err := cal.Calibrate(context.Background(), model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations > 1 {
		t.Fatalf("already-converged model: iterations = %d, converged = %v", res.Iterations, res.Converged)
	}

	// Веса не тронуты
	got, want := res.Model.RawWeights(), model.RawWeights()
	for r := range want {
		for i := range want[r] {
			if math.Abs(got[r][i]-want[r][i]) > 1e-12 {
				t.Fatalf("reel %d symbol %d: weight changed from %v to %v", r, i, want[r][i], got[r][i])
			}
		}
	}
}

func TestCalibrator_NotConverged(t *testing.T) {
	// Все множители нулевые: перераспределять массу некуда,
	// результат CalibrationNotConverged с лучшей моделью, без жёсткой ошибки
	table, err := NewSymbolTable([]SymbolSpec{
		{ID: "a", Multiplier: 0, Weight: 1},
		{ID: "b", Multiplier: 0, Weight: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, err := NewUniformReelModel(table, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	profile, err := NewVolatilityProfile(4, DefaultVolatilityBands())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cal := Calibrator{
		Evaluator:     NewMatchCountEvaluator(),
		Rule:          PayoutRule{MinMatchCount: 2},
		Volatility:    profile,
		Source:        NewPseudoSource(3),
		TargetRTP:     0.95,
		Tolerance:     0.01,
		MaxIterations: 5,
		BatchSpins:    1000,
		MaxSpins:      1000,
	}

	res, err := cal.Calibrate(context.Background(), model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Converged {
		t.Fatal("zero-multiplier model cannot converge to 0.95")
	}
	if res.Model == nil {
		t.Fatal("best-effort model must be attached")
	}
	if res.Iterations != 1 {
		t.Fatalf("iterations = %d, want 1 (reweight impossible)", res.Iterations)
	}
}

func TestCalibrator_Cancellation(t *testing.T) {
	model, cal := calibrationFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cal.Calibrate(ctx, model); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCalibrator_InvalidConfig(t *testing.T) {
	model, valid := calibrationFixture(t)

	cases := []struct {
		name   string
		mutate func(c *Calibrator)
	}{
		{"nil evaluator", func(c *Calibrator) { c.Evaluator = nil }},
		{"nil volatility", func(c *Calibrator) { c.Volatility = nil }},
		{"nil source", func(c *Calibrator) { c.Source = nil }},
		{"bad rule", func(c *Calibrator) { c.Rule = PayoutRule{} }},
		{"zero target", func(c *Calibrator) { c.TargetRTP = 0 }},
		{"zero tolerance", func(c *Calibrator) { c.Tolerance = 0 }},
		{"zero iterations", func(c *Calibrator) { c.MaxIterations = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cal := valid
			tc.mutate(&cal)
			if _, err := cal.Calibrate(context.Background(), model); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := valid.Calibrate(context.Background(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil model: expected ErrInvalidConfig, got %v", err)
	}
}
