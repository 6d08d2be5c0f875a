package env

import (
	"errors"
	"fmt"
	"os"

	"slot_engine/internal/config"

	"gopkg.in/yaml.v3"
)

// machineYAML — структура файла конфигурации машины.
// Полная валидация значений выполняется конструкторами движка,
// здесь проверяется только то, без чего конфигурацию не собрать
type machineYAML struct {
	Machine struct {
		Reels         int     `yaml:"reels"`
		MinMatchCount int     `yaml:"min_match_count"`
		Symbols       []struct {
			ID         string  `yaml:"id"`
			Multiplier float64 `yaml:"multiplier"`
			Weight     float64 `yaml:"weight"`
		} `yaml:"symbols"`
		ReelWeights [][]float64 `yaml:"reel_weights"`
		Volatility  struct {
			Value float64 `yaml:"value"`
			Bands []struct {
				From   float64 `yaml:"from"`
				Factor float64 `yaml:"factor"`
			} `yaml:"bands"`
		} `yaml:"volatility"`
		Calibration struct {
			TargetRTP     float64 `yaml:"target_rtp"`
			Tolerance     float64 `yaml:"tolerance"`
			MaxIterations int     `yaml:"max_iterations"`
		} `yaml:"calibration"`
	} `yaml:"machine"`
}

type machineConfig struct {
	reelCount     int
	symbols       []config.SymbolSpec
	reelWeights   [][]float64
	minMatchCount int
	volatility    float64
	bands         []config.VolatilityBand
	targetRTP     float64
	tolerance     float64
	maxIterations int
}

// NewMachineConfigFromYAML читает конфигурацию машины из YAML файла
func NewMachineConfigFromYAML(path string) (config.MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read machine config: %w", err)
	}
	return parseMachineConfig(data)
}

func parseMachineConfig(data []byte) (config.MachineConfig, error) {
	var raw machineYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse machine config: %w", err)
	}

	m := raw.Machine
	if len(m.Symbols) == 0 {
		return nil, errors.New("machine config: symbols are missing")
	}
	if m.Reels < 1 {
		return nil, errors.New("machine config: reels must be >= 1")
	}

	cfg := &machineConfig{
		reelCount:     m.Reels,
		minMatchCount: m.MinMatchCount,
		volatility:    m.Volatility.Value,
		targetRTP:     m.Calibration.TargetRTP,
		tolerance:     m.Calibration.Tolerance,
		maxIterations: m.Calibration.MaxIterations,
	}

	for _, s := range m.Symbols {
		cfg.symbols = append(cfg.symbols, config.SymbolSpec{
			ID:         s.ID,
			Multiplier: s.Multiplier,
			Weight:     s.Weight,
		})
	}

	if len(m.ReelWeights) > 0 {
		cfg.reelWeights = m.ReelWeights
	}

	for _, b := range m.Volatility.Bands {
		cfg.bands = append(cfg.bands, config.VolatilityBand{
			From:   b.From,
			Factor: b.Factor,
		})
	}

	return cfg, nil
}

func (cfg *machineConfig) ReelCount() int {
	return cfg.reelCount
}

func (cfg *machineConfig) Symbols() []config.SymbolSpec {
	return cfg.symbols
}

func (cfg *machineConfig) ReelWeights() [][]float64 {
	return cfg.reelWeights
}

func (cfg *machineConfig) MinMatchCount() int {
	return cfg.minMatchCount
}

func (cfg *machineConfig) Volatility() float64 {
	return cfg.volatility
}

func (cfg *machineConfig) VolatilityBands() []config.VolatilityBand {
	return cfg.bands
}

func (cfg *machineConfig) TargetRTP() float64 {
	return cfg.targetRTP
}

func (cfg *machineConfig) Tolerance() float64 {
	return cfg.tolerance
}

func (cfg *machineConfig) MaxIterations() int {
	return cfg.maxIterations
}
