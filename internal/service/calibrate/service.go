package calibrate

import (
	"slot_engine/internal/config"
	"slot_engine/internal/engine"
	"slot_engine/internal/repository"
	"slot_engine/internal/service"

	"go.uber.org/zap"
)

type serv struct {
	stateRepo  repository.MachineStateRepository
	machineCfg config.MachineConfig
	evaluator  engine.Evaluator
	rule       engine.PayoutRule
	logger     *zap.Logger
}

// NewCalibrationService Создать сервис калибровки RTP
func NewCalibrationService(
	stateRepo repository.MachineStateRepository,
	machineCfg config.MachineConfig,
	evaluator engine.Evaluator,
	rule engine.PayoutRule,
	logger *zap.Logger,
) service.CalibrationService {
	return &serv{
		stateRepo:  stateRepo,
		machineCfg: machineCfg,
		evaluator:  evaluator,
		rule:       rule,
		logger:     logger,
	}
}
