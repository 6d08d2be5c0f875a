package spin

import (
	"sync"

	"slot_engine/internal/engine"
	"slot_engine/internal/publisher"
	"slot_engine/internal/repository"
	"slot_engine/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	stateRepo   repository.MachineStateRepository
	sessionRepo repository.SessionRepository
	historyRepo repository.SpinHistoryRepository
	txManager   trm.Manager
	sink        publisher.SpinSink
	evaluator   engine.Evaluator
	rule        engine.PayoutRule
	source      engine.EntropySource
	logger      *zap.Logger

	// Источник энтропии не потокобезопасен, розыгрыш сериализуется
	srcMtx sync.Mutex
}

// NewSpinService Создать сервис спинов
func NewSpinService(
	stateRepo repository.MachineStateRepository,
	sessionRepo repository.SessionRepository,
	historyRepo repository.SpinHistoryRepository,
	txManager trm.Manager,
	sink publisher.SpinSink,
	evaluator engine.Evaluator,
	rule engine.PayoutRule,
	source engine.EntropySource,
	logger *zap.Logger,
) service.SpinService {
	return &serv{
		stateRepo:   stateRepo,
		sessionRepo: sessionRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		sink:        sink,
		evaluator:   evaluator,
		rule:        rule,
		source:      source,
		logger:      logger,
	}
}
