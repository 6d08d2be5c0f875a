package spin

import (
	"context"
	"time"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"
	"slot_engine/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Spin выполняет один спин: розыгрыш, подсчёт выплаты, коррекция по профилю
// волатильности, учёт в сессии и итогах машины, запись в журнал и публикация
// результата во внешний сток
func (s *serv) Spin(ctx context.Context, req model.Spin) (*model.SpinRecord, error) {
	// Валидация ставки
	if !req.Bet.IsPositive() {
		return nil, service.ErrInvalidBet
	}

	// Пустой идентификатор — заводим новую сессию
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// Розыгрыш по живой модели. Источник энтропии общий, поэтому под мьютексом
	s.srcMtx.Lock()
	reelModel := s.stateRepo.Model()
	outcome, err := engine.Draw(reelModel, s.source)
	s.srcMtx.Unlock()
	if err != nil {
		return nil, err
	}

	// Сырая выплата в кратности ставки
	raw, err := s.evaluator.Evaluate(outcome, reelModel.Table(), s.rule)
	if err != nil {
		return nil, err
	}
	adjusted := s.stateRepo.Volatility().Adjust(raw)

	rec := model.SpinRecord{
		SessionID:      sessionID,
		Outcome:        outcome,
		Bet:            req.Bet,
		RawPayout:      req.Bet.Mul(decimal.NewFromFloat(raw)),
		AdjustedPayout: req.Bet.Mul(decimal.NewFromFloat(adjusted)),
		Timestamp:      time.Now(),
	}

	// Журнал и персистентные итоги пишутся в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.historyRepo.InsertSpin(txCtx, rec); err != nil {
			return err
		}
		return s.historyRepo.IncrementTotals(txCtx, rec.Bet, rec.AdjustedPayout)
	})
	if err != nil {
		return nil, err
	}

	// Итоги в памяти обновляются после успешной записи
	s.stateRepo.RecordSpin(rec.Bet, rec.AdjustedPayout)
	s.sessionRepo.Record(sessionID, rec.Bet, rec.AdjustedPayout)

	// Ошибка публикации не срывает спин
	if err := s.sink.Publish(ctx, rec); err != nil {
		s.logger.Warn("failed to publish spin result",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	return &rec, nil
}
