package spin_history_repo

import (
	"context"
	"errors"

	"slot_engine/internal/model"
	"slot_engine/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	historyTable  = "spin_history"
	sessionId     = "session_id"
	outcome       = "outcome"
	bet           = "bet"
	rawPayout     = "raw_payout"
	adjPayout     = "adjusted_payout"
	createdAt     = "created_at"

	totalsTable  = "machine_totals"
	totalsId     = "id"
	totalBet     = "total_bet"
	totalPayout  = "total_payout"
	totalSpins   = "total_spins"
	singletonRow = 1
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSpinHistoryRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.SpinHistoryRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// InsertSpin - запись спина в журнал. Выполняется в транзакции из контекста,
// если менеджер транзакций её открыл
func (r *repo) InsertSpin(ctx context.Context, rec model.SpinRecord) error {
	// Формируем запрос
	query := sq.Insert(historyTable).
		Columns(sessionId, outcome, bet, rawPayout, adjPayout, createdAt).
		Values(rec.SessionID, rec.Outcome, rec.Bet, rec.RawPayout, rec.AdjustedPayout, rec.Timestamp).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// IncrementTotals - обновление персистентных итогов машины.
// Итоги хранятся в единственной строке, при первом обращении она создается
func (r *repo) IncrementTotals(ctx context.Context, betAmount, payout decimal.Decimal) error {
	// Формируем запрос
	query := sq.Insert(totalsTable).
		Columns(totalsId, totalBet, totalPayout, totalSpins).
		Values(singletonRow, betAmount, payout, 1).
		Suffix("ON CONFLICT ("+totalsId+") DO UPDATE SET "+
			totalBet+" = "+totalsTable+"."+totalBet+" + EXCLUDED."+totalBet+", "+
			totalPayout+" = "+totalsTable+"."+totalPayout+" + EXCLUDED."+totalPayout+", "+
			totalSpins+" = "+totalsTable+"."+totalSpins+" + 1").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// GetTotals - получение персистентных итогов машины.
// Возвращает нули, если спинов еще не было
func (r *repo) GetTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, int64, error) {
	// Формируем запрос
	query := sq.Select(totalBet, totalPayout, totalSpins).
		From(totalsTable).
		Where(sq.Eq{totalsId: singletonRow}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	var (
		betSum    decimal.Decimal
		payoutSum decimal.Decimal
		spins     int64
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&betSum, &payoutSum, &spins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, 0, nil
		}
		return decimal.Zero, decimal.Zero, 0, err
	}

	return betSum, payoutSum, spins, nil
}
