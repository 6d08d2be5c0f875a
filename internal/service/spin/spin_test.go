package spin

import (
	"context"
	"errors"
	"testing"

	"slot_engine/internal/engine"
	"slot_engine/internal/model"
	"slot_engine/internal/repository/machine_state_repo"
	"slot_engine/internal/repository/session_repo"
	"slot_engine/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Менеджер транзакций без реальной БД: просто выполняет функцию
type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

func (m *fakeTxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type fakeHistoryRepo struct {
	inserted  []model.SpinRecord
	insertErr error

	totalBet    decimal.Decimal
	totalPayout decimal.Decimal
	totalSpins  int64
}

func (r *fakeHistoryRepo) InsertSpin(_ context.Context, rec model.SpinRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, rec)
	return nil
}

func (r *fakeHistoryRepo) IncrementTotals(_ context.Context, bet, payout decimal.Decimal) error {
	r.totalBet = r.totalBet.Add(bet)
	r.totalPayout = r.totalPayout.Add(payout)
	r.totalSpins++
	return nil
}

func (r *fakeHistoryRepo) GetTotals(_ context.Context) (decimal.Decimal, decimal.Decimal, int64, error) {
	return r.totalBet, r.totalPayout, r.totalSpins, nil
}

type fakeSink struct {
	published []model.SpinRecord
	err       error
}

func (s *fakeSink) Publish(_ context.Context, rec model.SpinRecord) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, rec)
	return nil
}

func (s *fakeSink) Close() error { return nil }

type fixture struct {
	serv    service.SpinService
	state   *machine_state_repo.StateRepo
	history *fakeHistoryRepo
	sink    *fakeSink
	tx      *fakeTxManager
}

// Фикстура: два символа, три барабана, источник всегда выдаёт cherry.
// cherry×3 при множителе 2 даёт сырую выплату 6, волатильность 4 — фактор 1.0
func newFixture(t *testing.T) *fixture {
	t.Helper()

	table, err := engine.NewSymbolTable([]engine.SymbolSpec{
		{ID: "cherry", Multiplier: 2, Weight: 1},
		{ID: "blank", Multiplier: 0, Weight: 1},
	})
	if err != nil {
		t.Fatalf("symbol table: %v", err)
	}
	reelModel, err := engine.NewUniformReelModel(table, 3)
	if err != nil {
		t.Fatalf("reel model: %v", err)
	}
	volatility, err := engine.NewVolatilityProfile(4, engine.DefaultVolatilityBands())
	if err != nil {
		t.Fatalf("volatility profile: %v", err)
	}

	state := machine_state_repo.NewMachineStateRepository(reelModel, volatility, 0.95)
	history := &fakeHistoryRepo{}
	sink := &fakeSink{}
	tx := &fakeTxManager{}

	s := NewSpinService(
		state,
		session_repo.NewSessionRepository(),
		history,
		tx,
		sink,
		engine.NewMatchCountEvaluator(),
		engine.PayoutRule{MinMatchCount: 3},
		engine.NewSequenceSource(0.1),
		zap.NewNop(),
	)

	return &fixture{serv: s, state: state, history: history, sink: sink, tx: tx}
}

func TestSpin_WinningSpin(t *testing.T) {
	f := newFixture(t)

	rec, err := f.serv.Spin(context.Background(), model.Spin{
		SessionID: "s1",
		Bet:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Outcome) != 3 || rec.Outcome[0] != "cherry" {
		t.Fatalf("unexpected outcome: %v", rec.Outcome)
	}
	if !rec.RawPayout.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("RawPayout = %s, want 60", rec.RawPayout)
	}
	if !rec.AdjustedPayout.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("AdjustedPayout = %s, want 60", rec.AdjustedPayout)
	}

	// Журнал и итоги
	if len(f.history.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(f.history.inserted))
	}
	if f.history.totalSpins != 1 || !f.history.totalBet.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected totals: %s/%d", f.history.totalBet, f.history.totalSpins)
	}

	// Состояние машины и сессии
	st := f.serv.MachineState()
	if st.TotalSpins != 1 || !st.TotalPayout.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unexpected machine state: %+v", st)
	}
	sess, err := f.serv.SessionState("s1")
	if err != nil {
		t.Fatalf("session state: %v", err)
	}
	if sess.Spins != 1 || !sess.TotalBet.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected session state: %+v", sess)
	}

	// Публикация во внешний сток
	if len(f.sink.published) != 1 {
		t.Fatalf("published = %d, want 1", len(f.sink.published))
	}
}

func TestSpin_InvalidBet(t *testing.T) {
	f := newFixture(t)

	for _, bet := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := f.serv.Spin(context.Background(), model.Spin{Bet: bet})
		if !errors.Is(err, service.ErrInvalidBet) {
			t.Fatalf("bet %s: err = %v, want ErrInvalidBet", bet, err)
		}
	}
}

func TestSpin_NewSessionAssigned(t *testing.T) {
	f := newFixture(t)

	rec, err := f.serv.Spin(context.Background(), model.Spin{Bet: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
	if _, err := f.serv.SessionState(rec.SessionID); err != nil {
		t.Fatalf("generated session not tracked: %v", err)
	}
}

func TestSpin_TxFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.tx.err = errors.New("db down")

	_, err := f.serv.Spin(context.Background(), model.Spin{
		SessionID: "s1",
		Bet:       decimal.NewFromInt(10),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if st := f.serv.MachineState(); st.TotalSpins != 0 {
		t.Fatalf("machine state updated after failed tx: %+v", st)
	}
	if _, err := f.serv.SessionState("s1"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("session tracked after failed tx: %v", err)
	}
	if len(f.sink.published) != 0 {
		t.Fatal("spin published after failed tx")
	}
}

func TestSpin_PublishFailureDoesNotFailSpin(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("broker down")

	rec, err := f.serv.Spin(context.Background(), model.Spin{
		SessionID: "s1",
		Bet:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected spin record")
	}

	// Спин учтён несмотря на отказ стока
	if st := f.serv.MachineState(); st.TotalSpins != 1 {
		t.Fatalf("unexpected machine state: %+v", st)
	}
}

func TestSessionState_Unknown(t *testing.T) {
	f := newFixture(t)

	if _, err := f.serv.SessionState("missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}
