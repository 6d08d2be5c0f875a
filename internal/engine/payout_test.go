package engine

import (
	"errors"
	"testing"
)

func TestMatchCountEvaluator_Evaluate(t *testing.T) {
	table, err := NewSymbolTable([]SymbolSpec{
		{ID: "cherry", Multiplier: 2, Weight: 1},
		{ID: "lemon", Multiplier: 3, Weight: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eval := NewMatchCountEvaluator()
	rule := PayoutRule{MinMatchCount: 3}

	cases := []struct {
		name    string
		outcome Outcome
		want    float64
	}{
		// Три вишни: 2 × 3 = 6
		{"three of a kind", Outcome{"cherry", "cherry", "cherry"}, 6},
		// Ни один символ не добрал до трёх — выплата 0, не ошибка
		{"no symbol reaches threshold", Outcome{"cherry", "cherry", "lemon"}, 0},
		{"mixed with two thresholds", Outcome{"lemon", "lemon", "lemon", "cherry", "cherry", "cherry"}, 15},
		{"empty outcome", Outcome{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eval.Evaluate(tc.outcome, table, rule)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("payout = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchCountEvaluator_PermutationInvariant(t *testing.T) {
	table, err := NewSymbolTable([]SymbolSpec{
		{ID: "cherry", Multiplier: 2, Weight: 1},
		{ID: "lemon", Multiplier: 3, Weight: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eval := NewMatchCountEvaluator()
	rule := PayoutRule{MinMatchCount: 2}

	// Политика позиционно-независимая: перестановка результата не меняет выплату
	a, err := eval.Evaluate(Outcome{"cherry", "lemon", "cherry"}, table, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := eval.Evaluate(Outcome{"cherry", "cherry", "lemon"}, table, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := eval.Evaluate(Outcome{"lemon", "cherry", "cherry"}, table, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a != b || b != c {
		t.Fatalf("permutations gave different payouts: %v, %v, %v", a, b, c)
	}
	if a != 4 {
		t.Fatalf("payout = %v, want 4", a)
	}
}

func TestMatchCountEvaluator_InvalidInputs(t *testing.T) {
	table := testTable(t)
	eval := NewMatchCountEvaluator()

	if _, err := eval.Evaluate(Outcome{"cherry"}, nil, PayoutRule{MinMatchCount: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil table: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := eval.Evaluate(Outcome{"cherry"}, table, PayoutRule{MinMatchCount: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("bad rule: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := eval.Evaluate(Outcome{"ghost", "ghost", "ghost"}, table, PayoutRule{MinMatchCount: 3}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown symbol: expected ErrInvalidConfig, got %v", err)
	}
}
