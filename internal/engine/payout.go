package engine

// PayoutRule — правило выигрыша: минимальное количество совпадений одного символа.
// Политика подсчёта — "совпадения по количеству в любых позициях" (позиция на
// барабане не учитывается). Неизменяемая конфигурация
type PayoutRule struct {
	MinMatchCount int
}

// Validate проверяет корректность правила
func (r PayoutRule) Validate() error {
	if r.MinMatchCount < 1 {
		return invalidConfigf("min match count must be >= 1, got %d", r.MinMatchCount)
	}
	return nil
}

// Evaluator — оценщик выигрыша по результату спина.
// Интерфейс позволяет подменить политику подсчёта (например, на линии выплат)
// не трогая спин и волатильность
type Evaluator interface {
	// Evaluate возвращает сырую выплату в кратности ставки (>= 0).
	// Отсутствие совпадений — это выплата 0, а не ошибка
	Evaluate(outcome Outcome, table *SymbolTable, rule PayoutRule) (float64, error)
}

// MatchCountEvaluator — эталонная политика: группируем символы результата по
// идентификатору; за каждый символ с количеством >= MinMatchCount начисляем
// multiplier × count. Результат не зависит от перестановки символов
type MatchCountEvaluator struct{}

// NewMatchCountEvaluator создаёт оценщик по количеству совпадений
func NewMatchCountEvaluator() MatchCountEvaluator {
	return MatchCountEvaluator{}
}

func (MatchCountEvaluator) Evaluate(outcome Outcome, table *SymbolTable, rule PayoutRule) (float64, error) {
	if table == nil {
		return 0, invalidConfigf("symbol table is nil")
	}
	if err := rule.Validate(); err != nil {
		return 0, err
	}

	counts := make(map[string]int, len(outcome))
	for _, id := range outcome {
		counts[id]++
	}

	payout := 0.0
	for id, count := range counts {
		if count < rule.MinMatchCount {
			continue
		}
		mult, ok := table.MultiplierOf(id)
		if !ok {
			return 0, invalidConfigf("outcome contains unknown symbol %q", id)
		}
		payout += mult * float64(count)
	}
	return payout, nil
}
