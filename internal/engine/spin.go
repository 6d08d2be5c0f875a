package engine

import "sort"

// Outcome — результат одного спина: по одному идентификатору символа на барабан.
// Создаётся заново на каждый спин и движком не сохраняется
type Outcome []string

// Draw выполняет один спин: для каждого барабана независимо выбирает символ
// обратным преобразованием кумулятивного распределения — берётся наименьший
// индекс, чья кумулятивная вероятность >= u. На границах плавающей точки
// стабильно выигрывает первый подходящий индекс, без перебросов.
// Возвращает ErrInvalidConfig если модель или источник отсутствуют
func Draw(model *ReelModel, src EntropySource) (Outcome, error) {
	if model == nil {
		return nil, invalidConfigf("reel model is nil")
	}
	if src == nil {
		return nil, invalidConfigf("entropy source is nil")
	}

	outcome := make(Outcome, model.ReelCount())
	for r := 0; r < model.ReelCount(); r++ {
		u := src.Float64()
		cum := model.cumulativeForReel(r)
		idx := sort.SearchFloat64s(cum, u)
		// SearchFloat64s возвращает первый индекс с cum[i] >= u;
		// u < 1 гарантирует idx < len(cum), но страхуемся от u == 1.0 из кривого источника
		if idx >= len(cum) {
			idx = len(cum) - 1
		}
		outcome[r] = model.Table().Symbol(idx).ID
	}
	return outcome, nil
}
