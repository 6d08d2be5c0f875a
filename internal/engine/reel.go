package engine

import "math"

// ReelModel — модель барабанов: по одному вектору весов на барабан,
// выровненному по порядку таблицы символов. Векторы могут отличаться между
// барабанами (взвешивание по лентам). Нормализация и кумулятивные суммы
// считаются один раз при построении и кэшируются — стоимость одного спина
// ограничена O(барабаны × log символы).
// После построения модель неизменяема; калибратор не мутирует её, а строит новую
type ReelModel struct {
	table *SymbolTable
	raw   [][]float64 // Исходные веса (копия конфигурации)
	probs [][]float64 // Нормализованные вероятности
	cum   [][]float64 // Кумулятивные суммы вероятностей (последний элемент == 1)
}

// NewReelModel строит модель барабанов.
// Возвращает ErrInvalidConfig если таблица отсутствует, барабанов меньше одного,
// длина вектора весов не равна количеству символов, встречается отрицательный вес
// или сумма весов барабана равна нулю
func NewReelModel(table *SymbolTable, perReelWeights [][]float64) (*ReelModel, error) {
	if table == nil {
		return nil, invalidConfigf("symbol table is nil")
	}
	if len(perReelWeights) < 1 {
		return nil, invalidConfigf("reel count must be >= 1")
	}

	symbolCount := table.Len()
	raw := make([][]float64, len(perReelWeights))
	probs := make([][]float64, len(perReelWeights))
	cum := make([][]float64, len(perReelWeights))

	for r, weights := range perReelWeights {
		if len(weights) != symbolCount {
			return nil, invalidConfigf("reel %d: weight vector length %d != symbol count %d", r, len(weights), symbolCount)
		}

		sum := 0.0
		for i, w := range weights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, invalidConfigf("reel %d: symbol %q has invalid weight %v", r, table.Symbol(i).ID, w)
			}
			sum += w
		}
		if sum <= 0 {
			return nil, invalidConfigf("reel %d: weights sum to zero", r)
		}

		raw[r] = append([]float64(nil), weights...)
		probs[r] = make([]float64, symbolCount)
		cum[r] = make([]float64, symbolCount)

		acc := 0.0
		for i, w := range weights {
			probs[r][i] = w / sum
			acc += probs[r][i]
			cum[r][i] = acc
		}
		// Защита от накопленной погрешности: последняя граница всегда ровно 1
		cum[r][symbolCount-1] = 1.0
	}

	return &ReelModel{table: table, raw: raw, probs: probs, cum: cum}, nil
}

// NewUniformReelModel строит модель из reelCount одинаковых барабанов
// с базовыми весами таблицы символов
func NewUniformReelModel(table *SymbolTable, reelCount int) (*ReelModel, error) {
	if table == nil {
		return nil, invalidConfigf("symbol table is nil")
	}
	if reelCount < 1 {
		return nil, invalidConfigf("reel count must be >= 1")
	}
	weights := make([][]float64, reelCount)
	for r := range weights {
		weights[r] = table.BaseWeights()
	}
	return NewReelModel(table, weights)
}

// Table возвращает таблицу символов модели
func (m *ReelModel) Table() *SymbolTable {
	return m.table
}

// ReelCount возвращает количество барабанов
func (m *ReelModel) ReelCount() int {
	return len(m.probs)
}

// WeightsForReel возвращает копию нормализованного вектора вероятностей барабана i
func (m *ReelModel) WeightsForReel(i int) []float64 {
	return append([]float64(nil), m.probs[i]...)
}

// RawWeights возвращает глубокую копию исходных весов всех барабанов
func (m *ReelModel) RawWeights() [][]float64 {
	out := make([][]float64, len(m.raw))
	for r := range m.raw {
		out[r] = append([]float64(nil), m.raw[r]...)
	}
	return out
}

// cumulativeForReel — внутренний доступ к кэшированным кумулятивным суммам
func (m *ReelModel) cumulativeForReel(i int) []float64 {
	return m.cum[i]
}
