package engine

import "math"

// SymbolSpec — описание символа из конфигурации
type SymbolSpec struct {
	ID         string  // Уникальный идентификатор символа
	Multiplier float64 // Базовый множитель выплаты (в кратности ставки, >= 0)
	Weight     float64 // Базовый вес выбора (относительная вероятность, >= 0)
}

// Symbol — символ барабана. Неизменяем после построения таблицы
type Symbol struct {
	ID         string
	Multiplier float64
	Weight     float64
}

// SymbolTable — неизменяемый каталог символов и их множителей выплат.
// Порядок символов фиксирован и используется для выравнивания векторов весов барабанов
type SymbolTable struct {
	symbols []Symbol
	index   map[string]int
}

// NewSymbolTable строит таблицу символов из конфигурации.
// Возвращает ErrInvalidConfig если список пуст, есть дубликат идентификатора,
// отрицательный вес/множитель, неконечный множитель или ни одного символа с весом > 0
func NewSymbolTable(specs []SymbolSpec) (*SymbolTable, error) {
	if len(specs) == 0 {
		return nil, invalidConfigf("symbol list is empty")
	}

	symbols := make([]Symbol, 0, len(specs))
	index := make(map[string]int, len(specs))
	hasPositiveWeight := false

	for _, spec := range specs {
		if spec.ID == "" {
			return nil, invalidConfigf("symbol id is empty")
		}
		if _, ok := index[spec.ID]; ok {
			return nil, invalidConfigf("duplicate symbol id %q", spec.ID)
		}
		if spec.Weight < 0 {
			return nil, invalidConfigf("symbol %q has negative weight %v", spec.ID, spec.Weight)
		}
		if spec.Multiplier < 0 {
			return nil, invalidConfigf("symbol %q has negative multiplier %v", spec.ID, spec.Multiplier)
		}
		if math.IsInf(spec.Multiplier, 0) || math.IsNaN(spec.Multiplier) {
			return nil, invalidConfigf("symbol %q has non-finite multiplier", spec.ID)
		}
		if spec.Weight > 0 {
			hasPositiveWeight = true
		}

		index[spec.ID] = len(symbols)
		symbols = append(symbols, Symbol{
			ID:         spec.ID,
			Multiplier: spec.Multiplier,
			Weight:     spec.Weight,
		})
	}

	if !hasPositiveWeight {
		return nil, invalidConfigf("no symbol with positive weight")
	}

	return &SymbolTable{symbols: symbols, index: index}, nil
}

// Len возвращает количество символов в таблице
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Symbol возвращает символ по индексу таблицы
func (t *SymbolTable) Symbol(i int) Symbol {
	return t.symbols[i]
}

// IDs возвращает идентификаторы символов в порядке таблицы
func (t *SymbolTable) IDs() []string {
	ids := make([]string, len(t.symbols))
	for i, s := range t.symbols {
		ids[i] = s.ID
	}
	return ids
}

// IndexOf возвращает индекс символа в таблице
func (t *SymbolTable) IndexOf(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// MultiplierOf возвращает множитель выплаты символа по идентификатору
func (t *SymbolTable) MultiplierOf(id string) (float64, bool) {
	i, ok := t.index[id]
	if !ok {
		return 0, false
	}
	return t.symbols[i].Multiplier, true
}

// BaseWeights возвращает копию базовых весов символов в порядке таблицы.
// Используется как вектор весов по умолчанию для барабанов без собственной настройки
func (t *SymbolTable) BaseWeights() []float64 {
	w := make([]float64, len(t.symbols))
	for i, s := range t.symbols {
		w[i] = s.Weight
	}
	return w
}
