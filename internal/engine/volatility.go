package engine

import "math"

// VolatilityBand — полоса профиля волатильности: коэффициент масштабирования
// действует при волатильности >= From. Полосы задаются конфигурацией,
// а не зашитыми в код порогами
type VolatilityBand struct {
	From   float64 // Нижняя граница полосы (включительно)
	Factor float64 // Коэффициент масштабирования выплаты
}

// VolatilityProfile — профиль волатильности: параметр волатильности плюс таблица
// полос, отображающая сырую выплату в скорректированную. Неизменяемая конфигурация,
// настраивается независимо от целевого RTP.
// Инварианты: нулевая выплата остаётся нулевой (корректировка никогда не создаёт
// выигрыш из ничего), а коэффициент не убывает с ростом волатильности —
// это гарантируется неубыванием Factor по полосам при построении.
// После смены профиля калибровку нужно прогонять заново: масштабирование сдвигает
// ожидаемую выплату и, как следствие, реализованный RTP
type VolatilityProfile struct {
	volatility float64
	bands      []VolatilityBand
	factor     float64 // Коэффициент, выбранный по volatility при построении
}

// DefaultVolatilityBands — эталонная таблица полос:
// волатильность < 3 → ×0.75, от 3 до 5 → ×1.0, от 5 и выше → ×1.5
func DefaultVolatilityBands() []VolatilityBand {
	return []VolatilityBand{
		{From: 0, Factor: 0.75},
		{From: 3, Factor: 1.0},
		{From: 5, Factor: 1.5},
	}
}

// NewVolatilityProfile строит профиль волатильности.
// Возвращает ErrInvalidConfig если волатильность не положительна, таблица полос
// пуста, границы полос не возрастают строго, первая полоса не начинается с нуля,
// какой-либо коэффициент не положителен или коэффициенты убывают
func NewVolatilityProfile(volatility float64, bands []VolatilityBand) (*VolatilityProfile, error) {
	if volatility <= 0 || math.IsNaN(volatility) || math.IsInf(volatility, 0) {
		return nil, invalidConfigf("volatility must be positive, got %v", volatility)
	}
	if len(bands) == 0 {
		return nil, invalidConfigf("volatility band table is empty")
	}
	if bands[0].From != 0 {
		return nil, invalidConfigf("first volatility band must start at 0, got %v", bands[0].From)
	}

	prev := VolatilityBand{From: math.Inf(-1), Factor: 0}
	for i, b := range bands {
		if b.Factor <= 0 || math.IsNaN(b.Factor) || math.IsInf(b.Factor, 0) {
			return nil, invalidConfigf("band %d: factor must be positive and finite, got %v", i, b.Factor)
		}
		if b.From <= prev.From {
			return nil, invalidConfigf("band %d: bounds must be strictly ascending", i)
		}
		if b.Factor < prev.Factor {
			return nil, invalidConfigf("band %d: factors must be non-decreasing", i)
		}
		prev = b
	}

	// Выбираем полосу один раз: последняя полоса с From <= volatility
	factor := bands[0].Factor
	for _, b := range bands {
		if volatility >= b.From {
			factor = b.Factor
		}
	}

	return &VolatilityProfile{
		volatility: volatility,
		bands:      append([]VolatilityBand(nil), bands...),
		factor:     factor,
	}, nil
}

// Volatility возвращает параметр волатильности профиля
func (p *VolatilityProfile) Volatility() float64 {
	return p.volatility
}

// Factor возвращает коэффициент масштабирования, выбранный по волатильности
func (p *VolatilityProfile) Factor() float64 {
	return p.factor
}

// Bands возвращает копию таблицы полос
func (p *VolatilityProfile) Bands() []VolatilityBand {
	return append([]VolatilityBand(nil), p.bands...)
}

// Adjust пересчитывает сырую выплату по профилю.
// Нулевая выплата возвращается без изменений
func (p *VolatilityProfile) Adjust(rawPayout float64) float64 {
	if rawPayout <= 0 {
		return 0
	}
	return rawPayout * p.factor
}
