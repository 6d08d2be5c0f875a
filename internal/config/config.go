package config

import "github.com/joho/godotenv"

// Load подхватывает переменные окружения из .env файла
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// SymbolSpec — символ из конфигурации машины
type SymbolSpec struct {
	ID         string
	Multiplier float64
	Weight     float64
}

// VolatilityBand — полоса таблицы волатильности из конфигурации
type VolatilityBand struct {
	From   float64
	Factor float64
}

// MachineConfig — полная конфигурация слот-машины: барабаны, символы,
// правило выплат, профиль волатильности и параметры калибровки.
// Всё задаётся явной структурированной конфигурацией, никакого глобального состояния
type MachineConfig interface {
	ReelCount() int
	Symbols() []SymbolSpec
	// ReelWeights возвращает пер-барабанные веса; nil — базовые веса символов
	// на всех барабанах
	ReelWeights() [][]float64
	MinMatchCount() int
	Volatility() float64
	VolatilityBands() []VolatilityBand
	TargetRTP() float64
	Tolerance() float64
	MaxIterations() int
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

// AMQPConfig — настройки публикации результатов спинов в брокер.
// Enabled()=false — публикация выключена, используется no-op сток
type AMQPConfig interface {
	Enabled() bool
	URL() string
	Exchange() string
	RoutingKey() string
}
