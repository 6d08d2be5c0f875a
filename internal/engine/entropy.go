package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// EntropySource — источник равномерных значений в [0, 1).
// Внедряется явно: движок никогда не владеет источником и не сидит на глобальном
// генераторе, что даёт детерминированное воспроизведение спинов и калибровки.
// Источники не потокобезопасны — сериализация на стороне вызывающего
type EntropySource interface {
	Float64() float64
}

type pseudoSource struct {
	rng *rand.Rand
}

// NewPseudoSource создаёт детерминированный псевдослучайный источник.
// Один и тот же seed даёт одну и ту же последовательность
func NewPseudoSource(seed int64) EntropySource {
	return &pseudoSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *pseudoSource) Float64() float64 {
	return s.rng.Float64()
}

type cryptoSource struct{}

// NewCryptoSource создаёт источник на crypto/rand.
// Подключается вместо псевдослучайного там, где нужна энтропия
// сертификационного уровня
func NewCryptoSource() EntropySource {
	return cryptoSource{}
}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand на поддерживаемых платформах не возвращает ошибок чтения
		panic("engine: crypto entropy source failed: " + err.Error())
	}
	// Старшие 53 бита дают равномерный float64 в [0, 1)
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

type sequenceSource struct {
	vals []float64
	pos  int
}

// NewSequenceSource создаёт источник с фиксированной последовательностью значений.
// По исчерпании последовательность повторяется с начала. Используется в тестах
// для полностью воспроизводимых спинов
func NewSequenceSource(vals ...float64) EntropySource {
	if len(vals) == 0 {
		vals = []float64{0}
	}
	return &sequenceSource{vals: vals}
}

func (s *sequenceSource) Float64() float64 {
	v := s.vals[s.pos]
	s.pos = (s.pos + 1) % len(s.vals)
	return v
}
