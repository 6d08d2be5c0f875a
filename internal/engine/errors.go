package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig — некорректная конфигурация (таблица символов, модель барабанов,
// правило выплат, профиль волатильности). Всегда фатальна для операции построения,
// никогда не исправляется молча.
var ErrInvalidConfig = errors.New("invalid config")

// invalidConfigf оборачивает ErrInvalidConfig с пояснением
func invalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
