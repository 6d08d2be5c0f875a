package req

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode разбирает JSON тело запроса в структуру типа T
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode request: %w", err)
	}
	return payload, nil
}
