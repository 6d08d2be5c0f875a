package publisher

import (
	"context"

	"slot_engine/internal/model"
)

// SpinSink — внешний сток результатов спинов.
// Ошибки публикации не должны срывать спин: сервис их только логирует
type SpinSink interface {
	Publish(ctx context.Context, rec model.SpinRecord) error
	Close() error
}

// NoopSink — заглушка стока, когда публикация выключена в конфигурации
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Publish(_ context.Context, _ model.SpinRecord) error {
	return nil
}

func (s *NoopSink) Close() error {
	return nil
}
