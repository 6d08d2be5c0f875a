package service

import (
	"context"
	"errors"

	"slot_engine/internal/model"
)

var (
	// ErrInvalidBet Ставка должна быть строго положительной
	ErrInvalidBet = errors.New("bet must be positive")
	// ErrSessionNotFound Сессия с таким идентификатором не известна
	ErrSessionNotFound = errors.New("session not found")
)

type SpinService interface {
	Spin(ctx context.Context, req model.Spin) (*model.SpinRecord, error)
	SessionState(sessionID string) (*model.SessionState, error)
	MachineState() *model.MachineState
}

type CalibrationService interface {
	Calibrate(ctx context.Context, req model.CalibrationRequest) (*model.CalibrationReport, error)
}
