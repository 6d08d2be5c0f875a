package spin

import (
	"slot_engine/internal/model"
	"slot_engine/internal/service"
)

// SessionState возвращает снимок аккумулятора сессии
func (s *serv) SessionState(sessionID string) (*model.SessionState, error) {
	st, ok := s.sessionRepo.State(sessionID)
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return &st, nil
}

// MachineState возвращает снимок состояния машины
func (s *serv) MachineState() *model.MachineState {
	st := s.stateRepo.State()
	return &st
}
