package spin

import (
	"errors"
	"net/http"

	dto "slot_engine/internal/api/dto/spin"
	"slot_engine/internal/converter"
	"slot_engine/internal/engine"
	"slot_engine/internal/service"
	"slot_engine/pkg/req"
	"slot_engine/pkg/resp"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	SpinServ        service.SpinService
	CalibrationServ service.CalibrationService
}

type Handler struct {
	spinServ        service.SpinService
	calibrationServ service.CalibrationService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		spinServ:        deps.SpinServ,
		calibrationServ: deps.CalibrationServ,
	}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.spinServ.Spin(r.Context(), converter.ToSpin(payload))
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

func (h *Handler) Calibrate(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.CalibrateRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.calibrationServ.Calibrate(r.Context(), converter.ToCalibrationRequest(payload))
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToCalibrateResponse(*report))
}

func (h *Handler) MachineState(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToMachineStateResponse(*h.spinServ.MachineState()))
}

func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	st, err := h.spinServ.SessionState(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionStateResponse(*st))
}

// Маппинг ошибок сервисов на HTTP статусы
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidBet), errors.Is(err, engine.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
