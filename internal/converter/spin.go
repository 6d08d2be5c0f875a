package converter

import (
	"slot_engine/internal/api/dto/spin"
	"slot_engine/internal/model"
)

func ToSpin(req spin.SpinRequest) model.Spin {
	return model.Spin{
		SessionID: req.SessionID,
		Bet:       req.Bet,
	}
}

func ToSpinResponse(rec model.SpinRecord) spin.SpinResponse {
	return spin.SpinResponse{
		SessionID:      rec.SessionID,
		Outcome:        rec.Outcome,
		Bet:            rec.Bet,
		RawPayout:      rec.RawPayout,
		AdjustedPayout: rec.AdjustedPayout,
		Timestamp:      rec.Timestamp,
	}
}

func ToCalibrationRequest(req spin.CalibrateRequest) model.CalibrationRequest {
	return model.CalibrationRequest{
		TargetRTP:     req.TargetRTP,
		Tolerance:     req.Tolerance,
		MaxIterations: req.MaxIterations,
		Seed:          req.Seed,
	}
}

func ToCalibrateResponse(report model.CalibrationReport) spin.CalibrateResponse {
	return spin.CalibrateResponse{
		AchievedRTP: report.AchievedRTP,
		CIWidth:     report.CIWidth,
		Iterations:  report.Iterations,
		Converged:   report.Converged,
	}
}

func ToSessionStateResponse(st model.SessionState) spin.SessionStateResponse {
	return spin.SessionStateResponse{
		SessionID:   st.SessionID,
		TotalBet:    st.TotalBet,
		TotalPayout: st.TotalPayout,
		Spins:       st.Spins,
		RealizedRTP: st.RealizedRTP,
	}
}

func ToMachineStateResponse(st model.MachineState) spin.MachineStateResponse {
	return spin.MachineStateResponse{
		TotalSpins:  st.TotalSpins,
		TotalBet:    st.TotalBet,
		TotalPayout: st.TotalPayout,
		CurrentRTP:  st.CurrentRTP,
		WindowRTP:   st.WindowRTP,
		TargetRTP:   st.TargetRTP,
		Adjustments: toAdjustments(st.Adjustments),
	}
}

func toAdjustments(adjustments []model.Adjustment) []spin.Adjustment {
	result := make([]spin.Adjustment, len(adjustments))
	for i, a := range adjustments {
		result[i] = spin.Adjustment{
			Timestamp:   a.Timestamp,
			Reason:      a.Reason,
			AchievedRTP: a.AchievedRTP,
			Iterations:  a.Iterations,
			Converged:   a.Converged,
		}
	}
	return result
}
