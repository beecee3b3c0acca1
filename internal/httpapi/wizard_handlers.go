// internal/httpapi/wizard_handlers.go
package httpapi

import (
	"net/http"
	"strconv"

	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/metrics"
	"interview-portal/internal/wizard"
)

type WizardHandler struct {
	Log logger.Logger
}

type transitionResponse struct {
	CurrentStep int               `json:"currentStep"`
	Transition  wizard.Transition `json:"transition"`
}

func (h WizardHandler) Steps(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"steps":      wizard.Steps(),
		"firstStep":  wizard.FirstStep,
		"finalStep":  wizard.FinalStep,
		"totalSteps": wizard.FinalStep,
	})
}

func (h WizardHandler) Progress(w http.ResponseWriter, r *http.Request) {
	current := wizard.Clamp(queryInt(r, "step", wizard.FirstStep))
	WriteJSON(w, http.StatusOK, map[string]any{
		"currentStep": current,
		"steps":       wizard.Progress(current),
	})
}

func (h WizardHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var state wizard.FormState
	if err := decodeJSON(r, &state); err != nil {
		WriteStandardError(w, r, err)
		return
	}
	state.Normalize()
	WriteJSON(w, http.StatusOK, wizard.Validate(state.CurrentStep, state.Data))
}

// Next answers 422 with the step's field errors when the step blocks.
func (h WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	var state wizard.FormState
	if err := decodeJSON(r, &state); err != nil {
		WriteStandardError(w, r, err)
		return
	}

	t := state.Next()
	metrics.WizardTransitions.WithLabelValues(strconv.Itoa(t.From), string(t.Outcome)).Inc()

	if t.Outcome == wizard.OutcomeBlocked {
		logger.FromContext(r.Context(), h.Log).Debug("Wizard step blocked", map[string]interface{}{
			"step":   t.From,
			"errors": len(t.Validation.Errors),
		})
		writeValidationError(w, r, t.Validation.Errors)
		return
	}
	WriteJSON(w, http.StatusOK, transitionResponse{CurrentStep: state.CurrentStep, Transition: t})
}

func (h WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	var state wizard.FormState
	if err := decodeJSON(r, &state); err != nil {
		WriteStandardError(w, r, err)
		return
	}

	var t wizard.Transition
	if to := queryInt(r, "to", 0); to > 0 {
		t = state.GoTo(to)
	} else {
		t = state.Back()
	}
	metrics.WizardTransitions.WithLabelValues(strconv.Itoa(t.From), string(t.Outcome)).Inc()
	WriteJSON(w, http.StatusOK, transitionResponse{CurrentStep: state.CurrentStep, Transition: t})
}
