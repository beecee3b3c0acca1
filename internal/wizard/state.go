// internal/wizard/state.go
package wizard

import "interview-portal/internal/models"

type Outcome string

const (
	OutcomeAdvanced Outcome = "advanced"
	OutcomeBlocked  Outcome = "blocked"
	OutcomeSubmit   Outcome = "submit"
	OutcomeBack     Outcome = "back"
)

// Transition describes one attempted cursor move.
type Transition struct {
	From       int          `json:"from"`
	To         int          `json:"to"`
	Outcome    Outcome      `json:"outcome"`
	Validation *Result      `json:"validation,omitempty"`
	Progress   []StepStatus `json:"progress"`
}

// FormState is the cursor plus the whole working document. The server keeps
// no copy; clients post it back on every transition.
type FormState struct {
	CurrentStep int                    `json:"currentStep"`
	Data        models.ApplicationData `json:"data"`
}

func NewFormState() *FormState {
	return &FormState{CurrentStep: FirstStep, Data: models.NewApplicationData()}
}

// Normalize clamps the cursor.
func (s *FormState) Normalize() {
	s.CurrentStep = Clamp(s.CurrentStep)
}

// Next validates the current step. On the final step the whole document is
// checked, a pass yields OutcomeSubmit and the cursor stays put.
func (s *FormState) Next() Transition {
	s.Normalize()
	from := s.CurrentStep
	res := Validate(from, s.Data)
	if from == FinalStep {
		res = ValidateAll(s.Data)
	}

	t := Transition{From: from, To: from, Validation: &res}
	switch {
	case !res.CanAdvance:
		t.Outcome = OutcomeBlocked
	case from == FinalStep:
		t.Outcome = OutcomeSubmit
	default:
		s.CurrentStep = from + 1
		t.To = s.CurrentStep
		t.Outcome = OutcomeAdvanced
	}
	t.Progress = Progress(s.CurrentStep)
	return t
}

// Back is always permitted.
func (s *FormState) Back() Transition {
	s.Normalize()
	from := s.CurrentStep
	s.CurrentStep = Clamp(from - 1)
	return Transition{From: from, To: s.CurrentStep, Outcome: OutcomeBack, Progress: Progress(s.CurrentStep)}
}

// GoTo jumps backward to step n. Forward jumps are refused so a step can
// never be skipped without validation.
func (s *FormState) GoTo(n int) Transition {
	s.Normalize()
	from := s.CurrentStep
	n = Clamp(n)
	if n > from {
		return Transition{From: from, To: from, Outcome: OutcomeBlocked, Progress: Progress(from)}
	}
	s.CurrentStep = n
	return Transition{From: from, To: n, Outcome: OutcomeBack, Progress: Progress(n)}
}

// ReadyToSubmit reports whether the cursor is on the review step and every
// step of the document passes validation.
func (s *FormState) ReadyToSubmit() bool {
	return s.CurrentStep == FinalStep && ValidateAll(s.Data).CanAdvance
}
