// internal/wizard/steps.go
package wizard

// StepKey names a wizard stage.
type StepKey string

const (
	StepInfo        StepKey = "info"
	StepExperience  StepKey = "experience"
	StepQuestions   StepKey = "questions"
	StepDisclosures StepKey = "disclosures"
	StepIdentity    StepKey = "identity"
	StepReview      StepKey = "review"
)

type Step struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Key   StepKey `json:"key"`
}

var steps = []Step{
	{ID: 1, Title: "Personal Info", Key: StepInfo},
	{ID: 2, Title: "Experience", Key: StepExperience},
	{ID: 3, Title: "Questions", Key: StepQuestions},
	{ID: 4, Title: "Disclosures", Key: StepDisclosures},
	{ID: 5, Title: "Voluntary Identification", Key: StepIdentity},
	{ID: 6, Title: "Review", Key: StepReview},
}

const (
	FirstStep = 1
	FinalStep = 6
)

// Steps returns a copy of the fixed step sequence.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// StepAt returns the step for a cursor, clamping out of range values.
func StepAt(n int) Step {
	return steps[Clamp(n)-1]
}

// Clamp keeps a cursor within [FirstStep, FinalStep].
func Clamp(n int) int {
	if n < FirstStep {
		return FirstStep
	}
	if n > FinalStep {
		return FinalStep
	}
	return n
}
