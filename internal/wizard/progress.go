// internal/wizard/progress.go
package wizard

type Status string

const (
	StatusCompleted Status = "completed"
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
)

type StepStatus struct {
	Step
	Status Status `json:"status"`
}

// Progress marks every step before the cursor completed and the cursor
// itself active.
func Progress(current int) []StepStatus {
	current = Clamp(current)
	out := make([]StepStatus, 0, len(steps))
	for _, s := range steps {
		st := StatusPending
		switch {
		case s.ID < current:
			st = StatusCompleted
		case s.ID == current:
			st = StatusActive
		}
		out = append(out, StepStatus{Step: s, Status: st})
	}
	return out
}
