package constants

import "fmt"

// EvaluationStatus is the lifecycle state of an evaluation.
type EvaluationStatus string

const (
	EvaluationDraft     EvaluationStatus = "draft"
	EvaluationPublished EvaluationStatus = "published"
	EvaluationArchived  EvaluationStatus = "archived"
)

func ParseEvaluationStatus(s string) (EvaluationStatus, error) {
	switch EvaluationStatus(s) {
	case EvaluationDraft, EvaluationPublished, EvaluationArchived:
		return EvaluationStatus(s), nil
	}
	return "", fmt.Errorf("unknown evaluation status %q", s)
}

func (s EvaluationStatus) String() string { return string(s) }

// statusTransitions is the only legal lifecycle: draft → published → archived.
var statusTransitions = map[EvaluationStatus][]EvaluationStatus{
	EvaluationDraft:     {EvaluationPublished},
	EvaluationPublished: {EvaluationArchived},
	EvaluationArchived:  {},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s EvaluationStatus) CanTransitionTo(next EvaluationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
