package collect

import "fmt"

// OrchestrationError wraps a failure of the orchestrator's own control flow
// or of an administrative pass-through. Ordinary per-source collection
// failures never surface as this error; they are folded into the RunReport.
type OrchestrationError struct {
	Op  string
	Err error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("collection orchestration %s: %v", e.Op, e.Err)
}

func (e *OrchestrationError) Unwrap() error {
	return e.Err
}
