package results

import "fmt"

// PersistenceError is a failed store operation.
type PersistenceError struct {
	Op       string
	TestName string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.TestName != "" {
		return fmt.Sprintf("results: %s %s: %v", e.Op, e.TestName, e.Err)
	}
	return fmt.Sprintf("results: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
