package query

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// ExecutionError means the query reached the FAILED or CANCELLED terminal
// state. Fatal to the run.
type ExecutionError struct {
	ExecutionID string
	State       types.QueryExecutionState
	Reason      string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("athena query %s %s: %s", e.ExecutionID, e.State, e.Reason)
}

// TimeoutError means the polling ceiling elapsed while the query was still
// running. Fatal to the run.
type TimeoutError struct {
	ExecutionID string
	Waited      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("athena query %s timed out after %s", e.ExecutionID, e.Waited)
}
