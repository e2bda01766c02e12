package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAthena struct {
	startErr       error
	states         []types.QueryExecutionState
	reason         string
	outputLocation string

	startCalls int
	polls      int
}

func (f *fakeAthena) StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("exec-123")}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	state := f.states[len(f.states)-1]
	if f.polls < len(f.states) {
		state = f.states[f.polls]
	}
	f.polls++

	status := &types.QueryExecutionStatus{State: state}
	if f.reason != "" {
		status.StateChangeReason = aws.String(f.reason)
	}

	return &athena.GetQueryExecutionOutput{
		QueryExecution: &types.QueryExecution{
			QueryExecutionId:    params.QueryExecutionId,
			Status:              status,
			ResultConfiguration: &types.ResultConfiguration{OutputLocation: aws.String(f.outputLocation)},
		},
	}, nil
}

func newTestRunner(client API) (*Runner, *int) {
	runner := NewRunner(client, "alb_logs_database", "s3://athena-results-bucket/queries/", 2*time.Second, 180*time.Second, zap.NewNop())
	sleeps := 0
	runner.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}
	return runner, &sleeps
}

func TestRunner_SucceedsAfterPolling(t *testing.T) {
	client := &fakeAthena{
		states: []types.QueryExecutionState{
			types.QueryExecutionStateQueued,
			types.QueryExecutionStateRunning,
			types.QueryExecutionStateSucceeded,
		},
		outputLocation: "s3://athena-results-bucket/queries/exec-123.csv",
	}
	runner, _ := newTestRunner(client)

	execution, err := runner.Run(context.Background(), StatusAggregationSQL)
	require.NoError(t, err)

	assert.Equal(t, "exec-123", execution.ID)
	assert.Equal(t, "s3://athena-results-bucket/queries/exec-123.csv", execution.OutputLocation)
	assert.Equal(t, 1, client.startCalls)
	assert.Equal(t, 3, client.polls)
}

func TestRunner_FailedStateReturnsExecutionError(t *testing.T) {
	client := &fakeAthena{
		states: []types.QueryExecutionState{
			types.QueryExecutionStateRunning,
			types.QueryExecutionStateFailed,
		},
		reason: "SYNTAX_ERROR: line 3",
	}
	runner, _ := newTestRunner(client)

	_, err := runner.Run(context.Background(), StatusAggregationSQL)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, types.QueryExecutionStateFailed, execErr.State)
	assert.Equal(t, "SYNTAX_ERROR: line 3", execErr.Reason)
	assert.Contains(t, execErr.Error(), "exec-123")
}

func TestRunner_CancelledStateReturnsExecutionError(t *testing.T) {
	client := &fakeAthena{
		states: []types.QueryExecutionState{types.QueryExecutionStateCancelled},
	}
	runner, _ := newTestRunner(client)

	_, err := runner.Run(context.Background(), StatusAggregationSQL)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, types.QueryExecutionStateCancelled, execErr.State)
	assert.Equal(t, "unknown reason", execErr.Reason)
}

func TestRunner_TimesOutWhileStillRunning(t *testing.T) {
	client := &fakeAthena{
		states: []types.QueryExecutionState{types.QueryExecutionStateRunning},
	}
	runner, sleeps := newTestRunner(client)

	_, err := runner.Run(context.Background(), StatusAggregationSQL)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "exec-123", timeoutErr.ExecutionID)
	assert.Equal(t, 180*time.Second, timeoutErr.Waited)

	// 180s ceiling at 2s per poll.
	assert.Equal(t, 90, client.polls)
	assert.Equal(t, 90, *sleeps)
}

func TestRunner_StartFailurePropagates(t *testing.T) {
	client := &fakeAthena{startErr: errors.New("throttled")}
	runner, _ := newTestRunner(client)

	_, err := runner.Run(context.Background(), StatusAggregationSQL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start query execution")
	assert.Equal(t, 0, client.polls)
}

func TestRunner_ContextCancelledDuringPolling(t *testing.T) {
	client := &fakeAthena{
		states: []types.QueryExecutionState{types.QueryExecutionStateRunning},
	}
	runner := NewRunner(client, "db", "s3://out/", 2*time.Second, 180*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	runner.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := runner.Run(ctx, StatusAggregationSQL)
	require.ErrorIs(t, err, context.Canceled)
}
