package query

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"go.uber.org/zap"
)

// API is the slice of the Athena client the runner needs. Tests implement it
// to drive every terminal state.
type API interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
}

// Execution identifies a completed query and where its result set lives.
type Execution struct {
	ID             string
	OutputLocation string
}

// Runner submits the aggregation query and polls until a terminal state or
// the wait ceiling. It never returns partial results: either the result
// location of a succeeded query, or an error.
type Runner struct {
	client         API
	database       string
	outputLocation string
	pollInterval   time.Duration
	maxWait        time.Duration
	sleep          func(context.Context, time.Duration) error
	logger         *zap.Logger
}

func NewRunner(client API, database, outputLocation string, pollInterval, maxWait time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		client:         client,
		database:       database,
		outputLocation: outputLocation,
		pollInterval:   pollInterval,
		maxWait:        maxWait,
		sleep:          sleepWithContext,
		logger:         logger,
	}
}

func (r *Runner) Run(ctx context.Context, sql string) (*Execution, error) {
	start, err := r.client.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString:           aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{Database: aws.String(r.database)},
		ResultConfiguration:   &types.ResultConfiguration{OutputLocation: aws.String(r.outputLocation)},
	})
	if err != nil {
		return nil, fmt.Errorf("start query execution: %w", err)
	}

	executionID := aws.ToString(start.QueryExecutionId)
	r.logger.Info("athena query started",
		zap.String("execution_id", executionID),
		zap.String("database", r.database),
	)

	return r.waitForTerminalState(ctx, executionID)
}

func (r *Runner) waitForTerminalState(ctx context.Context, executionID string) (*Execution, error) {
	var waited time.Duration

	for waited < r.maxWait {
		out, err := r.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(executionID),
		})
		if err != nil {
			return nil, fmt.Errorf("get query execution %s: %w", executionID, err)
		}

		status := out.QueryExecution.Status
		switch status.State {
		case types.QueryExecutionStateSucceeded:
			r.logger.Info("athena query succeeded",
				zap.String("execution_id", executionID),
				zap.Duration("waited", waited),
			)
			return &Execution{
				ID:             executionID,
				OutputLocation: aws.ToString(out.QueryExecution.ResultConfiguration.OutputLocation),
			}, nil

		case types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
			reason := aws.ToString(status.StateChangeReason)
			if reason == "" {
				reason = "unknown reason"
			}
			return nil, &ExecutionError{
				ExecutionID: executionID,
				State:       status.State,
				Reason:      reason,
			}
		}

		if err := r.sleep(ctx, r.pollInterval); err != nil {
			return nil, err
		}
		waited += r.pollInterval
	}

	// A timed-out query is usually safe to re-run: Athena can serve the
	// identical query from its result cache on the next invocation.
	return nil, &TimeoutError{ExecutionID: executionID, Waited: waited}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
