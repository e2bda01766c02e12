package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/internal/distributor"
	"github.com/opsreport/alb-status-report/internal/query"
	"github.com/opsreport/alb-status-report/internal/results"
	"github.com/opsreport/alb-status-report/pkg/models"
)

// Error kinds surfaced in the run result. Each maps to one runbook action,
// so an operator can act without reading logs.
const (
	ErrorKindQueryFailed  = "query_failed"
	ErrorKindQueryTimeout = "query_timeout"
	ErrorKindResultFormat = "result_format"
	ErrorKindStorage      = "storage"
	ErrorKindRender       = "render"
	ErrorKindInternal     = "internal"
)

// QueryRunner submits the aggregation query and waits for its terminal state.
type QueryRunner interface {
	Run(ctx context.Context, sql string) (*query.Execution, error)
}

// ResultFetcher downloads and parses the result set.
type ResultFetcher interface {
	Fetch(ctx context.Context, location string) ([]models.StatusRow, error)
}

// Aggregator folds result rows into the per-API report.
type Aggregator interface {
	Aggregate(rows []models.StatusRow) *models.Report
}

// Renderer turns the report into document bytes.
type Renderer func(report *models.Report, runDate time.Time) ([]byte, error)

// Distributor stores the document and notifies subscribers.
type Distributor interface {
	Distribute(ctx context.Context, document []byte, report *models.Report, runDate time.Time) (*distributor.Distribution, error)
}

// Handler sequences one report run: query, fetch, aggregate, render,
// distribute. It is purely sequential and performs no retries of its own;
// retry behavior lives inside the runner and distributor.
type Handler struct {
	runner      QueryRunner
	fetcher     ResultFetcher
	aggregator  Aggregator
	render      Renderer
	distributor Distributor
	sql         string
	now         func() time.Time
	logger      *zap.Logger
}

func New(runner QueryRunner, fetcher ResultFetcher, aggregator Aggregator, render Renderer, dist Distributor, logger *zap.Logger) *Handler {
	return &Handler{
		runner:      runner,
		fetcher:     fetcher,
		aggregator:  aggregator,
		render:      render,
		distributor: dist,
		sql:         query.StatusAggregationSQL,
		now:         time.Now,
		logger:      logger,
	}
}

// Run executes one report run and always returns a structured result. Any
// failure before distribution aborts the run; a notification failure alone
// downgrades the result to partial success.
func (h *Handler) Run(ctx context.Context) *models.RunResult {
	runDate := h.now().UTC()
	result := &models.RunResult{RunDate: runDate.Format("2006-01-02")}

	h.logger.Info("report run started", zap.String("run_date", result.RunDate))

	execution, err := h.runner.Run(ctx, h.sql)
	if err != nil {
		return h.fail(result, err)
	}
	result.QueryExecutionID = execution.ID

	rows, err := h.fetcher.Fetch(ctx, execution.OutputLocation)
	if err != nil {
		return h.fail(result, err)
	}

	report := h.aggregator.Aggregate(rows)
	totals := report.Totals()
	result.TotalRequests = totals.Success + totals.ClientError + totals.ServerError
	if result.TotalRequests == 0 {
		h.logger.Warn("report is empty", zap.String("run_date", result.RunDate))
	}

	document, err := h.render(report, runDate)
	if err != nil {
		return h.failWithKind(result, ErrorKindRender, err)
	}

	dist, err := h.distributor.Distribute(ctx, document, report, runDate)
	if err != nil {
		return h.fail(result, err)
	}

	result.ReportKey = dist.Key
	result.ReportURL = dist.URL
	result.NotificationStatus = dist.NotificationStatus

	if dist.NotificationStatus == models.NotificationFailed {
		result.Status = models.RunPartialSuccess
	} else {
		result.Status = models.RunSuccess
	}

	h.logger.Info("report run finished",
		zap.String("run_date", result.RunDate),
		zap.String("status", string(result.Status)),
		zap.Int64("total_requests", result.TotalRequests),
	)
	return result
}

func (h *Handler) fail(result *models.RunResult, err error) *models.RunResult {
	return h.failWithKind(result, errorKind(err), err)
}

func (h *Handler) failWithKind(result *models.RunResult, kind string, err error) *models.RunResult {
	result.Status = models.RunFailure
	result.ErrorKind = kind
	result.ErrorMessage = err.Error()

	h.logger.Error("report run failed",
		zap.String("run_date", result.RunDate),
		zap.String("error_kind", result.ErrorKind),
		zap.Error(err),
	)
	return result
}

func errorKind(err error) string {
	var (
		execErr    *query.ExecutionError
		timeoutErr *query.TimeoutError
		formatErr  *results.FormatError
		storageErr *distributor.StorageError
	)

	switch {
	case errors.As(err, &execErr):
		return ErrorKindQueryFailed
	case errors.As(err, &timeoutErr):
		return ErrorKindQueryTimeout
	case errors.As(err, &formatErr):
		return ErrorKindResultFormat
	case errors.As(err, &storageErr):
		return ErrorKindStorage
	default:
		return ErrorKindInternal
	}
}
