package models

// RunStatus is the overall outcome of one report run.
type RunStatus string

const (
	// RunSuccess means the report was stored and the notification was sent.
	RunSuccess RunStatus = "success"
	// RunPartialSuccess means the report was stored but the notification
	// could not be delivered.
	RunPartialSuccess RunStatus = "partial_success"
	// RunFailure means no report was delivered.
	RunFailure RunStatus = "failure"
)

const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// RunResult is the structured payload returned by one invocation.
type RunResult struct {
	Status             RunStatus `json:"status"`
	RunDate            string    `json:"run_date"`
	QueryExecutionID   string    `json:"query_execution_id,omitempty"`
	TotalRequests      int64     `json:"total_requests"`
	ReportKey          string    `json:"report_key,omitempty"`
	ReportURL          string    `json:"report_url,omitempty"`
	NotificationStatus string    `json:"notification_status,omitempty"`
	ErrorKind          string    `json:"error_kind,omitempty"`
	ErrorMessage       string    `json:"error,omitempty"`
}
