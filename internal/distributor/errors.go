package distributor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// StorageError is a report upload failure. Transient errors are retried by
// the distributor; fatal ones (access-denied class) abort immediately.
type StorageError struct {
	Transient bool
	Attempts  int
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store report (attempts=%d, transient=%t): %v", e.Attempts, e.Transient, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationError is a failure publishing the subscriber notification. It
// is never fatal to the run: the report is durably stored regardless.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "publish notification: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }

var fatalAPIErrorCodes = map[string]struct{}{
	"AccessDenied":                 {},
	"AccountProblem":               {},
	"AllAccessDisabled":            {},
	"InvalidAccessKeyId":           {},
	"SignatureDoesNotMatch":        {},
	"NoSuchBucket":                 {},
	"ExpiredToken":                 {},
	"InvalidToken":                 {},
	"NotSignedUp":                  {},
	"AuthorizationHeaderMalformed": {},
}

var transientErrorSubstrings = []string{
	"timeout",
	"i/o timeout",
	"connection reset",
	"connection refused",
	"broken pipe",
	"unexpected eof",
	"no such host",
	"network is unreachable",
}

// isTransient reports whether an upload error is worth retrying. Permission
// and credential failures never are; throttling, 5xx responses, and network
// hiccups are.
func isTransient(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, fatal := fatalAPIErrorCodes[apiErr.ErrorCode()]; fatal {
			return false
		}
		switch apiErr.ErrorCode() {
		case "SlowDown", "RequestTimeout", "Throttling", "ThrottlingException",
			"RequestLimitExceeded", "InternalError", "ServiceUnavailable":
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}

	msg := strings.ToLower(err.Error())
	for _, s := range transientErrorSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
