package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/pkg/models"
)

const (
	columnTargetGroupARN = "target_group_arn"
	columnStatusCode     = "elb_status_code"
	columnCount          = "error_count"
)

// ObjectGetter is the slice of the S3 client the fetcher needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FormatError means the result set did not parse as the expected columns and
// types. Fatal: malformed result data is never silently patched.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "malformed query result: " + e.Detail
}

// Fetcher downloads an Athena result CSV from S3 and decodes it into typed
// status rows.
type Fetcher struct {
	client ObjectGetter
	logger *zap.Logger
}

func NewFetcher(client ObjectGetter, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch reads the result object at the given s3:// location and parses every
// data row.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]models.StatusRow, error) {
	bucket, key, err := splitS3URI(location)
	if err != nil {
		return nil, err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get result object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	rows, err := Parse(out.Body)
	if err != nil {
		return nil, err
	}

	f.logger.Info("query results fetched",
		zap.String("location", location),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// Parse decodes a header-prefixed result CSV into status rows. Columns are
// located by header name so column order does not matter.
func Parse(r io.Reader) ([]models.StatusRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &FormatError{Detail: "empty result set, header row missing"}
	}
	if err != nil {
		return nil, &FormatError{Detail: err.Error()}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnTargetGroupARN, columnStatusCode, columnCount} {
		if _, ok := index[required]; !ok {
			return nil, &FormatError{Detail: fmt.Sprintf("missing column %q", required)}
		}
	}

	var rows []models.StatusRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Detail: fmt.Sprintf("line %d: %v", line, err)}
		}

		status, err := strconv.Atoi(record[index[columnStatusCode]])
		if err != nil {
			return nil, &FormatError{Detail: fmt.Sprintf("line %d: status code %q is not an integer", line, record[index[columnStatusCode]])}
		}

		count, err := strconv.ParseInt(record[index[columnCount]], 10, 64)
		if err != nil {
			return nil, &FormatError{Detail: fmt.Sprintf("line %d: count %q is not an integer", line, record[index[columnCount]])}
		}
		if count < 0 {
			return nil, &FormatError{Detail: fmt.Sprintf("line %d: count %d is negative", line, count)}
		}

		rows = append(rows, models.StatusRow{
			TargetGroupARN: record[index[columnTargetGroupARN]],
			StatusCode:     status,
			Count:          count,
		})
	}

	return rows, nil
}

func splitS3URI(location string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("result location %q is not an s3 URI", location)
	}

	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("result location %q is missing bucket or key", location)
	}
	return bucket, key, nil
}
