package distributor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/pkg/models"
)

const (
	maxUploadAttempts    = 3
	initialUploadBackoff = 500 * time.Millisecond
)

// ObjectPutter is the slice of the S3 client used for the report upload.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// URLSigner mints time-limited GET URLs for stored reports.
type URLSigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Notifier publishes the subscriber notification.
type Notifier interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Distribution is the outcome of storing and announcing one report.
type Distribution struct {
	Key                string
	URL                string
	NotificationStatus string
}

// Distributor uploads the rendered report, mints a presigned URL, and
// notifies subscribers. Upload and URL failures are fatal; notification
// failures are logged and downgraded, never propagated.
type Distributor struct {
	putter    ObjectPutter
	signer    URLSigner
	notifier  Notifier
	bucket    string
	prefix    string
	topicARN  string
	urlExpiry time.Duration
	sleep     func(context.Context, time.Duration) error
	logger    *zap.Logger
}

func New(putter ObjectPutter, signer URLSigner, notifier Notifier, bucket, prefix, topicARN string, urlExpiry time.Duration, logger *zap.Logger) *Distributor {
	return &Distributor{
		putter:    putter,
		signer:    signer,
		notifier:  notifier,
		bucket:    bucket,
		prefix:    prefix,
		topicARN:  topicARN,
		urlExpiry: urlExpiry,
		sleep:     sleepWithContext,
		logger:    logger,
	}
}

// ReportKey is deterministic in the run date only, so re-running the same
// date overwrites the previous object. That overwrite is the system's
// idempotency mechanism.
func ReportKey(prefix string, runDate time.Time) string {
	return fmt.Sprintf("%s/alb_api_status_report_%s.pdf", prefix, runDate.Format("2006-01-02"))
}

func (d *Distributor) Distribute(ctx context.Context, document []byte, report *models.Report, runDate time.Time) (*Distribution, error) {
	key := ReportKey(d.prefix, runDate)

	if err := d.upload(ctx, key, document); err != nil {
		return nil, err
	}

	url, err := d.presign(ctx, key)
	if err != nil {
		// The notification depends on the URL, so this is fatal even
		// though the object itself is already stored.
		return nil, &StorageError{Transient: false, Attempts: 1, Err: fmt.Errorf("presign report url: %w", err)}
	}

	dist := &Distribution{Key: key, URL: url}
	dist.NotificationStatus = d.notify(ctx, report, runDate, url)
	return dist, nil
}

func (d *Distributor) upload(ctx context.Context, key string, document []byte) error {
	backoff := initialUploadBackoff

	var lastErr error
	for attempt := 1; attempt <= maxUploadAttempts; attempt++ {
		_, err := d.putter.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(d.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(document),
			ContentType: aws.String("application/pdf"),
		})
		if err == nil {
			d.logger.Info("report uploaded",
				zap.String("bucket", d.bucket),
				zap.String("key", key),
				zap.Int("attempt", attempt),
			)
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return &StorageError{Transient: false, Attempts: attempt, Err: err}
		}
		if attempt == maxUploadAttempts {
			break
		}

		d.logger.Warn("transient upload failure, retrying",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := d.sleep(ctx, backoff); err != nil {
			return &StorageError{Transient: true, Attempts: attempt, Err: lastErr}
		}
		backoff *= 2
	}

	return &StorageError{Transient: true, Attempts: maxUploadAttempts, Err: lastErr}
}

func (d *Distributor) presign(ctx context.Context, key string) (string, error) {
	req, err := d.signer.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = d.urlExpiry
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// notify publishes the summary message and returns the notification status.
// Errors are swallowed here; the report is already durably stored.
func (d *Distributor) notify(ctx context.Context, report *models.Report, runDate time.Time, url string) string {
	if d.topicARN == "" {
		d.logger.Warn("notification topic not configured, skipping notification")
		return models.NotificationSkipped
	}

	subject := fmt.Sprintf("Daily ALB API Status Report | %s", runDate.Format("2006-01-02"))
	body := BuildMessage(report, runDate, url, d.urlExpiry)

	_, err := d.notifier.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(d.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		nerr := &NotificationError{Err: err}
		d.logger.Error("notification publish failed", zap.String("topic", d.topicARN), zap.Error(nerr))
		return models.NotificationFailed
	}

	d.logger.Info("notification published", zap.String("topic", d.topicARN))
	return models.NotificationSent
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
