package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/internal/distributor"
	"github.com/opsreport/alb-status-report/internal/handler"
	"github.com/opsreport/alb-status-report/internal/query"
	"github.com/opsreport/alb-status-report/internal/render"
	"github.com/opsreport/alb-status-report/internal/results"
	"github.com/opsreport/alb-status-report/internal/statusreport"
	"github.com/opsreport/alb-status-report/pkg/config"
)

// NewHandler wires the report handler against live AWS clients built from
// the default credential chain.
func NewHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*handler.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	athenaClient := athena.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	snsClient := sns.NewFromConfig(awsCfg)

	runner := query.NewRunner(athenaClient, cfg.Database, cfg.OutputLocation, cfg.PollInterval, cfg.MaxWait, logger)
	fetcher := results.NewFetcher(s3Client, logger)
	aggregator := statusreport.NewAggregator(
		statusreport.NewResolver(cfg.APIs),
		statusreport.NewClassifier(cfg.RedirectAsSuccess),
		cfg.APIs,
	)
	dist := distributor.New(
		s3Client,
		s3.NewPresignClient(s3Client),
		snsClient,
		cfg.ReportBucket,
		cfg.ReportPrefix,
		cfg.TopicARN,
		cfg.URLExpiry,
		logger,
	)

	return handler.New(runner, fetcher, aggregator, render.Render, dist, logger), nil
}
