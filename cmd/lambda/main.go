package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/internal/app"
	"github.com/opsreport/alb-status-report/internal/logging"
	"github.com/opsreport/alb-status-report/pkg/config"
	"github.com/opsreport/alb-status-report/pkg/models"
)

func main() {
	logger := logging.New(false)
	defer logger.Sync()

	cfg := config.Load()

	lambda.Start(func(ctx context.Context, event map[string]any) (*models.RunResult, error) {
		h, err := app.NewHandler(ctx, cfg, logger)
		if err != nil {
			logger.Error("handler setup failed", zap.Error(err))
			return nil, err
		}

		// The result payload always carries the run status; failures are
		// reported through it rather than as an invocation error so the
		// scheduler sees a structured response either way.
		return h.Run(ctx), nil
	})
}
