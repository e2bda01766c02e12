package logging

import (
	"go.uber.org/zap"
)

// New builds the logger used by every component. Production encoding emits
// JSON lines suitable for CloudWatch Logs; development encoding is for the
// local CLI.
func New(development bool) *zap.Logger {
	if development {
		return zap.Must(zap.NewDevelopment())
	}

	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return zap.Must(cfg.Build())
}
