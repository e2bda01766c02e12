package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Config carries every knob the report run needs. It is loaded once from the
// environment and passed explicitly into constructors so tests can substitute
// their own values.
type Config struct {
	Database       string
	OutputLocation string

	ReportBucket string
	ReportPrefix string

	TopicARN string

	MaxWait      time.Duration
	PollInterval time.Duration
	URLExpiry    time.Duration

	// APIs is the ordered list of logical APIs to report on. Every name in
	// the list gets a row in the report even with zero traffic.
	APIs []string

	// RedirectAsSuccess lists APIs whose 3xx responses count as successes
	// (OAuth redirects, SSO flows).
	RedirectAsSuccess []string

	AWS AWSConfig
}

type AWSConfig struct {
	Region string
}

const defaultAPIs = "api-service-1,api-service-2,api-service-3,api-gateway-prod,api-gateway-staging"

func Load() *Config {
	return &Config{
		Database:          getEnv("ATHENA_DB", "alb_logs_database"),
		OutputLocation:    getEnv("ATHENA_OUTPUT", "s3://athena-results-bucket/queries/"),
		ReportBucket:      getEnv("PDF_BUCKET", "report-storage-bucket"),
		ReportPrefix:      getEnv("PDF_PREFIX", "alb-reports"),
		TopicARN:          os.Getenv("SNS_TOPIC_ARN"),
		MaxWait:           time.Duration(cast.ToInt(getEnv("MAX_WAIT_SECONDS", "180"))) * time.Second,
		PollInterval:      time.Duration(cast.ToInt(getEnv("POLL_INTERVAL_SECONDS", "2"))) * time.Second,
		URLExpiry:         time.Duration(cast.ToInt(getEnv("URL_EXPIRY_HOURS", "24"))) * time.Hour,
		APIs:              parseList(getEnv("ALLOWED_APIS", defaultAPIs)),
		RedirectAsSuccess: parseList(os.Getenv("INCLUDE_3XX_APIS")),
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}

	var result []string
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
