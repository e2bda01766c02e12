package statusreport

import (
	"github.com/opsreport/alb-status-report/pkg/models"
)

// Aggregator folds pre-aggregated status rows into per-API bucket counters.
type Aggregator struct {
	resolver   *Resolver
	classifier *Classifier
	knownAPIs  []string
}

func NewAggregator(resolver *Resolver, classifier *Classifier, knownAPIs []string) *Aggregator {
	return &Aggregator{
		resolver:   resolver,
		classifier: classifier,
		knownAPIs:  knownAPIs,
	}
}

// Aggregate builds the report from the result rows. Every known API gets a
// row even with zero traffic. Counts are added as-is because rows arrive
// pre-aggregated from the query engine. Row order does not affect the result.
func (a *Aggregator) Aggregate(rows []models.StatusRow) *models.Report {
	report := models.NewReport()
	for _, api := range a.knownAPIs {
		report.Seed(api)
	}

	for _, row := range rows {
		api := a.resolver.Resolve(row.TargetGroupARN)

		switch a.classifier.Classify(row.StatusCode, api) {
		case BucketSuccess:
			report.Counters(api).Success += row.Count
		case BucketClientError:
			report.Counters(api).ClientError += row.Count
		case BucketServerError:
			report.Counters(api).ServerError += row.Count
		case BucketUnclassified:
			// Dropped from every bucket. An "unknown" row only appears
			// once that target group has classified traffic.
		}
	}

	return report
}
