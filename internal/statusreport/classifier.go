package statusreport

// Bucket is the classification outcome for a single status code.
type Bucket int

const (
	// BucketUnclassified covers every code outside the configured ranges,
	// including redirects for APIs without the redirect-as-success override.
	// Unclassified rows are dropped from the report.
	BucketUnclassified Bucket = iota
	BucketSuccess
	BucketClientError
	BucketServerError
)

func (b Bucket) String() string {
	switch b {
	case BucketSuccess:
		return "success"
	case BucketClientError:
		return "client_error"
	case BucketServerError:
		return "server_error"
	default:
		return "unclassified"
	}
}

// Classifier maps status codes to buckets. APIs in redirectAsSuccess also
// count 3xx responses as successes.
type Classifier struct {
	redirectAsSuccess map[string]struct{}
}

func NewClassifier(redirectAsSuccess []string) *Classifier {
	set := make(map[string]struct{}, len(redirectAsSuccess))
	for _, api := range redirectAsSuccess {
		set[api] = struct{}{}
	}
	return &Classifier{redirectAsSuccess: set}
}

// Classify buckets a status code for the given API. It is a total function:
// every input yields exactly one bucket.
func (c *Classifier) Classify(status int, api string) Bucket {
	switch {
	case status >= 200 && status <= 214:
		return BucketSuccess
	case status >= 300 && status <= 314:
		if _, ok := c.redirectAsSuccess[api]; ok {
			return BucketSuccess
		}
		return BucketUnclassified
	case status >= 400 && status <= 415:
		return BucketClientError
	case status >= 500 && status <= 515:
		return BucketServerError
	default:
		return BucketUnclassified
	}
}
