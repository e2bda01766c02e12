package statusreport

import (
	"fmt"
	"strings"
)

// UnknownAPI is the sentinel name for target groups that match no configured
// pattern. Traffic on unknown target groups stays visible as its own report
// row instead of failing the run.
const UnknownAPI = "unknown"

type resolverRule struct {
	pattern string
	name    string
}

// Resolver maps a target group ARN to a logical API name. Rules are checked
// in order; first match wins.
type Resolver struct {
	rules []resolverRule
}

// NewResolver builds a resolver from the configured API list. Each API named
// "x" matches target groups whose ARN contains "/x-tg/", e.g.
// arn:aws:elasticloadbalancing:us-east-1:123456789012:targetgroup/api-service-1-tg/abc123.
func NewResolver(apis []string) *Resolver {
	rules := make([]resolverRule, 0, len(apis))
	for _, api := range apis {
		api = strings.TrimSpace(api)
		if api == "" {
			continue
		}
		rules = append(rules, resolverRule{
			pattern: fmt.Sprintf("/%s-tg/", api),
			name:    api,
		})
	}
	return &Resolver{rules: rules}
}

func (r *Resolver) Resolve(targetGroupARN string) string {
	for _, rule := range r.rules {
		if strings.Contains(targetGroupARN, rule.pattern) {
			return rule.name
		}
	}
	return UnknownAPI
}
