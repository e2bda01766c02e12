package models

import "sort"

// StatusRow is one pre-aggregated row from the Athena result set.
type StatusRow struct {
	TargetGroupARN string
	StatusCode     int
	Count          int64
}

// APICounters holds the per-API status code buckets for one report row.
type APICounters struct {
	Success     int64
	ClientError int64
	ServerError int64
}

func (c *APICounters) Total() int64 {
	return c.Success + c.ClientError + c.ServerError
}

// Report maps logical API names to their aggregated counters.
type Report struct {
	counters map[string]*APICounters
}

func NewReport() *Report {
	return &Report{counters: make(map[string]*APICounters)}
}

// Seed ensures a zero-valued row exists for the given API so that
// zero-traffic APIs still appear in the rendered report.
func (r *Report) Seed(api string) {
	if _, ok := r.counters[api]; !ok {
		r.counters[api] = &APICounters{}
	}
}

// Counters returns the counters for the given API, creating the row if needed.
func (r *Report) Counters(api string) *APICounters {
	r.Seed(api)
	return r.counters[api]
}

// Get returns the counters for the given API without creating a row.
func (r *Report) Get(api string) (*APICounters, bool) {
	c, ok := r.counters[api]
	return c, ok
}

func (r *Report) Len() int {
	return len(r.counters)
}

// APIs returns all API names in sorted order. Iteration over the report
// must go through this to keep rendering deterministic.
func (r *Report) APIs() []string {
	apis := make([]string, 0, len(r.counters))
	for api := range r.counters {
		apis = append(apis, api)
	}
	sort.Strings(apis)
	return apis
}

// Totals sums every bucket across all APIs.
func (r *Report) Totals() APICounters {
	var t APICounters
	for _, c := range r.counters {
		t.Success += c.Success
		t.ClientError += c.ClientError
		t.ServerError += c.ServerError
	}
	return t
}
