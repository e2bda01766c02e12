package main

import (
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
)

// Status codes weighted the way production ALB traffic usually skews: mostly
// 2xx, a spread of client errors, a trickle of 5xx and redirects.
var statusWeights = []struct {
	status   int
	maxCount int
}{
	{200, 500000},
	{201, 20000},
	{204, 8000},
	{301, 3000},
	{302, 3000},
	{400, 2000},
	{401, 1500},
	{403, 800},
	{404, 5000},
	{415, 100},
	{500, 300},
	{502, 200},
	{503, 150},
}

func generateRows(apis []string, includeUnknown bool, rng *rand.Rand) [][]string {
	var rows [][]string

	for _, api := range apis {
		arn := targetGroupARN(api, rng)
		for _, w := range statusWeights {
			// Not every API sees every status every day.
			if rng.Intn(4) == 0 {
				continue
			}
			count := 1 + rng.Intn(w.maxCount)
			rows = append(rows, []string{arn, fmt.Sprint(w.status), fmt.Sprint(count)})
		}
	}

	if includeUnknown {
		arn := targetGroupARN(faker.Word(), rng)
		rows = append(rows, []string{arn, "502", fmt.Sprint(1 + rng.Intn(50))})
	}

	return rows
}

func targetGroupARN(api string, rng *rand.Rand) string {
	return fmt.Sprintf(
		"arn:aws:elasticloadbalancing:us-east-1:%012d:targetgroup/%s-tg/%016x",
		rng.Int63n(1e12),
		api,
		rng.Uint64(),
	)
}
