package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/go-faker/faker/v4"
)

// Emits a synthetic Athena result CSV (target_group_arn, elb_status_code,
// error_count) for exercising the fetch/aggregate path locally.
func main() {
	seedFlag := flag.Int64("seed", time.Now().UnixNano(), "seed for synthetic data generation")
	apisFlag := flag.String("apis", "api-service-1,api-service-2,api-service-3", "comma-separated logical API names")
	unknownFlag := flag.Bool("unknown", false, "include rows for an unmatched target group")
	flag.Parse()

	apis := strings.Split(*apisFlag, ",")
	if len(apis) == 0 {
		log.Fatal("at least one API name is required")
	}

	faker.SetRandomSource(faker.NewSafeSource(rand.NewSource(*seedFlag)))
	rng := rand.New(rand.NewSource(*seedFlag))

	rows := generateRows(apis, *unknownFlag, rng)

	writer := csv.NewWriter(bufio.NewWriter(os.Stdout))
	if err := writer.Write([]string{"target_group_arn", "elb_status_code", "error_count"}); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Fatalf("failed to write row: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
}
