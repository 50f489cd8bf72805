// Command derive runs the comfort derivation over a saved Open-Meteo payload
// with a fixed "now" and checks the result against the series invariants:
// aligned lengths, window size, comfort steps, wet/ice consistency, snow
// sentinel, and increasing timestamps. It exits 1 when any check fails.
//
// Usage:
//
//	go run ./cmd/derive \
//	  -in data/mock/freezing-rain.json \
//	  -now 2024-06-02T08:00:00Z \
//	  -days 2 -units imperial \
//	  -out /tmp/freezing-rain-series.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	in := flag.String("in", "", "path to an Open-Meteo forecast payload (JSON)")
	out := flag.String("out", "", "optional path for the derived series JSON")
	now := flag.String("now", "", "RFC 3339 instant used as the current time (default: wall clock)")
	days := flag.String("days", "", "forecast window in days (default 16)")
	sensitivity := flag.String("sensitivity", "", "normal, heatSensitive, or coldSensitive")
	intensity := flag.String("intensity", "", "activity tier 0-2")
	units := flag.String("units", "", "metric, imperial, or nautical")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	params := domain.NormalizeQuery(domain.RawQuery{
		Days:        *days,
		Sensitivity: *sensitivity,
		Intensity:   *intensity,
		Units:       *units,
	})
	os.Exit(run(*in, *out, *now, params))
}

func run(inPath, outPath, now string, params domain.QueryParameters) int {
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: parse -now: %v\n", err)
			return 1
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read payload: %v\n", err)
		return 1
	}
	var raw domain.RawForecast
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode payload: %v\n", err)
		return 1
	}

	series, err := domain.BuildSeries(raw, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: derive series: %v\n", err)
		return 1
	}

	if outPath != "" {
		encoded, err := json.MarshalIndent(series, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode series: %v\n", err)
			return 1
		}
		if err := os.WriteFile(outPath, append(encoded, '\n'), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: write series: %v\n", err)
			return 1
		}
	}

	fmt.Println("=== Comfort Series Checks ===")
	fmt.Printf("Query: %s, %d hours derived\n\n", params.CacheKey(), series.Len())

	checks := runChecks(series, params)
	for _, c := range checks {
		status := "PASS"
		if !c.passed() {
			status = fmt.Sprintf("FAIL (%d)", len(c.errors))
		}
		fmt.Printf("  %-32s %s\n", c.name, status)
	}

	failed := false
	for _, c := range checks {
		if c.passed() {
			continue
		}
		failed = true
		fmt.Printf("\n--- %s ---\n", c.name)
		for i, e := range c.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}
	if failed {
		fmt.Println("\nChecks FAILED.")
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}
