// Command genmock writes deterministic synthetic Open-Meteo payloads for the
// named forecastmock scenarios. With -series-dir it also writes the comfort
// series derived from each payload with a fixed clock, so fixtures and their
// expected output stay in step with the domain package.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -scenario all \
//	  -date 2024-06-01 \
//	  -out-dir data/mock \
//	  -series-dir data/mock/series
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/couchcryptid/weacodi-service/internal/forecastmock"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	scenario := flag.String("scenario", "all", "scenario name or \"all\"")
	date := flag.String("date", "2024-06-01", "local date of the past day (YYYY-MM-DD)")
	outDir := flag.String("out-dir", "", "directory for raw payload JSON")
	seriesDir := flag.String("series-dir", "", "optional directory for derived series JSON")
	hour := flag.Int("hour", 9, "local hour of the first forecast day used as \"now\"")
	days := flag.String("days", "2", "forecast window in days")
	units := flag.String("units", "metric", "metric, imperial, or nautical")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	start, err := time.Parse(time.DateOnly, *date)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}

	names := []string{*scenario}
	if *scenario == "all" {
		names = forecastmock.Scenarios()
	}

	params := domain.NormalizeQuery(domain.RawQuery{Days: *days, Units: *units})
	for _, name := range names {
		opts, err := forecastmock.Scenario(name, start)
		if err != nil {
			return err
		}
		raw := forecastmock.Generate(opts)

		path := filepath.Join(*outDir, name+".json")
		if err := writeJSON(path, raw); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d hours -> %s", name, len(raw.Hourly.Time), path)

		if *seriesDir == "" {
			continue
		}
		series, err := deriveAt(raw, params, forecastmock.Now(opts, *hour))
		if err != nil {
			return fmt.Errorf("derive %s: %w", name, err)
		}
		path = filepath.Join(*seriesDir, name+".json")
		if err := writeJSON(path, series); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d derived hours -> %s", name, series.Len(), path)
	}
	return nil
}

func deriveAt(raw domain.RawForecast, params domain.QueryParameters, now time.Time) (domain.DerivedSeries, error) {
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)
	return domain.BuildSeries(raw, params)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
