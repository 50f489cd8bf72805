package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// DefaultOpenMeteoURL is the public Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Config holds all service settings, populated from environment variables.
// The env tag names the variable each field is read from and is used in
// validation errors.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Open-Meteo client configuration.
	OpenMeteoURL       string        `env:"OPEN_METEO_URL" validate:"required,url"`
	OpenMeteoTimeout   time.Duration `env:"OPEN_METEO_TIMEOUT" validate:"gt=0"`
	OpenMeteoRateLimit float64       `env:"OPEN_METEO_RATE_LIMIT" validate:"gt=0"`
	OpenMeteoBurst     int           `env:"OPEN_METEO_BURST" validate:"gte=1"`

	CacheTTL time.Duration `env:"CACHE_TTL" validate:"gt=0"`

	// Series topic configuration.
	KafkaEnabled       bool          `env:"KAFKA_ENABLED"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS"`
	KafkaTopic         string        `env:"KAFKA_TOPIC" validate:"required_if=KafkaEnabled true"`
	BatchSize          int           `env:"BATCH_SIZE"`
	BatchFlushInterval time.Duration `env:"BATCH_FLUSH_INTERVAL"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	openMeteoTimeout, err := parseDuration("OPEN_METEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration("CACHE_TTL", "3h")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("OPEN_METEO_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, errors.New("invalid OPEN_METEO_RATE_LIMIT")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("OPEN_METEO_BURST", "10"))
	if err != nil {
		return nil, errors.New("invalid OPEN_METEO_BURST")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenMeteoURL:       sharedcfg.EnvOrDefault("OPEN_METEO_URL", DefaultOpenMeteoURL),
		OpenMeteoTimeout:   openMeteoTimeout,
		OpenMeteoRateLimit: rateLimit,
		OpenMeteoBurst:     burst,

		CacheTTL: cacheTTL,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-comfort-series"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// validateConfig checks cfg against its struct tags and reports the first
// failure by environment variable name.
func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s: failed %q check", fe.Field(), fe.Tag())
	}
	return err
}
