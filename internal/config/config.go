package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFuzzWindow matches merge.DefaultFuzzWindow.
const DefaultFuzzWindow = 30 * time.Minute

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Files are the ADIF sources in precedence order: later files win.
	Files           []string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	KnownCallsOnly bool
	FuzzWindow     time.Duration

	// KafkaPublish sends the merged set to KafkaTopic after each load.
	KafkaPublish bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fuzzWindow, err := parseFuzzWindow()
	if err != nil {
		return nil, err
	}

	knownCallsOnly, err := parseBool("KNOWN_CALLS_ONLY", true)
	if err != nil {
		return nil, err
	}

	kafkaPublish, err := parseBool("KAFKA_PUBLISH", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Files:           parseList(os.Getenv("QSO_FILES")),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KnownCallsOnly:  knownCallsOnly,
		FuzzWindow:      fuzzWindow,
		KafkaPublish:    kafkaPublish,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "qso-log"),
	}

	if len(cfg.Files) == 0 {
		return nil, errors.New("QSO_FILES is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}

	return cfg, nil
}

// parseList splits a comma-separated list, dropping blank entries.
func parseList(s string) []string {
	return sharedcfg.ParseBrokers(s)
}

func parseFuzzWindow() (time.Duration, error) {
	s := os.Getenv("FUZZ_WINDOW")
	if s == "" {
		return DefaultFuzzWindow, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid FUZZ_WINDOW: must be a positive duration")
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key + ": must be true or false")
	}
	return b, nil
}
