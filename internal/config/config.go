package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Dataset sources.
const (
	SourceFile  = "file"
	SourceKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset snapshot source.
	DatasetSource         string
	DatasetPath           string
	DatasetReloadInterval time.Duration // 0 disables the file watcher

	KafkaBrokers      []string
	KafkaDatasetTopic string
	KafkaGroupID      string

	ReportCacheSize int

	// API rate limiting; RateLimitRPS 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	reloadInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("DATASET_RELOAD_INTERVAL", "0s"))
	if err != nil || reloadInterval < 0 {
		return nil, errors.New("invalid DATASET_RELOAD_INTERVAL")
	}

	cacheSize, err := parsePositiveInt("REPORT_CACHE_SIZE", "128")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "0"), 64)
	if err != nil || rps < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := parsePositiveInt("RATE_LIMIT_BURST", "20")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetSource:         sharedcfg.EnvOrDefault("DATASET_SOURCE", SourceFile),
		DatasetPath:           sharedcfg.EnvOrDefault("DATASET_PATH", "data/model_skill_stats.json"),
		DatasetReloadInterval: reloadInterval,

		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaDatasetTopic: sharedcfg.EnvOrDefault("KAFKA_DATASET_TOPIC", "model-skill-stats"),
		KafkaGroupID:      sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "fischcast-qc"),

		ReportCacheSize: cacheSize,
		RateLimitRPS:    rps,
		RateLimitBurst:  burst,
	}

	switch cfg.DatasetSource {
	case SourceFile:
		if cfg.DatasetPath == "" {
			return nil, errors.New("DATASET_PATH is required when DATASET_SOURCE is file")
		}
	case SourceKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when DATASET_SOURCE is kafka")
		}
		if cfg.KafkaDatasetTopic == "" {
			return nil, errors.New("KAFKA_DATASET_TOPIC is required when DATASET_SOURCE is kafka")
		}
	default:
		return nil, fmt.Errorf("invalid DATASET_SOURCE %q: must be %q or %q", cfg.DatasetSource, SourceFile, SourceKafka)
	}

	return cfg, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
