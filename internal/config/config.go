package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"market-pulse/internal/metrics"

	"gopkg.in/yaml.v3"
)

// defaultATHReferenceUSD is the configured reference high; it is a
// reference constant, not live data, and is meant to be overridden.
const defaultATHReferenceUSD = 126_270.0

// defaultHalvingEpoch is the most recent halving date.
const defaultHalvingEpoch = "2024-04-20"

type Config struct {
	RedisURL         string
	TelegramBotToken string

	FastPollSecs int
	SlowPollSecs int

	FetchTimeoutSecs int
	FetchMaxRetries  int

	FastTTLSecs int
	SlowTTLSecs int

	ATHReferenceUSD float64
	HalvingEpoch    time.Time

	Weights    metrics.Weights
	Thresholds metrics.Thresholds
}

// ScoringFile is the optional YAML override for the scoring table.
type ScoringFile struct {
	Weights    metrics.Weights    `yaml:"weights"`
	Thresholds metrics.Thresholds `yaml:"thresholds"`
}

// Load reads configuration from the environment, warning and defaulting
// on anything missing or unparsable. It never fails: a process with no
// environment at all runs on defaults.
func Load() *Config {
	cfg := &Config{
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Weights:          metrics.DefaultWeights(),
		Thresholds:       metrics.DefaultThresholds(),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	cfg.FastPollSecs = intEnv("FAST_POLL_SECS", 60)
	cfg.SlowPollSecs = intEnv("SLOW_POLL_SECS", 600)
	cfg.FetchTimeoutSecs = intEnv("FETCH_TIMEOUT_SECS", 10)
	cfg.FetchMaxRetries = intEnvAllowZero("FETCH_MAX_RETRIES", 3)
	cfg.FastTTLSecs = intEnv("FAST_TTL_SECS", 90)
	cfg.SlowTTLSecs = intEnv("SLOW_TTL_SECS", 900)

	cfg.ATHReferenceUSD = defaultATHReferenceUSD
	if v := strings.TrimSpace(os.Getenv("ATH_REFERENCE_USD")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.ATHReferenceUSD = n
		} else {
			log.Printf("Warning: invalid ATH_REFERENCE_USD=%q, using default", v)
		}
	}

	epoch := defaultHalvingEpoch
	if v := strings.TrimSpace(os.Getenv("HALVING_EPOCH")); v != "" {
		epoch = v
	}
	parsed, err := time.Parse("2006-01-02", epoch)
	if err != nil {
		log.Printf("Warning: invalid HALVING_EPOCH=%q, using default", epoch)
		parsed, _ = time.Parse("2006-01-02", defaultHalvingEpoch)
	}
	cfg.HalvingEpoch = parsed.UTC()

	if path := strings.TrimSpace(os.Getenv("SCORING_CONFIG")); path != "" {
		if err := cfg.applyScoringFile(path); err != nil {
			log.Printf("Warning: ignoring SCORING_CONFIG: %v", err)
		}
	}

	return cfg
}

func (c *Config) applyScoringFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scoring config: %w", err)
	}

	file := ScoringFile{Weights: c.Weights, Thresholds: c.Thresholds}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse scoring config: %w", err)
	}
	if err := file.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}
	if err := file.Thresholds.Validate(); err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}

	c.Weights = file.Weights
	c.Thresholds = file.Thresholds
	log.Printf("Loaded scoring table from %s", path)
	return nil
}

// Reference assembles the fixed reference constants for the metrics engine.
func (c *Config) Reference() metrics.Reference {
	return metrics.Reference{ATHUSD: c.ATHReferenceUSD, HalvingEpoch: c.HalvingEpoch}
}

func intEnv(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", name, v, def)
	}
	return def
}

func intEnvAllowZero(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", name, v, def)
	}
	return def
}
