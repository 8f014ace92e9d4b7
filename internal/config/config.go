// Copyright 2025 Certen Protocol
//
// Configuration loading for the proof store service. Grounded on the
// validator's pkg/config/config.go: environment-variable driven, with a
// separate Load()/Validate() pair so startup fails fast on bad
// configuration rather than at first use.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/certen/proofstore/internal/proofstore"
)

// Config is the recognized configuration surface described in spec.md §6.
type Config struct {
	MaxProofSize        int64
	CacheCapacity       int
	VerificationTimeout time.Duration
	ListenAddr          string
	BatchWorkers        int
	BatchMinSize        int
}

// Load reads configuration from environment variables, falling back to
// the documented defaults for anything unset.
//
// Recognized variables: PROOFSTORE_MAX_PROOF_SIZE, PROOFSTORE_CACHE_CAPACITY,
// PROOFSTORE_VERIFICATION_TIMEOUT, PROOFSTORE_LISTEN_ADDR,
// PROOFSTORE_BATCH_WORKERS, PROOFSTORE_BATCH_MIN_SIZE.
func Load() (*Config, error) {
	cfg := &Config{
		MaxProofSize:        getEnvInt64("PROOFSTORE_MAX_PROOF_SIZE", 10*1024*1024),
		CacheCapacity:       getEnvInt("PROOFSTORE_CACHE_CAPACITY", 1000),
		VerificationTimeout: getEnvDuration("PROOFSTORE_VERIFICATION_TIMEOUT", 30*time.Second),
		ListenAddr:          getEnv("PROOFSTORE_LISTEN_ADDR", "0.0.0.0:8080"),
		BatchWorkers:        getEnvInt("PROOFSTORE_BATCH_WORKERS", 8),
		BatchMinSize:        getEnvInt("PROOFSTORE_BATCH_MIN_SIZE", 0),
	}
	return cfg, nil
}

// Validate rejects non-conforming configuration, surfacing
// proofstore.ErrInvalidArgument rather than a bare error so callers one
// layer up (the REST transport, the CLI) can map it consistently.
func (c *Config) Validate() error {
	var problems []string

	if c.MaxProofSize <= 0 {
		problems = append(problems, "PROOFSTORE_MAX_PROOF_SIZE must be positive")
	}
	if c.CacheCapacity <= 0 {
		problems = append(problems, "PROOFSTORE_CACHE_CAPACITY must be positive")
	}
	if c.VerificationTimeout <= 0 {
		problems = append(problems, "PROOFSTORE_VERIFICATION_TIMEOUT must be positive")
	}
	if c.BatchWorkers <= 0 {
		problems = append(problems, "PROOFSTORE_BATCH_WORKERS must be positive")
	}
	if c.BatchMinSize < 0 {
		problems = append(problems, "PROOFSTORE_BATCH_MIN_SIZE must be non-negative")
	}
	if c.ListenAddr == "" {
		problems = append(problems, "PROOFSTORE_LISTEN_ADDR must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", proofstore.ErrInvalidArgument, strings.Join(problems, "; "))
	}
	return nil
}

// StoreConfig adapts Config to the proofstore.Config shape consumed by
// proofstore.New.
func (c *Config) StoreConfig() proofstore.Config {
	return proofstore.Config{
		MaxProofSize:        c.MaxProofSize,
		CacheCapacity:       c.CacheCapacity,
		VerificationTimeout: c.VerificationTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
