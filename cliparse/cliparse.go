package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AccessKeySalt string
	CodeTTL       time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttlMinutes int

	fs := flag.NewFlagSet("ballotbox", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&ttlMinutes, "code-ttl", 0, "One-time code validity in minutes")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AccessKeySalt, "access-salt", "", "Access key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4270 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if ttlMinutes == 0 {
		if ttlStr := os.Getenv("CODE_TTL_MINUTES"); ttlStr != "" {
			m, err := strconv.Atoi(ttlStr)
			if err != nil || m <= 0 {
				return Config{}, errors.New("invalid CODE_TTL_MINUTES env variable")
			}
			ttlMinutes = m
		} else {
			ttlMinutes = 10 // default
		}
	}
	cfg.CodeTTL = time.Duration(ttlMinutes) * time.Minute

	// Secrets - MUST be provided
	if cfg.AccessKeySalt == "" {
		cfg.AccessKeySalt = os.Getenv("ACCESS_KEY_SALT")
	}
	if cfg.AccessKeySalt == "" {
		return Config{}, errors.New("ACCESS_KEY_SALT required")
	}

	return cfg, nil
}
