package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// Config holds runtime settings for the expense CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	DatabasePath   string
	GraphDir       string
	LogLevel       string

	// S3 settings; the weekly graph goes to S3 instead of GraphDir when
	// S3Bucket is set.
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = defaultDatabasePath()
	c.GraphDir = "graphs"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "expensekeeper.db"
	}
	return filepath.Join(dir, "expensekeeper", "client.db")
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then EXPENSES_* environment variables (a .env file is honored), then
// command-line flags. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Validate reports every problem found, not only the first.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.ServerURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid server url '%s': %v", c.ServerURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("invalid server url scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		errs = append(errs, fmt.Errorf("server url '%s' has no host", c.ServerURL))
	}

	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout %s must not be negative", c.RequestTimeout))
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database path cannot be empty"))
	}
	if c.S3Bucket == "" && strings.TrimSpace(c.GraphDir) == "" {
		errs = append(errs, errors.New("graph dir cannot be empty when no S3 bucket is configured"))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if c.S3Bucket != "" {
		if c.S3Region == "" {
			errs = append(errs, errors.New("S3 region cannot be empty when a bucket is configured"))
		}
		if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
			errs = append(errs, errors.New("S3 access key and secret key must be set together"))
		}
	}

	return errors.Join(errs...)
}
