package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "EXPENSES_"

// dotenvFiles are loaded before the environment is read. Variables already
// present in the process environment are never overridden.
var dotenvFiles = []string{".env"}

func parseEnv(cfg *Config) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	setString(&cfg.ServerURL, os.Getenv(envPrefix+"SERVER_URL"))
	setString(&cfg.DatabasePath, os.Getenv(envPrefix+"DB_PATH"))
	setString(&cfg.GraphDir, os.Getenv(envPrefix+"GRAPH_DIR"))
	setString(&cfg.LogLevel, os.Getenv(envPrefix+"LOG_LEVEL"))
	setString(&cfg.S3Bucket, os.Getenv(envPrefix+"S3_BUCKET"))
	setString(&cfg.S3Endpoint, os.Getenv(envPrefix+"S3_ENDPOINT"))
	setString(&cfg.S3Region, os.Getenv(envPrefix+"S3_REGION"))
	setString(&cfg.S3AccessKey, os.Getenv(envPrefix+"S3_ACCESS_KEY"))
	setString(&cfg.S3SecretKey, os.Getenv(envPrefix+"S3_SECRET_KEY"))

	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
