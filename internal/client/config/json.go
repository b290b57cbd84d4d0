package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields leave
// the current value untouched.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	DatabasePath   string          `json:"database_path"`
	GraphDir       string          `json:"graph_dir"`
	LogLevel       string          `json:"log_level"`
	S3             *JsonS3Config   `json:"s3"`
}

type JsonS3Config struct {
	Bucket    string `json:"bucket"`
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.GraphDir, jc.GraphDir)
	setString(&cfg.LogLevel, jc.LogLevel)

	if s3 := jc.S3; s3 != nil {
		setString(&cfg.S3Bucket, s3.Bucket)
		setString(&cfg.S3Endpoint, s3.Endpoint)
		setString(&cfg.S3Region, s3.Region)
		setString(&cfg.S3AccessKey, s3.AccessKey)
		setString(&cfg.S3SecretKey, s3.SecretKey)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
