// Package config loads runtime configuration for the expense CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. EXPENSES_* environment variables; a .env file in the working
//     directory is loaded first if present.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. http://127.0.0.1:8000
//	-t int      request timeout (seconds)
//	-d string   path of the local SQLite database
//	-o string   directory the weekly graph is written to
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s",
//	  "database_path": "/home/me/.config/expensekeeper/client.db",
//	  "graph_dir": "graphs",
//	  "log_level": "info",
//	  "s3": {"bucket": "graphs", "endpoint": "http://localhost:9000", "region": "us-east-1"}
//	}
//
// Call (*Config).Validate after loading.
package config
