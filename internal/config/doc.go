// Package config loads and validates the YAML configuration shared by the
// ingestion agent and the alert server. Missing fields are filled with
// defaults before validation, secrets are resolved from environment variables
// named in the file, and Watch provides fsnotify-based hot-reload.
package config
