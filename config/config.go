// Package config provides configuration management for obsfs.
// It handles loading and validating configuration from YAML/JSON files and
// environment variables.
package config

// AppConfig represents the complete application configuration
type AppConfig struct {
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Backend BackendConfig `koanf:"backend"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig holds metrics exposition configuration
type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

// BackendConfig holds OBS backend configuration
type BackendConfig struct {
	Root            string `koanf:"root"`     // Path prefix all operations happen under
	Bucket          string `koanf:"bucket"`   // Bucket name (required)
	Endpoint        string `koanf:"endpoint"` // Default-domain or user-domain endpoint, without the bucket name
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	SecurityToken   string `koanf:"security_token"`

	// RequestRateLimit caps outgoing requests per second when the default
	// transport is used. Zero disables pacing.
	RequestRateLimit float64 `koanf:"request_rate_limit"`
}
