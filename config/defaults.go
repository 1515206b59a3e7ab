package config

// DefaultAppConfig returns the default application configuration.
// Required fields (bucket, endpoint) are intentionally left empty.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			ListenAddr: "",
		},
		Backend: BackendConfig{
			Root: "/",
		},
	}
}
