// internal/config/normalize.go
package config

const (
	defaultDisplayPort  = 8080
	defaultListen       = ":9090"
	defaultSendTimeout  = 30 // seconds, matches firmware full-refresh worst case
	defaultProbeTimeout = 3  // seconds
	defaultLogLevel     = "info"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.Displays {
		if cfg.Displays[i].Port == 0 {
			cfg.Displays[i].Port = defaultDisplayPort
		}
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.SendTimeout <= 0 {
		cfg.Server.SendTimeout = defaultSendTimeout
	}
	if cfg.Server.ProbeTimeout <= 0 {
		cfg.Server.ProbeTimeout = defaultProbeTimeout
	}
	if cfg.Server.Log.Level == "" {
		cfg.Server.Log.Level = defaultLogLevel
	}
}
