package config

import "time"

// Default returns the default tool configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Creator: CreatorConfig{
			Command: "btpc_wallet",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
