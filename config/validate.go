package config

import "fmt"

// Validate checks tool config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.UTXOFile == "" {
		return fmt.Errorf("utxo.file must not be empty")
	}
	if cfg.WalletsDir == "" {
		return fmt.Errorf("wallets.dir must not be empty")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	if cfg.Creator.Timeout < 0 {
		return fmt.Errorf("creator.timeout must not be negative")
	}
	return nil
}
