// Package config handles runtime configuration for the BTPC maintenance tools.
//
// Configuration is layered, lowest precedence first:
//   - Built-in defaults (per-platform data directory)
//   - A key = value .conf file
//   - Command-line flags
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds tool-wide runtime configuration.
type Config struct {
	// Core paths
	DataDir    string `conf:"datadir"`
	UTXOFile   string `conf:"utxo.file"`    // UTXO store file (default <datadir>/data/wallet/wallet_utxos.json)
	WalletsDir string `conf:"wallets.dir"`  // Wallet record directory (default <datadir>/wallets)

	// External wallet-creation service
	Creator CreatorConfig

	// Logging
	Log LogConfig
}

// CreatorConfig holds settings for the external wallet-creation command.
type CreatorConfig struct {
	Command string        `conf:"creator.command"` // Binary invoked to create wallets
	Timeout time.Duration `conf:"creator.timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.btpc
//	macOS:   ~/Library/Application Support/BTPC
//	Windows: %APPDATA%\BTPC
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".btpc"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "BTPC")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "BTPC")
		}
		return filepath.Join(home, "AppData", "Roaming", "BTPC")
	default:
		return filepath.Join(home, ".btpc")
	}
}

// ResolvePaths fills UTXOFile and WalletsDir from DataDir when they were not
// set explicitly by file or flag.
func (c *Config) ResolvePaths() {
	if c.UTXOFile == "" {
		c.UTXOFile = filepath.Join(c.DataDir, "data", "wallet", "wallet_utxos.json")
	}
	if c.WalletsDir == "" {
		c.WalletsDir = filepath.Join(c.DataDir, "wallets")
	}
}
