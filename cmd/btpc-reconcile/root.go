package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btpc-labs/btpc-tools/config"
	"github.com/btpc-labs/btpc-tools/internal/log"
)

var cfg = config.Default()

var (
	flagConfig     string
	flagDataDir    string
	flagUTXOFile   string
	flagWalletsDir string
	flagLogLevel   string
	flagLogFile    string
	flagLogJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "btpc-reconcile",
	Short: "Reconcile the BTPC UTXO store against the wallet directory",
	Long: `btpc-reconcile finds UTXOs whose claiming address or public key matches no
wallet file in the wallets directory ("orphaned" UTXOs), reports them, and can
remove them after explicit confirmation. Removal always takes a timestamped
backup of the store first and replaces the file atomically.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup layers configuration (defaults < config file < flags) and
// initializes logging before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	values, err := config.LoadFile(flagConfig)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flagConfig, err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		return err
	}

	// Flags win over the file.
	flags := cmd.Flags()
	if flags.Changed("datadir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("utxo-file") {
		cfg.UTXOFile = flagUTXOFile
	}
	if flags.Changed("wallets-dir") {
		cfg.WalletsDir = flagWalletsDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = flagLogJSON
	}

	cfg.ResolvePaths()
	if err := config.Validate(cfg); err != nil {
		return err
	}

	return log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to a btpc-tools.conf file")
	pf.StringVar(&flagDataDir, "datadir", config.DefaultDataDir(), "BTPC data directory")
	pf.StringVar(&flagUTXOFile, "utxo-file", "", "UTXO store file (default <datadir>/data/wallet/wallet_utxos.json)")
	pf.StringVar(&flagWalletsDir, "wallets-dir", "", "wallet record directory (default <datadir>/wallets)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this file")
	pf.BoolVar(&flagLogJSON, "log-json", false, "log JSON to the console instead of colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
