package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/btpc-labs/btpc-tools/internal/wallet"
)

var (
	flagWalletName  string
	flagShowSecrets bool
)

var walletNewCmd = &cobra.Command{
	Use:   "wallet-new",
	Short: "Create a wallet through the external wallet-creation service",
	Long: `wallet-new asks the configured wallet-creation command (creator.command)
to generate a keypair and wallet file, then prints the resulting address.
Key generation happens entirely inside the external service; if its output
cannot be parsed the command fails instead of inventing credentials.`,
	RunE: runWalletNew,
}

func init() {
	walletNewCmd.Flags().StringVar(&flagWalletName, "name", "", "wallet name (required)")
	walletNewCmd.Flags().BoolVar(&flagShowSecrets, "show-secrets", false, "also print the recovery mnemonic")
	walletNewCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(walletNewCmd)
}

func runWalletNew(cmd *cobra.Command, args []string) error {
	walletPath := filepath.Join(cfg.WalletsDir, "wallet_"+flagWalletName+".json")
	if _, err := os.Stat(walletPath); err == nil {
		return fmt.Errorf("wallet %q already exists at %s", flagWalletName, walletPath)
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}

	creator := &wallet.ExecCreator{
		Command: cfg.Creator.Command,
		Timeout: cfg.Creator.Timeout,
	}
	creds, err := creator.Create(cmd.Context(), walletPath, password)
	if err != nil {
		return err
	}

	fmt.Printf("Created wallet %q\n", flagWalletName)
	fmt.Printf("  File:       %s\n", walletPath)
	fmt.Printf("  Address:    %s\n", creds.Address)
	fmt.Printf("  Public key: %s\n", creds.PublicKey)
	if flagShowSecrets && creds.Mnemonic != "" {
		fmt.Printf("  Mnemonic:   %s\n", creds.Mnemonic)
		fmt.Println("\nWrite the mnemonic down and store it offline.")
	}
	return nil
}

// promptNewPassword reads and confirms a password without echo.
func promptNewPassword() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("wallet-new needs a terminal to read the password")
	}

	fmt.Print("New wallet password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
