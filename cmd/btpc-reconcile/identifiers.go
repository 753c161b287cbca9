package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btpc-labs/btpc-tools/internal/wallet"
)

var flagList bool

var identifiersCmd = &cobra.Command{
	Use:   "identifiers",
	Short: "Show the wallet identifiers that currently own funds",
	RunE:  runIdentifiers,
}

func init() {
	identifiersCmd.Flags().BoolVar(&flagList, "list", false, "print every identifier, sorted")
	rootCmd.AddCommand(identifiersCmd)
}

func runIdentifiers(cmd *cobra.Command, args []string) error {
	idx, err := wallet.BuildIndex(cfg.WalletsDir)
	if err != nil {
		return err
	}

	fmt.Printf("%d wallet identifiers (public keys + addresses) in %s\n", idx.Len(), cfg.WalletsDir)
	if flagList {
		for _, id := range idx.Sorted() {
			fmt.Println(id)
		}
	}
	return nil
}
