package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btpc-labs/btpc-tools/internal/reconcile"
	"github.com/btpc-labs/btpc-tools/internal/utxo"
	"github.com/btpc-labs/btpc-tools/internal/wallet"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report orphaned UTXOs without touching the store",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	idx, err := wallet.BuildIndex(cfg.WalletsDir)
	if err != nil {
		return err
	}

	report, err := reconcile.Run(utxo.NewStore(cfg.UTXOFile), idx, reconcile.DryRun)
	if err != nil {
		return err
	}

	printReport(report, idx.Len())
	if report.OrphanedCount > 0 {
		fmt.Println("\nRun 'btpc-reconcile clean' to remove them.")
	}
	return nil
}

// printReport writes the human-readable report to stdout.
func printReport(r reconcile.Report, identifiers int) {
	fmt.Println("Orphaned UTXO report")
	fmt.Printf("  Wallet identifiers: %d\n", identifiers)
	fmt.Printf("  Total UTXOs:        %d\n", r.TotalCount)
	fmt.Printf("  Owned:              %d\n", r.OwnedCount)
	fmt.Printf("  Orphaned:           %d\n", r.OrphanedCount)
	fmt.Printf("  Orphaned value:     %d credits (%s BTP)\n",
		r.OrphanedValueCredits, r.OrphanedValueBTP().StringFixed(8))
}
