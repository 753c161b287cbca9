package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/btpc-labs/btpc-tools/internal/reconcile"
	"github.com/btpc-labs/btpc-tools/internal/utxo"
	"github.com/btpc-labs/btpc-tools/internal/wallet"
)

var flagYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove orphaned UTXOs from the store (backup first)",
	Long: `clean runs a dry-run reconciliation, shows the report, and asks for
confirmation before removing anything. The pre-cleanup store is always saved
to a timestamped .orphan_backup_ file next to the original.

Non-interactive use (scripts, cron) must pass --yes.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the interactive confirmation")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	idx, err := wallet.BuildIndex(cfg.WalletsDir)
	if err != nil {
		return err
	}

	store := utxo.NewStore(cfg.UTXOFile)

	// Preview first. The store stays untouched until the gate is passed.
	preview, err := reconcile.Run(store, idx, reconcile.DryRun)
	if err != nil {
		return err
	}
	printReport(preview, idx.Len())

	if preview.OrphanedCount == 0 {
		fmt.Println("\nNothing to clean: every UTXO belongs to a current wallet.")
		return nil
	}

	if !confirmCleanup(preview) {
		fmt.Println("Cleanup cancelled.")
		return nil
	}

	report, err := reconcile.Run(store, idx, reconcile.Execute)
	if err != nil {
		return err
	}

	fmt.Printf("\nRemoved %d orphaned UTXOs totaling %s BTP (%d credits).\n",
		report.OrphanedCount, report.OrphanedValueBTP().StringFixed(8), report.OrphanedValueCredits)
	fmt.Printf("Backup: %s\n", report.BackupPath)
	fmt.Printf("Remaining UTXOs: %d\n", report.OwnedCount)
	return nil
}

// confirmCleanup is the operator gate in front of the destructive run.
// --yes satisfies it outright; otherwise a prompt is shown only when stdin
// is a terminal, so a misdirected pipe can never auto-confirm.
func confirmCleanup(preview reconcile.Report) bool {
	if flagYes {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "stdin is not a terminal; pass --yes to confirm cleanup")
		return false
	}

	fmt.Printf("\nRemove %d orphaned UTXOs (%s BTP)? Type 'yes' to confirm: ",
		preview.OrphanedCount, preview.OrphanedValueBTP().StringFixed(8))
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
