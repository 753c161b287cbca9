// Package reconcile partitions a UTXO store into owned and orphaned entries
// against the wallet identifier index and, on request, rewrites the store
// without the orphans. A backup of the pre-mutation store is taken before
// any destructive write.
package reconcile

import (
	"fmt"
	"time"

	"github.com/btpc-labs/btpc-tools/internal/log"
	"github.com/btpc-labs/btpc-tools/internal/utxo"
	"github.com/btpc-labs/btpc-tools/internal/wallet"
)

// Mode selects between a read-only report and a destructive cleanup.
type Mode int

const (
	// DryRun computes and reports without touching the store. Default.
	DryRun Mode = iota
	// Execute removes orphaned entries after taking a backup. Callers gate
	// this behind an explicit confirmation; the engine never prompts.
	Execute
)

// String returns the mode name for logs.
func (m Mode) String() string {
	if m == Execute {
		return "execute"
	}
	return "dry-run"
}

// Report summarizes one reconciliation run.
type Report struct {
	TotalCount           int
	OwnedCount           int
	OrphanedCount        int
	OrphanedValueCredits int64

	// BackupPath is set only when Execute actually rewrote the store.
	BackupPath string
}

// Run loads the store, partitions its entries by membership in idx, and
// returns the report. In Execute mode with at least one orphan it backs up
// the store and atomically replaces it with the owned entries only; with
// zero orphans Execute is a no-op, which also makes back-to-back Execute
// runs idempotent.
//
// The partition is a stable single pass: owned entries keep their relative
// order, so repeated dry runs over an unchanged store produce identical
// reports and an eventual rewrite preserves entry order.
func Run(store *utxo.Store, idx wallet.IdentifierSet, mode Mode) (Report, error) {
	entries, raw, err := store.Load()
	if err != nil {
		return Report{}, err
	}

	owned := make([]utxo.Entry, 0, len(entries))
	var orphaned []utxo.Entry
	var orphanedCredits int64

	for _, e := range entries {
		if idx.Contains(e.Address) {
			owned = append(owned, e)
		} else {
			// Entries with no address can match no wallet (the index never
			// holds empty identifiers) and are orphaned like any other
			// unclaimed output.
			orphanedCredits += e.ValueCredits
			orphaned = append(orphaned, e)
		}
	}

	report := Report{
		TotalCount:           len(entries),
		OwnedCount:           len(owned),
		OrphanedCount:        len(orphaned),
		OrphanedValueCredits: orphanedCredits,
	}

	log.Reconcile.Info().
		Str("store", store.Path()).
		Str("mode", mode.String()).
		Int("total", report.TotalCount).
		Int("owned", report.OwnedCount).
		Int("orphaned", report.OrphanedCount).
		Int64("orphaned_credits", report.OrphanedValueCredits).
		Msg("partitioned utxo store")

	if mode != Execute {
		return report, nil
	}
	if report.OrphanedCount == 0 {
		// Never rewrite a file identical to the original: no timestamp
		// churn, no backup proliferation.
		log.Reconcile.Info().Str("store", store.Path()).Msg("no orphaned utxos, store untouched")
		return report, nil
	}

	backupPath, err := store.Backup(raw, time.Now())
	if err != nil {
		return report, fmt.Errorf("cleanup aborted before mutation: %w", err)
	}
	report.BackupPath = backupPath

	if err := store.Replace(owned); err != nil {
		// The replace is atomic, so the original content is still intact
		// and the run can simply be retried.
		return report, fmt.Errorf("cleanup not applied: %w", err)
	}

	log.Reconcile.Info().
		Str("store", store.Path()).
		Str("backup", backupPath).
		Int("removed", report.OrphanedCount).
		Int64("removed_credits", report.OrphanedValueCredits).
		Msg("removed orphaned utxos")

	return report, nil
}
