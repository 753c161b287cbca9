package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/btpc-labs/btpc-tools/internal/log"
)

// ErrWalletDirUnreadable is returned when the wallet directory itself cannot
// be read. Individual unreadable or malformed record files are skipped, not
// errors.
var ErrWalletDirUnreadable = errors.New("wallet directory unreadable")

// IdentifierSet is the set of identifiers (public keys and addresses) that
// currently own funds. Built fresh per reconciliation run, never persisted.
type IdentifierSet map[string]struct{}

// Add inserts an identifier into the set.
func (s IdentifierSet) Add(id string) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s IdentifierSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of distinct identifiers.
func (s IdentifierSet) Len() int {
	return len(s)
}

// Sorted returns the identifiers in lexical order, for display.
func (s IdentifierSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildIndex scans dir for wallet record files and returns the deduplicated
// set of their public keys and addresses.
//
// The build is deliberately lenient: files outside the wallet_*.json naming
// convention are ignored, and record files that fail to parse are skipped
// with a warning. A single corrupt wallet file must not block reconciliation
// of everything else.
func BuildIndex(dir string) (IdentifierSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWalletDirUnreadable, dir, err)
	}

	idx := make(IdentifierSet)
	records := 0

	for _, e := range entries {
		if e.IsDir() || !IsRecordFile(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Wallet.Warn().Str("file", path).Err(err).Msg("skipping unreadable wallet file")
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Wallet.Warn().Str("file", path).Err(err).Msg("skipping malformed wallet file")
			continue
		}

		records++
		for _, id := range rec.Identifiers() {
			idx.Add(id)
		}
	}

	log.Wallet.Info().
		Str("dir", dir).
		Int("records", records).
		Int("identifiers", idx.Len()).
		Msg("built wallet identifier index")

	return idx, nil
}
