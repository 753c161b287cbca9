// Package wallet reads on-disk wallet records and builds the identifier
// index used to decide UTXO ownership. It also holds the client for the
// external wallet-creation service; key generation itself never happens here.
package wallet

import "strings"

// Record is the on-disk JSON shape of a wallet file, reduced to the fields
// relevant for ownership. Both fields are optional: a record may carry a raw
// public key, a derived address, or both. A record with neither contributes
// nothing to the index.
type Record struct {
	PublicKey *string `json:"public_key,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// Identifiers returns the non-empty identifier strings this record carries.
func (r *Record) Identifiers() []string {
	var ids []string
	if r.PublicKey != nil && *r.PublicKey != "" {
		ids = append(ids, *r.PublicKey)
	}
	if r.Address != nil && *r.Address != "" {
		ids = append(ids, *r.Address)
	}
	return ids
}

// recordFilePrefix and recordFileExt define the wallet record naming
// convention. Files like wallets_metadata.json belong to the registry, not
// to any wallet, and fall outside the prefix.
const (
	recordFilePrefix = "wallet_"
	recordFileExt    = ".json"
)

// IsRecordFile reports whether name follows the wallet record naming
// convention (wallet_*.json).
func IsRecordFile(name string) bool {
	return strings.HasPrefix(name, recordFilePrefix) && strings.HasSuffix(name, recordFileExt)
}
