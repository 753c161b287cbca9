// Package utxo owns the on-disk UTXO store format: a single JSON file
// holding an ordered array of output objects. The store is replaced
// wholesale on mutation, never appended to, and unknown fields on each
// entry round-trip byte-for-byte.
package utxo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btpc-labs/btpc-tools/internal/log"
)

// Sentinel errors for the store. Wrapped errors carry the failing path.
var (
	ErrStoreNotFound = errors.New("utxo store not found")
	ErrBackupFailed  = errors.New("utxo store backup failed")
	ErrReplaceFailed = errors.New("utxo store replace failed")
)

// backupTimeFormat is second-resolution, filesystem-safe.
const backupTimeFormat = "20060102_150405"

// BackupMarker joins the original store name and the backup timestamp.
const BackupMarker = ".orphan_backup_"

// Entry is one unspent output as tracked by the store. Raw holds the
// original JSON object verbatim; Address and ValueCredits are the decoded
// claim fields. Entries the tool does not fully understand are still carried
// through untouched.
type Entry struct {
	Address      string
	ValueCredits int64
	Raw          json.RawMessage
}

// Store is a file-backed UTXO store bound to a single path. One invocation
// owns the file exclusively for the duration of a run; callers serialize.
type Store struct {
	path string
}

// NewStore returns a store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the store and returns its entries in file order along with the
// exact bytes read. Returns ErrStoreNotFound when the file does not exist.
func (s *Store) Load() ([]Entry, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrStoreNotFound, s.path)
		}
		return nil, nil, fmt.Errorf("read utxo store %s: %w", s.path, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("parse utxo store %s: %w", s.path, err)
	}

	entries := make([]Entry, len(raws))
	for i, raw := range raws {
		entries[i] = decodeEntry(raw)
	}

	log.Store.Debug().Str("file", s.path).Int("entries", len(entries)).Msg("loaded utxo store")
	return entries, data, nil
}

// decodeEntry extracts the claim fields from a raw entry. Each field is
// decoded independently: a malformed value must not take a valid address
// down with it, or an owned entry would be misclassified as orphaned.
// Missing or malformed fields fall back to ""/0 and the raw object is kept
// either way.
func decodeEntry(raw json.RawMessage) Entry {
	e := Entry{Raw: raw}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return e
	}
	if f, ok := fields["address"]; ok {
		var s string
		if err := json.Unmarshal(f, &s); err == nil {
			e.Address = s
		}
	}
	if f, ok := fields["value_credits"]; ok {
		var v int64
		if err := json.Unmarshal(f, &v); err == nil {
			e.ValueCredits = v
		}
	}
	return e
}

// Backup writes an exact copy of the given pre-mutation store bytes to
// <path>.orphan_backup_<YYYYMMDD_HHMMSS> and flushes it to stable storage.
// It is the sole recovery mechanism for a cleanup, so it must be durable
// before any destructive write begins.
func (s *Store) Backup(raw []byte, now time.Time) (string, error) {
	backupPath := s.path + BackupMarker + now.UTC().Format(backupTimeFormat)

	f, err := os.OpenFile(backupPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrBackupFailed, backupPath, err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("%w: write %s: %v", ErrBackupFailed, backupPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("%w: sync %s: %v", ErrBackupFailed, backupPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", ErrBackupFailed, backupPath, err)
	}
	if err := syncDir(filepath.Dir(backupPath)); err != nil {
		return "", fmt.Errorf("%w: sync dir for %s: %v", ErrBackupFailed, backupPath, err)
	}

	log.Store.Info().Str("backup", backupPath).Msg("created utxo store backup")
	return backupPath, nil
}

// Replace atomically overwrites the store with the given entries, preserving
// each entry's original JSON object and the given order. The new content is
// written to a temp file in the same directory and renamed over the store,
// so a concurrent reader sees either the old or the new complete content.
func (s *Store) Replace(entries []Entry) error {
	raws := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		raws[i] = e.Raw
	}
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrReplaceFailed, s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", ErrReplaceFailed, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", ErrReplaceFailed, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: sync %s: %v", ErrReplaceFailed, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %v", ErrReplaceFailed, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: chmod %s: %v", ErrReplaceFailed, tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename %s: %v", ErrReplaceFailed, s.path, err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("%w: sync dir %s: %v", ErrReplaceFailed, dir, err)
	}

	log.Store.Info().Str("file", s.path).Int("entries", len(entries)).Msg("replaced utxo store")
	return nil
}

// syncDir fsyncs a directory so renames and new files survive a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
