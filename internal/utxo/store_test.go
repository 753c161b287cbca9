package utxo

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet_utxos.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write store: %v", err)
	}
	return NewStore(path)
}

func TestStore_Load(t *testing.T) {
	s := testStore(t, `[
  {"address": "addrA", "value_credits": 500},
  {"address": "addrB", "value_credits": 300}
]`)

	entries, raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Address != "addrA" || entries[0].ValueCredits != 500 {
		t.Errorf("entry 0 = %q/%d", entries[0].Address, entries[0].ValueCredits)
	}
	if entries[1].Address != "addrB" || entries[1].ValueCredits != 300 {
		t.Errorf("entry 1 = %q/%d", entries[1].Address, entries[1].ValueCredits)
	}
	if len(raw) == 0 {
		t.Error("Load() should return the raw file bytes")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	_, _, err := s.Load()
	if !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("error = %v, want ErrStoreNotFound", err)
	}
}

func TestStore_LoadMalformedEntries(t *testing.T) {
	// Missing address, negative value, non-integer value: none of these may
	// crash the load. They decode to best-effort claim fields.
	s := testStore(t, `[
  {"value_credits": 100},
  {"address": "addrN", "value_credits": -50},
  {"address": "addrF", "value_credits": 1.5},
  {"address": "addrS", "value_credits": "100"},
  {"address": 42}
]`)

	entries, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if entries[0].Address != "" || entries[0].ValueCredits != 100 {
		t.Errorf("entry 0 = %q/%d, want \"\"/100", entries[0].Address, entries[0].ValueCredits)
	}
	if entries[1].ValueCredits != -50 {
		t.Errorf("negative value must be kept literally, got %d", entries[1].ValueCredits)
	}
	if entries[2].ValueCredits != 0 {
		t.Errorf("non-integer value falls back to 0, got %d", entries[2].ValueCredits)
	}
	if entries[3].Address != "addrS" || entries[3].ValueCredits != 0 {
		t.Errorf("entry 3 = %q/%d, a bad value must not discard a good address",
			entries[3].Address, entries[3].ValueCredits)
	}
	if entries[4].Address != "" {
		t.Errorf("unparseable claim yields empty address, got %q", entries[4].Address)
	}
}

func TestStore_ReplacePreservesUnknownFields(t *testing.T) {
	s := testStore(t, `[
  {"address": "addrA", "value_credits": 500, "txid": "ab12", "vout": 0, "block_height": 99},
  {"address": "addrB", "value_credits": 300, "script": {"type": "p2pkh"}}
]`)

	entries, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.Replace(entries); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	reread, _, err := s.Load()
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(reread[0].Raw, &got); err != nil {
		t.Fatalf("unmarshal rewritten entry: %v", err)
	}
	if err := json.Unmarshal(entries[0].Raw, &want); err != nil {
		t.Fatalf("unmarshal original entry: %v", err)
	}
	for _, key := range []string{"txid", "vout", "block_height"} {
		if _, ok := got[key]; !ok {
			t.Errorf("field %q lost in rewrite", key)
		}
	}
	if got["txid"] != want["txid"] {
		t.Errorf("txid = %v, want %v", got["txid"], want["txid"])
	}
	if !strings.Contains(string(reread[1].Raw), "p2pkh") {
		t.Error("nested unknown field lost in rewrite")
	}
}

func TestStore_ReplaceKeepsOrder(t *testing.T) {
	s := testStore(t, `[
  {"address": "c", "value_credits": 3},
  {"address": "a", "value_credits": 1},
  {"address": "b", "value_credits": 2}
]`)

	entries, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.Replace(entries); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	reread, _, err := s.Load()
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, e := range reread {
		if e.Address != want[i] {
			t.Errorf("entry %d address = %q, want %q", i, e.Address, want[i])
		}
	}
}

func TestStore_ReplaceEmpty(t *testing.T) {
	s := testStore(t, `[{"address": "a", "value_credits": 1}]`)

	if err := s.Replace(nil); err != nil {
		t.Fatalf("Replace(nil) error: %v", err)
	}
	entries, _, err := s.Load()
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty store, got %d entries", len(entries))
	}
}

func TestStore_Backup(t *testing.T) {
	original := `[{"address": "a", "value_credits": 1}]`
	s := testStore(t, original)

	_, raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	backupPath, err := s.Backup(raw, now)
	if err != nil {
		t.Fatalf("Backup() error: %v", err)
	}

	want := s.Path() + ".orphan_backup_20250601_123045"
	if backupPath != want {
		t.Errorf("backup path = %q, want %q", backupPath, want)
	}

	backed, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(backed, []byte(original)) {
		t.Error("backup is not a byte-identical copy of the store")
	}
}

func TestStore_BackupRefusesOverwrite(t *testing.T) {
	s := testStore(t, `[]`)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.Backup([]byte("[]"), now); err != nil {
		t.Fatalf("first Backup() error: %v", err)
	}
	_, err := s.Backup([]byte("[]"), now)
	if !errors.Is(err, ErrBackupFailed) {
		t.Errorf("second Backup() at same second should fail with ErrBackupFailed, got: %v", err)
	}
}

func TestStore_BackupToMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "gone", "wallet_utxos.json"))
	_, err := s.Backup([]byte("[]"), time.Now())
	if !errors.Is(err, ErrBackupFailed) {
		t.Errorf("error = %v, want ErrBackupFailed", err)
	}
}

func TestStore_ReplaceLeavesNoTempFiles(t *testing.T) {
	s := testStore(t, `[{"address": "a", "value_credits": 1}]`)
	entries, _, _ := s.Load()
	if err := s.Replace(entries); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	dir := filepath.Dir(s.Path())
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, f := range files {
		if strings.Contains(f.Name(), ".tmp-") {
			t.Errorf("leftover temp file %q", f.Name())
		}
	}
}
