package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeWallet(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("write wallet file: %v", err)
	}
}

func TestBuildIndex_CollectsKeysAndAddresses(t *testing.T) {
	dir := t.TempDir()
	writeWallet(t, dir, "wallet_a.json", `{"public_key":"pkA","address":"addrA"}`)
	writeWallet(t, dir, "wallet_b.json", `{"address":"addrB"}`)
	writeWallet(t, dir, "wallet_c.json", `{"public_key":"pkC"}`)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	for _, id := range []string{"pkA", "addrA", "addrB", "pkC"} {
		if !idx.Contains(id) {
			t.Errorf("index missing %q", id)
		}
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
}

func TestBuildIndex_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	writeWallet(t, dir, "wallet_1.json", `{"public_key":"shared","address":"addrA"}`)
	writeWallet(t, dir, "wallet_2.json", `{"public_key":"shared","address":"addrA"}`)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
}

func TestBuildIndex_SkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeWallet(t, dir, "wallet_good.json", `{"address":"addrA"}`)
	writeWallet(t, dir, "wallet_bad.json", `{not json`)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() should tolerate malformed siblings, got: %v", err)
	}
	if !idx.Contains("addrA") {
		t.Error("valid record should still be indexed")
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestBuildIndex_IgnoresNonRecordFiles(t *testing.T) {
	dir := t.TempDir()
	writeWallet(t, dir, "wallet_a.json", `{"address":"addrA"}`)
	writeWallet(t, dir, "wallets_metadata.json", `{"address":"metaAddr"}`)
	writeWallet(t, dir, "notes.txt", `addrZ`)
	writeWallet(t, dir, "wallet_old.json.bak", `{"address":"bakAddr"}`)
	if err := os.Mkdir(filepath.Join(dir, "wallet_dir.json"), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}
	if idx.Len() != 1 || !idx.Contains("addrA") {
		t.Errorf("index = %v, want exactly {addrA}", idx.Sorted())
	}
}

func TestBuildIndex_EmptyAndAbsentFields(t *testing.T) {
	dir := t.TempDir()
	// Empty strings and absent fields contribute nothing; neither is an error.
	writeWallet(t, dir, "wallet_empty.json", `{"public_key":"","address":""}`)
	writeWallet(t, dir, "wallet_bare.json", `{"label":"no identity"}`)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	if idx.Contains("") {
		t.Error("empty string must never be an identifier")
	}
}

func TestBuildIndex_MissingDir(t *testing.T) {
	_, err := BuildIndex(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("BuildIndex() should fail for missing directory")
	}
	if !errors.Is(err, ErrWalletDirUnreadable) {
		t.Errorf("error should be ErrWalletDirUnreadable, got: %v", err)
	}
}

func TestIsRecordFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"wallet_abc.json", true},
		{"wallet_.json", true},
		{"wallets_metadata.json", false},
		{"wallet_abc.json.orphan_backup_20250101_000000", false},
		{"abc.json", false},
		{"wallet_abc.dat", false},
	}
	for _, c := range cases {
		if got := IsRecordFile(c.name); got != c.want {
			t.Errorf("IsRecordFile(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
