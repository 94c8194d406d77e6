package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")

	content := []byte("not really a database but good enough for crypto")
	if err := os.WriteFile(src, content, 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt) != saltSize {
		t.Fatalf("salt length = %d, want %d", len(salt), saltSize)
	}

	if err := EncryptFile(src, enc, "correct horse", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	encData, err := os.ReadFile(enc)
	if err != nil {
		t.Fatalf("read encrypted: %v", err)
	}
	if string(encData[:4]) != "WWS1" {
		t.Errorf("missing snapshot magic header")
	}

	if err := DecryptFile(enc, dec, "correct horse"); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	got, err := os.ReadFile(dec)
	if err != nil {
		t.Fatalf("read decrypted: %v", err)
	}
	if string(got) != string(content) {
		t.Error("decrypted content differs from original")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret"), 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	salt, _ := GenerateSalt()
	if err := EncryptFile(src, enc, "right", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Error("expected decrypt failure with wrong passphrase")
	}
}

func TestDecryptRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.enc")
	if err := os.WriteFile(bogus, make([]byte, 64), 0600); err != nil {
		t.Fatalf("write bogus: %v", err)
	}

	if err := DecryptFile(bogus, filepath.Join(dir, "out.db"), "any"); err == nil {
		t.Error("expected failure for file without magic header")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, _ := GenerateSalt()

	a := DeriveKey("passphrase", salt)
	b := DeriveKey("passphrase", salt)
	if string(a) != string(b) {
		t.Error("same passphrase and salt must derive the same key")
	}
	if len(a) != keySize {
		t.Errorf("key length = %d, want %d", len(a), keySize)
	}

	other, _ := GenerateSalt()
	c := DeriveKey("passphrase", other)
	if string(a) == string(c) {
		t.Error("different salts must derive different keys")
	}
}
