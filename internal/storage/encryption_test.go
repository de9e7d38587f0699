package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptData(t *testing.T) {
	config := DefaultEncryptionConfig("correct horse battery staple")
	plaintext := []byte("catalog contents")

	encrypted, err := EncryptData(plaintext, config)
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("encrypted output contains plaintext")
	}

	decrypted, err := DecryptData(encrypted, config)
	if err != nil {
		t.Fatalf("DecryptData() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptDataWrongPassword(t *testing.T) {
	encrypted, err := EncryptData([]byte("secret"), DefaultEncryptionConfig("right"))
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}

	if _, err := DecryptData(encrypted, DefaultEncryptionConfig("wrong")); err == nil {
		t.Error("DecryptData() with wrong password error = nil, want error")
	}
}

func TestEncryptDataRequiresPassword(t *testing.T) {
	if _, err := EncryptData([]byte("secret"), nil); err == nil {
		t.Error("EncryptData(nil config) error = nil, want error")
	}
	if _, err := EncryptData([]byte("secret"), &EncryptionConfig{}); err == nil {
		t.Error("EncryptData() with empty password error = nil, want error")
	}
}

func TestDecryptDataTooShort(t *testing.T) {
	if _, err := DecryptData([]byte("short"), DefaultEncryptionConfig("pw")); err == nil {
		t.Error("DecryptData() on truncated input error = nil, want error")
	}
}

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "plain.txt")
	encryptedPath := filepath.Join(dir, "plain.txt.enc")
	restoredPath := filepath.Join(dir, "restored.txt")

	content := []byte("file contents to protect")
	if err := os.WriteFile(sourcePath, content, 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	config := DefaultEncryptionConfig("pw")
	if err := EncryptFile(sourcePath, encryptedPath, config); err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}

	encrypted, err := IsEncrypted(encryptedPath)
	if err != nil {
		t.Fatalf("IsEncrypted() error = %v", err)
	}
	if !encrypted {
		t.Error("IsEncrypted() = false for encrypted file")
	}

	plain, err := IsEncrypted(sourcePath)
	if err != nil {
		t.Fatalf("IsEncrypted() error = %v", err)
	}
	if plain {
		t.Error("IsEncrypted() = true for plaintext file")
	}

	if err := DecryptFile(encryptedPath, restoredPath, config); err != nil {
		t.Fatalf("DecryptFile() error = %v", err)
	}

	restored, err := os.ReadFile(restoredPath)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(restored, content) {
		t.Errorf("restored = %q, want %q", restored, content)
	}
}

func TestDecryptFileRejectsPlaintext(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(sourcePath, []byte("not encrypted at all"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	err := DecryptFile(sourcePath, filepath.Join(dir, "out.txt"), DefaultEncryptionConfig("pw"))
	if err == nil {
		t.Error("DecryptFile() on plaintext error = nil, want error")
	}
}
