package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

// EncryptionMagicHeader marks a file as an encrypted catalog backup.
const EncryptionMagicHeader = "DFRGENC1"

// saltLength is the argon2 salt size in bytes.
const saltLength = 32

// keyLength is the derived key size: 32 bytes for AES-256.
const keyLength = 32

// EncryptionConfig holds the passphrase and argon2id cost parameters for
// backup encryption.
type EncryptionConfig struct {
	Password string

	// Argon2 cost parameters. Zero values are replaced by the defaults
	// from DefaultEncryptionConfig.
	Argon2Time    uint32
	Argon2Memory  uint32
	Argon2Threads uint8
}

// DefaultEncryptionConfig returns a config with RFC 9106 cost parameters
// (1 pass, 64 MB, 4 lanes).
func DefaultEncryptionConfig(password string) *EncryptionConfig {
	return &EncryptionConfig{
		Password:      password,
		Argon2Time:    1,
		Argon2Memory:  64 * 1024,
		Argon2Threads: 4,
	}
}

// aeadForSalt derives a key from the config's password and the given salt
// and returns an AES-256-GCM AEAD over it.
func aeadForSalt(config *EncryptionConfig, salt []byte) (cipher.AEAD, error) {
	defaults := DefaultEncryptionConfig(config.Password)
	time, memory, threads := config.Argon2Time, config.Argon2Memory, config.Argon2Threads
	if time == 0 {
		time = defaults.Argon2Time
	}
	if memory == 0 {
		memory = defaults.Argon2Memory
	}
	if threads == 0 {
		threads = defaults.Argon2Threads
	}

	key := argon2.IDKey([]byte(config.Password), salt, time, memory, threads, keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// EncryptData seals plaintext with AES-256-GCM under an argon2id-derived
// key. The output is salt, nonce, then ciphertext with the auth tag.
func EncryptData(plaintext []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Password == "" {
		return nil, errors.New("encryption requires a password")
	}

	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := aeadForSalt(config, buf)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	buf = append(buf, nonce...)

	return gcm.Seal(buf, nonce, plaintext, nil), nil
}

// DecryptData opens data produced by EncryptData.
func DecryptData(encrypted []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Password == "" {
		return nil, errors.New("decryption requires a password")
	}
	if len(encrypted) < saltLength {
		return nil, errors.New("encrypted data truncated")
	}

	gcm, err := aeadForSalt(config, encrypted[:saltLength])
	if err != nil {
		return nil, err
	}

	rest := encrypted[saltLength:]
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return nil, errors.New("encrypted data truncated")
	}

	plaintext, err := gcm.Open(nil, rest[:gcm.NonceSize()], rest[gcm.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: wrong password or corrupted data: %w", err)
	}
	return plaintext, nil
}

// EncryptFile encrypts sourcePath into destPath, prefixed with the magic
// header so encrypted backups can be recognized.
func EncryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	plaintext, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	encrypted, err := EncryptData(plaintext, config)
	if err != nil {
		return err
	}

	out := make([]byte, 0, len(EncryptionMagicHeader)+len(encrypted))
	out = append(out, EncryptionMagicHeader...)
	out = append(out, encrypted...)

	if err := os.WriteFile(destPath, out, 0o600); err != nil {
		return fmt.Errorf("write encrypted file: %w", err)
	}
	return nil
}

// DecryptFile decrypts a file written by EncryptFile into destPath.
func DecryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read encrypted file: %w", err)
	}

	if !bytes.HasPrefix(data, []byte(EncryptionMagicHeader)) {
		return errors.New("file is not an encrypted backup")
	}

	plaintext, err := DecryptData(data[len(EncryptionMagicHeader):], config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(destPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("write decrypted file: %w", err)
	}
	return nil
}

// IsEncrypted reports whether the file starts with the encryption header.
func IsEncrypted(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(EncryptionMagicHeader))
	n, _ := f.Read(header)
	return n == len(header) && string(header) == EncryptionMagicHeader, nil
}
