package storage

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupManager handles catalog backup and restore operations.
type BackupManager struct {
	dbPath string
}

// NewBackupManager creates a backup manager for the given database path.
func NewBackupManager(dbPath string) *BackupManager {
	return &BackupManager{dbPath: dbPath}
}

// BackupConfig holds configuration for backup operations.
type BackupConfig struct {
	// BackupDir is where backups are stored. Defaults to a "backups"
	// subdirectory next to the database file.
	BackupDir string

	// BackupName is the backup file name without extension. Defaults to
	// a timestamp-based name.
	BackupName string

	// Password, when set, encrypts the backup with AES-256-GCM. The
	// encrypted file gets a .enc extension.
	Password string

	// VerifyBackup verifies the backup after creation.
	VerifyBackup bool
}

// DefaultBackupConfig returns a BackupConfig with sensible defaults.
func DefaultBackupConfig() *BackupConfig {
	return &BackupConfig{VerifyBackup: true}
}

// Backup creates a backup of the catalog database. SQLite's VACUUM INTO
// is atomic and does not require an exclusive lock.
func (bm *BackupManager) Backup(config *BackupConfig) (string, error) {
	if config == nil {
		config = DefaultBackupConfig()
	}

	backupDir := config.BackupDir
	if backupDir == "" {
		backupDir = bm.DefaultBackupDir()
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupName := config.BackupName
	if backupName == "" {
		backupName = "catalog_" + time.Now().Format("20060102_150405")
	}
	backupPath := filepath.Join(backupDir, backupName+".db")

	sourceDB, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer func() { _ = sourceDB.Close() }()

	if _, err := sourceDB.Exec(fmt.Sprintf("VACUUM INTO %q", backupPath)); err != nil {
		return "", fmt.Errorf("failed to vacuum into backup: %w", err)
	}

	if config.VerifyBackup {
		if err := bm.VerifyBackup(backupPath); err != nil {
			_ = os.Remove(backupPath)
			return "", fmt.Errorf("backup verification failed: %w", err)
		}
	}

	if config.Password != "" {
		encryptedPath := backupPath + ".enc"
		if err := EncryptFile(backupPath, encryptedPath, DefaultEncryptionConfig(config.Password)); err != nil {
			_ = os.Remove(backupPath)
			return "", fmt.Errorf("failed to encrypt backup: %w", err)
		}
		if err := os.Remove(backupPath); err != nil {
			return "", fmt.Errorf("failed to remove plaintext backup: %w", err)
		}
		return encryptedPath, nil
	}

	return backupPath, nil
}

// Restore replaces the catalog database with a backup. Encrypted backups
// need the password they were created with. The caller must close any
// open connections first.
func (bm *BackupManager) Restore(backupPath, password string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	tempPath := bm.dbPath + ".restore.tmp"

	encrypted, err := IsEncrypted(backupPath)
	if err != nil {
		return fmt.Errorf("failed to inspect backup: %w", err)
	}

	if encrypted {
		if password == "" {
			return fmt.Errorf("backup is encrypted, password required")
		}
		if err := DecryptFile(backupPath, tempPath, DefaultEncryptionConfig(password)); err != nil {
			return err
		}
	} else {
		if err := copyFile(backupPath, tempPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to copy backup file: %w", err)
		}
	}

	if err := bm.VerifyBackup(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("restored database verification failed: %w", err)
	}

	// Keep the old database aside instead of destroying it.
	if _, err := os.Stat(bm.dbPath); err == nil {
		oldPath := bm.dbPath + ".old." + time.Now().Format("20060102_150405")
		if err := os.Rename(bm.dbPath, oldPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to set aside current database: %w", err)
		}
	}

	if err := os.Rename(tempPath, bm.dbPath); err != nil {
		return fmt.Errorf("failed to replace database with restored backup: %w", err)
	}

	return nil
}

// VerifyBackup verifies that a backup file is a readable SQLite database.
func (bm *BackupManager) VerifyBackup(backupPath string) error {
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		return fmt.Errorf("failed to open backup as database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping backup database: %w", err)
	}

	var version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query backup database: %w", err)
	}

	return nil
}

// BackupInfo describes a backup file.
type BackupInfo struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	Encrypted bool
}

// ListBackups returns the backup files in a directory, plaintext and
// encrypted alike.
func (bm *BackupManager) ListBackups(backupDir string) ([]BackupInfo, error) {
	if backupDir == "" {
		backupDir = bm.DefaultBackupDir()
	}

	if _, err := os.Stat(backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".db" && ext != ".enc" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(backupDir, entry.Name()),
			Name:      entry.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Encrypted: ext == ".enc",
		})
	}

	return backups, nil
}

// DefaultBackupDir returns the default backup directory path.
func (bm *BackupManager) DefaultBackupDir() string {
	return filepath.Join(filepath.Dir(bm.dbPath), "backups")
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sourceFile.Close() }()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Close()
}
