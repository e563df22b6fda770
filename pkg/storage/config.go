package storage

import (
	"fmt"
	"os"
)

// StorageConfig contains configuration for key share storage
type StorageConfig struct {
	// FilePath is the path where the key share is stored
	FilePath string `json:"file_path"`

	// FileMode is the Unix file permissions (default: 0600)
	FileMode os.FileMode `json:"file_mode"`

	// Argon2 KDF parameters
	Argon2Time    uint32 `json:"argon2_time"`
	Argon2Memory  uint32 `json:"argon2_memory"` // KiB
	Argon2Threads uint8  `json:"argon2_threads"`
	Argon2KeyLen  uint32 `json:"argon2_key_len"`

	// MinPasswordLength is the minimum password length
	MinPasswordLength int `json:"min_password_length"`
}

// DefaultStorageConfig returns the default configuration for filePath
func DefaultStorageConfig(filePath string) *StorageConfig {
	return &StorageConfig{
		FilePath:          filePath,
		FileMode:          0600,
		Argon2Time:        3,
		Argon2Memory:      64 * 1024,
		Argon2Threads:     4,
		Argon2KeyLen:      32,
		MinPasswordLength: 12,
	}
}

// Validate validates the storage configuration
func (c *StorageConfig) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("%w: file path cannot be empty", ErrInvalidConfig)
	}

	if c.FileMode&0077 != 0 {
		return fmt.Errorf("%w: insecure file permissions %o", ErrInvalidConfig, c.FileMode)
	}

	if c.Argon2Time < 1 {
		return fmt.Errorf("%w: argon2 time cost must be at least 1", ErrInvalidConfig)
	}

	if c.Argon2Memory < 8*1024 {
		return fmt.Errorf("%w: argon2 memory cost must be at least 8 MiB", ErrInvalidConfig)
	}

	if c.Argon2Threads < 1 {
		return fmt.Errorf("%w: argon2 threads must be at least 1", ErrInvalidConfig)
	}

	if c.Argon2KeyLen != 32 {
		return fmt.Errorf("%w: key length must be 32 bytes for AES-256", ErrInvalidConfig)
	}

	if c.MinPasswordLength < 8 {
		return fmt.Errorf("%w: minimum password length must be at least 8", ErrInvalidConfig)
	}

	return nil
}

// validatePassword checks length and that letters and digits are both present
func (c *StorageConfig) validatePassword(password string) error {
	if len(password) < c.MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, c.MinPasswordLength)
	}

	hasLetter, hasNumber := false, false
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasNumber = true
		}
	}

	if !hasLetter || !hasNumber {
		return fmt.Errorf("%w: must contain both letters and numbers", ErrWeakPassword)
	}

	return nil
}
