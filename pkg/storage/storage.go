// Package storage persists key shares encrypted at rest
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Caqil/mpc-ecdsa/internal/security"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/keygen"
)

const formatVersion = "1.0"

// KeyShareStorage defines the interface for key share storage
type KeyShareStorage interface {
	// Save encrypts and saves a key share with password protection
	Save(share *keygen.KeyShare, password string) error

	// Load decrypts and loads a key share using the password
	Load(password string) (*keygen.KeyShare, error)

	// Delete removes the stored key share
	Delete() error

	// Exists checks if a key share exists in storage
	Exists() bool

	// Metadata returns storage metadata without decrypting
	Metadata() (*StorageMetadata, error)

	// ChangePassword re-encrypts the key share with a new password
	ChangePassword(oldPassword, newPassword string) error
}

// StorageMetadata describes a stored key share in the clear. It is
// authenticated as additional data of the ciphertext.
type StorageMetadata struct {
	Version       string    `json:"version"`
	PartyID       int       `json:"party_id"`
	Threshold     int       `json:"threshold"`
	TotalParties  int       `json:"total_parties"`
	Curve         string    `json:"curve"`
	PublicKey     string    `json:"public_key"`
	CreatedAt     time.Time `json:"created_at"`
	EncryptionAlg string    `json:"encryption_alg"`
	KDFAlg        string    `json:"kdf_alg"`
	KDFParams     KDFParams `json:"kdf_params"`
}

// encryptedKeyShare is the on-disk document
type encryptedKeyShare struct {
	Metadata   StorageMetadata `json:"metadata"`
	Nonce      []byte          `json:"nonce"`
	Ciphertext []byte          `json:"ciphertext"`
	Checksum   []byte          `json:"checksum"`
}

// FileStorage implements KeyShareStorage with one encrypted file
type FileStorage struct {
	config *StorageConfig
}

var _ KeyShareStorage = (*FileStorage)(nil)

// NewFileStorage creates a new file-based key share storage
func NewFileStorage(config *StorageConfig) (*FileStorage, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &FileStorage{config: config}, nil
}

// Save encrypts and saves a key share to disk
func (fs *FileStorage) Save(share *keygen.KeyShare, password string) error {
	if share == nil {
		return ErrInvalidKeyShare
	}
	if err := share.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}
	if err := fs.config.validatePassword(password); err != nil {
		return err
	}

	plaintext, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("serialize key share: %w", err)
	}
	defer security.SecureZero(plaintext)

	kdf, err := newKDFParams(fs.config)
	if err != nil {
		return err
	}

	metadata := StorageMetadata{
		Version:       formatVersion,
		PartyID:       share.PartyID,
		Threshold:     share.Threshold,
		TotalParties:  share.Parties,
		Curve:         share.Curve.Name(),
		PublicKey:     curve.EncodeHex(share.PublicKey),
		CreatedAt:     time.Now().UTC(),
		EncryptionAlg: "AES-256-GCM",
		KDFAlg:        "Argon2id",
		KDFParams:     kdf,
	}
	aad, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serialize metadata: %w", err)
	}

	key := kdf.deriveKey(password)
	defer security.SecureZero(key)

	nonce, ciphertext, err := seal(plaintext, key, aad)
	if err != nil {
		return err
	}

	data, err := json.Marshal(&encryptedKeyShare{
		Metadata:   metadata,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Checksum:   checksum(ciphertext),
	})
	if err != nil {
		return fmt.Errorf("serialize encrypted key share: %w", err)
	}

	return writeSecureFile(fs.config.FilePath, data, fs.config.FileMode)
}

// Load decrypts and loads a key share from disk
func (fs *FileStorage) Load(password string) (*keygen.KeyShare, error) {
	encrypted, err := fs.read()
	if err != nil {
		return nil, err
	}

	if !security.ConstantTimeCompare(checksum(encrypted.Ciphertext), encrypted.Checksum) {
		return nil, ErrChecksumMismatch
	}

	aad, err := json.Marshal(encrypted.Metadata)
	if err != nil {
		return nil, ErrStorageCorrupted
	}

	key := encrypted.Metadata.KDFParams.deriveKey(password)
	defer security.SecureZero(key)

	plaintext, err := open(encrypted.Ciphertext, encrypted.Nonce, key, aad)
	if err != nil {
		return nil, err
	}
	defer security.SecureZero(plaintext)

	share := new(keygen.KeyShare)
	if err := json.Unmarshal(plaintext, share); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageCorrupted, err)
	}
	if err := share.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}

	return share, nil
}

// Delete overwrites the file with zeros and removes it
func (fs *FileStorage) Delete() error {
	info, err := os.Stat(fs.config.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrKeyShareNotFound
		}
		return err
	}

	if err := os.WriteFile(fs.config.FilePath, make([]byte, info.Size()), fs.config.FileMode); err != nil {
		return err
	}
	return os.Remove(fs.config.FilePath)
}

// Exists checks if a key share exists in storage
func (fs *FileStorage) Exists() bool {
	_, err := os.Stat(fs.config.FilePath)
	return err == nil
}

// Metadata returns storage metadata without decrypting
func (fs *FileStorage) Metadata() (*StorageMetadata, error) {
	encrypted, err := fs.read()
	if err != nil {
		return nil, err
	}
	return &encrypted.Metadata, nil
}

// ChangePassword re-encrypts the key share with a new password
func (fs *FileStorage) ChangePassword(oldPassword, newPassword string) error {
	share, err := fs.Load(oldPassword)
	if err != nil {
		return err
	}
	if err := fs.config.validatePassword(newPassword); err != nil {
		return err
	}
	return fs.Save(share, newPassword)
}

func (fs *FileStorage) read() (*encryptedKeyShare, error) {
	data, err := readSecureFile(fs.config.FilePath, fs.config.FileMode)
	if err != nil {
		return nil, err
	}

	var encrypted encryptedKeyShare
	if err := json.Unmarshal(data, &encrypted); err != nil {
		return nil, ErrStorageCorrupted
	}
	if encrypted.Metadata.Version != formatVersion {
		return nil, ErrVersionMismatch
	}
	return &encrypted, nil
}

// writeSecureFile writes through a temporary file and renames it into place
func writeSecureFile(path string, data []byte, mode os.FileMode) error {
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write key share: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync key share: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close key share: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename key share: %w", err)
	}

	return nil
}

// readSecureFile reads path after checking it has exactly mode
func readSecureFile(path string, mode os.FileMode) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyShareNotFound
		}
		return nil, err
	}

	if info.Mode().Perm() != mode {
		return nil, fmt.Errorf("%w: file has permissions %o, expected %o", ErrPermissionDenied, info.Mode().Perm(), mode)
	}

	return os.ReadFile(path)
}
