package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"

	"golang.org/x/crypto/argon2"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/rand"
)

const (
	saltSize  = 32
	nonceSize = 12
)

// KDFParams contains key derivation function parameters
type KDFParams struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
	KeyLen  uint32 `json:"key_len"`
	Salt    []byte `json:"salt"`
}

// newKDFParams draws a fresh salt for the configured cost
func newKDFParams(c *StorageConfig) (KDFParams, error) {
	salt, err := rand.GenerateRandomBytes(saltSize)
	if err != nil {
		return KDFParams{}, err
	}
	return KDFParams{
		Time:    c.Argon2Time,
		Memory:  c.Argon2Memory,
		Threads: c.Argon2Threads,
		KeyLen:  c.Argon2KeyLen,
		Salt:    salt,
	}, nil
}

// deriveKey derives the AES key with Argon2id using the stored parameters
func (p KDFParams) deriveKey(password string) []byte {
	return argon2.IDKey([]byte(password), p.Salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// seal encrypts plaintext with AES-256-GCM, authenticating aad
func seal(plaintext, key, aad []byte) (nonce, ciphertext []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err = rand.GenerateRandomBytes(nonceSize)
	if err != nil {
		return nil, nil, err
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, aad), nil
}

// open decrypts ciphertext; authentication failure means a wrong password
// or tampered data
func open(ciphertext, nonce, key, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != gcm.NonceSize() {
		return nil, ErrInvalidNonce
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	return gcm, nil
}

func checksum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
