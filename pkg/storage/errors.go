package storage

import "errors"

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrKeyShareNotFound = errors.New("key share not found")
	ErrInvalidKeyShare  = errors.New("invalid key share")
	ErrStorageCorrupted = errors.New("storage corrupted")
	ErrInvalidConfig    = errors.New("invalid storage configuration")
	ErrPermissionDenied = errors.New("permission denied")
	ErrWeakPassword     = errors.New("password too weak")
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrEncryptionFailed = errors.New("encryption failed")
	ErrVersionMismatch  = errors.New("version mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
