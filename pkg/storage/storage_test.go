package storage

import (
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/keygen"
)

const testPassword = "correct horse 42"

// createTestKeyShare builds party id's share of f(x) = 1234 + 5x, a
// consistent 2-of-3 sharing
func createTestKeyShare(t *testing.T, id int) *keygen.KeyShare {
	t.Helper()

	c, err := curve.NewCurve(curve.Secp256k1)
	if err != nil {
		t.Fatal(err)
	}

	f := func(x int64) *big.Int { return big.NewInt(1234 + 5*x) }

	pub, err := c.ScalarBaseMult(f(0))
	if err != nil {
		t.Fatal(err)
	}

	shares := make(map[int]*curve.Point, 3)
	for j := 1; j <= 3; j++ {
		p, err := c.ScalarBaseMult(f(int64(j)))
		if err != nil {
			t.Fatal(err)
		}
		shares[j] = p
	}

	return &keygen.KeyShare{
		PartyID:      id,
		Threshold:    2,
		Parties:      3,
		Share:        f(int64(id)),
		PublicKey:    pub,
		PublicShares: shares,
		Curve:        c,
	}
}

// testConfig uses the cheapest accepted Argon2 cost
func testConfig(t *testing.T) *StorageConfig {
	config := DefaultStorageConfig(filepath.Join(t.TempDir(), "party.key"))
	config.Argon2Time = 1
	config.Argon2Memory = 8 * 1024
	config.Argon2Threads = 1
	return config
}

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(testConfig(t))
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	return fs
}

func TestDefaultStorageConfig(t *testing.T) {
	config := DefaultStorageConfig("/tmp/test.key")

	if config.FileMode != 0600 {
		t.Errorf("Expected FileMode 0600, got %o", config.FileMode)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestStorageConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*StorageConfig)
	}{
		{"empty file path", func(c *StorageConfig) { c.FilePath = "" }},
		{"group readable", func(c *StorageConfig) { c.FileMode = 0640 }},
		{"zero time", func(c *StorageConfig) { c.Argon2Time = 0 }},
		{"low memory", func(c *StorageConfig) { c.Argon2Memory = 1024 }},
		{"zero threads", func(c *StorageConfig) { c.Argon2Threads = 0 }},
		{"short key", func(c *StorageConfig) { c.Argon2KeyLen = 16 }},
		{"short minimum password", func(c *StorageConfig) { c.MinPasswordLength = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultStorageConfig("/tmp/test.key")
			tt.modify(config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestPasswordValidation(t *testing.T) {
	config := DefaultStorageConfig("/tmp/test.key")

	for _, weak := range []string{"short1", "onlyletterslong", "123456789012"} {
		if err := config.validatePassword(weak); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Expected ErrWeakPassword for %q, got %v", weak, err)
		}
	}

	if err := config.validatePassword(testPassword); err != nil {
		t.Errorf("Expected %q to be accepted: %v", testPassword, err)
	}
}

func TestSealOpen(t *testing.T) {
	key := make([]byte, 32)
	aad := []byte("metadata")

	nonce, ciphertext, err := seal([]byte("secret share"), key, aad)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	plaintext, err := open(ciphertext, nonce, key, aad)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plaintext) != "secret share" {
		t.Errorf("Got %q", plaintext)
	}

	if _, err := open(ciphertext, nonce, key, []byte("other")); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Expected tampered AAD to fail, got %v", err)
	}

	if _, err := open(ciphertext, nonce[:4], key, aad); !errors.Is(err, ErrInvalidNonce) {
		t.Errorf("Expected ErrInvalidNonce, got %v", err)
	}
}

func TestFileStorage_SaveAndLoad(t *testing.T) {
	fs := newTestStorage(t)
	share := createTestKeyShare(t, 2)

	if err := fs.Save(share, testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !fs.Exists() {
		t.Fatal("Expected key share to exist")
	}

	loaded, err := fs.Load(testPassword)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.PartyID != share.PartyID || loaded.Threshold != share.Threshold || loaded.Parties != share.Parties {
		t.Errorf("Loaded parameters mismatch: %+v", loaded)
	}
	if loaded.Share.Cmp(share.Share) != 0 {
		t.Error("Loaded share mismatch")
	}
	if !loaded.PublicKey.IsEqual(share.PublicKey) {
		t.Error("Loaded public key mismatch")
	}
	if len(loaded.PublicShares) != 3 {
		t.Errorf("Expected 3 public shares, got %d", len(loaded.PublicShares))
	}
}

func TestFileStorage_LoadWithWrongPassword(t *testing.T) {
	fs := newTestStorage(t)
	if err := fs.Save(createTestKeyShare(t, 1), testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := fs.Load("wrong password 99"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Expected ErrInvalidPassword, got %v", err)
	}
}

func TestFileStorage_SaveRejectsInconsistentShare(t *testing.T) {
	fs := newTestStorage(t)
	share := createTestKeyShare(t, 1)
	share.Share = big.NewInt(1)

	if err := fs.Save(share, testPassword); !errors.Is(err, ErrInvalidKeyShare) {
		t.Errorf("Expected ErrInvalidKeyShare, got %v", err)
	}
}

func TestFileStorage_DetectsTampering(t *testing.T) {
	fs := newTestStorage(t)
	if err := fs.Save(createTestKeyShare(t, 1), testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(fs.config.FilePath)
	if err != nil {
		t.Fatal(err)
	}

	var doc encryptedKeyShare
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	t.Run("ciphertext", func(t *testing.T) {
		tampered := doc
		tampered.Ciphertext = append([]byte{}, doc.Ciphertext...)
		tampered.Ciphertext[0] ^= 0xff
		writeDoc(t, fs, &tampered)

		if _, err := fs.Load(testPassword); !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("Expected ErrChecksumMismatch, got %v", err)
		}
	})

	t.Run("metadata", func(t *testing.T) {
		tampered := doc
		tampered.Metadata.PartyID = 3
		writeDoc(t, fs, &tampered)

		if _, err := fs.Load(testPassword); !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("Expected authentication failure, got %v", err)
		}
	})
}

func writeDoc(t *testing.T, fs *FileStorage, doc *encryptedKeyShare) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeSecureFile(fs.config.FilePath, data, fs.config.FileMode); err != nil {
		t.Fatal(err)
	}
}

func TestFileStorage_Delete(t *testing.T) {
	fs := newTestStorage(t)

	if err := fs.Delete(); !errors.Is(err, ErrKeyShareNotFound) {
		t.Errorf("Expected ErrKeyShareNotFound, got %v", err)
	}

	if err := fs.Save(createTestKeyShare(t, 1), testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := fs.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fs.Exists() {
		t.Error("Expected key share to be deleted")
	}
	if _, err := fs.Load(testPassword); !errors.Is(err, ErrKeyShareNotFound) {
		t.Errorf("Expected ErrKeyShareNotFound, got %v", err)
	}
}

func TestFileStorage_Metadata(t *testing.T) {
	fs := newTestStorage(t)
	share := createTestKeyShare(t, 3)
	if err := fs.Save(share, testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	meta, err := fs.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	if meta.PartyID != 3 || meta.Threshold != 2 || meta.TotalParties != 3 {
		t.Errorf("Unexpected metadata: %+v", meta)
	}
	if meta.Curve != "secp256k1" {
		t.Errorf("Expected secp256k1, got %s", meta.Curve)
	}
	if meta.PublicKey != curve.EncodeHex(share.PublicKey) {
		t.Errorf("Public key mismatch: %s", meta.PublicKey)
	}
	if len(meta.KDFParams.Salt) != saltSize {
		t.Errorf("Expected %d byte salt, got %d", saltSize, len(meta.KDFParams.Salt))
	}
}

func TestFileStorage_ChangePassword(t *testing.T) {
	fs := newTestStorage(t)
	if err := fs.Save(createTestKeyShare(t, 1), testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	newPassword := "battery staple 7"
	if err := fs.ChangePassword(testPassword, newPassword); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := fs.Load(testPassword); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Old password should fail, got %v", err)
	}
	if _, err := fs.Load(newPassword); err != nil {
		t.Errorf("New password should work: %v", err)
	}

	if err := fs.ChangePassword(newPassword, "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
}

func TestFilePermissions(t *testing.T) {
	fs := newTestStorage(t)
	if err := fs.Save(createTestKeyShare(t, 1), testPassword); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := os.Chmod(fs.config.FilePath, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(testPassword); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}
