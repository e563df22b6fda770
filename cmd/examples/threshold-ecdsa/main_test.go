package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/hash"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/signing"
)

func TestRunP256(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Curve = "P-256"
	cfg.Signers = []int{2, 3}

	result, err := run(context.Background(), cfg, logger.Nop(), "")
	require.NoError(t, err)

	c, err := curve.NewCurve(curve.P256)
	require.NoError(t, err)
	pub, err := curve.DecodeHex(c, result.PublicKey)
	require.NoError(t, err)

	der, err := hex.DecodeString(result.DER)
	require.NoError(t, err)

	key := &ecdsa.PublicKey{Curve: c.Params().Curve, X: pub.X, Y: pub.Y}
	require.True(t, ecdsa.VerifyASN1(key, hash.Hash([]byte(cfg.Message), hash.SHA256), der))
}

func TestRunSecp256k1Keccak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hash = "keccak256"
	cfg.Message = "transfer"

	result, err := run(context.Background(), cfg, logger.Nop(), "")
	require.NoError(t, err)

	c, err := curve.NewCurve(curve.Secp256k1)
	require.NoError(t, err)
	pub, err := curve.DecodeHex(c, result.PublicKey)
	require.NoError(t, err)

	der, err := hex.DecodeString(result.DER)
	require.NoError(t, err)
	sig, err := signing.ParseDER(der)
	require.NoError(t, err)
	require.True(t, sig.Verify(c, pub, hash.Hash([]byte(cfg.Message), hash.Keccak256)))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parties": 5, "threshold": 3, "curve": "p256"}`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Parties)
	require.Equal(t, 3, cfg.Threshold)
	require.Equal(t, "sha256", cfg.Hash)
	require.Equal(t, []int{1, 2, 3}, cfg.SignerIDs())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
