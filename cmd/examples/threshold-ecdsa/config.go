package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/network"
)

// Config holds the demo's configuration values
type Config struct {
	Parties   int    `json:"parties"`
	Threshold int    `json:"threshold"`
	Curve     string `json:"curve"`
	Hash      string `json:"hash"`
	Message   string `json:"message"`

	// Signers lists the parties whose signature shares are combined;
	// empty means the first Threshold parties
	Signers []int `json:"signers"`

	// ReceiveTimeoutMS bounds every protocol read
	ReceiveTimeoutMS int `json:"receive_timeout_ms"`

	Retry  network.RetryConfig `json:"retry"`
	Logger logger.Config       `json:"logger"`

	// KeyDir, if set, receives one encrypted key share file
	// per party. The password is read from MPC_KEY_PASSWORD.
	KeyDir string `json:"key_dir"`
}

// DefaultConfig returns the 2-of-3 secp256k1 configuration
func DefaultConfig() *Config {
	return &Config{
		Parties:          3,
		Threshold:        2,
		Curve:            "secp256k1",
		Hash:             "sha256",
		Message:          "hello",
		ReceiveTimeoutMS: 30000,
		Retry:            *network.DefaultRetryConfig(),
		Logger:           *logger.DefaultConfig(),
	}
}

// LoadConfig reads a JSON file over the defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ReceiveTimeout returns the configured read deadline
func (c *Config) ReceiveTimeout() time.Duration {
	return time.Duration(c.ReceiveTimeoutMS) * time.Millisecond
}

// SignerIDs returns the parties whose shares the coordinator collects
func (c *Config) SignerIDs() []int {
	if len(c.Signers) > 0 {
		return c.Signers
	}
	ids := make([]int, c.Threshold)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}
