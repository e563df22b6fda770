package mpc

import (
	"fmt"
	"time"

	"github.com/Caqil/mpc-ecdsa/internal/security"
)

// DealerID identifies the coordinating party that may learn full values
// for setup or result collection
const DealerID = 999

// Config is the (n, k) sharing configuration shared by all parties
type Config struct {
	// N is the total number of computing parties
	N int `json:"n"`

	// K is the reconstruction threshold
	K int `json:"k"`
}

// NewConfig validates 1 <= k <= n and n >= 2k-1, the bound the
// multiplication protocol needs to reduce the product degree
func NewConfig(n, k int) (*Config, error) {
	c := &Config{N: n, K: k}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration bounds
func (c *Config) Validate() error {
	if err := security.ValidateDegreeReduction(c.K, c.N); err != nil {
		return fmt.Errorf("%w: n=%d k=%d: %w", ErrInvalidConfig, c.N, c.K, err)
	}
	return nil
}

// ProductThreshold is the number of points needed to interpolate the
// product of two degree-(k-1) sharings
func (c *Config) ProductThreshold() int {
	return 2*c.K - 1
}

// Parties returns the computing party IDs 1..n
func (c *Config) Parties() []int {
	ids := make([]int, c.N)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

// EngineConfig holds the tunables of an Engine
type EngineConfig struct {
	// ReceiveTimeout bounds every suspending read
	ReceiveTimeout time.Duration `json:"receive_timeout"`
}

// DefaultEngineConfig returns the default engine tunables
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ReceiveTimeout: 30 * time.Second,
	}
}

// Validate validates the engine configuration
func (c *EngineConfig) Validate() error {
	if c.ReceiveTimeout <= 0 {
		return fmt.Errorf("%w: receive timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
