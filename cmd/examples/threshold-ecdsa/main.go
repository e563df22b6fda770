// Package main runs threshold ECDSA end to end over an in-process
// transport: distributed key generation, signing by every party, and
// verified reconstruction by the coordinator
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/hash"
	"github.com/Caqil/mpc-ecdsa/pkg/keygen"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
	"github.com/Caqil/mpc-ecdsa/pkg/network"
	"github.com/Caqil/mpc-ecdsa/pkg/signing"
	"github.com/Caqil/mpc-ecdsa/pkg/storage"
)

// Result is what the demo prints
type Result struct {
	Curve                 string
	PublicKey             string
	PublicKeyUncompressed string
	R, S                  string
	DER                   string
}

func main() {
	configPath := flag.String("config", "", "path to JSON configuration")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lg := logger.New(&cfg.Logger)

	result, err := run(context.Background(), cfg, lg, os.Getenv("MPC_KEY_PASSWORD"))
	if err != nil {
		lg.Error().Err(err).Msg("threshold signing failed")
		os.Exit(1)
	}

	fmt.Printf("curve:                  %s\n", result.Curve)
	fmt.Printf("public key:             %s\n", result.PublicKey)
	fmt.Printf("public key (uncomp.):   %s\n", result.PublicKeyUncompressed)
	fmt.Printf("r:                      %s\n", result.R)
	fmt.Printf("s:                      %s\n", result.S)
	fmt.Printf("signature (DER):        %s\n", result.DER)
}

func run(ctx context.Context, cfg *Config, lg *logger.Logger, password string) (*Result, error) {
	curveType, err := curve.ParseCurveType(cfg.Curve)
	if err != nil {
		return nil, err
	}
	c, err := curve.NewCurve(curveType)
	if err != nil {
		return nil, err
	}
	hashFunc, err := hash.ParseHashFunction(cfg.Hash)
	if err != nil {
		return nil, err
	}

	config, err := mpc.NewConfig(cfg.Parties, cfg.Threshold)
	if err != nil {
		return nil, err
	}

	memory := network.NewMemoryTransport()
	defer memory.Close()
	transport, err := network.NewRetryTransport(memory, &cfg.Retry, lg)
	if err != nil {
		return nil, err
	}

	engineCfg := &mpc.EngineConfig{ReceiveTimeout: cfg.ReceiveTimeout()}
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}
	engineOpts := []mpc.Option{mpc.WithLogger(lg), mpc.WithEngineConfig(engineCfg)}
	signOpts := []signing.Option{signing.WithLogger(lg), signing.WithHash(hashFunc)}

	session := keygen.NewSessionID()
	lg.Info().Str("session", session).Int("parties", config.N).Int("threshold", config.K).Msg("starting")

	signers := make([]*signing.Signer, 0, config.N)
	for _, id := range config.Parties() {
		engine, err := mpc.NewEngine(id, config, transport, c.ScalarField(), engineOpts...)
		if err != nil {
			return nil, err
		}
		if _, err := engine.Register(ctx); err != nil {
			return nil, err
		}
		s, err := signing.NewSigner(engine, c, session, signOpts...)
		if err != nil {
			return nil, err
		}
		signers = append(signers, s)
	}

	dealer, err := mpc.NewEngine(mpc.DealerID, config, transport, c.ScalarField(), engineOpts...)
	if err != nil {
		return nil, err
	}
	coordinator, err := signing.NewCoordinator(dealer, c, session, signOpts...)
	if err != nil {
		return nil, err
	}

	msg := []byte(cfg.Message)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range signers {
		g.Go(func() error {
			key, err := s.GenerateKey(gctx)
			if err != nil {
				return err
			}
			if cfg.KeyDir != "" {
				if err := saveKeyShare(cfg.KeyDir, key, password); err != nil {
					return err
				}
			}
			return s.Sign(gctx, msg, mpc.DealerID)
		})
	}

	var sig *signing.Signature
	var pub *curve.Point
	g.Go(func() error {
		var err error
		pub, _, err = keygen.Observe(gctx, dealer, c, session)
		if err != nil {
			return err
		}
		sig, err = coordinator.CollectMessage(gctx, cfg.SignerIDs(), pub, msg)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	der, err := sig.DER()
	if err != nil {
		return nil, err
	}

	return &Result{
		Curve:                 c.Name(),
		PublicKey:             curve.EncodeHex(pub),
		PublicKeyUncompressed: hex.EncodeToString(c.MarshalUncompressed(pub)),
		R:                     "0x" + sig.R.Text(16),
		S:                     "0x" + sig.S.Text(16),
		DER:                   hex.EncodeToString(der),
	}, nil
}

func saveKeyShare(dir string, key *keygen.KeyShare, password string) error {
	path := filepath.Join(dir, fmt.Sprintf("party-%d.key", key.PartyID))
	fs, err := storage.NewFileStorage(storage.DefaultStorageConfig(path))
	if err != nil {
		return err
	}
	return fs.Save(key, password)
}
