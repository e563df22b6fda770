// Package main runs the dealer arithmetic demo: a dealer shares two
// values, the parties add and multiply them without learning them, and
// the dealer reconstructs the results
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Caqil/mpc-ecdsa/internal/math"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
	"github.com/Caqil/mpc-ecdsa/pkg/network"
)

func main() {
	a := flag.Int64("a", 2, "first secret")
	b := flag.Int64("b", 3, "second secret")
	n := flag.Int("n", 3, "number of parties")
	k := flag.Int("k", 2, "reconstruction threshold")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	cfg := logger.DefaultConfig()
	cfg.Level = *level
	cfg.Pretty = true
	log.SetFlags(0)

	sum, product, err := run(context.Background(), logger.New(cfg), *n, *k, *a, *b)
	if err != nil {
		log.Fatalf("arithmetic demo: %v", err)
	}

	fmt.Printf("a + b = %s\n", sum.Value())
	fmt.Printf("a * b = %s\n", product.Value())
}

func run(ctx context.Context, lg *logger.Logger, n, k int, a, b int64) (*math.Element, *math.Element, error) {
	config, err := mpc.NewConfig(n, k)
	if err != nil {
		return nil, nil, err
	}

	field := math.DemoField()
	transport := network.NewMemoryTransport()
	defer transport.Close()

	opts := []mpc.Option{mpc.WithLogger(lg), mpc.WithReceiveTimeout(10 * time.Second)}

	dealer, err := mpc.NewEngine(mpc.DealerID, config, transport, field, opts...)
	if err != nil {
		return nil, nil, err
	}
	if _, err := dealer.Register(ctx); err != nil {
		return nil, nil, err
	}

	if err := dealer.Deal(ctx, mpc.NewSecretWithValue("a", field.FromInt64(a))); err != nil {
		return nil, nil, err
	}
	if err := dealer.Deal(ctx, mpc.NewSecretWithValue("b", field.FromInt64(b))); err != nil {
		return nil, nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range config.Parties() {
		engine, err := mpc.NewEngine(id, config, transport, field, opts...)
		if err != nil {
			return nil, nil, err
		}
		g.Go(func() error { return compute(gctx, engine) })
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sum, err := reconstruct(ctx, dealer, "sum")
	if err != nil {
		return nil, nil, err
	}
	product, err := reconstruct(ctx, dealer, "product")
	if err != nil {
		return nil, nil, err
	}
	return sum, product, nil
}

// compute is the work of one party: add and multiply the dealt shares
// and return both results to the dealer
func compute(ctx context.Context, engine *mpc.Engine) error {
	if _, err := engine.Register(ctx); err != nil {
		return err
	}

	id := engine.ID()
	a, b := mpc.NewShare("a", id), mpc.NewShare("b", id)

	sum := mpc.NewShare("sum", id)
	if err := engine.Add(ctx, sum, a, b); err != nil {
		return err
	}

	product := mpc.NewShare("product", id)
	if err := engine.Mul(ctx, product, a, b); err != nil {
		return err
	}

	if err := engine.SendShare(ctx, sum, mpc.DealerID); err != nil {
		return err
	}
	return engine.SendShare(ctx, product, mpc.DealerID)
}

func reconstruct(ctx context.Context, dealer *mpc.Engine, name string) (*math.Element, error) {
	secret := mpc.NewSecret(name, dealer.Field())
	for _, id := range dealer.Config().Parties() {
		if err := dealer.CollectShare(ctx, secret, id); err != nil {
			return nil, err
		}
	}
	return secret.Reconstruct(dealer.Config().K)
}
