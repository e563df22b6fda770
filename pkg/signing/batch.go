package signing

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
)

// BatchItem is one signature to verify
type BatchItem struct {
	PublicKey *curve.Point
	Digest    []byte
	Signature *Signature
}

// BatchVerifyResult represents the result of batch verification
type BatchVerifyResult struct {
	Valid         bool
	FailedIndices []int
	TotalChecked  int
}

// BatchVerify verifies items with at most workers running at once.
// Verification stops early only when ctx is cancelled.
func BatchVerify(ctx context.Context, c curve.Curve, items []BatchItem, workers int) (*BatchVerifyResult, error) {
	if workers <= 0 {
		workers = 4
	}

	var (
		mu     sync.Mutex
		failed []int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !item.Signature.Verify(c, item.PublicKey, item.Digest) {
				mu.Lock()
				failed = append(failed, i)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(failed)
	return &BatchVerifyResult{
		Valid:         len(failed) == 0,
		FailedIndices: failed,
		TotalChecked:  len(items),
	}, nil
}
