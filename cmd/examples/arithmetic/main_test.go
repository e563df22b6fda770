package main

import (
	"context"
	"testing"

	"github.com/Caqil/mpc-ecdsa/pkg/logger"
)

func TestRun(t *testing.T) {
	sum, product, err := run(context.Background(), logger.Nop(), 3, 2, 2, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Value().Int64() != 5 {
		t.Errorf("Expected sum 5, got %s", sum.Value())
	}
	if product.Value().Int64() != 6 {
		t.Errorf("Expected product 6, got %s", product.Value())
	}
}
