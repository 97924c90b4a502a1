package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
)

func TestStockStubConcurrentReserveNeverOversells(t *testing.T) {
	variant := model.VariantKey{ProductID: 7, Size: "M", Color: "black"}
	stock := NewStockRepositoryStub()
	stock.Quantities[variant] = 50

	const attempts = 100
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- stock.TryReserve(context.Background(), variant, 1)
		}()
	}
	wg.Wait()
	close(results)

	var reserved, rejected int
	for err := range results {
		var stockErr domainErrors.InsufficientStockError
		switch {
		case err == nil:
			reserved++
		case errors.As(err, &stockErr):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if reserved != 50 {
		t.Fatalf("expected exactly 50 reservations, got %d", reserved)
	}
	if rejected != 50 {
		t.Fatalf("expected 50 rejections, got %d", rejected)
	}

	remaining, err := stock.Quantity(context.Background(), variant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected zero remaining stock, got %d", remaining)
	}
}
