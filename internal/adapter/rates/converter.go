package rates

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baabuu/storefront/internal/domain/model"
)

// Converter converts amounts between currencies through a Source, caching
// each pair's rate for a TTL to bound external call volume. For a frozen
// cached rate the conversion is deterministic: amounts are rounded
// half-up to 2 decimal places before scaling back to minor units.
type Converter struct {
	source Source
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cachedRate
	now   func() time.Time
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// NewConverter builds a Converter over the given source.
func NewConverter(source Source, ttl time.Duration) *Converter {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Converter{
		source: source,
		ttl:    ttl,
		cache:  make(map[string]cachedRate),
		now:    time.Now,
	}
}

// Convert returns the amount denominated in the target currency.
// Same-currency conversion is the identity. Provider failures surface as
// ErrRateUnavailable; the canonical base-currency amount is never altered.
func (c *Converter) Convert(ctx context.Context, m model.Money, to string) (model.Money, error) {
	if m.Currency == to {
		return m, nil
	}

	rate, err := c.rate(ctx, m.Currency, to)
	if err != nil {
		return model.Money{}, err
	}

	return model.MoneyFromDecimal(m.Decimal().Mul(rate), to), nil
}

func (c *Converter) rate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	key := base + "/" + quote

	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.rate, nil
	}

	rate, err := c.source.Rate(ctx, base, quote)
	if err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	c.cache[key] = cachedRate{rate: rate, fetchedAt: c.now()}
	c.mu.Unlock()

	return rate, nil
}
