package rates

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/config"
)

// Module exposes the currency converter to the fx graph.
var Module = fx.Provide(newConverter)

type converterParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newConverter(p converterParams) (*Converter, error) {
	client, err := NewHTTPClient(p.Config.RatesAddress, p.Config.RatesAPIKey, p.Logger)
	if err != nil {
		return nil, err
	}
	return NewConverter(client, p.Config.RatesCacheTTL), nil
}
