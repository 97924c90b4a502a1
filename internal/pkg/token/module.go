package token

import (
	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/config"
)

// Module provides the session token strategy via fx.
var Module = fx.Provide(newStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newStrategy(p strategyParams) (Parser, Issuer) {
	s := NewHMACStrategy(p.Config.TokenSecret, Options{})
	return s, s
}
