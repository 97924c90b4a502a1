package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/config"
)

// Module wires the gateway adapters and the dispatch registry.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newRegistry(p registryParams) (*Registry, error) {
	adapters := []Adapter{NewCODAdapter()}

	if p.Config.QRGatewayAddress != "" {
		adapters = append(adapters, NewQRAdapter(QRConfig{
			Address:         p.Config.QRGatewayAddress,
			Secret:          p.Config.QRGatewaySecret,
			ProductCode:     p.Config.QRGatewayProductCode,
			CallbackBaseURL: p.Config.CallbackBaseURL,
		}, p.Logger))
	}

	if p.Config.WalletGatewayAddress != "" {
		wallet, err := NewWalletAdapter(WalletConfig{
			Address:         p.Config.WalletGatewayAddress,
			Secret:          p.Config.WalletGatewaySecret,
			CallbackBaseURL: p.Config.CallbackBaseURL,
		}, p.Logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, wallet)
	}

	if p.Config.CardGatewayAddress != "" {
		card, err := NewCardAdapter(CardConfig{
			Address: p.Config.CardGatewayAddress,
			Secret:  p.Config.CardGatewaySecret,
		}, p.Logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, card)
	}

	return NewRegistry(adapters...), nil
}
