package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/config"
	"github.com/baabuu/storefront/internal/usecase"
)

// Module provides the confirmation notifier when a webhook is configured.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) usecase.Notifier {
	if p.Config.NotifyWebhookURL == "" {
		return nil
	}
	return NewWebhookNotifier(p.Config.NotifyWebhookURL, p.Logger)
}
