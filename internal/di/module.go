package di

import (
	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	"github.com/baabuu/storefront/internal/adapter/notify"
	"github.com/baabuu/storefront/internal/adapter/rates"
	"github.com/baabuu/storefront/internal/app"
	"github.com/baabuu/storefront/internal/config"
	"github.com/baabuu/storefront/internal/logger"
	"github.com/baabuu/storefront/internal/pkg/ratelimit"
	"github.com/baabuu/storefront/internal/pkg/token"
	"github.com/baabuu/storefront/internal/server/http/handlers"
	"github.com/baabuu/storefront/internal/server/http/router"
	"github.com/baabuu/storefront/internal/storage/postgres"
	"github.com/baabuu/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		token.Module,
		postgres.Module,
		rates.Module,
		gateway.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(newCallbackLimiter),
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

func newCallbackLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.CallbackRateLimit, cfg.CallbackRateWindow)
}
