//go:build wireinject
// +build wireinject

package di

import (
	"dashcfg/internal"
	"dashcfg/internal/controllers"
	"dashcfg/internal/providers"
	"dashcfg/internal/services"
	"dashcfg/internal/settings"
	"dashcfg/internal/structures"
	"dashcfg/internal/views"
	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		settings.NewStore,
		services.NewCommandRunner,
		services.NewSystemService,
		services.NewNightscoutService,
		views.NewPanel,

		controllers.NewPanelController,
		controllers.NewActionController,
		controllers.NewNightscoutController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
