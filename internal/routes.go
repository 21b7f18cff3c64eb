package internal

import (
	"dashcfg/internal/controllers"
	"dashcfg/internal/providers"
	"net/http"
)

func InitRoutes(panel *controllers.PanelController, actions *controllers.ActionController, nightscout *controllers.NightscoutController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/{$}", http.HandlerFunc(panel.Index))
	routers.Get("/api/config", http.HandlerFunc(panel.GetConfig))
	routers.Post("/save/auto-update", http.HandlerFunc(panel.SaveAutoUpdate))
	routers.Post("/save/{section}", http.HandlerFunc(panel.SaveSection))

	routers.Post("/wifi/connect", http.HandlerFunc(actions.WifiConnect))
	routers.Post("/hotspot/{action}", http.HandlerFunc(actions.Hotspot))
	routers.Post("/update", http.HandlerFunc(actions.Update))
	routers.Post("/restart-display", http.HandlerFunc(actions.RestartDisplay))
	routers.Post("/reboot", http.HandlerFunc(actions.Reboot))

	routers.Get("/test/nightscout", http.HandlerFunc(nightscout.TestConnection))
	routers.Get("/api/nightscout/entries", http.HandlerFunc(nightscout.Entries))
	return routers
}
