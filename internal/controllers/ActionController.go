package controllers

import (
	"context"
	"dashcfg/internal/providers"
	"dashcfg/internal/services"
	"net/http"
	"strings"
)

// ActionController runs device actions: WiFi, hotspot, update, restart, reboot.
type ActionController struct {
	logger  providers.Logger
	system  services.SystemServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewActionController(logger providers.Logger, system services.SystemServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ActionController {
	return &ActionController{
		logger:  logger,
		system:  system,
		cache:   cache,
		metrics: metrics,
	}
}

// actionContext keeps a device action running if the browser goes away
// halfway through; the command runner still bounds it with its timeout.
func actionContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (ac *ActionController) record(action string, res services.Result) {
	ac.metrics.IncActionsTotal(action, res.Success)
	if res.Success {
		ac.logger.Infof(providers.TypePost, "%s succeeded", action)
	} else {
		ac.logger.Warnf(providers.TypePost, "%s failed: %s", action, strings.TrimSpace(res.Message))
	}
}

func (ac *ActionController) WifiConnect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "Invalid form data", flashError)
		return
	}

	ssid := r.PostFormValue("ssid")
	password := r.PostFormValue("password")
	if ssid == "" {
		redirectWithFlash(w, r, "No network selected", flashError)
		return
	}

	res := ac.system.ConnectNetwork(actionContext(r), ssid, password)
	ac.record("wifi_connect", res)
	ac.cache.Del(cacheKeyNetworks)

	if res.Success {
		redirectWithFlash(w, r, "Connected to "+ssid+"!", flashSuccess)
		return
	}
	redirectWithFlash(w, r, "Failed to connect: "+strings.TrimSpace(res.Message), flashError)
}

func (ac *ActionController) Hotspot(w http.ResponseWriter, r *http.Request) {
	enable := r.PathValue("action") == "enable"

	res := ac.system.SetHotspot(actionContext(r), enable)
	ac.record("hotspot", res)
	ac.cache.Del(cacheKeyNetworks)

	writeJSON(w, http.StatusOK, res)
}

// Update pulls the dashboard checkout and restarts the display so the
// kiosk loads the new version.
func (ac *ActionController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := actionContext(r)

	res := ac.system.PullUpdate(ctx)
	ac.record("update", res)
	if res.Success {
		ac.cache.Del(cacheKeyUpdates)
		ac.record("restart_display", ac.system.RestartDisplay(ctx))
	}

	writeJSON(w, http.StatusOK, res)
}

func (ac *ActionController) RestartDisplay(w http.ResponseWriter, r *http.Request) {
	res := ac.system.RestartDisplay(actionContext(r))
	ac.record("restart_display", res)
	writeJSON(w, http.StatusOK, res)
}

func (ac *ActionController) Reboot(w http.ResponseWriter, r *http.Request) {
	res := ac.system.Reboot(actionContext(r))
	ac.record("reboot", res)
	writeJSON(w, http.StatusOK, res)
}
