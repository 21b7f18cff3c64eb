package controllers

import (
	"dashcfg/internal/providers"
	"dashcfg/internal/services"
	"dashcfg/internal/settings/interfaces"
	"net/http"
)

// NightscoutController proxies glucose entries for the kiosk page and
// checks a candidate server from the settings form.
type NightscoutController struct {
	logger     providers.Logger
	store      interfaces.StoreInterface
	nightscout services.NightscoutServiceInterface
}

func NewNightscoutController(logger providers.Logger, store interfaces.StoreInterface, nightscout services.NightscoutServiceInterface) *NightscoutController {
	return &NightscoutController{
		logger:     logger,
		store:      store,
		nightscout: nightscout,
	}
}

func (nc *NightscoutController) TestConnection(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeJSON(w, http.StatusOK, services.Result{Success: false, Message: "No URL provided"})
		return
	}

	if err := nc.nightscout.CheckStatus(r.Context(), target); err != nil {
		writeJSON(w, http.StatusOK, services.Result{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, services.Result{Success: true})
}

func (nc *NightscoutController) Entries(w http.ResponseWriter, r *http.Request) {
	settings, err := nc.store.Load().Settings()
	if err != nil {
		nc.logger.Warnf(providers.TypeGet, "Settings do not fit the proxy: %s", err)
	}
	if settings.Nightscout.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Nightscout URL not configured"})
		return
	}

	count := r.URL.Query().Get("count")
	if count == "" {
		count = "1"
	}

	body, err := nc.nightscout.Entries(r.Context(), settings.Nightscout.URL, settings.Nightscout.APISecret, count)
	if err != nil {
		nc.logger.Errorf(providers.TypeGet, "Nightscout proxy error: %s", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
