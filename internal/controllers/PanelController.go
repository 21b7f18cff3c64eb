package controllers

import (
	"context"
	"dashcfg/internal/models"
	"dashcfg/internal/providers"
	"dashcfg/internal/services"
	"dashcfg/internal/settings/interfaces"
	"dashcfg/internal/structures"
	"dashcfg/internal/views"
	json "github.com/goccy/go-json"
	"net/http"
	"time"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	clockFormat        = "03:04 PM"
)

// PanelController serves the settings page and the settings endpoints.
type PanelController struct {
	logger providers.Logger
	store  interfaces.StoreInterface
	system services.SystemServiceInterface
	cache  providers.CacheProviderInterface
	panel  views.PanelInterface
	conf   *structures.Config
	now    func() time.Time
}

func NewPanelController(logger providers.Logger, store interfaces.StoreInterface, system services.SystemServiceInterface, cache providers.CacheProviderInterface, panel views.PanelInterface, conf *structures.Config) *PanelController {
	return &PanelController{
		logger: logger,
		store:  store,
		system: system,
		cache:  cache,
		panel:  panel,
		conf:   conf,
		now:    time.Now,
	}
}

// Index checks the device and renders the panel. The device checks share one
// command timeout, so a hung nmcli or git cannot hold the page past the
// server's write timeout.
func (pc *PanelController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if pc.conf.System.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pc.conf.System.CommandTimeout)
		defer cancel()
	}

	settings, err := pc.store.Load().Settings()
	if err != nil {
		pc.logger.Warnf(providers.TypeGet, "Settings do not fit the panel form: %s", err)
	}

	loc, err := time.LoadLocation(settings.Display.Timezone)
	if err != nil {
		loc = time.UTC
	}

	networks := cachedOrCompute(ctx, pc.cache, cacheKeyNetworks, func() []models.Network {
		return pc.system.ScanNetworks(ctx)
	})
	updates := cachedOrCompute(ctx, pc.cache, cacheKeyUpdates, func() bool {
		return pc.system.UpdatesAvailable(ctx)
	})

	data := views.PanelData{
		Settings:         settings,
		Networks:         networks,
		CurrentWiFi:      pc.system.CurrentNetwork(ctx),
		HotspotActive:    pc.system.HotspotActive(ctx),
		HotspotSSID:      pc.conf.System.HotspotSSID,
		IPAddress:        pc.system.IPAddress(ctx),
		Hostname:         pc.system.Hostname(ctx),
		Version:          pc.system.Version(ctx),
		UpdatesAvailable: updates,
		Port:             pc.conf.WebServer.Port,
		Timezones:        views.TimezoneOptions(settings.Display.Timezone),
		TimezoneName:     loc.String(),
		CurrentTime:      pc.now().In(loc).Format(clockFormat),
		Message:          r.URL.Query().Get("message"),
		MessageType:      flashKind(r.URL.Query().Get("type")),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pc.panel.Render(w, data); err != nil {
		pc.logger.Errorf(providers.TypeGet, "Render panel: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func flashKind(kind string) string {
	switch kind {
	case flashSuccess, flashError:
		return kind
	default:
		return flashInfo
	}
}

// GetConfig returns the whole settings document for the kiosk page.
func (pc *PanelController) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.store.Load())
}

func (pc *PanelController) SaveSection(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "Invalid form data", flashError)
		return
	}

	form, ok, err := parseSectionForm(section, r.PostForm)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err == nil {
		err = validateForm(form)
	}
	if err != nil {
		pc.logger.Warnf(providers.TypePost, "Rejected %s settings: %s", section, err)
		redirectWithFlash(w, r, err.Error(), flashError)
		return
	}

	doc := pc.store.Load()
	pc.store.UpdateSection(doc, section, form.fields())
	if err := pc.store.Save(doc); err != nil {
		redirectWithFlash(w, r, "Error saving settings", flashError)
		return
	}

	redirectWithFlash(w, r, sectionTitles[section]+" settings saved!", flashSuccess)
}

type autoUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}

func (pc *PanelController) SaveAutoUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var payload autoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, services.Result{Success: false, Message: "Invalid JSON"})
		return
	}
	enabled := true
	if payload.Enabled != nil {
		enabled = *payload.Enabled
	}

	doc := pc.store.Load()
	pc.store.UpdateSection(doc, models.SectionSystem, map[string]any{"auto_update": enabled})
	if err := pc.store.Save(doc); err != nil {
		writeJSON(w, http.StatusInternalServerError, services.Result{Success: false, Message: "Error saving settings"})
		return
	}

	writeJSON(w, http.StatusOK, services.Result{Success: true})
}
