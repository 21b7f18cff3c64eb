package controllers

import (
	"context"
	"dashcfg/internal/models"
	"dashcfg/internal/structures"
	"dashcfg/internal/testutil"
	"dashcfg/internal/views"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type recordingPanel struct {
	data  views.PanelData
	calls int
	err   error
}

func (p *recordingPanel) Render(w io.Writer, data views.PanelData) error {
	p.calls++
	p.data = data
	if p.err != nil {
		return p.err
	}
	_, err := io.WriteString(w, "panel")
	return err
}

// --- helpers ---

type panelFixture struct {
	store  *testutil.MockStore
	system *testutil.MockSystemService
	cache  *testutil.MockCache
	panel  *recordingPanel
	ctrl   *PanelController
}

func newPanelFixture() *panelFixture {
	f := &panelFixture{
		store:  testutil.NewMockStore(),
		system: testutil.NewMockSystemService(),
		cache:  testutil.NewMockCache(),
		panel:  &recordingPanel{},
	}
	conf := &structures.Config{
		WebServer: structures.Server{Port: 3000},
		System:    structures.SystemConfig{HotspotSSID: "OrangePi-Setup"},
	}
	f.ctrl = NewPanelController(&testutil.MockLogger{}, f.store, f.system, f.cache, f.panel, conf)
	f.ctrl.now = func() time.Time { return time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC) }
	return f
}

func postForm(section string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/save/"+section, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("section", section)
	return req
}

func flashFrom(t *testing.T, rr *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	require.Equal(t, http.StatusFound, rr.Code)
	loc, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	return loc.Query().Get("message"), loc.Query().Get("type")
}

// --- Index tests ---

func TestIndex_RendersStatus(t *testing.T) {
	f := newPanelFixture()
	f.system.Updates = true
	f.system.Hotspot = true

	req := httptest.NewRequest(http.MethodGet, "/?message=Saved&type=success", nil)
	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	d := f.panel.data
	assert.Equal(t, []models.Network{{SSID: "Home", Signal: 70}}, d.Networks)
	assert.Equal(t, "Home", d.CurrentWiFi)
	assert.True(t, d.HotspotActive)
	assert.True(t, d.UpdatesAvailable)
	assert.Equal(t, "OrangePi-Setup", d.HotspotSSID)
	assert.Equal(t, "10.0.0.2", d.IPAddress)
	assert.Equal(t, "abc1234", d.Version)
	assert.Equal(t, 3000, d.Port)
	assert.Equal(t, "Saved", d.Message)
	assert.Equal(t, "success", d.MessageType)
	assert.Equal(t, models.DefaultSettings(), d.Settings)
}

func TestIndex_TimeInDisplayTimezone(t *testing.T) {
	f := newPanelFixture()

	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	// 14:30 UTC is 07:30 in Denver in January.
	assert.Equal(t, "07:30 AM", f.panel.data.CurrentTime)
	assert.Equal(t, "America/Denver", f.panel.data.TimezoneName)
}

func TestIndex_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	f := newPanelFixture()
	f.store.Doc[models.SectionDisplay].(map[string]any)["timezone"] = "Mars/Olympus"

	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "02:30 PM", f.panel.data.CurrentTime)
	assert.Equal(t, "UTC", f.panel.data.TimezoneName)
}

func TestIndex_UnknownFlashTypeBecomesInfo(t *testing.T) {
	f := newPanelFixture()

	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/?message=hi&type=bogus", nil))

	assert.Equal(t, "info", f.panel.data.MessageType)
}

func TestIndex_CachesSlowDeviceChecks(t *testing.T) {
	f := newPanelFixture()

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, 1, f.system.ScanCalls)
	assert.Equal(t, 1, f.system.UpdateChecks)
	assert.Equal(t, 3, f.panel.calls)
}

func TestIndex_DeviceChecksShareCommandTimeout(t *testing.T) {
	f := newPanelFixture()
	f.ctrl.conf.System.CommandTimeout = 20 * time.Millisecond

	var deadline time.Time
	var hasDeadline bool
	f.system.OnScan = func(ctx context.Context) {
		deadline, hasDeadline = ctx.Deadline()
		<-ctx.Done()
	}

	start := time.Now()
	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(20*time.Millisecond), deadline, 15*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)

	_, cached := f.cache.Get(cacheKeyNetworks)
	assert.False(t, cached, "scan that ran out of time must not be cached")

	f.system.OnScan = nil
	f.ctrl.Index(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 2, f.system.ScanCalls)
}

func TestIndex_RenderError(t *testing.T) {
	f := newPanelFixture()
	f.panel.err = errors.New("boom")

	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestIndex_WithRealTemplate(t *testing.T) {
	f := newPanelFixture()
	panel, err := views.NewPanel()
	require.NoError(t, err)
	f.ctrl.panel = panel

	rr := httptest.NewRecorder()
	f.ctrl.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/save/display"`)
	assert.Contains(t, rr.Body.String(), `data-ssid="Home"`)
}

// --- GetConfig ---

func TestGetConfig_ReturnsDocument(t *testing.T) {
	f := newPanelFixture()
	f.store.Doc["experimental"] = map[string]any{"x": 1}

	rr := httptest.NewRecorder()
	f.ctrl.GetConfig(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, map[string]any{"x": float64(1)}, doc["experimental"])
	assert.Equal(t, "America/Denver", doc["display"].(map[string]any)["timezone"])
}

// --- SaveSection ---

func TestSaveSection_Display(t *testing.T) {
	f := newPanelFixture()
	form := url.Values{
		"timezone":                 {"America/Chicago"},
		"day_mode_start":           {"5"},
		"day_mode_end":             {"21"},
		"motivational_hours_start": {"8"},
		"motivational_hours_end":   {" 11 "},
	}

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("display", form))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "Display settings saved!", msg)
	assert.Equal(t, "success", kind)
	assert.Equal(t, map[string]any{
		"timezone":                 "America/Chicago",
		"day_mode_start":           5,
		"day_mode_end":             21,
		"motivational_hours_start": 8,
		"motivational_hours_end":   11,
	}, f.store.Doc[models.SectionDisplay])
}

func TestSaveSection_NightscoutLeavesOtherSections(t *testing.T) {
	f := newPanelFixture()
	before := f.store.Load()

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("nightscout", url.Values{"url": {" https://ns.example.com "}, "api_secret": {"token"}}))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "Nightscout settings saved!", msg)
	assert.Equal(t, "success", kind)
	assert.Equal(t, map[string]any{"url": "https://ns.example.com", "api_secret": "token"}, f.store.Doc[models.SectionNightscout])
	for _, name := range []string{models.SectionSupabase, models.SectionDisplay, models.SectionSystem} {
		assert.Equal(t, before[name], f.store.Doc[name], name)
	}
}

func TestSaveSection_SupabaseTableDefaults(t *testing.T) {
	f := newPanelFixture()

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("supabase", url.Values{"url": {"https://x.supabase.co"}, "anon_key": {"k"}}))

	_, kind := flashFrom(t, rr)
	assert.Equal(t, "success", kind)
	section := f.store.Doc[models.SectionSupabase].(map[string]any)
	assert.Equal(t, "reminders", section["reminders_table"])
	assert.Equal(t, "motivational_messages", section["motivational_table"])
}

func TestSaveSection_System(t *testing.T) {
	f := newPanelFixture()

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("system", url.Values{"auto_update": {"false"}, "update_time": {"03:15"}, "hostname": {"kitchen"}}))

	_, kind := flashFrom(t, rr)
	assert.Equal(t, "success", kind)
	assert.Equal(t, map[string]any{"auto_update": false, "update_time": "03:15", "hostname": "kitchen"}, f.store.Doc[models.SectionSystem])
}

func TestSaveSection_InvalidInputDoesNotSave(t *testing.T) {
	tests := []struct {
		name    string
		section string
		form    url.Values
	}{
		{"hour out of range", "display", url.Values{"day_mode_start": {"24"}}},
		{"negative hour", "display", url.Values{"day_mode_end": {"-1"}}},
		{"hour not a number", "display", url.Values{"day_mode_start": {"six"}}},
		{"unknown timezone", "display", url.Values{"timezone": {"Nowhere/City"}}},
		{"bad update time", "system", url.Values{"update_time": {"7am"}}},
		{"bad auto update", "system", url.Values{"auto_update": {"maybe"}}},
		{"bad nightscout url", "nightscout", url.Values{"url": {"not a url"}}},
		{"bad supabase url", "supabase", url.Values{"url": {"ftp//x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPanelFixture()

			rr := httptest.NewRecorder()
			f.ctrl.SaveSection(rr, postForm(tt.section, tt.form))

			msg, kind := flashFrom(t, rr)
			assert.Equal(t, "error", kind)
			assert.NotEmpty(t, msg)
			assert.Empty(t, f.store.Saved)
		})
	}
}

func TestSaveSection_UnknownSection(t *testing.T) {
	f := newPanelFixture()

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("wifi", url.Values{"x": {"1"}}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, f.store.Saved)
}

func TestSaveSection_StoreFailure(t *testing.T) {
	f := newPanelFixture()
	f.store.SaveErr = errors.New("read-only file system")

	rr := httptest.NewRecorder()
	f.ctrl.SaveSection(rr, postForm("nightscout", url.Values{"url": {"https://ns.example.com"}}))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "Error saving settings", msg)
	assert.Equal(t, "error", kind)
}

// --- SaveAutoUpdate ---

func TestSaveAutoUpdate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"disable", `{"enabled":false}`, false},
		{"enable", `{"enabled":true}`, true},
		{"missing defaults to true", `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPanelFixture()
			f.store.Doc[models.SectionSystem].(map[string]any)["auto_update"] = !tt.expected

			req := httptest.NewRequest(http.MethodPost, "/save/auto-update", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			f.ctrl.SaveAutoUpdate(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"success":true}`, rr.Body.String())
			assert.Equal(t, tt.expected, f.store.Doc[models.SectionSystem].(map[string]any)["auto_update"])
		})
	}
}

func TestSaveAutoUpdate_InvalidJSON(t *testing.T) {
	f := newPanelFixture()

	req := httptest.NewRequest(http.MethodPost, "/save/auto-update", strings.NewReader(`{`))
	rr := httptest.NewRecorder()
	f.ctrl.SaveAutoUpdate(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.store.Saved)
}

func TestSaveAutoUpdate_StoreFailure(t *testing.T) {
	f := newPanelFixture()
	f.store.SaveErr = errors.New("disk full")

	req := httptest.NewRequest(http.MethodPost, "/save/auto-update", strings.NewReader(`{"enabled":false}`))
	rr := httptest.NewRecorder()
	f.ctrl.SaveAutoUpdate(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error saving settings"}`, rr.Body.String())
}
