package controllers

import (
	"dashcfg/internal/services"
	"dashcfg/internal/testutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actionFixture struct {
	system  *testutil.MockSystemService
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
	ctrl    *ActionController
}

func newActionFixture() *actionFixture {
	f := &actionFixture{
		system:  testutil.NewMockSystemService(),
		cache:   testutil.NewMockCache(),
		metrics: testutil.NewMockMetrics(),
	}
	f.cache.Set(cacheKeyNetworks, []byte(`[]`))
	f.cache.Set(cacheKeyUpdates, []byte(`true`))
	f.ctrl = NewActionController(&testutil.MockLogger{}, f.system, f.cache, f.metrics)
	return f
}

func wifiRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/wifi/connect", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestWifiConnect_Success(t *testing.T) {
	f := newActionFixture()

	rr := httptest.NewRecorder()
	f.ctrl.WifiConnect(rr, wifiRequest(url.Values{"ssid": {"Cafe"}, "password": {"secret"}}))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "Connected to Cafe!", msg)
	assert.Equal(t, "success", kind)
	assert.Equal(t, []string{"connect:Cafe"}, f.system.Calls)
	assert.Equal(t, 1, f.metrics.Actions["wifi_connect"][true])

	_, cached := f.cache.Get(cacheKeyNetworks)
	assert.False(t, cached)
}

func TestWifiConnect_Failure(t *testing.T) {
	f := newActionFixture()
	f.system.ConnectResult = services.Result{Success: false, Message: "Error: Secrets were required.\n"}

	rr := httptest.NewRecorder()
	f.ctrl.WifiConnect(rr, wifiRequest(url.Values{"ssid": {"Cafe"}}))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "Failed to connect: Error: Secrets were required.", msg)
	assert.Equal(t, "error", kind)
	assert.Equal(t, 1, f.metrics.Actions["wifi_connect"][false])
}

func TestWifiConnect_NoNetworkSelected(t *testing.T) {
	f := newActionFixture()

	rr := httptest.NewRecorder()
	f.ctrl.WifiConnect(rr, wifiRequest(url.Values{"password": {"secret"}}))

	msg, kind := flashFrom(t, rr)
	assert.Equal(t, "No network selected", msg)
	assert.Equal(t, "error", kind)
	assert.Empty(t, f.system.Calls)
}

func TestHotspot(t *testing.T) {
	tests := []struct {
		action string
		call   string
	}{
		{"enable", "hotspot:on"},
		{"disable", "hotspot:off"},
		{"anything", "hotspot:off"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			f := newActionFixture()
			req := httptest.NewRequest(http.MethodPost, "/hotspot/"+tt.action, nil)
			req.SetPathValue("action", tt.action)

			rr := httptest.NewRecorder()
			f.ctrl.Hotspot(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"success":true}`, rr.Body.String())
			assert.Equal(t, []string{tt.call}, f.system.Calls)
			assert.Equal(t, 1, f.metrics.Actions["hotspot"][true])
		})
	}
}

func TestUpdate_SuccessRestartsDisplay(t *testing.T) {
	f := newActionFixture()
	f.system.PullResult = services.Result{Success: true, Message: "Fast-forward"}

	rr := httptest.NewRecorder()
	f.ctrl.Update(rr, httptest.NewRequest(http.MethodPost, "/update", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Fast-forward"}`, rr.Body.String())
	assert.Equal(t, []string{"pull", "restart"}, f.system.Calls)
	assert.Equal(t, 1, f.metrics.Actions["update"][true])
	assert.Equal(t, 1, f.metrics.Actions["restart_display"][true])

	_, cached := f.cache.Get(cacheKeyUpdates)
	assert.False(t, cached)
}

func TestUpdate_FailureSkipsRestart(t *testing.T) {
	f := newActionFixture()
	f.system.PullResult = services.Result{Success: false, Message: "merge conflict"}

	rr := httptest.NewRecorder()
	f.ctrl.Update(rr, httptest.NewRequest(http.MethodPost, "/update", nil))

	assert.JSONEq(t, `{"success":false,"message":"merge conflict"}`, rr.Body.String())
	assert.Equal(t, []string{"pull"}, f.system.Calls)

	_, cached := f.cache.Get(cacheKeyUpdates)
	assert.True(t, cached)
}

func TestRestartDisplay(t *testing.T) {
	f := newActionFixture()

	rr := httptest.NewRecorder()
	f.ctrl.RestartDisplay(rr, httptest.NewRequest(http.MethodPost, "/restart-display", nil))

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Display restarting..."}`, rr.Body.String())
	require.Equal(t, []string{"restart"}, f.system.Calls)
}

func TestReboot(t *testing.T) {
	f := newActionFixture()
	f.system.RebootResult = services.Result{Success: false, Message: "sudo: a password is required"}

	rr := httptest.NewRecorder()
	f.ctrl.Reboot(rr, httptest.NewRequest(http.MethodPost, "/reboot", nil))

	assert.JSONEq(t, `{"success":false,"message":"sudo: a password is required"}`, rr.Body.String())
	assert.Equal(t, 1, f.metrics.Actions["reboot"][false])
}
