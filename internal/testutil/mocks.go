package testutil

import (
	"context"
	"dashcfg/internal/models"
	"dashcfg/internal/providers"
	"dashcfg/internal/services"
	"dashcfg/internal/settings/interfaces"
	"errors"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// saves and actions.
type MockMetrics struct {
	mu      sync.Mutex
	Saves   map[bool]int
	Actions map[string]map[bool]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Saves:   make(map[bool]int),
		Actions: make(map[string]map[bool]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string)                            {}
func (m *MockMetrics) IncCacheMisses(_ string)                          {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) IncSettingsSaves(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves[ok]++
}

func (m *MockMetrics) IncActionsTotal(action string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Actions[action] == nil {
		m.Actions[action] = make(map[bool]int)
	}
	m.Actions[action][ok]++
}

// MockStore implements interfaces.StoreInterface in memory.
type MockStore struct {
	mu       sync.Mutex
	Doc      models.Document
	SaveErr  error
	Saved    []models.Document
	FilePath string
	Present  bool
}

var _ interfaces.StoreInterface = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{Doc: models.DefaultDocument(), FilePath: "/tmp/dashboard/config.json"}
}

func (m *MockStore) Load() models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneValue(map[string]any(m.Doc)).(map[string]any)
}

func (m *MockStore) Save(doc models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Doc = models.CloneValue(map[string]any(doc)).(map[string]any)
	m.Saved = append(m.Saved, m.Doc)
	return nil
}

func (m *MockStore) UpdateSection(doc models.Document, section string, fields map[string]any) {
	target, ok := doc[section].(map[string]any)
	if !ok {
		target = make(map[string]any, len(fields))
		doc[section] = target
	}
	for k, v := range fields {
		target[k] = v
	}
}

func (m *MockStore) Path() string { return m.FilePath }

func (m *MockStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Present || len(m.Saved) > 0
}

// MockSystemService implements services.SystemServiceInterface with
// settable answers and a log of the actions invoked.
type MockSystemService struct {
	mu sync.Mutex

	Networks      []models.Network
	Current       string
	Hotspot       bool
	IP            string
	Host          string
	Ver           string
	Updates       bool
	ConnectResult services.Result
	HotspotResult services.Result
	PullResult    services.Result
	RestartResult services.Result
	RebootResult  services.Result

	// OnScan, when set, runs inside ScanNetworks with the caller's context.
	OnScan func(ctx context.Context)

	ScanCalls    int
	UpdateChecks int
	Calls        []string
}

func NewMockSystemService() *MockSystemService {
	ok := services.Result{Success: true}
	return &MockSystemService{
		Networks:      []models.Network{{SSID: "Home", Signal: 70}},
		Current:       "Home",
		IP:            "10.0.0.2",
		Host:          "orangepi",
		Ver:           "abc1234",
		ConnectResult: ok,
		HotspotResult: ok,
		PullResult:    ok,
		RestartResult: services.Result{Success: true, Message: "Display restarting..."},
		RebootResult:  ok,
	}
}

func (m *MockSystemService) call(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

func (m *MockSystemService) ScanNetworks(ctx context.Context) []models.Network {
	if m.OnScan != nil {
		m.OnScan(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScanCalls++
	return m.Networks
}

func (m *MockSystemService) CurrentNetwork(_ context.Context) string { return m.Current }

func (m *MockSystemService) ConnectNetwork(_ context.Context, ssid, _ string) services.Result {
	m.call("connect:" + ssid)
	return m.ConnectResult
}

func (m *MockSystemService) HotspotActive(_ context.Context) bool { return m.Hotspot }

func (m *MockSystemService) SetHotspot(_ context.Context, enable bool) services.Result {
	if enable {
		m.call("hotspot:on")
	} else {
		m.call("hotspot:off")
	}
	return m.HotspotResult
}

func (m *MockSystemService) IPAddress(_ context.Context) string { return m.IP }
func (m *MockSystemService) Hostname(_ context.Context) string  { return m.Host }
func (m *MockSystemService) Version(_ context.Context) string   { return m.Ver }

func (m *MockSystemService) UpdatesAvailable(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateChecks++
	return m.Updates
}

func (m *MockSystemService) PullUpdate(_ context.Context) services.Result {
	m.call("pull")
	return m.PullResult
}

func (m *MockSystemService) RestartDisplay(_ context.Context) services.Result {
	m.call("restart")
	return m.RestartResult
}

func (m *MockSystemService) Reboot(_ context.Context) services.Result {
	m.call("reboot")
	return m.RebootResult
}

// MockNightscout implements services.NightscoutServiceInterface.
type MockNightscout struct {
	Body      []byte
	Err       error
	StatusErr error

	LastURL    string
	LastSecret string
	LastCount  string
}

var ErrUpstream = errors.New("upstream unavailable")

func (m *MockNightscout) Entries(_ context.Context, baseURL, secret, count string) ([]byte, error) {
	m.LastURL, m.LastSecret, m.LastCount = baseURL, secret, count
	return m.Body, m.Err
}

func (m *MockNightscout) CheckStatus(_ context.Context, baseURL string) error {
	m.LastURL = baseURL
	return m.StatusErr
}
