package services

import (
	"context"
	"dashcfg/internal/providers"
	"strings"
	"sync"
)

// --- local mocks (scoped to services tests) ---

type mockLogger struct {
	mu    sync.Mutex
	types []providers.TypeEnum
}

func (m *mockLogger) record(t providers.TypeEnum) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types = append(m.types, t)
}

func (m *mockLogger) Errorf(t providers.TypeEnum, _ string, _ ...interface{}) { m.record(t) }
func (m *mockLogger) Warnf(t providers.TypeEnum, _ string, _ ...interface{})  { m.record(t) }
func (m *mockLogger) Debugf(t providers.TypeEnum, _ string, _ ...interface{}) { m.record(t) }
func (m *mockLogger) Infof(t providers.TypeEnum, _ string, _ ...interface{})  { m.record(t) }
func (m *mockLogger) Fatalf(t providers.TypeEnum, _ string, _ ...interface{}) { m.record(t) }
func (m *mockLogger) Close()                                                  {}

// fakeRunner answers commands by their joined argv and records every call.
type fakeRunner struct {
	responses map[string]Result
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]Result)}
}

func (f *fakeRunner) on(cmd string, res Result) *fakeRunner {
	f.responses[cmd] = res
	return f
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) Result {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)
	if res, ok := f.responses[cmd]; ok {
		return res
	}
	return Result{Success: false, Message: "unexpected command: " + cmd}
}
