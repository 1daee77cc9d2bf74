package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/output"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
)

type stubSource struct{ name string }

func (s stubSource) Name() string                          { return s.name }
func (s stubSource) StartWorker(ctx context.Context)        {}
func (s stubSource) HandleCommand(deviceID, command string) {}

func newTestManager() *Manager {
	builders := output.NewRegistry()
	output.RegisterGT06(builders, 0xA0)
	sources := registry.New()
	sources.Register(stubSource{name: "mt02"})
	return NewManager(map[string]string{}, builders, devicestate.NewMemoryStore(), sources, logging.New())
}

func TestManager_GetOrCreate_ReturnsSameSessionForSameDevice(t *testing.T) {
	m := newTestManager()

	s1, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)
	s2, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
}

func TestManager_GetOrCreate_UnknownInputSourceErrors(t *testing.T) {
	m := newTestManager()
	_, err := m.GetOrCreate("dev1", "unknown", "gt06")
	assert.Error(t, err)
}

func TestManager_Exists_FalseBeforeConnect(t *testing.T) {
	m := newTestManager()
	_, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)

	assert.False(t, m.Exists("dev1"))
}

func TestManager_Exists_UnknownDeviceIsFalse(t *testing.T) {
	m := newTestManager()
	assert.False(t, m.Exists("never-created"))
}

func TestManager_Remove_DropsSessionFromMap(t *testing.T) {
	m := newTestManager()
	s1, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)

	m.Remove("dev1")

	s2, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)
	assert.NotSame(t, s1, s2)
}

func TestManager_SetEventSink_PropagatesToNewSessions(t *testing.T) {
	m := newTestManager()
	sink := &recordingSink{}
	m.SetEventSink(sink)

	s, err := m.GetOrCreate("dev1", "mt02", "gt06")
	require.NoError(t, err)
	assert.Same(t, sink, s.sink)
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) SessionEvent(deviceID, event string) {
	r.events = append(r.events, deviceID+":"+event)
}
