package session

import (
	"fmt"
	"sync"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/output"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
)

// Manager is the Sessions Manager (C5): a map from device ID to
// Session, guarded by its own mutex held only for map operations —
// never across a Session's own connect/send/disconnect.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	hosts    map[string]string
	builders *output.Registry
	store    devicestate.Store
	sources  *registry.Registry
	log      *logging.Logger
	sink     EventSink
}

// NewManager constructs an empty Manager.
func NewManager(hosts map[string]string, builders *output.Registry, store devicestate.Store, sources *registry.Registry, log *logging.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		hosts:    hosts,
		builders: builders,
		store:    store,
		sources:  sources,
		log:      log,
	}
}

// SetEventSink wires an EventSink that every session created from this
// point forward reports connect/disconnect transitions to. Sessions
// created before this call are unaffected — callers should set the
// sink immediately after NewManager, before any session exists.
func (m *Manager) SetEventSink(sink EventSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
}

// GetOrCreate returns the existing session for deviceID or creates one
// without connecting — connection happens lazily on the first send.
func (m *Manager) GetOrCreate(deviceID, inputSourceName, outputProtocol string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[deviceID]; ok {
		return s, nil
	}

	src, ok := m.sources.Get(inputSourceName)
	if !ok {
		return nil, fmt.Errorf("session manager: unknown input source %q", inputSourceName)
	}

	s := New(deviceID, src, outputProtocol, m.hosts, m.builders, m.store, m.log, m.sink)
	m.sessions[deviceID] = s
	return s, nil
}

// Remove disconnects and drops the session for deviceID, if any.
func (m *Manager) Remove(deviceID string) {
	m.mu.Lock()
	s, ok := m.sessions[deviceID]
	delete(m.sessions, deviceID)
	m.mu.Unlock()

	if ok {
		s.Disconnect()
	}
}

// Exists reports whether a session is present and advisorily connected.
func (m *Manager) Exists(deviceID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[deviceID]
	m.mu.Unlock()

	if !ok {
		return false
	}
	return s.Connected()
}

// DisconnectAll tears down every known session, for graceful shutdown.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Disconnect()
	}
}

// Send resolves (or creates) the session for deviceID and delegates
// the write to it.
func (m *Manager) Send(deviceID, inputSourceName, outputProtocol string, data []byte, packetType string) error {
	s, err := m.GetOrCreate(deviceID, inputSourceName, outputProtocol)
	if err != nil {
		return err
	}
	return s.SendData(data, outputProtocol, packetType)
}
