package output

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
	"github.com/intelcon-group/gt06-gateway/internal/report"
)

type stubInputSource struct{ name string }

func (s stubInputSource) Name() string                          { return s.name }
func (s stubInputSource) StartWorker(ctx context.Context)        {}
func (s stubInputSource) HandleCommand(deviceID, command string) {}

type stubSender struct {
	deviceID, inputSourceName, outputProtocol, packetType string
	data                                                  []byte
	err                                                    error
}

func (s *stubSender) Send(deviceID, inputSourceName, outputProtocol string, data []byte, packetType string) error {
	s.deviceID, s.inputSourceName, s.outputProtocol, s.packetType, s.data = deviceID, inputSourceName, outputProtocol, packetType, data
	return s.err
}

func TestProcessor_Forward_DefaultsProtocolAndPersistsIt(t *testing.T) {
	store := devicestate.NewMemoryStore()
	builders := NewRegistry()
	RegisterGT06(builders, 0xA0)
	sender := &stubSender{}

	p := NewProcessor(store, builders, sender, "gt06", logging.New())
	p.Forward(context.Background(), "dev1", report.Location{Latitude: -23.55, Longitude: -46.63}, stubInputSource{name: "mt02"}, "")

	assert.Equal(t, "dev1", sender.deviceID)
	assert.Equal(t, "gt06", sender.outputProtocol)
	assert.Equal(t, "location", sender.packetType)
	assert.NotEmpty(t, sender.data)

	protocol, ok, err := store.HGet(context.Background(), "device:dev1", "output_protocol")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gt06", protocol)
}

func TestProcessor_Forward_UsesPersistedProtocolOverDefault(t *testing.T) {
	store := devicestate.NewMemoryStore()
	require.NoError(t, store.HSet(context.Background(), "device:dev1", "output_protocol", "gt06"))
	builders := NewRegistry()
	RegisterGT06(builders, 0xA0)
	sender := &stubSender{}

	p := NewProcessor(store, builders, sender, "other-default", logging.New())
	p.Forward(context.Background(), "dev1", report.Location{Latitude: -23.55, Longitude: -46.63}, stubInputSource{name: "mt02"}, "")

	assert.Equal(t, "gt06", sender.outputProtocol)
}

func TestProcessor_Forward_UnknownProtocolDropsSilently(t *testing.T) {
	store := devicestate.NewMemoryStore()
	builders := NewRegistry()
	sender := &stubSender{}

	p := NewProcessor(store, builders, sender, "nonexistent", logging.New())
	p.Forward(context.Background(), "dev1", report.Location{Latitude: -23.55, Longitude: -46.63}, stubInputSource{name: "mt02"}, "")

	assert.Empty(t, sender.deviceID)
}

func TestHexOrASCII_FallsBackToRawStringWithoutRenderLog(t *testing.T) {
	assert.Equal(t, "ab", hexOrASCII(ProtocolBuilders{}, []byte("ab")))
}
