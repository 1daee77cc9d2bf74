package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelcon-group/gt06-gateway/internal/report"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("gt06", ProtocolBuilders{RequiresLoginHandshake: true})

	builders, ok := r.Get("gt06")
	require.True(t, ok)
	assert.True(t, builders.RequiresLoginHandshake)
}

func TestRegistry_GetUnknownProtocol(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestBuilderFor_DispatchesByPacketType(t *testing.T) {
	login := func(string, report.Location, uint16) ([]byte, error) { return []byte("login"), nil }
	heartbeat := func(string, report.Location, uint16) ([]byte, error) { return []byte("hb"), nil }
	location := func(string, report.Location, uint16) ([]byte, error) { return []byte("loc"), nil }
	info := func(string, report.Location, uint16) ([]byte, error) { return []byte("info"), nil }

	b := ProtocolBuilders{Login: login, Heartbeat: heartbeat, Location: location, VoltageInfo: info}

	cases := map[string]string{"login": "login", "heartbeat": "hb", "info": "info", "location": "loc", "": "loc"}
	for packetType, want := range cases {
		builder := builderFor(b, packetType)
		require.NotNil(t, builder)
		got, err := builder("dev1", report.Location{}, 0)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}
