package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseByte_HexWithPrefix(t *testing.T) {
	v, err := parseByte("0xA0")
	assert.NoError(t, err)
	assert.Equal(t, byte(0xA0), v)
}

func TestParseByte_RejectsGarbage(t *testing.T) {
	_, err := parseByte("not-hex")
	assert.Error(t, err)
}

func TestParseHostMap_ParsesCommaSeparatedPairs(t *testing.T) {
	m := parseHostMap("gt06=10.0.0.1:5023,other=10.0.0.2:5024")
	assert.Equal(t, map[string]string{"gt06": "10.0.0.1:5023", "other": "10.0.0.2:5024"}, m)
}

func TestParseHostMap_EmptyStringYieldsEmptyMap(t *testing.T) {
	assert.Empty(t, parseHostMap(""))
}

func TestGetEnv_FallsBackWhenUnset(t *testing.T) {
	t.Setenv("GATEWAY_TEST_KEY", "")
	assert.Equal(t, "fallback", getEnv("GATEWAY_TEST_KEY_UNSET", "fallback"))
}

func TestGetEnvInt_ParsesOrFallsBack(t *testing.T) {
	t.Setenv("GATEWAY_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("GATEWAY_TEST_INT", 0))
	assert.Equal(t, 7, getEnvInt("GATEWAY_TEST_INT_UNSET", 7))
}

func TestLoad_AppliesDefaultsWithoutEnv(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "gt06", cfg.DefaultOutputProtocol)
	assert.Equal(t, byte(0xA0), cfg.GT06LocationProtocolNumber)
}
