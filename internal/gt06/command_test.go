package gt06

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildCommandFrame assembles a minimal 78 78 command frame carrying
// content at the fixed byte-9 offset the decoder expects, with LEN set
// so that LEN-4 equals len(content).
func buildCommandFrame(content string) []byte {
	frame := []byte{0x78, 0x78, byte(len(content) + 4), 0x80, 0x00, 0x00, 0x00, 0x00, 0x00}
	frame = append(frame, []byte(content)...)
	frame = append(frame, 0x00, 0x01, 0xAA, 0xBB, 0x0D, 0x0A)
	return frame
}

func TestDecodeCommand_Table(t *testing.T) {
	cases := map[string]string{
		"RELAY,1#":           "OUTPUT ON",
		"DYD,000000#":        "OUTPUT ON",
		"RELAY,0#":           "OUTPUT OFF",
		"HFYD,000000#":       "OUTPUT OFF",
		"GPRS,GET,LOCATION#": "PING",
	}
	for content, want := range cases {
		got, ok := DecodeCommand(buildCommandFrame(content))
		assert.True(t, ok, content)
		assert.Equal(t, want, got, content)
	}
}

func TestDecodeCommand_Mileage(t *testing.T) {
	got, ok := DecodeCommand(buildCommandFrame("MILEAGE ON,1234#"))
	assert.True(t, ok)
	assert.Equal(t, "HODOMETRO:1234000", got)
}

func TestDecodeCommand_MileageNonNumeric(t *testing.T) {
	_, ok := DecodeCommand(buildCommandFrame("MILEAGE ON,abc#"))
	assert.False(t, ok)
}

func TestDecodeCommand_UnknownString(t *testing.T) {
	_, ok := DecodeCommand(buildCommandFrame("SOMETHING,ELSE#"))
	assert.False(t, ok)
}

func TestDecodeCommand_TooShortFrame(t *testing.T) {
	_, ok := DecodeCommand([]byte{0x78, 0x78})
	assert.False(t, ok)
}
