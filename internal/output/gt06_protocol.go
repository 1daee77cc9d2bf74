package output

import (
	"encoding/hex"

	"github.com/intelcon-group/gt06-gateway/internal/gt06"
	"github.com/intelcon-group/gt06-gateway/internal/report"
)

// RegisterGT06 registers the "gt06" protocol's builder set. locationProtocolNumber
// selects which location variant (0x12, 0x22, 0x32, 0xA0) BuildLocation
// encodes, per GT06_LOCATION_PACKET_PROTOCOL_NUMBER.
func RegisterGT06(r *Registry, locationProtocolNumber byte) {
	r.Register("gt06", ProtocolBuilders{
		Login: func(deviceID string, _ report.Location, serial uint16) ([]byte, error) {
			return gt06.BuildLogin(deviceID, serial)
		},
		Heartbeat: func(_ string, _ report.Location, serial uint16) ([]byte, error) {
			// The downstream platform only needs a live heartbeat, not an
			// accurate ACC reading; the source hardcodes acc_status=1 here.
			return gt06.BuildHeartbeat(true, serial), nil
		},
		Location: func(_ string, l report.Location, serial uint16) ([]byte, error) {
			return gt06.BuildLocation(l, locationProtocolNumber, serial)
		},
		VoltageInfo: func(_ string, l report.Location, serial uint16) ([]byte, error) {
			return gt06.BuildVoltageInfo(l.Voltage, serial), nil
		},
		CommandMapper:          gt06.DecodeCommand,
		RenderLog:              func(packet []byte) string { return hex.EncodeToString(packet) },
		RequiresLoginHandshake: true,
	})
}
