package gt06

import "math"

// BuildVoltageInfo builds an extended-framing (79 79) protocol 0x94
// sub-protocol 0x00 packet carrying the external voltage reading, sent
// immediately before a location packet per the session's pre-send
// policy.
func BuildVoltageInfo(voltage float64, serial uint16) []byte {
	voltageRaw := uint16(math.Round(voltage * 100))

	body := []byte{ProtocolVoltageInfo, voltageInfoSubProtocol}
	body = append(body, putUint16(voltageRaw)...)
	body = append(body, putUint16(serial)...)

	lengthAndPayload := make([]byte, 0, 2+len(body))
	lengthAndPayload = append(lengthAndPayload, putUint16(uint16(len(body)+2))...)
	lengthAndPayload = append(lengthAndPayload, body...)

	return wrapExtended(lengthAndPayload)
}
