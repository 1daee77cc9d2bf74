package gt06

// BuildHeartbeat builds a GT06 heartbeat frame (protocol 0x13) with the
// fixed voltage/GSM/alarm/language fields the downstream platform
// expects, and terminal_info encoding accStatus.
func BuildHeartbeat(accStatus bool, serial uint16) []byte {
	const (
		lastOutputStatus = 0
		voltageLevel     = 0x06
		gsmSignal        = 0x04
		alarm            = 0x00
		language         = 0x02
	)

	acc := byte(0)
	if accStatus {
		acc = 1
	}
	terminalInfo := byte(lastOutputStatus<<7) | (1 << 6) | (1 << 2) | (acc << 1) | 1

	content := []byte{ProtocolHeartbeat, terminalInfo, voltageLevel, gsmSignal, alarm, language}
	content = append(content, putUint16(serial)...)

	lengthAndPayload := make([]byte, 0, 1+len(content))
	lengthAndPayload = append(lengthAndPayload, byte(len(content)+2))
	lengthAndPayload = append(lengthAndPayload, content...)

	return wrapShort(lengthAndPayload)
}
