package gt06

// BuildLogin builds a GT06 login frame (protocol 0x01) for deviceID,
// a full 20-digit or shorter identifier that is normalized to its
// last 15 digits before BCD encoding.
func BuildLogin(deviceID string, serial uint16) ([]byte, error) {
	bcd, err := IMEIToBCD(OutputDeviceID(deviceID))
	if err != nil {
		return nil, err
	}

	content := make([]byte, 0, 1+8+2)
	content = append(content, ProtocolLogin)
	content = append(content, bcd...)
	content = append(content, putUint16(serial)...)

	// length = protocol(1) + imei(8) + serial(2) + crc(2)
	lengthAndPayload := make([]byte, 0, 1+len(content))
	lengthAndPayload = append(lengthAndPayload, byte(len(content)+2))
	lengthAndPayload = append(lengthAndPayload, content...)

	return wrapShort(lengthAndPayload), nil
}
