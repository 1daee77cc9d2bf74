package gt06

var (
	startShort    = []byte{0x78, 0x78}
	startExtended = []byte{0x79, 0x79}
	trailer       = []byte{0x0D, 0x0A}
)

// wrapShort builds a full 78 78 frame from a body that already begins
// with the 1-byte length and ends with protocol+payload+serial, i.e.
// everything the CRC is computed over.
func wrapShort(lengthAndPayload []byte) []byte {
	crc := CalculateCRC(lengthAndPayload)
	out := make([]byte, 0, 2+len(lengthAndPayload)+2+2)
	out = append(out, startShort...)
	out = append(out, lengthAndPayload...)
	out = append(out, byte(crc>>8), byte(crc))
	out = append(out, trailer...)
	return out
}

// wrapExtended builds a full 79 79 frame; lengthAndPayload begins with
// the 2-byte big-endian length.
func wrapExtended(lengthAndPayload []byte) []byte {
	crc := CalculateCRC(lengthAndPayload)
	out := make([]byte, 0, 2+len(lengthAndPayload)+2+2)
	out = append(out, startExtended...)
	out = append(out, lengthAndPayload...)
	out = append(out, byte(crc>>8), byte(crc))
	out = append(out, trailer...)
	return out
}

func putUint16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func putUint24(v uint32) []byte { return []byte{byte(v >> 16), byte(v >> 8), byte(v)} }
func putUint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
func putUint64(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}
