package gt06

import (
	"math"

	"github.com/intelcon-group/gt06-gateway/internal/report"
)

// locationSuffix renders the LBS + status + odometer + voltage suffix
// appended after the shared location prefix, one implementation per
// protocol variant. Tabularizing these as a registry (rather than a
// hand-written branch per protocol number in the builder) is the
// REDESIGN called for in the spec this codec implements.
type locationSuffix func(l report.Location) []byte

var locationSuffixes = map[byte]locationSuffix{
	ProtocolLocation12: suffix12,
	ProtocolLocation22: suffix22,
	ProtocolLocation32: suffix32,
	ProtocolLocationA0: suffixA0,
}

func accStatusByte(l report.Location) byte {
	if l.AccStatus {
		return 1
	}
	return 0
}

func suffix12(l report.Location) []byte {
	var out []byte
	out = append(out, putUint16(0)...) // mcc
	out = append(out, 0)               // mnc (u8)
	out = append(out, putUint16(0)...) // lac
	out = append(out, putUint24(0)...) // cell_id
	return out
}

func suffix22(l report.Location) []byte {
	var out []byte
	out = append(out, putUint16(0)...) // mcc
	out = append(out, 0)               // mnc (u8)
	out = append(out, putUint16(0)...) // lac
	out = append(out, putUint24(0)...) // cell_id
	out = append(out, accStatusByte(l))
	out = append(out, 0x00) // data_upload
	out = append(out, 0x00) // realtime_flag
	out = append(out, putUint32(l.GPSOdometer)...)
	return out
}

func suffix32(l report.Location) []byte {
	var out []byte
	out = append(out, putUint16(0)...) // mcc
	out = append(out, 0)               // mnc (u8)
	out = append(out, putUint16(0)...) // lac
	out = append(out, putUint32(0)...) // cell_id
	out = append(out, accStatusByte(l))
	out = append(out, 0x00)
	out = append(out, 0x00)
	out = append(out, putUint32(l.GPSOdometer)...)
	out = append(out, putUint16(uint16(math.Round(l.Voltage*100)))...)
	out = append(out, make([]byte, 6)...) // reserved
	return out
}

func suffixA0(l report.Location) []byte {
	var out []byte
	out = append(out, putUint16(0)...) // mcc
	out = append(out, putUint16(0)...) // mnc (u16)
	out = append(out, putUint32(0)...) // lac (u32)
	out = append(out, putUint64(0)...) // cell_id (u64)
	out = append(out, accStatusByte(l))
	out = append(out, 0x00)
	out = append(out, 0x00)
	out = append(out, putUint32(l.GPSOdometer)...)
	out = append(out, putUint16(uint16(math.Round(l.Voltage*100)))...)
	return out
}

// BuildLocation encodes a location report into the protocol variant
// selected by protocolNumber (0x12, 0x22, 0x32 or 0xA0).
func BuildLocation(l report.Location, protocolNumber byte, serial uint16) ([]byte, error) {
	suffix, ok := locationSuffixes[protocolNumber]
	if !ok {
		return nil, ErrUnknownLocationVariant
	}

	year := l.Timestamp.Year() % 100
	timeBytes := []byte{
		byte(year),
		byte(l.Timestamp.Month()),
		byte(l.Timestamp.Day()),
		byte(l.Timestamp.Hour()),
		byte(l.Timestamp.Minute()),
		byte(l.Timestamp.Second()),
	}

	satellites := l.Satellites
	if satellites > 15 {
		satellites = 15
	}
	if satellites < 0 {
		satellites = 0
	}
	gpsInfo := byte(0xC0) | byte(satellites)

	latRaw := uint32(absFloat(l.Latitude) * 1800000)
	lonRaw := uint32(absFloat(l.Longitude) * 1800000)

	isLatNorth := l.Latitude >= 0
	isLonWest := l.Longitude < 0
	gpsFixed := 0
	if l.GPSFixed {
		gpsFixed = 1
	}
	lonWest := 0
	if isLonWest {
		lonWest = 1
	}
	latNorth := 0
	if isLatNorth {
		latNorth = 1
	}
	courseStatus := uint16(gpsFixed<<12) | uint16(lonWest<<11) | uint16(latNorth<<10) | uint16(l.Direction&0x3FF)

	body := make([]byte, 0, 64)
	body = append(body, timeBytes...)
	body = append(body, gpsInfo)
	body = append(body, putUint32(latRaw)...)
	body = append(body, putUint32(lonRaw)...)
	body = append(body, byte(l.SpeedKmh))
	body = append(body, putUint16(courseStatus)...)
	body = append(body, suffix(l)...)

	content := make([]byte, 0, 1+len(body)+2)
	content = append(content, protocolNumber)
	content = append(content, body...)
	content = append(content, putUint16(serial)...)

	// length = protocol(1) + body + serial(2) + crc(2), packed as u8.
	lengthAndPayload := make([]byte, 0, 1+len(content))
	lengthAndPayload = append(lengthAndPayload, byte(len(content)+2))
	lengthAndPayload = append(lengthAndPayload, content...)

	return wrapShort(lengthAndPayload), nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
