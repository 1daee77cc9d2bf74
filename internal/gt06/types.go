package gt06

import "errors"

// Protocol numbers for the frame kinds this gateway emits.
const (
	ProtocolLogin       byte = 0x01
	ProtocolHeartbeat    byte = 0x13
	ProtocolLocation12  byte = 0x12
	ProtocolLocation22  byte = 0x22
	ProtocolLocation32  byte = 0x32
	ProtocolLocationA0  byte = 0xA0
	ProtocolVoltageInfo byte = 0x94

	voltageInfoSubProtocol byte = 0x00
)

var (
	// ErrInvalidDeviceID is returned when a device identifier does not
	// reduce to exactly 15 ASCII digits.
	ErrInvalidDeviceID = errors.New("gt06: device id must be exactly 15 digits")
	// ErrUnknownLocationVariant is returned when BuildLocation is asked
	// to encode a protocol number with no registered field descriptor.
	ErrUnknownLocationVariant = errors.New("gt06: unknown location protocol variant")
)
