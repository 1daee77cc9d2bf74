// Package output is the Output Processor facade (C6): it resolves a
// device's output protocol, builds the protocol-specific packet for a
// location report, and delegates the write to the sessions manager.
package output

import "github.com/intelcon-group/gt06-gateway/internal/report"

// PacketBuilder builds one packet kind for one protocol. Every kind
// (login, heartbeat, location, voltage-info) shares this signature —
// building blocks that don't need the location report simply ignore
// it — so the registry can hold them uniformly and bootstrap code can
// register a whole protocol in one call.
type PacketBuilder func(deviceID string, l report.Location, serial uint16) ([]byte, error)

// CommandMapper decodes a server-originated inbound frame into a
// universal command string.
type CommandMapper func(frame []byte) (string, bool)

// RenderLog renders a packet for human-readable logging (hex for
// binary protocols, ASCII for text-based ones).
type RenderLog func(packet []byte) string

// ProtocolBuilders bundles everything one output protocol needs.
type ProtocolBuilders struct {
	Login         PacketBuilder
	Heartbeat     PacketBuilder
	Location      PacketBuilder
	VoltageInfo   PacketBuilder
	CommandMapper CommandMapper
	RenderLog     RenderLog
	// RequiresLoginHandshake marks protocols (GT06) whose session must
	// wait for an inbound byte from the server before any non-login
	// packet is sent, and that send a voltage packet ahead of every
	// location packet.
	RequiresLoginHandshake bool
}

// Registry holds the ProtocolBuilders for every registered output
// protocol. Only "gt06" is registered in this revision; the registry
// itself accommodates further protocols without a surface change.
type Registry struct {
	protocols map[string]ProtocolBuilders
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{protocols: make(map[string]ProtocolBuilders)}
}

// Register adds the builder set for protocol.
func (r *Registry) Register(protocol string, builders ProtocolBuilders) {
	r.protocols[protocol] = builders
}

// Get returns the builder set registered for protocol.
func (r *Registry) Get(protocol string) (ProtocolBuilders, bool) {
	b, ok := r.protocols[protocol]
	return b, ok
}
