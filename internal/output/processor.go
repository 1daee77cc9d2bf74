package output

import (
	"context"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
	"github.com/intelcon-group/gt06-gateway/internal/report"
)

// sender is the subset of session.Manager the processor needs —
// defined here so this package doesn't import session (which itself
// imports output), avoiding a cycle.
type sender interface {
	Send(deviceID, inputSourceName, outputProtocol string, data []byte, packetType string) error
}

// Processor is the Output Processor facade (C6): the single entry
// point input sources use to push a location report downstream.
type Processor struct {
	store           devicestate.Store
	builders        *Registry
	sessions        sender
	defaultProtocol string
	log             *logging.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(store devicestate.Store, builders *Registry, sessions sender, defaultProtocol string, log *logging.Logger) *Processor {
	return &Processor{
		store:           store,
		builders:        builders,
		sessions:        sessions,
		defaultProtocol: defaultProtocol,
		log:             log,
	}
}

// Forward resolves deviceID's output protocol, builds the packet for
// packetType (default "location"), logs a human-readable rendering,
// and delegates the send to the sessions manager.
func (p *Processor) Forward(ctx context.Context, deviceID string, l report.Location, inputSource registry.InputSource, packetType string) {
	if packetType == "" {
		packetType = "location"
	}

	protocol := p.resolveOutputProtocol(ctx, deviceID)

	builders, ok := p.builders.Get(protocol)
	if !ok {
		p.log.Error("no packet builders registered for protocol %q, dropping %s for device %s", protocol, packetType, deviceID)
		return
	}

	builder := builderFor(builders, packetType)
	if builder == nil {
		p.log.Error("no %s packet builder for protocol %q, dropping for device %s", packetType, protocol, deviceID)
		return
	}

	packet, err := builder(deviceID, l, 0)
	if err != nil {
		p.log.Error("failed to build %s packet for device %s: %v", packetType, deviceID, err)
		return
	}

	rendered := hexOrASCII(builders, packet)
	p.log.Info("prepared %s packet for device %s via %s: %s", packetType, deviceID, protocol, rendered)

	if err := p.sessions.Send(deviceID, inputSource.Name(), protocol, packet, packetType); err != nil {
		p.log.Warn("failed to deliver %s packet for device %s: %v", packetType, deviceID, err)
	}
}

func (p *Processor) resolveOutputProtocol(ctx context.Context, deviceID string) string {
	key := "device:" + deviceID
	protocol, ok, err := p.store.HGet(ctx, key, "output_protocol")
	if err == nil && ok && protocol != "" {
		return protocol
	}

	p.log.Info("no output protocol on record for device %s, defaulting to %s", deviceID, p.defaultProtocol)
	if err := p.store.HSet(ctx, key, "output_protocol", p.defaultProtocol); err != nil {
		p.log.Warn("failed to persist default output protocol for device %s: %v", deviceID, err)
	}
	return p.defaultProtocol
}

func builderFor(b ProtocolBuilders, packetType string) PacketBuilder {
	switch packetType {
	case "login":
		return b.Login
	case "heartbeat":
		return b.Heartbeat
	case "info":
		return b.VoltageInfo
	default:
		return b.Location
	}
}

func hexOrASCII(b ProtocolBuilders, packet []byte) string {
	if b.RenderLog != nil {
		return b.RenderLog(packet)
	}
	return string(packet)
}
