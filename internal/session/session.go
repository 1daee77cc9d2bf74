// Package session implements the per-device Session (C4) and the
// Sessions Manager (C5): one long-lived outbound TCP client per
// device, connecting to the downstream fleet-management platform and
// re-emitting GT06-family packets built by internal/output.
package session

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/output"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
	"github.com/intelcon-group/gt06-gateway/internal/report"
)

var (
	errUnknownOutputAddress = errors.New("session: no builders registered for output protocol")
	errNotConnected         = errors.New("session: not connected")
)

// EventSink receives session lifecycle notifications for operational
// visibility (admin HTTP surface, C12). Nil sinks are valid — a
// Session never requires one.
type EventSink interface {
	SessionEvent(deviceID, event string)
}

const (
	connectTimeout    = 5 * time.Second
	heartbeatInterval = 30 * time.Second
	readBufferSize    = 4096
)

// Session owns the outbound TCP connection to the downstream platform
// for a single device. Every public method locks Session's mutex once
// and calls an unexported *Locked helper — Go has no reentrant mutex,
// so the pre-send voltage frame, reconnects-on-protocol-change, and
// the GT06 login-pending wait all happen inside a single critical
// section taken by the outermost call, mirroring the serialization the
// original session achieved with a recursive lock.
type Session struct {
	deviceID       string
	inputSource    registry.InputSource
	hosts          map[string]string
	builders       *output.Registry
	store          devicestate.Store
	log            *logging.Logger
	sink           EventSink

	mu               sync.Mutex
	outputProtocol   string
	conn             net.Conn
	connected        bool
	gt06LoginPending bool
	loginAck         chan struct{}
	loginFailed      bool
	heartbeatTimer   *time.Timer
}

// New constructs a Session for deviceID. The session does not connect
// until the first SendData call.
func New(deviceID string, inputSource registry.InputSource, outputProtocol string, hosts map[string]string, builders *output.Registry, store devicestate.Store, log *logging.Logger, sink EventSink) *Session {
	return &Session{
		deviceID:       deviceID,
		inputSource:    inputSource,
		hosts:          hosts,
		builders:       builders,
		store:          store,
		log:            log.With(deviceID),
		outputProtocol: outputProtocol,
		sink:           sink,
	}
}

// Connect opens the downstream connection if not already connected.
func (s *Session) Connect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked()
}

// Disconnect idempotently tears down the connection.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectLocked()
}

// SendData writes data to the downstream connection, connecting or
// reconnecting as needed. maybeProtocol, when non-empty and different
// from the session's current output protocol, triggers a disconnect
// and reconnect under the new protocol before the write.
func (s *Session) SendData(data []byte, maybeProtocol, packetType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendDataLocked(data, maybeProtocol, packetType)
}

// Connected reports the session's advisory liveness: whether it
// believes it holds an open connection. Like the original's
// getpeername/fileno check, this is advisory only — a true liveness
// check requires a round trip.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected && s.conn != nil
}

func (s *Session) connectLocked() bool {
	if s.connected {
		return true
	}

	if s.outputProtocol == "" {
		s.log.Warn("cannot connect, output protocol not configured")
		return false
	}

	addr, ok := s.hosts[s.outputProtocol]
	if !ok {
		s.log.Warn("unknown output protocol %q, cannot connect", s.outputProtocol)
		return false
	}

	s.log.Info("connecting to %s via %s", addr, s.outputProtocol)
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		s.log.Error("failed to connect: %v", err)
		s.connected = false
		return false
	}

	s.conn = conn
	s.connected = true

	builders, ok := s.builders.Get(s.outputProtocol)
	if !ok {
		s.log.Warn("no packet builders registered for protocol %q", s.outputProtocol)
	} else if builders.RequiresLoginHandshake {
		s.gt06LoginPending = true
		s.loginAck = make(chan struct{})
		s.loginFailed = false
	}

	go s.readLoop(conn, s.outputProtocol, builders, s.loginAck)

	s.presentLocked(builders)

	s.log.Success("connected")
	s.emit("connected")
	return true
}

// emit notifies the event sink, if any, of a lifecycle transition.
func (s *Session) emit(event string) {
	if s.sink != nil {
		s.sink.SessionEvent(s.deviceID, event)
	}
}

func (s *Session) disconnectLocked() {
	if !s.connected {
		return
	}

	if s.conn != nil {
		if tcp, ok := s.conn.(*net.TCPConn); ok {
			_ = tcp.CloseRead()
			_ = tcp.CloseWrite()
		}
		_ = s.conn.Close()
		s.conn = nil
	}

	if s.heartbeatTimer != nil {
		s.heartbeatTimer.Stop()
		s.heartbeatTimer = nil
	}

	s.connected = false
	s.log.Info("disconnected")
	s.emit("disconnected")
}

// presentLocked sends the protocol's login packet. For GT06,
// connectLocked has already armed the login-pending gate: no other
// packet may leave until the inbound reader observes the downstream
// platform's first byte.
func (s *Session) presentLocked(builders output.ProtocolBuilders) {
	if builders.Login == nil {
		return
	}

	packet, err := builders.Login(s.deviceID, report.Location{}, 0)
	if err != nil {
		s.log.Error("failed to build login packet: %v", err)
		return
	}

	if err := s.sendDataLocked(packet, "", "login"); err != nil {
		s.log.Error("failed to send login packet: %v", err)
	}
}

func (s *Session) sendDataLocked(data []byte, maybeProtocol, packetType string) error {
	if !s.connected {
		if !s.connectLocked() {
			return errNotConnected
		}
	}

	if maybeProtocol != "" && maybeProtocol != s.outputProtocol {
		s.log.Warn("output protocol changed from %q to %q, reconnecting", s.outputProtocol, maybeProtocol)
		s.disconnectLocked()
		s.outputProtocol = maybeProtocol
		if !s.connectLocked() {
			return errNotConnected
		}
	}

	builders, ok := s.builders.Get(s.outputProtocol)
	if !ok {
		return errUnknownOutputAddress
	}

	if err := s.preSendLocked(builders, packetType); err != nil {
		return err
	}

	if s.conn == nil {
		return errNotConnected
	}
	if _, err := s.conn.Write(data); err != nil {
		s.log.Error("write failed: %v", err)
		s.disconnectLocked()
		return err
	}

	s.rearmHeartbeatLocked()
	return nil
}

// preSendLocked applies GT06's pre-send policy: block until any
// login-pending gate clears (warming the connection with a
// heartbeat), then, for location packets, send a voltage-info packet
// immediately ahead of it.
func (s *Session) preSendLocked(builders output.ProtocolBuilders, packetType string) error {
	if !builders.RequiresLoginHandshake {
		return nil
	}

	if s.gt06LoginPending && packetType != "login" {
		ack := s.loginAck
		s.log.Info("waiting for GT06 login acknowledgment before sending")
		<-ack
		s.gt06LoginPending = false

		if s.loginFailed {
			s.log.Warn("connection failed while waiting for GT06 login acknowledgment")
			return errNotConnected
		}

		s.log.Info("GT06 login acknowledged, warming connection with heartbeat")

		if builders.Heartbeat != nil {
			hb, err := builders.Heartbeat(s.deviceID, report.Location{}, 0)
			if err == nil && s.conn != nil {
				if _, err := s.conn.Write(hb); err != nil {
					s.disconnectLocked()
					return err
				}
			}
		}
	}

	if packetType == "location" && builders.VoltageInfo != nil {
		voltage := s.readVoltageLocked()
		packet, err := builders.VoltageInfo(s.deviceID, report.Location{Voltage: voltage}, 0)
		if err != nil {
			return nil
		}
		if s.conn == nil {
			return errNotConnected
		}
		if _, err := s.conn.Write(packet); err != nil {
			s.log.Error("failed to send voltage packet: %v", err)
			s.disconnectLocked()
			return err
		}
	}

	return nil
}

func (s *Session) readVoltageLocked() float64 {
	const fallback = 1.11
	if s.store == nil {
		return fallback
	}
	v, ok, err := s.store.HGet(context.Background(), "device:"+s.inputSource.Name()+":"+s.deviceID, "voltage")
	if err != nil || !ok || v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *Session) rearmHeartbeatLocked() {
	if s.heartbeatTimer != nil {
		s.heartbeatTimer.Stop()
	}
	s.heartbeatTimer = time.AfterFunc(heartbeatInterval, s.fireHeartbeat)
}

func (s *Session) fireHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return
	}
	builders, ok := s.builders.Get(s.outputProtocol)
	if !ok || builders.Heartbeat == nil {
		return
	}
	packet, err := builders.Heartbeat(s.deviceID, report.Location{}, 0)
	if err != nil {
		return
	}
	_ = s.sendDataLocked(packet, "", "heartbeat")
}

// readLoop blocks on reads from conn until it errs or the session
// disconnects, outside of Session's mutex: it only touches the
// connection and the login-ack gate, which only this goroutine ever
// closes and only connectLocked ever arms. On any read failure it
// closes the gate itself (see failLoginWait) before calling Disconnect,
// so a sender blocked on that gate while holding s.mu wakes and
// releases the lock instead of the two goroutines deadlocking on each
// other.
func (s *Session) readLoop(conn net.Conn, protocol string, builders output.ProtocolBuilders, loginAck chan struct{}) {
	buf := make([]byte, readBufferSize)
	loginPending := loginAck != nil

	// failLoginWait unblocks any sender stuck in preSendLocked's <-ack
	// wait before we try to disconnect. Disconnect() takes s.mu, and a
	// blocked sender already holds it, so closing the gate here (no
	// lock needed to close a channel) is what lets that sender's call
	// unwind and release the mutex instead of both goroutines deadlocking.
	failLoginWait := func() {
		if loginPending {
			s.loginFailed = true
			close(loginAck)
			loginPending = false
		}
	}

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Warn("connection to downstream platform closed by peer")
				failLoginWait()
				s.Disconnect()
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			s.log.Warn("connection reset while reading: %v", err)
			failLoginWait()
			s.Disconnect()
			return
		}
		if n == 0 {
			failLoginWait()
			s.Disconnect()
			return
		}

		if loginPending {
			s.log.Info("GT06 login acknowledged by downstream platform")
			close(loginAck)
			loginPending = false
			continue
		}

		if builders.CommandMapper == nil {
			continue
		}
		cmd, ok := builders.CommandMapper(buf[:n])
		if !ok {
			continue
		}
		s.log.Info("routing command %q to input source %s", cmd, s.inputSource.Name())
		s.inputSource.HandleCommand(s.deviceID, cmd)
	}
}
