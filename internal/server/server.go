package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/handlers"
	"github.com/Djelibeybi/lifx-emulator/internal/manager"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Logger is the narrow logging interface the server needs. It matches
// both logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// maxDatagram is the receive buffer size. The largest protocol packet
// (StateDeviceChain) is well under 1 KiB, but clients may send junk.
const maxDatagram = 2048

// statsInterval is how often a stats_tick event is published.
const statsInterval = 10 * time.Second

// Stats is a point-in-time counter snapshot.
type Stats struct {
	PacketsReceived uint64  `json:"packets_received"`
	PacketsSent     uint64  `json:"packets_sent"`
	PacketsDropped  uint64  `json:"packets_dropped"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Devices         int     `json:"devices"`
}

// Server is the UDP transport and request pipeline.
type Server struct {
	bind string
	port int

	mgr       *manager.Manager
	scenarios *scenario.Manager
	registry  *handlers.Registry
	bus       *events.Bus
	logger    Logger

	mu      sync.Mutex
	conn    *net.UDPConn
	started time.Time

	rx      atomic.Uint64
	tx      atomic.Uint64
	dropped atomic.Uint64

	wg sync.WaitGroup
}

// New creates a server bound to address:port once started. The event
// bus is optional.
func New(bind string, port int, mgr *manager.Manager, scenarios *scenario.Manager, bus *events.Bus, logger Logger) *Server {
	return &Server{
		bind:      bind,
		port:      port,
		mgr:       mgr,
		scenarios: scenarios,
		registry:  handlers.NewRegistry(),
		bus:       bus,
		logger:    logger,
	}
}

// Start binds the UDP socket. Devices already in the collection adopt
// the bound port so StateService advertises something reachable.
func (s *Server) Start() error {
	addr := &net.UDPAddr{IP: net.ParseIP(s.bind), Port: s.port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("binding udp %s:%d: %w", s.bind, s.port, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.started = time.Now()
	s.mu.Unlock()

	port := uint32(conn.LocalAddr().(*net.UDPAddr).Port)
	for _, d := range s.mgr.List() {
		d.WithState(func(st *device.State) { st.Port = port })
	}

	s.logger.Info("udp server listening", "addr", conn.LocalAddr().String(), "devices", s.mgr.Count())
	return nil
}

// Addr returns the bound UDP address, or nil before Start.
func (s *Server) Addr() *net.UDPAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Port returns the bound UDP port, or 0 before Start.
func (s *Server) Port() int {
	if addr := s.Addr(); addr != nil {
		return addr.Port
	}
	return 0
}

// AdoptDevice stamps the server's port onto a device added while the
// server is running.
func (s *Server) AdoptDevice(d *device.Device) {
	if port := s.Port(); port != 0 {
		d.WithState(func(st *device.State) { st.Port = uint32(port) })
	}
}

// Run starts the server and blocks until the context is cancelled.
// On return the socket is closed and in-flight delayed responses are
// discarded.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.readLoop(ctx)
	}()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			<-loopDone
			s.wg.Wait()
			return nil
		case <-ticker.C:
			if s.bus != nil {
				s.bus.Publish(events.TypeStatsTick, s.Stats())
			}
		}
	}
}

// Close shuts the socket, unblocking the read loop.
func (s *Server) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Stats returns a counter snapshot.
func (s *Server) Stats() Stats {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	var uptime float64
	if !started.IsZero() {
		uptime = time.Since(started).Seconds()
	}
	return Stats{
		PacketsReceived: s.rx.Load(),
		PacketsSent:     s.tx.Load(),
		PacketsDropped:  s.dropped.Load(),
		UptimeSeconds:   uptime,
		Devices:         s.mgr.Count(),
	}
}

// readLoop receives datagrams until the socket closes.
func (s *Server) readLoop(ctx context.Context) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	buf := make([]byte, maxDatagram)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			s.logger.Warn("udp receive error", "error", err)
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.handleDatagram(ctx, data, addr)
	}
}

// handleDatagram runs one datagram through the pipeline.
func (s *Server) handleDatagram(ctx context.Context, data []byte, addr *net.UDPAddr) {
	s.rx.Add(1)

	h, err := protocol.ParseHeader(data)
	if err != nil {
		// Physical devices ignore malformed datagrams.
		s.dropped.Add(1)
		s.logger.Debug("dropping malformed datagram", "len", len(data), "from", addr.String())
		return
	}

	payload := data[protocol.HeaderSize:]
	if int(h.Size) >= protocol.HeaderSize && int(h.Size) <= len(data) {
		payload = data[protocol.HeaderSize:h.Size]
	}

	s.publishPacket(events.TypePacketRX, "rx", h.Type, "", addr, len(data))

	known := protocol.Registered(h.Type)
	var req protocol.Message
	if known {
		req, err = protocol.Decode(h.Type, payload)
		if err != nil {
			s.dropped.Add(1)
			s.logger.Debug("dropping undecodable payload",
				"type", protocol.Name(h.Type), "len", len(payload), "error", err)
			return
		}
	}

	targets := s.mgr.ResolveTargets(h)
	if len(targets) == 0 {
		s.dropped.Add(1)
		return
	}

	for _, dev := range targets {
		s.dispatch(ctx, dev, h, req, known, addr)
	}
}

// dispatch runs one request against one target device.
func (s *Server) dispatch(ctx context.Context, dev *device.Device, h protocol.Header, req protocol.Message, known bool, addr *net.UDPAddr) {
	rules := s.scenarios.ResolveFor(manager.ScenarioTarget(dev))

	// A drop roll suppresses everything, the acknowledgement included.
	if rules.ShouldDrop(h.Type) {
		s.dropped.Add(1)
		s.logger.Debug("scenario dropped request", "type", protocol.Name(h.Type), "serial", dev.Serial())
		return
	}

	unhandled := !known || handlers.Unhandled(dev.Caps(), h.Type)
	var handler handlers.Handler
	if !unhandled {
		var ok bool
		handler, ok = s.registry.Lookup(h.Type)
		if !ok {
			unhandled = true
		}
	}

	var responses []protocol.Message
	switch {
	case unhandled:
		if !rules.SendUnhandled {
			s.dropped.Add(1)
			return
		}
		// No early ack: the ack rides with the StateUnhandled so
		// fault rules affect both.
		responses = []protocol.Message{&protocol.StateUnhandled{UnhandledType: h.Type}}
		if h.AckRequired {
			responses = append([]protocol.Message{&protocol.Acknowledgement{}}, responses...)
		}

	default:
		earlyAck := h.AckRequired && !rules.AffectsAcks()
		if earlyAck {
			s.sendFrames(dev, [][]byte{s.frame(dev, h, &protocol.Acknowledgement{}, nil)}, addr)
		}

		dev.WithState(func(st *device.State) {
			responses = handler(st, req, rules, h.ResRequired)
		})

		if h.AckRequired && !earlyAck {
			responses = append([]protocol.Message{&protocol.Acknowledgement{}}, responses...)
		}

		// Location/group moves change which scenario scopes apply.
		if h.Type == protocol.TypeSetLocation || h.Type == protocol.TypeSetGroup {
			s.mgr.NotifyMembershipChanged(dev.Serial())
		}
	}

	if len(responses) == 0 {
		return
	}

	// Fault transforms, keyed by the request packet type.
	if rules.IsPartial(h.Type) && len(responses) > 1 {
		responses = responses[:1+rand.Intn(len(responses)-1)]
	}

	frames := make([][]byte, 0, len(responses))
	for _, msg := range responses {
		frames = append(frames, s.frame(dev, h, msg, rules))
	}

	if delay := rules.DelayFor(h.Type); delay > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			select {
			case <-time.After(delay):
				s.sendFrames(dev, frames, addr)
			case <-ctx.Done():
				// Shutdown discards responses still waiting out
				// their delay.
			}
		}()
		return
	}

	s.sendFrames(dev, frames, addr)
}

// frame encodes one response message with its header, applying the
// payload-level fault transforms when rules are given.
func (s *Server) frame(dev *device.Device, req protocol.Header, msg protocol.Message, rules *scenario.Merged) []byte {
	payload := msg.MarshalPayload()

	if rules != nil && rules.IsMalformed(req.Type) && len(payload) > 0 {
		payload = payload[:rand.Intn(len(payload))]
	}
	if rules != nil && rules.IsInvalid(req.Type) {
		for i := range payload {
			payload[i] = 0xFF
		}
	}

	var target [8]byte
	if t, err := protocol.TargetFromSerial(dev.Serial()); err == nil {
		target = t
	}

	h := protocol.Header{
		Size:     uint16(protocol.HeaderSize + len(payload)),
		Source:   req.Source,
		Target:   target,
		Sequence: req.Sequence,
		Type:     msg.Type(),
	}
	return append(h.Encode(), payload...)
}

// sendFrames writes response datagrams in order.
func (s *Server) sendFrames(dev *device.Device, frames [][]byte, addr *net.UDPAddr) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	for _, frame := range frames {
		if _, err := conn.WriteToUDP(frame, addr); err != nil {
			s.logger.Warn("udp send error", "to", addr.String(), "error", err)
			continue
		}
		s.tx.Add(1)

		if len(frame) >= protocol.HeaderSize {
			if h, err := protocol.ParseHeader(frame); err == nil {
				s.publishPacket(events.TypePacketTX, "tx", h.Type, dev.Serial(), addr, len(frame))
			}
		}
	}
}

func (s *Server) publishPacket(eventType, direction string, pktType uint16, serial string, addr *net.UDPAddr, size int) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventType, events.PacketEvent{
		Direction:  direction,
		PacketType: pktType,
		PacketName: protocol.Name(pktType),
		Serial:     serial,
		Addr:       addr.String(),
		Size:       size,
	})
}
