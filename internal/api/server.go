package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/history"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/logging"
	"github.com/Djelibeybi/lifx-emulator/internal/manager"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
	"github.com/Djelibeybi/lifx-emulator/internal/server"
)

// HTTP server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Deps are the collaborators the API exposes. Activity and Stats are
// optional; nil disables the matching endpoints' data.
type Deps struct {
	Manager   *manager.Manager
	Scenarios *scenario.Manager
	Bus       *events.Bus
	Stats     interface{ Stats() server.Stats }
	Activity  *history.Recorder
	Logger    *logging.Logger

	// OnDeviceCreated runs after a device built through the API is
	// added: the composition root uses it to stamp the UDP port and
	// wire persistence observers.
	OnDeviceCreated func(d *device.Device)
}

// Server is the HTTP management server.
type Server struct {
	deps Deps
	hub  *Hub

	httpServer *http.Server
	listener   net.Listener
}

// New creates the API server bound to addr:port once started.
func New(bind string, port int, deps Deps) *Server {
	s := &Server{
		deps: deps,
		hub:  NewHub(deps.Logger),
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           s.buildRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Run serves HTTP and bridges bus events to the WebSocket hub until
// the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("binding api listener: %w", err)
	}
	s.listener = listener
	s.deps.Logger.Info("api server listening", "addr", listener.Addr().String())

	// Bridge the event bus into the hub.
	if s.deps.Bus != nil {
		ch, cancel := s.deps.Bus.Subscribe()
		defer cancel()
		go s.hub.Bridge(ctx, ch)
	}

	errCh := make(chan error, 1)
	go func() {
		if serveErr := s.httpServer.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.CloseAll()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound listener address, or nil before Run.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
