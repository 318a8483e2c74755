package runtime

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"chat-relay/domain"
	"chat-relay/runtime/workers"
)

type ServerConfig struct {
	Addr            string
	HeartbeatPeriod time.Duration
	ShutdownGrace   time.Duration
	RestartInterval time.Duration
}

// Server owns the whole session core as one instance with an explicit
// start/stop lifecycle: registry, elector, router, listener, and the
// supervised accept and heartbeat workers. There is no ambient global
// state; everything is passed by reference to the component needing it.
type Server struct {
	log        *slog.Logger
	cfg        ServerConfig
	registry   *Registry
	elector    *Elector
	router     *Router
	supervisor *workers.Supervisor

	listener net.Listener
	handlers sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}
}

func NewServer(log *slog.Logger, cfg ServerConfig) *Server {
	registry := NewRegistry()
	elector := NewElector()

	return &Server{
		log:        log,
		cfg:        cfg,
		registry:   registry,
		elector:    elector,
		router:     NewRouter(log, registry, elector),
		supervisor: workers.NewSupervisor(log, cfg.RestartInterval),
		done:       make(chan struct{}),
	}
}

// Router exposes the routing engine, mainly so launchers and tests can
// observe or inject traffic without opening a socket.
func (s *Server) Router() *Router {
	return s.router
}

// Start binds the listener and launches the supervised workers. It
// returns once the relay is accepting connections.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.supervisor.Add(
		workers.NewHeartbeatWorker(s.log, s.router, s.cfg.HeartbeatPeriod),
		&acceptWorker{
			log:      s.log,
			listener: listener,
			router:   s.router,
			handlers: &s.handlers,
		},
	)

	go func() {
		s.supervisor.Run(ctx)
		close(s.done)
	}()

	s.log.Info("relay listening", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound listener address, useful when starting on an
// ephemeral port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Stop performs the shutdown sequence: broadcast ServerShutdown to all
// sessions, wait a short grace interval so the lines can flush, then
// terminate the periodic workers and close the listening socket.
// In-flight handlers observe the resulting EOF/reset and clean up
// through their normal Closing path.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("Requesting relay shutdown")

		s.router.Broadcast(domain.NewEnvelope(domain.SystemMessage{
			Subtype: domain.SystemServerShutdown,
		}))
		time.Sleep(s.cfg.ShutdownGrace)

		s.supervisor.Stop()
		if s.listener != nil {
			_ = s.listener.Close()
		}
		<-s.done

		s.log.Info("Relay stopped cleanly")
	})
}

// acceptWorker runs the listener loop under supervision: one lightweight
// goroutine per accepted connection, each performing blocking line
// reads. A handler failure never propagates to this loop.
type acceptWorker struct {
	log      *slog.Logger
	listener net.Listener
	router   *Router
	handlers *sync.WaitGroup
}

func (w *acceptWorker) Run(ctx context.Context) error {
	for {
		conn, err := w.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		w.handlers.Add(1)
		go func() {
			defer w.handlers.Done()
			newConnHandler(w.log, conn, w.router).Run(ctx)
		}()
	}
}
