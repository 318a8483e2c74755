package runtime

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/wire"
)

// connState tracks the handler lifecycle. Transitions only move forward:
// Connecting -> Active -> Closing -> Closed.
type connState int

const (
	stateConnecting connState = iota
	stateActive
	stateClosing
	stateClosed
)

// maxLineSize bounds a single envelope line. Anything larger is a
// protocol violation, not a chat message.
const maxLineSize = 1 << 20

// lineSink writes envelopes to the socket, one encoded line per call.
// The mutex keeps concurrent fanouts from interleaving partial lines.
type lineSink struct {
	mu   sync.Mutex
	conn net.Conn
}

var _ contract.EnvelopeSink = (*lineSink)(nil)

func (s *lineSink) Send(e domain.Envelope) error {
	line, err := wire.Encode(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Write(line)
	return err
}

// connHandler owns exactly one socket: its input stream, its output
// stream (through the sink), and the session it may register. Nothing
// else reads or writes this connection for its lifetime.
type connHandler struct {
	log    *slog.Logger
	conn   net.Conn
	sink   *lineSink
	router *Router

	state  connState
	userID string
}

func newConnHandler(log *slog.Logger, conn net.Conn, router *Router) *connHandler {
	return &connHandler{
		log:    log.With("remote", conn.RemoteAddr().String()),
		conn:   conn,
		sink:   &lineSink{conn: conn},
		router: router,
	}
}

// Run is the per-connection read loop: blocking read of one line, decode,
// dispatch. It returns once the peer disconnects, a read fails, or the
// context is cancelled. A decode failure on a single line is logged and
// recoverable; it never affects the listener or other handlers.
func (h *connHandler) Run(ctx context.Context) {
	defer h.close()

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		env, err := wire.Decode(line)
		if err != nil {
			h.log.Warn("skipping malformed line", "error", err)
			continue
		}

		if !h.dispatch(env) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		h.log.Debug("read loop ended", "error", err)
	}
}

// dispatch routes one decoded envelope. It reports false when the
// connection must be dropped (duplicate identity rejection).
func (h *connHandler) dispatch(env domain.Envelope) bool {
	switch p := env.Payload.(type) {
	case domain.UserStatusUpdate:
		return h.handleStatus(env, p)
	case domain.TextMessage:
		if h.state != stateActive {
			h.log.Warn("text message before join, dropping", "id", env.ID)
			return true
		}
		h.router.HandleText(env, p)
	case domain.SystemMessage:
		if h.state != stateActive {
			h.log.Warn("system envelope before join, dropping", "subtype", string(p.Subtype))
			return true
		}
		h.router.HandleSystem(env, p)
	}
	return true
}

func (h *connHandler) handleStatus(env domain.Envelope, upd domain.UserStatusUpdate) bool {
	switch upd.Status {
	case domain.StatusOnline:
		if h.state == stateActive {
			h.log.Warn("online update on an already active connection, dropping", "subject", upd.Subject.ID)
			return true
		}
		if err := h.router.Join(env, upd, h.sink, h.conn.RemoteAddr().String()); err != nil {
			h.log.Warn("join rejected", "subject", upd.Subject.ID, "error", err)
			return false
		}
		h.state = stateActive
		h.userID = upd.Subject.ID
	case domain.StatusOffline:
		// Explicit goodbye. The socket usually closes right after; the
		// handler keeps reading until it does.
		if h.state == stateActive && upd.Subject.ID == h.userID {
			h.router.Leave(h.userID)
			h.state = stateConnecting
			h.userID = ""
		}
	}
	return true
}

// close runs the Closing path exactly once: deregister if registered
// (which broadcasts Offline and reassigns the coordinator), then release
// the socket.
func (h *connHandler) close() {
	if h.state == stateClosed {
		return
	}
	h.state = stateClosing

	if h.userID != "" {
		h.router.Leave(h.userID)
		h.userID = ""
	}

	_ = h.conn.Close()
	h.state = stateClosed
	h.log.Debug("connection closed")
}
