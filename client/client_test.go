package client

import (
	"bufio"
	"log/slog"
	"net"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/wire"

	"github.com/stretchr/testify/require"
)

// startFakeServer runs a single-connection server driven by handler and
// returns its address.
func startFakeServer(t *testing.T, handler func(conn net.Conn)) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}()

	return listener.Addr().String()
}

func writeEnvelope(t *testing.T, conn net.Conn, env domain.Envelope) {
	t.Helper()
	line, err := wire.Encode(env)
	require.NoError(t, err)
	_, err = conn.Write(line)
	require.NoError(t, err)
}

func TestClient_HeartbeatSilence_SurfacesDisconnect(t *testing.T) {
	req := require.New(t)

	// Given a server that beats a few times and then goes silent
	addr := startFakeServer(t, func(conn net.Conn) {
		for i := 0; i < 3; i++ {
			writeEnvelope(t, conn, domain.NewEnvelope(domain.SystemMessage{
				Subtype: domain.SystemHeartbeat,
			}))
			time.Sleep(20 * time.Millisecond)
		}
		// Keep the socket open: the silence, not the close, must trigger
		time.Sleep(2 * time.Second)
	})

	lost := make(chan error, 1)
	c, err := Dial(slog.New(slog.DiscardHandler), Config{
		Addr:             addr,
		HeartbeatTimeout: 100 * time.Millisecond,
		OnDisconnect:     func(err error) { lost <- err },
	})
	req.NoError(err)
	defer c.Close()

	// Then the client concludes the server is unreachable
	select {
	case err := <-lost:
		req.ErrorIs(err, errors.ErrServerUnreachable)
	case <-time.After(2 * time.Second):
		req.Fail("client never noticed the missing heartbeats")
	}

	// And it ceases sending
	_, err = c.Join("late-joiner")
	req.ErrorIs(err, errors.ErrServerUnreachable)
}

func TestClient_HeartbeatsKeepLivenessFresh(t *testing.T) {
	req := require.New(t)

	// Given a server that beats reliably on schedule
	stop := make(chan struct{})
	addr := startFakeServer(t, func(conn net.Conn) {
		ticker := time.NewTicker(30 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				writeEnvelope(t, conn, domain.NewEnvelope(domain.SystemMessage{
					Subtype: domain.SystemHeartbeat,
				}))
			}
		}
	})
	defer close(stop)

	lost := make(chan error, 1)
	c, err := Dial(slog.New(slog.DiscardHandler), Config{
		Addr:             addr,
		HeartbeatTimeout: 120 * time.Millisecond,
		OnDisconnect:     func(err error) { lost <- err },
	})
	req.NoError(err)
	defer c.Close()

	// Then several timeout windows pass without a false disconnect
	select {
	case <-lost:
		req.Fail("client dropped a live server")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestClient_Join_SendsOnlineUpdate(t *testing.T) {
	req := require.New(t)

	received := make(chan domain.Envelope, 1)
	addr := startFakeServer(t, func(conn net.Conn) {
		scanner := bufio.NewScanner(conn)
		if scanner.Scan() {
			env, err := wire.Decode(scanner.Bytes())
			if err == nil {
				received <- env
			}
		}
	})

	c, err := Dial(slog.New(slog.DiscardHandler), Config{Addr: addr})
	req.NoError(err)
	defer c.Close()

	// When the presentation layer joins with a chosen name
	user, err := c.Join("alice")
	req.NoError(err)
	req.NotEmpty(user.ID)
	req.Equal("alice", user.Name)

	// Then the wire carries one Online update for that identity
	select {
	case env := <-received:
		upd, ok := env.Payload.(domain.UserStatusUpdate)
		req.True(ok)
		req.Equal(domain.StatusOnline, upd.Status)
		req.Equal(user.ID, upd.Subject.ID)
	case <-time.After(1 * time.Second):
		req.Fail("server never received the join")
	}
}

func TestClient_OnEnvelope_StreamsInboundTraffic(t *testing.T) {
	req := require.New(t)

	text := domain.NewEnvelope(domain.TextMessage{
		Chat:    domain.NewGeneralChat(domain.User{ID: "u-bob", Name: "bob"}),
		Sender:  domain.User{ID: "u-bob", Name: "bob"},
		Content: "hi all",
	})
	addr := startFakeServer(t, func(conn net.Conn) {
		writeEnvelope(t, conn, text)
		time.Sleep(200 * time.Millisecond)
	})

	inbound := make(chan domain.Envelope, 1)
	c, err := Dial(slog.New(slog.DiscardHandler), Config{
		Addr:       addr,
		OnEnvelope: func(e domain.Envelope) { inbound <- e },
	})
	req.NoError(err)
	defer c.Close()

	select {
	case env := <-inbound:
		req.Equal(text.ID, env.ID)
		req.Equal("hi all", env.Payload.(domain.TextMessage).Content)
	case <-time.After(1 * time.Second):
		req.Fail("envelope never reached the presentation callback")
	}
}

func TestClient_SendText_RequiresJoin(t *testing.T) {
	req := require.New(t)

	addr := startFakeServer(t, func(conn net.Conn) {
		time.Sleep(200 * time.Millisecond)
	})

	c, err := Dial(slog.New(slog.DiscardHandler), Config{Addr: addr})
	req.NoError(err)
	defer c.Close()

	err = c.SendText(domain.NewGeneralChat(), "too early")
	req.ErrorIs(err, errors.ErrNotJoined)
}
