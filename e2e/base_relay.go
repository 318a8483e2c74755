package e2e

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"chat-relay/domain"
	"chat-relay/internal"
	"chat-relay/runtime"
	"chat-relay/wire"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseRelaySuite starts one fresh in-process relay per test on an
// ephemeral port and hands out raw line-protocol peers, so scenarios
// exercise the real TCP surface instead of in-memory shortcuts.
type BaseRelaySuite struct {
	suite.Suite
	Config Config

	server *runtime.Server
	cancel context.CancelFunc
	peers  []*peer
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseRelaySuite) SetupTest() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.server = runtime.NewServer(internal.NewLogger("ERROR"), runtime.ServerConfig{
		Addr:            "127.0.0.1:0",
		HeartbeatPeriod: s.Config.HeartbeatPeriod,
		ShutdownGrace:   100 * time.Millisecond,
		RestartInterval: 50 * time.Millisecond,
	})
	s.Require().NoError(s.server.Start(ctx))
}

func (s *BaseRelaySuite) TearDownTest() {
	for _, p := range s.peers {
		_ = p.conn.Close()
	}
	s.peers = nil
	s.server.Stop()
	s.cancel()
}

// Step prints a colorized header for the scenario step in logs
func (s *BaseRelaySuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// peer is one raw TCP connection speaking the line protocol directly.
type peer struct {
	s       *BaseRelaySuite
	conn    net.Conn
	scanner *bufio.Scanner
	user    domain.User

	// seen accumulates every decoded envelope this peer has read, so a
	// scenario can also assert what never arrived.
	seen []domain.Envelope
}

func (s *BaseRelaySuite) Dial() *peer {
	conn, err := net.Dial("tcp", s.server.Addr())
	s.Require().NoError(err)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	p := &peer{s: s, conn: conn, scanner: scanner}
	s.peers = append(s.peers, p)
	return p
}

// Join announces a fresh identity as online and returns it. The welcome
// sequence is left in the stream for the scenario to consume.
func (p *peer) Join(name string) domain.User {
	p.user = domain.User{ID: uuid.NewString(), Name: name}
	p.Send(domain.NewEnvelope(domain.UserStatusUpdate{
		Subject: p.user,
		Status:  domain.StatusOnline,
	}))
	return p.user
}

func (p *peer) Send(env domain.Envelope) {
	line, err := wire.Encode(env)
	p.s.Require().NoError(err)
	_, err = p.conn.Write(line)
	p.s.Require().NoError(err)
}

// SendRaw writes bytes verbatim, malformed lines included.
func (p *peer) SendRaw(line string) {
	_, err := p.conn.Write([]byte(line))
	p.s.Require().NoError(err)
}

// Await reads envelopes until one matches, recording everything seen on
// the way. It fails the test when the wait timeout elapses first.
func (p *peer) Await(desc string, match func(domain.Envelope) bool) domain.Envelope {
	p.s.Require().NoError(p.conn.SetReadDeadline(time.Now().Add(p.s.Config.WaitTimeout)))

	for p.scanner.Scan() {
		env, err := wire.Decode(p.scanner.Bytes())
		if err != nil {
			continue
		}
		p.seen = append(p.seen, env)
		if match(env) {
			return env
		}
	}

	p.s.Require().Failf("await timed out", "peer %q never received %s", p.user.Name, desc)
	return domain.Envelope{}
}

// AwaitClosed expects the server to drop this connection.
func (p *peer) AwaitClosed() {
	p.s.Require().NoError(p.conn.SetReadDeadline(time.Now().Add(p.s.Config.WaitTimeout)))
	for p.scanner.Scan() {
		if env, err := wire.Decode(p.scanner.Bytes()); err == nil {
			p.seen = append(p.seen, env)
		}
	}
	err := p.scanner.Err()
	if err != nil {
		p.s.Require().NotErrorIs(err, os.ErrDeadlineExceeded, "connection was never closed")
	}
}

func statusOf(userID string, status domain.Status) func(domain.Envelope) bool {
	return func(e domain.Envelope) bool {
		upd, ok := e.Payload.(domain.UserStatusUpdate)
		return ok && upd.Subject.ID == userID && upd.Status == status
	}
}

func systemOf(subtype domain.SystemSubtype, payload string) func(domain.Envelope) bool {
	return func(e domain.Envelope) bool {
		sys, ok := e.Payload.(domain.SystemMessage)
		return ok && sys.Subtype == subtype && sys.Payload == payload
	}
}

func anySystem(subtype domain.SystemSubtype) func(domain.Envelope) bool {
	return func(e domain.Envelope) bool {
		sys, ok := e.Payload.(domain.SystemMessage)
		return ok && sys.Subtype == subtype
	}
}

func textWith(content string) func(domain.Envelope) bool {
	return func(e domain.Envelope) bool {
		msg, ok := e.Payload.(domain.TextMessage)
		return ok && msg.Content == content
	}
}
