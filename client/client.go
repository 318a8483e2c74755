// Package client implements the client-side core of the relay protocol:
// envelope transmission, the inbound envelope stream, and heartbeat
// liveness tracking. Identity prompting and display belong to the
// presentation layer, which plugs in through the Config callbacks.
package client

import (
	"bufio"
	"log/slog"
	"net"
	"sync"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/wire"

	"github.com/google/uuid"
)

type Config struct {
	Addr string

	// HeartbeatTimeout is the silence interval after which the server is
	// considered unreachable. Recommended: twice the server's heartbeat
	// period.
	HeartbeatTimeout time.Duration

	// OnEnvelope receives every decoded inbound envelope.
	OnEnvelope func(e domain.Envelope)

	// OnDisconnect fires once when liveness is lost, either through a
	// heartbeat timeout or a broken read.
	OnDisconnect func(err error)
}

type Client struct {
	log  *slog.Logger
	cfg  Config
	conn net.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	user     domain.User
	joined   bool
	lastBeat time.Time
	down     bool

	notifyOnce sync.Once
	closeOnce  sync.Once
	done       chan struct{}
}

// Dial connects to the relay and starts the receive loop and the
// heartbeat watchdog. The returned client is not joined yet; call Join
// with the identity chosen by the presentation layer.
func Dial(log *slog.Logger, cfg Config) (*Client, error) {
	conn, err := net.Dial("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}

	c := &Client{
		log:      log,
		cfg:      cfg,
		conn:     conn,
		lastBeat: time.Now(),
		done:     make(chan struct{}),
	}

	go c.readLoop()
	if cfg.HeartbeatTimeout > 0 {
		go c.watchdog()
	}
	return c, nil
}

// Join announces the chosen display name as online under a freshly
// generated user id and returns that identity. A duplicate-identity
// rejection arrives asynchronously as an Offline update for this user,
// followed by the server dropping the connection.
func (c *Client) Join(name string) (domain.User, error) {
	user := domain.User{ID: uuid.NewString(), Name: name}

	env := domain.NewEnvelope(domain.UserStatusUpdate{
		Subject: user,
		Status:  domain.StatusOnline,
	})
	if err := c.Send(env); err != nil {
		return domain.User{}, err
	}

	c.mu.Lock()
	c.user = user
	c.joined = true
	c.mu.Unlock()
	return user, nil
}

// User returns the identity announced by Join.
func (c *Client) User() domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Send enqueues one envelope for transmission. Once liveness is lost the
// client ceases sending and reports the server as unreachable.
func (c *Client) Send(env domain.Envelope) error {
	c.mu.Lock()
	down := c.down
	c.mu.Unlock()
	if down {
		return errors.ErrServerUnreachable
	}

	line, err := wire.Encode(env)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(line); err != nil {
		return err
	}
	return nil
}

// SendText posts a text message to the given chat on behalf of the
// joined user. The chat is sent by value, participant set included.
func (c *Client) SendText(chat domain.Chat, content string) error {
	c.mu.Lock()
	user, joined := c.user, c.joined
	c.mu.Unlock()
	if !joined {
		return errors.ErrNotJoined
	}

	return c.Send(domain.NewEnvelope(domain.TextMessage{
		Chat:    chat,
		Sender:  user,
		Content: content,
	}))
}

// RequestPeerAddr asks the server for the remote endpoint of another
// user. The answer arrives as an IpTransition system envelope.
func (c *Client) RequestPeerAddr(targetID string) error {
	c.mu.Lock()
	user, joined := c.user, c.joined
	c.mu.Unlock()
	if !joined {
		return errors.ErrNotJoined
	}

	return c.Send(domain.NewEnvelope(domain.SystemMessage{
		Subtype: domain.SystemIPRequest,
		Payload: user.ID + " " + targetID,
	}))
}

// Leave announces the joined user as offline and closes the connection.
func (c *Client) Leave() error {
	c.mu.Lock()
	user, joined := c.user, c.joined
	c.joined = false
	c.mu.Unlock()

	if joined {
		_ = c.Send(domain.NewEnvelope(domain.UserStatusUpdate{
			Subject: user,
			Status:  domain.StatusOffline,
		}))
	}
	return c.Close()
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// readLoop decodes inbound lines and feeds them to the presentation
// layer. Heartbeats refresh the liveness clock before being passed on
// like any other envelope.
func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		env, err := wire.Decode(line)
		if err != nil {
			c.log.Warn("skipping malformed line from server", "error", err)
			continue
		}

		if sys, ok := env.Payload.(domain.SystemMessage); ok && sys.Subtype == domain.SystemHeartbeat {
			c.mu.Lock()
			c.lastBeat = time.Now()
			c.mu.Unlock()
		}

		if c.cfg.OnEnvelope != nil {
			c.cfg.OnEnvelope(env)
		}
	}

	select {
	case <-c.done:
		// Deliberate close, not a liveness loss.
	default:
		c.lost(errors.ErrConnectionClosed)
	}
}

// watchdog concludes the server is unreachable when no heartbeat has
// been seen for longer than the configured timeout.
func (c *Client) watchdog() {
	interval := c.cfg.HeartbeatTimeout / 4
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			silent := time.Since(c.lastBeat)
			c.mu.Unlock()

			if silent > c.cfg.HeartbeatTimeout {
				c.lost(errors.ErrServerUnreachable)
				return
			}
		}
	}
}

// lost marks the client down, stops outbound traffic and surfaces the
// disconnect notice exactly once.
func (c *Client) lost(cause error) {
	c.mu.Lock()
	c.down = true
	c.mu.Unlock()

	c.notifyOnce.Do(func() {
		c.log.Warn("liveness lost", "cause", cause)
		if c.cfg.OnDisconnect != nil {
			c.cfg.OnDisconnect(cause)
		}
	})
	_ = c.Close()
}
