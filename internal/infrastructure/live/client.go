// Package live maintains the WebSocket connection that delivers profile updates.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	domainLive "github.com/felixgeelhaar/tabcrusher/pkg/domain/live"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ClientIDHeader identifies this client to the backend.
const ClientIDHeader = "X-Tabcrusher-Client"

// Options configures a Client.
type Options struct {
	Endpoint     string
	MaxAttempts  int
	InitialDelay time.Duration
	RoundDelay   time.Duration
	Dialer       *websocket.Dialer
	Logger       *slog.Logger
}

// Client owns one long-lived connection. It is created once at the composition root
// and handed to whoever consumes Events.
type Client struct {
	opts     Options
	clientID string
	logger   *slog.Logger

	mu      sync.Mutex
	machine *domainLive.ConnMachine
	conn    *websocket.Conn

	events    chan domainLive.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewClient validates opts and builds a disconnected client. Call Start to connect.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("live channel endpoint is required")
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 500 * time.Millisecond
	}
	if opts.RoundDelay <= 0 {
		opts.RoundDelay = 5 * time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	machine, err := domainLive.NewConnMachine()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		opts:     opts,
		clientID: uuid.NewString(),
		logger:   logger.With("component", "live", "endpoint", opts.Endpoint),
		machine:  machine,
		events:   make(chan domainLive.Event, 16),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the connection loop. Calling it more than once has no effect.
func (c *Client) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

// Events streams connection changes and profile updates. It is closed after Close.
func (c *Client) Events() <-chan domainLive.Event {
	return c.events
}

// State returns the current connection state.
func (c *Client) State() domainLive.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// ClientID returns the id sent in the handshake.
func (c *Client) ClientID() string {
	return c.clientID
}

// Close tears the connection down and waits for the loop to exit.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		// Start may never have been called.
		c.startOnce.Do(func() { close(c.done); close(c.events) })
		<-c.done
	})
	return nil
}

func (c *Client) run() {
	defer close(c.done)
	defer close(c.events)

	for c.ctx.Err() == nil {
		c.transition(domainLive.EventDial)

		conn, err := c.dial()
		if err != nil {
			c.transition(domainLive.EventFailed)
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Warn("live channel unreachable", "error", err, "retry_in", c.opts.RoundDelay)
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(c.opts.RoundDelay):
			}
			continue
		}

		if !c.attach(conn) {
			_ = conn.Close()
			return
		}
		c.transition(domainLive.EventOpen)
		c.logger.Info("live channel connected")

		c.read(conn)

		c.detach()
		c.transition(domainLive.EventLost)
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	header := http.Header{}
	header.Set(ClientIDHeader, c.clientID)

	r := retry.New[*websocket.Conn](retry.Config{
		MaxAttempts:   c.opts.MaxAttempts,
		InitialDelay:  c.opts.InitialDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	return r.Do(c.ctx, func(ctx context.Context) (*websocket.Conn, error) {
		conn, resp, err := c.opts.Dialer.DialContext(ctx, c.opts.Endpoint, header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			c.logger.Debug("dial failed", "error", err)
			return nil, err
		}
		return conn, nil
	})
}

// attach publishes conn so Close can interrupt its reader. It fails once closing began.
func (c *Client) attach(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) read(conn *websocket.Conn) {
	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				c.logger.Warn("live channel lost", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		ev, err := domainLive.Decode(frame)
		if err != nil {
			if errors.Is(err, domainLive.ErrUnknownEvent) {
				c.logger.Debug("ignored live event", "error", err)
			} else {
				c.logger.Warn("undecodable live frame", "error", err)
			}
			continue
		}
		c.logger.Info("live event received", "event", ev.EventName())
		c.emit(ev)
	}
}

func (c *Client) transition(event string) {
	c.mu.Lock()
	changed := c.machine.Fire(event)
	state := c.machine.State()
	c.mu.Unlock()

	if changed {
		c.emit(domainLive.ConnectionChanged{State: state, Connected: state == domainLive.Connected})
	}
}

func (c *Client) emit(ev domainLive.Event) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}
