package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/emberwatch/shared/messages"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected // socket open, hello sent
	StateJoined    // server acknowledged with "connected"
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ErrNotConnected is returned by SendAction when no socket is open.
var ErrNotConnected = errors.New("not connected")

// ClientConfig configures a Client. Zero values fall back to defaults.
type ClientConfig struct {
	ClientKind  string
	ReadLimit   int64
	DialTimeout time.Duration
	Logger      *log.Logger

	// OnFrame, if set, sees every raw frame before decoding. Called from the
	// read goroutine.
	OnFrame func([]byte)
}

// Client manages the websocket connection to the game server.
// All shared fields are protected by mu (the read loop runs on its own goroutine).
// Each Connect or Disconnect starts a new generation; goroutines of an older
// generation never touch the client's state again.
// Decoded messages are queued in arrival order and handed to the game loop by
// DrainMessages, so snapshot handling always happens on the caller's goroutine.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	playerID  messages.ID
	conn      *websocket.Conn
	cancel    context.CancelFunc
	inbox     []messages.Inbound
	gen       uint64

	kind        string
	readLimit   int64
	dialTimeout time.Duration
	logger      *log.Logger
	onFrame     func([]byte)
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		state:       StateDisconnected,
		kind:        cfg.ClientKind,
		readLimit:   cfg.ReadLimit,
		dialTimeout: cfg.DialTimeout,
		logger:      cfg.Logger,
		onFrame:     cfg.OnFrame,
	}
	if c.kind == "" {
		c.kind = "web"
	}
	if c.readLimit <= 0 {
		c.readLimit = 1 << 20
	}
	if c.dialTimeout <= 0 {
		c.dialTimeout = 5 * time.Second
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Connect dials the server in a background goroutine and sends the hello.
func (c *Client) Connect(url, token string) {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.state = StateConnecting
	c.lastError = nil
	c.conn = nil
	c.inbox = nil
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, gen, url, token)
}

func (c *Client) run(ctx context.Context, gen uint64, url, token string) {
	dialCtx, cancelDial := context.WithTimeout(ctx, c.dialTimeout)
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	cancelDial()
	if err != nil {
		c.setError(gen, fmt.Errorf("connection failed: %w", err))
		return
	}
	conn.SetReadLimit(c.readLimit)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		_ = conn.CloseNow()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	if err := wsjson.Write(ctx, conn, messages.ClientHello{Token: token, Client: c.kind}); err != nil {
		c.setError(gen, fmt.Errorf("failed to send hello: %w", err))
		_ = conn.CloseNow()
		return
	}
	c.logger.Println("[client] connected to server")
	c.setState(gen, StateConnected)

	c.readLoop(ctx, gen, conn)
}

func (c *Client) readLoop(ctx context.Context, gen uint64, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.handleReadError(gen, err)
			return
		}

		if c.onFrame != nil {
			c.onFrame(data)
		}

		msg, err := messages.DecodeInbound(data)
		if err != nil {
			c.logger.Printf("[client] dropping undecodable frame: %v", err)
			continue
		}

		switch m := msg.(type) {
		case messages.Connected:
			c.logger.Printf("[client] joined: playerId=%s tick=%d", m.PlayerID, m.Tick)
			c.mu.Lock()
			if c.gen == gen {
				c.playerID = m.PlayerID
				c.state = StateJoined
			}
			c.mu.Unlock()
		case messages.ServerError:
			c.logger.Printf("[client] server error: %s", m.Message)
			c.setError(gen, fmt.Errorf("server error: %s", m.Message))
		}

		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.inbox = append(c.inbox, msg)
		c.mu.Unlock()
	}
}

func (c *Client) handleReadError(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// Disconnect or a newer Connect already owns the state
		return
	}
	c.conn = nil
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		c.logger.Printf("[client] disconnected: %v", err)
		if c.state != StateError {
			c.state = StateDisconnected
		}
		return
	}
	c.logger.Printf("[client] read error: %v", err)
	// a server "error" message already explains the close
	if c.state != StateError {
		c.state = StateError
		c.lastError = fmt.Errorf("connection lost: %w", err)
	}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	c.gen++
	if c.state != StateError {
		c.state = StateDisconnected
	}
	c.conn = nil
	c.cancel = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client leaving")
	}
	if cancel != nil {
		cancel()
	}
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) PlayerID() messages.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// DrainMessages returns every message received since the last call, in
// arrival order. Non-blocking.
func (c *Client) DrainMessages() []messages.Inbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.inbox
	c.inbox = nil
	return out
}

// SendAction writes one action frame.
func (c *Client) SendAction(a messages.Action) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, a); err != nil {
		return fmt.Errorf("send %s: %w", a.Type, err)
	}
	return nil
}

func (c *Client) setState(gen uint64, s ClientState) {
	c.mu.Lock()
	if c.gen == gen && c.state != StateError {
		c.state = s
	}
	c.mu.Unlock()
}

func (c *Client) setError(gen uint64, err error) {
	c.mu.Lock()
	if c.gen == gen {
		c.state = StateError
		c.lastError = err
	}
	c.mu.Unlock()
}
