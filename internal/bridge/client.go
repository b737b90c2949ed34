// Package bridge is the websocket link to the in-page host bridge.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/detailed-moves/pkg/hostproto"
)

var ErrNotConnected = errors.New("bridge not connected")

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateFailed       State = "failed"
)

type FrameCallback func(frame hostproto.Envelope)

type StateCallback func(state State)

// HeaderProvider supplies handshake headers.
type HeaderProvider func() map[string]string

type callbackEntry struct {
	id       int
	callback FrameCallback
}

type stateCallbackEntry struct {
	id       int
	callback StateCallback
}

type Client struct {
	wsURL  string
	logger *zap.Logger

	conn   *websocket.Conn
	connM  sync.RWMutex
	state  State
	stateM sync.RWMutex

	frameCbs []callbackEntry
	stateCbs []stateCallbackEntry
	nextID   int
	cbM      sync.RWMutex

	maxReconnectAttempts int
	pingInterval         time.Duration
	readLimit            int64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc

	headerProvider HeaderProvider
}

func NewClient(wsURL string, maxReconnectAttempts int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		wsURL:                wsURL,
		logger:               logger,
		state:                StateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		pingInterval:         30 * time.Second,
		// snapshots carry the whole analysis page
		readLimit: 16 << 20,
		stopCh:    make(chan struct{}),
	}
}

// SetHeaderProvider allows injecting headers into the handshake.
func (c *Client) SetHeaderProvider(h HeaderProvider) {
	c.headerProvider = h
}

func (c *Client) Connect(ctx context.Context) error {
	c.stateM.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.stateM.Unlock()
		return nil
	}
	c.stateM.Unlock()

	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	c.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, err := c.dial(dialCtx)
	if err != nil {
		c.setState(StateFailed)
		c.scheduleReconnect()
		return fmt.Errorf("dial bridge: %w", err)
	}
	c.attach(conn)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      c.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(c.readLimit)
	return conn, nil
}

func (c *Client) attach(conn *websocket.Conn) {
	c.connM.Lock()
	c.conn = conn
	c.connM.Unlock()
	c.setState(StateConnected)

	c.wg.Add(2)
	go c.listen(conn)
	go c.pingLoop(conn)
}

func (c *Client) current() *websocket.Conn {
	c.connM.RLock()
	defer c.connM.RUnlock()
	return c.conn
}

func (c *Client) listen(conn *websocket.Conn) {
	defer c.wg.Done()
	for {
		var frame hostproto.Envelope
		if err := wsjson.Read(c.rootCtx, conn, &frame); err != nil {
			if c.isStopping() {
				return
			}
			c.logger.Warn("bridge_read_failed", zap.Error(err))
			c.dropConn(conn, websocket.StatusGoingAway, "reconnect")
			return
		}

		c.cbM.RLock()
		callbacks := make([]callbackEntry, len(c.frameCbs))
		copy(callbacks, c.frameCbs)
		c.cbM.RUnlock()
		for _, entry := range callbacks {
			if entry.callback != nil {
				entry.callback(frame)
			}
		}
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	defer c.wg.Done()
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-t.C:
			if c.current() != conn {
				return
			}
			ctx, cancel := context.WithTimeout(c.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err == nil {
				failures = 0
				continue
			}
			failures++
			if failures >= 2 {
				if c.isStopping() {
					return
				}
				c.logger.Warn("bridge_ping_failed", zap.Error(err))
				c.dropConn(conn, websocket.StatusGoingAway, "ping failure")
				return
			}
		}
	}
}

// dropConn closes conn if it is still the live one and starts reconnecting.
func (c *Client) dropConn(conn *websocket.Conn, code websocket.StatusCode, reason string) {
	c.connM.Lock()
	if c.conn != conn {
		c.connM.Unlock()
		return
	}
	c.conn = nil
	c.connM.Unlock()
	_ = conn.Close(code, reason)
	c.setState(StateDisconnected)
	c.scheduleReconnect()
}

func (c *Client) scheduleReconnect() {
	if c.maxReconnectAttempts <= 0 {
		return
	}
	c.setState(StateReconnecting)

	go func() {
		for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
			select {
			case <-c.stopCh:
				return
			case <-time.After(backoffDuration(attempt)):
			}

			dialCtx, cancel := context.WithTimeout(c.rootCtx, 10*time.Second)
			conn, err := c.dial(dialCtx)
			cancel()
			if err != nil {
				c.logger.Debug("bridge_reconnect_failed", zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			c.attach(conn)
			return
		}
		c.setState(StateFailed)
	}()
}

// Send writes one frame.
func (c *Client) Send(ctx context.Context, kind hostproto.Kind, payload any) error {
	conn := c.current()
	if conn == nil {
		return ErrNotConnected
	}
	env, err := hostproto.Encode(kind, payload)
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, conn, env); err != nil {
		return fmt.Errorf("write %s frame: %w", kind, err)
	}
	return nil
}

func (c *Client) OnFrame(cb FrameCallback) int {
	c.cbM.Lock()
	defer c.cbM.Unlock()
	c.nextID++
	c.frameCbs = append(c.frameCbs, callbackEntry{id: c.nextID, callback: cb})
	return c.nextID
}

func (c *Client) OnStateChange(cb StateCallback) int {
	c.cbM.Lock()
	defer c.cbM.Unlock()
	c.nextID++
	c.stateCbs = append(c.stateCbs, stateCallbackEntry{id: c.nextID, callback: cb})
	return c.nextID
}

func (c *Client) State() State {
	c.stateM.RLock()
	defer c.stateM.RUnlock()
	return c.state
}

func (c *Client) setState(state State) {
	c.stateM.Lock()
	c.state = state
	c.stateM.Unlock()

	c.cbM.RLock()
	callbacks := make([]stateCallbackEntry, len(c.stateCbs))
	copy(callbacks, c.stateCbs)
	c.cbM.RUnlock()
	for _, entry := range callbacks {
		if entry.callback != nil {
			entry.callback(state)
		}
	}
}

func (c *Client) Close(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.connM.Lock()
	conn := c.conn
	c.conn = nil
	c.connM.Unlock()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "close")
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if c.rootCancel != nil {
			c.rootCancel()
		}
		c.setState(StateDisconnected)
		return nil
	}
}

func (c *Client) isStopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func (c *Client) buildHeaders() http.Header {
	hdr := http.Header{}
	if c.headerProvider == nil {
		return hdr
	}
	for k, v := range c.headerProvider() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
}
