package network

import (
	"fmt"
	"log"
	"sync"

	"github.com/automoto/entsync/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateWelcomed
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
	case StateWelcomed:
		return "welcomed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Client receives entity lists from the sim server over WebSocket.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state       ClientState
	lastError   error
	serverName  string
	tickRate    int
	entityCount int
	conn        *websocket.Conn
	dropped     int

	entityListCh chan []byte // arrival order; a full queue drops the newest
}

func NewClient(queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Client{
		state:        StateDisconnected,
		entityListCh: make(chan []byte, queueSize),
	}
}

// Connect dials the server in a background goroutine.
func (c *Client) Connect(address string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.Welcome) {
		log.Printf("[client] welcome: server=%s tickRate=%d entities=%d",
			msg.ServerName, msg.TickRate, msg.EntityCount)
		c.mu.Lock()
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.entityCount = msg.EntityCount
		c.state = StateWelcomed
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.EntityList) {
		c.Enqueue(msg.Data)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
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

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// EntityCount is the roster size announced in the server's Welcome.
func (c *Client) EntityCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entityCount
}

// Enqueue queues one raw entity-list payload. It never blocks; when the queue
// is full the payload is dropped and counted.
func (c *Client) Enqueue(data []byte) {
	select {
	case c.entityListCh <- data:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
	}
}

// DrainEntityLists returns all pending payloads in arrival order, non-blocking.
func (c *Client) DrainEntityLists() [][]byte {
	return drainChan(c.entityListCh)
}

// TakeDropped returns the number of payloads dropped since the last call.
func (c *Client) TakeDropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.dropped
	c.dropped = 0
	return n
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
