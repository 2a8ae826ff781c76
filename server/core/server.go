package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/automoto/entsync/config"
	"github.com/automoto/entsync/metrics"
	"github.com/automoto/entsync/shared/messages"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/prometheus/client_golang/prometheus"
)

const outboxSize = 16

// clientConn is one connected WebSocket client.
type clientConn struct {
	id     uint64
	conn   *websocket.Conn
	link   *LossyLink // only touched by the game loop
	outbox chan []byte
}

// Server simulates wandering entities and broadcasts entity lists to every
// connected client.
type Server struct {
	cfg     config.ServerConfig
	name    string
	arena   *Arena
	loop    *GameLoop
	metrics *metrics.ServerMetrics
	mux     *http.ServeMux
	start   time.Time

	httpServer *http.Server
	stopped    bool

	// Track connected clients
	clients  map[*clientConn]struct{}
	nextID   uint64
	linkSeed *rand.Rand
	mu       sync.RWMutex
}

// NewServer creates a new sim server. seed makes the arena and the lossy
// links reproducible.
func NewServer(cfg config.ServerConfig, name string, seed uint64, reg prometheus.Registerer) *Server {
	s := &Server{
		cfg:      cfg,
		name:     name,
		arena:    NewArena(cfg, rand.New(rand.NewPCG(seed, 1))),
		metrics:  metrics.NewServerMetrics(reg),
		mux:      http.NewServeMux(),
		start:    time.Now(),
		clients:  make(map[*clientConn]struct{}),
		linkSeed: rand.New(rand.NewPCG(seed, 2)),
	}
	s.loop = NewGameLoop(s, cfg.TickInterval())
	s.mux.HandleFunc("/", s.handleWS)
	return s
}

// Handle registers an extra HTTP handler next to the WebSocket endpoint.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the game loop and serves WebSocket clients on port until Stop.
func (s *Server) Start(port uint) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	return s.Serve(ln)
}

// Serve runs the game loop and serves WebSocket clients on ln until Stop.
// It returns nil once the server was stopped.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	s.httpServer = &http.Server{Handler: s.mux}
	srv := s.httpServer
	s.mu.Unlock()

	go s.loop.Run()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server. It is safe to call before Start.
func (s *Server) Stop() {
	s.loop.Stop()

	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c.conn)
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		}()
	}
	wg.Wait()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[server] shutdown: %v", err)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[server] accept failed: %v", err)
		return
	}

	c := s.addClient(conn)
	defer s.removeClient(c)
	log.Printf("[server] client %d connected from %s", c.id, r.RemoteAddr)

	if err := s.sendWelcome(r.Context(), c); err != nil {
		log.Printf("[server] client %d: %v", c.id, err)
		_ = conn.CloseNow()
		return
	}

	ctx := conn.CloseRead(r.Context())
	if err := c.writeLoop(ctx, s.cfg.WriteTimeout); err != nil {
		log.Printf("[server] client %d disconnected: %v", c.id, err)
		_ = conn.CloseNow()
		return
	}
	log.Printf("[server] client %d disconnected", c.id)
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) sendWelcome(ctx context.Context, c *clientConn) error {
	payload, err := router.Serialize(messages.Welcome{
		ServerName:  s.name,
		TickRate:    s.cfg.TickRate,
		EntityCount: s.arena.EntityCount(),
	})
	if err != nil {
		return fmt.Errorf("serialize welcome: %w", err)
	}
	wctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageBinary, payload); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

// writeLoop sends queued messages until ctx ends. A nil return means the
// peer went away cleanly.
func (c *clientConn) writeLoop(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-c.outbox:
			wctx, cancel := context.WithTimeout(ctx, timeout)
			err := c.conn.Write(wctx, websocket.MessageBinary, msg)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (s *Server) addClient(conn *websocket.Conn) *clientConn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := &clientConn{
		id:     s.nextID,
		conn:   conn,
		link:   NewLossyLink(s.cfg.DropRate, s.cfg.ReorderRate, rand.New(rand.NewPCG(s.linkSeed.Uint64(), s.nextID))),
		outbox: make(chan []byte, outboxSize),
	}
	s.clients[c] = struct{}{}
	s.metrics.Clients.Set(float64(len(s.clients)))
	return c
}

func (s *Server) removeClient(c *clientConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
	s.metrics.Clients.Set(float64(len(s.clients)))
}

// step advances the arena by dt seconds and broadcasts the result stamped
// with ts. It returns the snapshot that was sent.
func (s *Server) step(ts uint64, dt float64) snapshot.Snapshot {
	s.arena.Step(dt)
	snap := s.arena.Snapshot(ts)
	for _, r := range snap.Records {
		if r.Teleported {
			s.metrics.Teleports.Inc()
		}
	}

	payload, err := router.Serialize(messages.EntityList{Data: snapshot.Encode(snap)})
	if err != nil {
		log.Printf("[server] serialize entity list: %v", err)
		return snap
	}
	s.metrics.Broadcasts.Inc()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		dropped, reordered := c.link.Dropped, c.link.Reordered
		for _, msg := range c.link.Route(payload) {
			select {
			case c.outbox <- msg:
				s.metrics.Sent.Inc()
			default:
				s.metrics.OutboxOverflow.Inc()
			}
		}
		s.metrics.SimDropped.Add(float64(c.link.Dropped - dropped))
		s.metrics.SimReordered.Add(float64(c.link.Reordered - reordered))
	}
	return snap
}

// elapsedMillis is the snapshot clock: milliseconds since the server started.
func (s *Server) elapsedMillis() uint64 {
	return uint64(time.Since(s.start).Milliseconds())
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
