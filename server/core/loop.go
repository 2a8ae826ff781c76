package core

import (
	"log"
	"sync"
	"time"
)

type GameLoop struct {
	server   *Server
	interval time.Duration
	stopChan chan struct{}
	stopped  chan struct{}

	mu      sync.Mutex
	started bool
	halted  bool
}

func NewGameLoop(server *Server, interval time.Duration) *GameLoop {
	return &GameLoop{
		server:   server,
		interval: interval,
		stopChan: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run ticks until Stop. It returns at once if the loop is already running or
// was stopped before it started.
func (g *GameLoop) Run() {
	g.mu.Lock()
	if g.started || g.halted {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.mu.Unlock()
	defer close(g.stopped)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	log.Printf("[loop] started, broadcasting every %v", g.interval)

	for {
		select {
		case <-g.stopChan:
			log.Println("[loop] stopped")
			return
		case <-ticker.C:
			g.tick(g.interval.Seconds())
		}
	}
}

// Stop ends Run and waits for the current tick to finish.
func (g *GameLoop) Stop() {
	g.mu.Lock()
	started := g.started
	if !g.halted {
		g.halted = true
		close(g.stopChan)
	}
	g.mu.Unlock()

	if started {
		<-g.stopped
	}
}

func (g *GameLoop) tick(dt float64) {
	g.server.step(g.server.elapsedMillis(), dt)
}
