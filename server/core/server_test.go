package core

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/entsync/shared/messages"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func dialTestServer(t *testing.T, s *Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn, ctx
}

func TestServerSendsWelcomeThenEntityLists(t *testing.T) {
	cfg := testArenaConfig()
	cfg.TickRate = 30
	s := NewServer(cfg, "test-arena", 1, prometheus.NewRegistry())

	conn, ctx := dialTestServer(t, s)

	_, got, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	want, err := router.Serialize(messages.Welcome{ServerName: "test-arena", TickRate: 30, EntityCount: cfg.EntityCount})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("expected welcome message first")
	}
	if n := s.ClientCount(); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	snap := s.step(250, 0.05)
	if snap.Timestamp != 250 || len(snap.Records) != cfg.EntityCount {
		t.Fatalf("unexpected snapshot ts=%d records=%d", snap.Timestamp, len(snap.Records))
	}

	_, got, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("read entity list: %v", err)
	}
	want, err = router.Serialize(messages.EntityList{Data: snapshot.Encode(snap)})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("expected entity list carrying the encoded snapshot")
	}

	if v := testutil.ToFloat64(s.metrics.Broadcasts); v != 1 {
		t.Fatalf("expected 1 broadcast, got %v", v)
	}
	if v := testutil.ToFloat64(s.metrics.Sent); v != 1 {
		t.Fatalf("expected 1 sent message, got %v", v)
	}
}

func TestServerCountsSimulatedDrops(t *testing.T) {
	cfg := testArenaConfig()
	cfg.DropRate = 1
	s := NewServer(cfg, "lossy", 1, prometheus.NewRegistry())

	conn, ctx := dialTestServer(t, s)
	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	for i := 0; i < 3; i++ {
		s.step(uint64(i), 0.05)
	}

	if v := testutil.ToFloat64(s.metrics.SimDropped); v != 3 {
		t.Fatalf("expected 3 simulated drops, got %v", v)
	}
	if v := testutil.ToFloat64(s.metrics.Sent); v != 0 {
		t.Fatalf("expected nothing sent, got %v", v)
	}
}

func TestServerStopClosesClients(t *testing.T) {
	s := NewServer(testArenaConfig(), "closing", 1, prometheus.NewRegistry())

	conn, ctx := dialTestServer(t, s)
	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	readErr := make(chan error, 1)
	go func() {
		_, _, err := conn.Read(ctx)
		readErr <- err
	}()

	waitOrFail(t, "Stop with a connected client", s.Stop)

	select {
	case err := <-readErr:
		if status := websocket.CloseStatus(err); status != websocket.StatusGoingAway {
			t.Fatalf("expected going-away close, got %v (%v)", status, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client was not closed")
	}
}
