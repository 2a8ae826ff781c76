// Package session binds one connection's entity store, reconciliation engine
// and history behind a single lock, and runs the per-tick sequence:
// drain every queued entity list in arrival order, reconcile each, then
// extrapolate once.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/entsync/config"
	"github.com/automoto/entsync/metrics"
	"github.com/automoto/entsync/reconcile"
	"github.com/automoto/entsync/shared/gamemath"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/tanema/gween/ease"
)

// Source yields raw entity-list payloads in arrival order. *network.Client
// implements it.
type Source interface {
	DrainEntityLists() [][]byte
}

// dropCounter is implemented by sources that shed load.
type dropCounter interface {
	TakeDropped() int
}

type Options struct {
	Threshold    float64
	Blend        ease.TweenFunc
	StrictRoster bool
	Metrics      *metrics.SyncMetrics // optional
}

// Session owns the sync state of one connection.
type Session struct {
	mu sync.Mutex

	source  Source
	store   *reconcile.Store
	engine  *reconcile.Engine
	history *reconcile.History
	metrics *metrics.SyncMetrics
	ticks   uint64
}

func New(source Source, opts Options) *Session {
	s := &Session{
		source:  source,
		store:   reconcile.NewStore(opts.StrictRoster),
		history: &reconcile.History{},
		metrics: opts.Metrics,
	}

	engineOpts := []reconcile.Option{
		reconcile.WithBlend(opts.Blend),
		reconcile.WithObserver(s.history),
	}
	if opts.Threshold > 0 {
		engineOpts = append(engineOpts, reconcile.WithThreshold(opts.Threshold))
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, reconcile.WithObserver(opts.Metrics))
	}
	s.engine = reconcile.NewEngine(s.store, engineOpts...)
	return s
}

// FromConfig builds a Session from sync tuning.
func FromConfig(source Source, cfg config.SyncConfig, m *metrics.SyncMetrics) (*Session, error) {
	blend, ok := gamemath.EaseByName(cfg.BlendEase)
	if !ok {
		return nil, fmt.Errorf("unknown blend curve %q", cfg.BlendEase)
	}
	return New(source, Options{
		Threshold:    cfg.DivergenceThreshold,
		Blend:        blend,
		StrictRoster: cfg.StrictRoster,
		Metrics:      m,
	}), nil
}

// Tick runs one simulation step of length dt. Malformed snapshots are logged
// and skipped; a roster size mismatch is returned and ends the tick.
func (s *Session) Tick(dt time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := float32(dt.Seconds())
	s.ticks++

	if dc, ok := s.source.(dropCounter); ok {
		if n := dc.TakeDropped(); n > 0 {
			log.Printf("[session] receive queue full, dropped %d entity lists", n)
			if s.metrics != nil {
				s.metrics.QueueDropped(n)
			}
		}
	}

	for _, buf := range s.source.DrainEntityLists() {
		if err := s.applyLocked(buf, elapsed); err != nil {
			return err
		}
	}

	reconcile.Extrapolate(s.store, elapsed)
	return nil
}

func (s *Session) applyLocked(buf []byte, elapsed float32) error {
	snap, err := snapshot.Decode(buf)
	if err != nil {
		var de *snapshot.DecodeError
		if errors.As(err, &de) {
			log.Printf("[session] dropping snapshot: %v", err)
			if s.metrics != nil {
				s.metrics.DecodeFailed()
			}
			return nil
		}
		return err
	}

	report, err := s.engine.Apply(snap, elapsed)
	if err != nil {
		return fmt.Errorf("apply snapshot %d: %w", snap.Timestamp, err)
	}
	if report.Initialized {
		log.Printf("[session] initialized with %d entities at t=%d", report.Entities, report.Timestamp)
	}
	return nil
}

// Entities returns a copy of the current generation.
func (s *Session) Entities() []snapshot.EntityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.CloneRecords(s.store.Current())
}

func (s *Session) LastAcceptedTimestamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LastAcceptedTimestamp()
}

func (s *Session) State() reconcile.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// StrictRoster reports whether an entity-count change is fatal.
func (s *Session) StrictRoster() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.StrictRoster()
}

// Summary counts outcomes over the recent reports.
func (s *Session) Summary() reconcile.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Summarize()
}

// Ticks returns how many times Tick ran.
func (s *Session) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
