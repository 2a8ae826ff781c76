package reconcile

import (
	"github.com/automoto/entsync/shared/gamemath"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/tanema/gween/ease"
)

// DefaultDivergenceThreshold is the distance, in world units, between the
// dead-reckoned and reported position above which a record is treated as
// evidence of lost updates.
const DefaultDivergenceThreshold = 25.0

// Report describes what one Apply call did. Out-of-order and divergence are
// expected signals, not errors.
type Report struct {
	Timestamp uint64
	// Initialized is set for the snapshot that initialized the store.
	Initialized bool
	// OutOfOrder is set when the snapshot was older than the watermark and
	// its data was rejected.
	OutOfOrder bool
	// Diverged lists entities whose velocity was blended.
	Diverged []uint32
	// Teleported lists entities that diverged but carried the teleport flag.
	Teleported []uint32
	Joined     []uint32
	Left       []uint32
	// Entities is the size of the committed generation.
	Entities int
}

// Observer receives every Report the engine produces.
type Observer interface {
	Observe(Report)
}

// Engine runs the correction pass for one Store.
type Engine struct {
	store     *Store
	threshold float64
	blend     ease.TweenFunc
	observers []Observer
}

type Option func(*Engine)

// WithThreshold overrides DefaultDivergenceThreshold. The threshold is a
// plain distance; callers wanting a rate must scale it themselves.
func WithThreshold(d float64) Option {
	return func(e *Engine) {
		e.threshold = d
	}
}

// WithBlend sets the curve used to pull velocity toward a diverged reading.
// The default, ease.Linear, is lerp(prev, reported, elapsed).
func WithBlend(fn ease.TweenFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.blend = fn
		}
	}
}

// WithObserver registers an Observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		threshold: DefaultDivergenceThreshold,
		blend:     ease.Linear,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Store() *Store {
	return e.store
}

func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Apply feeds one snapshot through the store. elapsed is the simulation step
// since the last tick in seconds; it is independent of the snapshot clock.
// On error the store is left untouched.
func (e *Engine) Apply(snap snapshot.Snapshot, elapsed float32) (Report, error) {
	report := Report{Timestamp: snap.Timestamp}

	if e.store.State() == Uninitialized {
		if err := e.store.Initialize(snap.Timestamp, snap.Records); err != nil {
			return report, err
		}
		report.Initialized = true
		report.Entities = len(e.store.Current())
		e.notify(report)
		return report, nil
	}

	prior := e.store.pending()
	var next []snapshot.EntityRecord

	if snap.Timestamp < e.store.LastAcceptedTimestamp() {
		// Stale data: every record falls back to what we already had.
		report.OutOfOrder = true
		next = snapshot.CloneRecords(prior.records)
	} else {
		next = make([]snapshot.EntityRecord, 0, len(snap.Records))
		present := make(map[uint32]struct{}, len(snap.Records))
		for _, rec := range snap.Records {
			present[rec.ID] = struct{}{}
			prev, ok := prior.lookup(rec.ID)
			if !ok {
				report.Joined = append(report.Joined, rec.ID)
				next = append(next, rec)
				continue
			}
			next = append(next, e.correct(*prev, rec, elapsed, &report))
		}
		for _, rec := range prior.records {
			if _, ok := present[rec.ID]; !ok {
				report.Left = append(report.Left, rec.ID)
			}
		}
	}

	if err := e.store.BeginNewGeneration(next); err != nil {
		return Report{Timestamp: snap.Timestamp}, err
	}
	if !report.OutOfOrder {
		e.store.advanceWatermark(snap.Timestamp)
	}

	report.Entities = len(e.store.Current())
	e.notify(report)
	return report, nil
}

// correct applies the divergence policy to one record paired with its
// previous state.
func (e *Engine) correct(prev, rec snapshot.EntityRecord, elapsed float32, report *Report) snapshot.EntityRecord {
	expected := gamemath.Advance(prev.Position, prev.Velocity, elapsed)
	if gamemath.Distance(expected, rec.Position) <= e.threshold {
		return rec
	}
	if rec.Teleported {
		report.Teleported = append(report.Teleported, rec.ID)
		return rec
	}
	rec.Velocity = gamemath.Blend(prev.Velocity, rec.Velocity, elapsed, e.blend)
	report.Diverged = append(report.Diverged, rec.ID)
	return rec
}

func (e *Engine) notify(r Report) {
	for _, o := range e.observers {
		o.Observe(r)
	}
}
