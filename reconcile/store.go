package reconcile

import "github.com/automoto/entsync/shared/snapshot"

// Lifecycle is the store's coarse state.
type Lifecycle int

const (
	Uninitialized Lifecycle = iota
	Initialized
)

func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// generation is one committed set of records in snapshot order, indexed by id.
type generation struct {
	records []snapshot.EntityRecord
	index   map[uint32]int
}

func newGeneration(records []snapshot.EntityRecord) generation {
	g := generation{
		records: records,
		index:   make(map[uint32]int, len(records)),
	}
	for i, r := range records {
		g.index[r.ID] = i
	}
	return g
}

func (g *generation) lookup(id uint32) (*snapshot.EntityRecord, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.records[i], true
}

// Store holds the current and previous generation for one connection.
type Store struct {
	state        Lifecycle
	strictRoster bool

	current  generation
	previous generation

	lastAccepted uint64
}

// NewStore returns an empty store. With strictRoster set, every generation
// must carry as many records as the first snapshot did.
func NewStore(strictRoster bool) *Store {
	return &Store{strictRoster: strictRoster}
}

// Initialize installs the first snapshot as both generations.
func (s *Store) Initialize(timestamp uint64, records []snapshot.EntityRecord) error {
	if s.state != Uninitialized {
		return ErrAlreadyInitialized
	}
	s.current = newGeneration(cloneNonNil(records))
	s.previous = newGeneration(cloneNonNil(records))
	s.lastAccepted = timestamp
	s.state = Initialized
	return nil
}

// BeginNewGeneration shifts current into previous and installs a copy of
// records as current.
func (s *Store) BeginNewGeneration(records []snapshot.EntityRecord) error {
	if s.state != Initialized {
		return ErrNotInitialized
	}
	if s.strictRoster && len(records) != len(s.current.records) {
		return &SizeMismatchError{Want: len(s.current.records), Got: len(records)}
	}
	s.previous = s.current
	s.current = newGeneration(cloneNonNil(records))
	return nil
}

// Current returns the live current generation. The extrapolator mutates it
// in place; consumers should copy it rather than hold on to it.
func (s *Store) Current() []snapshot.EntityRecord {
	return s.current.records
}

// Previous returns the generation committed before Current.
func (s *Store) Previous() []snapshot.EntityRecord {
	return s.previous.records
}

// Lookup returns the current record for id.
func (s *Store) Lookup(id uint32) (snapshot.EntityRecord, bool) {
	r, ok := s.current.lookup(id)
	if !ok {
		return snapshot.EntityRecord{}, false
	}
	return *r, true
}

func (s *Store) LastAcceptedTimestamp() uint64 {
	return s.lastAccepted
}

// advanceWatermark records ts as the newest accepted snapshot. The watermark
// never moves backwards.
func (s *Store) advanceWatermark(ts uint64) {
	if ts > s.lastAccepted {
		s.lastAccepted = ts
	}
}

// pending returns the generation the next snapshot is reconciled against.
func (s *Store) pending() *generation {
	return &s.current
}

func (s *Store) State() Lifecycle {
	return s.state
}

func (s *Store) StrictRoster() bool {
	return s.strictRoster
}

func cloneNonNil(records []snapshot.EntityRecord) []snapshot.EntityRecord {
	out := make([]snapshot.EntityRecord, len(records))
	copy(out, records)
	return out
}
