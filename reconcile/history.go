package reconcile

const historySize = 64

type historyEntry struct {
	seq    uint32
	valid  bool
	report Report
}

// History is a ring buffer of the most recent Reports, addressed by the
// sequence number Store returned. It implements Observer.
type History struct {
	entries [historySize]historyEntry
	nextSeq uint32
}

// Store saves a report and returns its sequence number.
func (h *History) Store(r Report) uint32 {
	seq := h.nextSeq
	h.entries[seq%historySize] = historyEntry{seq: seq, valid: true, report: r}
	h.nextSeq = seq + 1
	return seq
}

func (h *History) Observe(r Report) {
	h.Store(r)
}

// Get returns the report stored under seq, or false if it was never stored
// or has been overwritten.
func (h *History) Get(seq uint32) (Report, bool) {
	e := h.entries[seq%historySize]
	if !e.valid || e.seq != seq {
		return Report{}, false
	}
	return e.report, true
}

// NextSeq returns the sequence number the next report will get.
func (h *History) NextSeq() uint32 {
	return h.nextSeq
}

// Since returns the retained reports with sequence numbers >= seq, oldest
// first.
func (h *History) Since(seq uint32) []Report {
	if h.nextSeq > historySize && seq < h.nextSeq-historySize {
		seq = h.nextSeq - historySize
	}
	var out []Report
	for ; seq < h.nextSeq; seq++ {
		if r, ok := h.Get(seq); ok {
			out = append(out, r)
		}
	}
	return out
}

// Summary counts outcomes over the retained reports.
type Summary struct {
	Applied    int
	OutOfOrder int
	Diverged   int
	Teleported int
	Joined     int
	Left       int
}

func (h *History) Summarize() Summary {
	var s Summary
	for _, r := range h.Since(0) {
		s.Applied++
		if r.OutOfOrder {
			s.OutOfOrder++
		}
		s.Diverged += len(r.Diverged)
		s.Teleported += len(r.Teleported)
		s.Joined += len(r.Joined)
		s.Left += len(r.Left)
	}
	return s
}
