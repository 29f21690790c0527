package ingest

import (
	"sort"
	"sync"
)

// Sequencer hands out monotonically increasing ids for load attempts and tracks
// which attempts are still in flight.
type Sequencer struct {
	mu       sync.Mutex
	last     uint64
	inFlight map[uint64]string
}

// NewSequencer creates a Sequencer whose first ticket is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{inFlight: make(map[uint64]string)}
}

// Begin registers a new attempt for source and returns its ticket.
func (s *Sequencer) Begin(source string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	s.inFlight[s.last] = source
	return s.last
}

// Done removes a finished attempt.
func (s *Sequencer) Done(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, seq)
}

// InFlight lists the running tickets in ascending order.
func (s *Sequencer) InFlight() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint64, 0, len(s.inFlight))
	for seq := range s.inFlight {
		out = append(out, seq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
