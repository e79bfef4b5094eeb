package voice

import "sync"

// Scheduler assigns start offsets to received audio buffers so that playback
// is gapless and in arrival order: each buffer starts at the later of the
// chained next-start time and the current playback clock, and pushes the
// chain forward by its own duration. It also tracks the set of in-flight
// buffers, which is what "the assistant is audible" means.
type Scheduler struct {
	mu        sync.Mutex
	nextStart float64
	epoch     uint64
	sources   map[uint64]uint64 // source id -> epoch it was scheduled in
	nextID    uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{sources: make(map[uint64]uint64)}
}

// Schedule reserves the playback slot for a buffer of the given duration.
// now is the current playback clock reading, both in seconds.
func (s *Scheduler) Schedule(duration, now float64) (id uint64, start float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now > s.nextStart {
		s.nextStart = now
	}
	start = s.nextStart
	s.nextStart += duration
	s.nextID++
	id = s.nextID
	s.sources[id] = s.epoch
	return id, start
}

// Complete marks one buffer as finished. Completions from before an
// interruption are ignored.
func (s *Scheduler) Complete(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch, ok := s.sources[id]; ok && epoch == s.epoch {
		delete(s.sources, id)
	}
}

// Speaking reports whether any scheduled buffer is still in flight.
func (s *Scheduler) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources) > 0
}

// NextStart exposes the chained clock, mainly for tests.
func (s *Scheduler) NextStart() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextStart
}

// Interrupt drops every in-flight buffer and resets the chain to zero. The
// remote side may preempt local playback at any time; anything already
// scheduled is abandoned.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.sources = make(map[uint64]uint64)
	s.nextStart = 0
}
