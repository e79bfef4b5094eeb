package voice

import "testing"

func TestSchedulerGaplessChaining(t *testing.T) {
	s := NewScheduler()

	// Chunks arrive faster than real time: the clock barely moves while
	// three buffers are scheduled.
	durations := []float64{0.5, 0.25, 1.0, 0.1}
	clock := []float64{0, 0.01, 0.02, 0.03}

	var starts []float64
	for i, d := range durations {
		_, start := s.Schedule(d, clock[i])
		starts = append(starts, start)
	}

	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			t.Errorf("start times must be non-decreasing: %v", starts)
		}
		expected := starts[i-1] + durations[i-1]
		if starts[i] < expected {
			t.Errorf("chunk %d overlaps its predecessor: start %v < %v", i, starts[i], expected)
		}
		if starts[i] != expected {
			t.Errorf("chunk %d should chain gaplessly at %v, got %v", i, expected, starts[i])
		}
	}
}

func TestSchedulerClockAheadOfChain(t *testing.T) {
	s := NewScheduler()
	_, first := s.Schedule(0.2, 0)
	if first != 0 {
		t.Fatalf("first chunk should start at 0, got %v", first)
	}
	// Long silence: the playback clock has run past the chain end.
	_, second := s.Schedule(0.2, 5.0)
	if second != 5.0 {
		t.Errorf("after silence the chunk starts at the clock, got %v", second)
	}
}

func TestSchedulerSpeakingTracksInFlight(t *testing.T) {
	s := NewScheduler()
	id1, _ := s.Schedule(0.5, 0)
	id2, _ := s.Schedule(0.5, 0)
	if !s.Speaking() {
		t.Fatal("speaking must be true while sources are in flight")
	}
	s.Complete(id1)
	if !s.Speaking() {
		t.Error("speaking must stay true until every source finished")
	}
	s.Complete(id2)
	if s.Speaking() {
		t.Error("speaking must clear once all sources finished")
	}
}

func TestSchedulerInterrupt(t *testing.T) {
	s := NewScheduler()
	id, _ := s.Schedule(1.0, 0)
	s.Schedule(1.0, 0)

	s.Interrupt()

	if s.Speaking() {
		t.Error("interruption must empty the in-flight set")
	}
	if s.NextStart() != 0 {
		t.Errorf("interruption must reset the scheduling clock, got %v", s.NextStart())
	}
	// A completion left over from before the interruption is stale.
	s.Complete(id)
	if s.Speaking() {
		t.Error("stale completion must not resurrect state")
	}

	_, start := s.Schedule(0.5, 0)
	if start != 0 {
		t.Errorf("first chunk after interruption starts at 0, got %v", start)
	}
}
