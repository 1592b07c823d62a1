package systems

import "sync/atomic"

type overlayState int

const (
	stateIdle overlayState = iota
	statePendingSettle
	stateComputing
)

// OverlayScheduler debounces overlay recomputation against camera
// movement and selection changes. It is driven by the tick counter, not
// wall time, so headless runs behave identically to windowed ones.
//
// Invalidations clear the published image immediately and arm a settle
// deadline; once the deadline passes a single compute pass is launched.
// At most one pass is ever in flight. A pass finishing after a newer
// invalidation carries a stale generation and is discarded on arrival.
type OverlayScheduler struct {
	state    overlayState
	deadline uint64
	settle   uint64

	gen      uint64
	inFlight bool

	published atomic.Pointer[OverlayImage]
	results   chan *OverlayImage
}

// NewOverlayScheduler returns a scheduler whose first Tick launches a
// pass immediately, so a freshly started app gets an overlay without
// waiting out a settle interval.
func NewOverlayScheduler(settleTicks uint64) *OverlayScheduler {
	return &OverlayScheduler{
		state:   statePendingSettle,
		settle:  settleTicks,
		results: make(chan *OverlayImage, 1),
	}
}

// Invalidate handles camera movement, level or mode change, and viewport
// resize: the published image is cleared now and a new pass is armed for
// now+settle. Calling it again pushes the deadline back out.
func (s *OverlayScheduler) Invalidate(now uint64) {
	s.gen++
	s.published.Store(nil)
	s.state = statePendingSettle
	s.deadline = now + s.settle
}

// Tick drains at most one finished pass and reports whether a new pass
// should start this tick. When launch is true the caller must run
// exactly one compute and hand its image, stamped with gen, to Deliver.
func (s *OverlayScheduler) Tick(now uint64) (gen uint64, launch bool) {
	select {
	case img := <-s.results:
		s.inFlight = false
		if img != nil && img.Gen == s.gen {
			s.published.Store(img)
			if s.state == stateComputing {
				s.state = stateIdle
			}
		}
	default:
	}

	if s.state == statePendingSettle && now >= s.deadline && !s.inFlight {
		s.state = stateComputing
		s.inFlight = true
		return s.gen, true
	}
	return 0, false
}

// Deliver hands a finished image back to the scheduler. The channel is
// buffered for the single in-flight pass, so the compute goroutine never
// blocks here.
func (s *OverlayScheduler) Deliver(img *OverlayImage) {
	s.results <- img
}

// Published returns the current overlay image, or nil when none is
// valid. Safe to call from the draw path while a pass runs.
func (s *OverlayScheduler) Published() *OverlayImage {
	return s.published.Load()
}

// StateLabel describes the scheduler for the HUD.
func (s *OverlayScheduler) StateLabel() string {
	switch s.state {
	case stateIdle:
		return "idle"
	case statePendingSettle:
		return "settling"
	case stateComputing:
		return "computing"
	}
	return "invalid"
}
