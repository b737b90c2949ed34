package monitor

import (
	"time"
)

type timerKind int

const (
	timerDebounce timerKind = iota
	timerInactivity
	timerStartup
	timerKinds
)

func (k timerKind) String() string {
	switch k {
	case timerDebounce:
		return "debounce"
	case timerInactivity:
		return "inactivity"
	case timerStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// session is the processing state of one page. Only the event loop touches it.
type session struct {
	processing bool
	passID     string

	timers [timerKinds]*time.Timer
	// gens tags each scheduled timer; a fire carrying an older generation is stale.
	gens [timerKinds]uint64
}

// schedule replaces any pending timer of the same kind. fire is called from
// the timer goroutine with the generation it was armed with.
func (s *session) schedule(kind timerKind, d time.Duration, fire func(gen uint64)) {
	s.cancel(kind)
	gen := s.gens[kind]
	s.timers[kind] = time.AfterFunc(d, func() { fire(gen) })
}

func (s *session) cancel(kind timerKind) {
	s.gens[kind]++
	if t := s.timers[kind]; t != nil {
		t.Stop()
		s.timers[kind] = nil
	}
}

func (s *session) current(kind timerKind, gen uint64) bool {
	if s.gens[kind] != gen {
		return false
	}
	s.timers[kind] = nil
	return true
}

func (s *session) stopAll() {
	for k := timerKind(0); k < timerKinds; k++ {
		s.cancel(k)
	}
}
