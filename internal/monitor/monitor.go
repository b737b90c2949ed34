// Package monitor decides when an annotation pass runs. Host mutations are
// reduced to a few events and fed through a single event loop that debounces
// them and keeps at most one pass in flight.
package monitor

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/pkg/hostproto"
)

const (
	DebounceDelay     = 550 * time.Millisecond
	InactivityTimeout = 7000 * time.Millisecond
	StartupDelay      = 1000 * time.Millisecond
)

type Event int

const (
	EventLoaderRemoved Event = iota + 1
	EventEvalChanged
	EventInactivityElapsed
	EventDebounceElapsed
	EventStartupCheck
	EventPassFinished
)

func (e Event) String() string {
	switch e {
	case EventLoaderRemoved:
		return "loader_removed"
	case EventEvalChanged:
		return "eval_changed"
	case EventInactivityElapsed:
		return "inactivity_elapsed"
	case EventDebounceElapsed:
		return "debounce_elapsed"
	case EventStartupCheck:
		return "startup_check"
	case EventPassFinished:
		return "pass_finished"
	default:
		return "unknown"
	}
}

type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Runner executes one annotation pass.
type Runner interface {
	Run(ctx context.Context, passID string) error
}

type Timings struct {
	Debounce   time.Duration
	Inactivity time.Duration
	Startup    time.Duration
}

func DefaultTimings() Timings {
	return Timings{Debounce: DebounceDelay, Inactivity: InactivityTimeout, Startup: StartupDelay}
}

type Option func(*Monitor)

// WithTimings overrides the delays; zero fields keep their defaults.
func WithTimings(t Timings) Option {
	return func(m *Monitor) {
		if t.Debounce > 0 {
			m.timings.Debounce = t.Debounce
		}
		if t.Inactivity > 0 {
			m.timings.Inactivity = t.Inactivity
		}
		if t.Startup > 0 {
			m.timings.Startup = t.Startup
		}
	}
}

type message struct {
	event  Event
	gen    uint64
	passID string
	err    error
}

type Monitor struct {
	doc     *hostdoc.Document
	runner  Runner
	logger  *zap.Logger
	timings Timings

	events chan message
	done   chan struct{}
	state  atomic.Int32

	sess session
}

func New(doc *hostdoc.Document, runner Runner, logger *zap.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		doc:     doc,
		runner:  runner,
		logger:  logger,
		timings: DefaultTimings(),
		events:  make(chan message, 64),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) State() State { return State(m.state.Load()) }

// Classify reduces one observer batch to the event it stands for. A loader
// removal wins over evaluation edits in the same batch.
func Classify(records []hostproto.MutationRecord) (Event, bool) {
	evalChanged := false
	for _, r := range records {
		if r.Type == hostproto.MutationChildList {
			for _, id := range r.RemovedIDs {
				if id == hostdoc.LoaderID {
					return EventLoaderRemoved, true
				}
			}
		}
		if r.Type == hostproto.MutationCharacterData && strings.EqualFold(r.ParentTag, hostdoc.TagEval) {
			evalChanged = true
		}
	}
	if evalChanged {
		return EventEvalChanged, true
	}
	return 0, false
}

// HandleMutations feeds one observer batch to the loop. Batches that matter
// to neither the loader nor an evaluation are ignored.
func (m *Monitor) HandleMutations(records []hostproto.MutationRecord) {
	if ev, ok := Classify(records); ok {
		m.post(message{event: ev})
	}
}

func (m *Monitor) post(msg message) {
	select {
	case m.events <- msg:
	case <-m.done:
	}
}

// Run drives the loop until ctx ends. Errors from passes are logged and never
// stop it.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.done)
	defer m.sess.stopAll()

	m.arm(timerStartup, m.timings.Startup, EventStartupCheck)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-m.events:
			m.handle(ctx, msg)
		}
	}
}

func (m *Monitor) arm(kind timerKind, d time.Duration, ev Event) {
	m.sess.schedule(kind, d, func(gen uint64) {
		m.post(message{event: ev, gen: gen})
	})
}

func (m *Monitor) handle(ctx context.Context, msg message) {
	running := m.sess.processing
	switch msg.event {
	case EventLoaderRemoved:
		if running {
			m.logger.Debug("monitor_event_dropped", zap.Stringer("event", msg.event))
			return
		}
		m.sess.cancel(timerInactivity)
		m.arm(timerDebounce, m.timings.Debounce, EventDebounceElapsed)

	case EventEvalChanged:
		if running {
			m.logger.Debug("monitor_event_dropped", zap.Stringer("event", msg.event))
			return
		}
		m.sess.cancel(timerDebounce)
		m.arm(timerInactivity, m.timings.Inactivity, EventInactivityElapsed)

	case EventInactivityElapsed:
		if !m.sess.current(timerInactivity, msg.gen) {
			return
		}
		m.arm(timerDebounce, m.timings.Debounce, EventDebounceElapsed)

	case EventDebounceElapsed:
		if !m.sess.current(timerDebounce, msg.gen) {
			return
		}
		if running {
			m.logger.Debug("monitor_event_dropped", zap.Stringer("event", msg.event))
			return
		}
		m.startPass(ctx)

	case EventStartupCheck:
		if !m.sess.current(timerStartup, msg.gen) {
			return
		}
		if m.readyAtStartup() {
			m.logger.Info("monitor_startup_ready")
			m.arm(timerDebounce, m.timings.Debounce, EventDebounceElapsed)
		}

	case EventPassFinished:
		if msg.passID != m.sess.passID {
			return
		}
		m.sess.processing = false
		m.sess.passID = ""
		m.state.Store(int32(Idle))
		if msg.err != nil {
			m.logger.Warn("pass_failed", zap.String("pass_id", msg.passID), zap.Error(msg.err))
			return
		}
		m.logger.Info("pass_completed", zap.String("pass_id", msg.passID))
	}
}

func (m *Monitor) startPass(ctx context.Context) {
	passID := uuid.NewString()
	m.sess.processing = true
	m.sess.passID = passID
	m.state.Store(int32(Running))
	m.logger.Debug("pass_started", zap.String("pass_id", passID))

	go func() {
		err := m.runner.Run(ctx, passID)
		m.post(message{event: EventPassFinished, passID: passID, err: err})
	}()
}

// readyAtStartup reports whether the page was already analysed before we
// attached: no loader, but evaluations present.
func (m *Monitor) readyAtStartup() bool {
	ready := false
	m.doc.Read(func(root *html.Node) {
		ready = hostdoc.SelLoader.MatchFirst(root) == nil && hostdoc.SelEvalPresent.MatchFirst(root) != nil
	})
	return ready
}
