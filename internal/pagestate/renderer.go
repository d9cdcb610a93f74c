package pagestate

import (
	"errors"
	"time"
)

// ErrNoElement is returned by a Renderer when the addressed element is absent
// from the page. The controller skips that update and carries on.
var ErrNoElement = errors.New("pagestate: element not found")

// Heading is a heading element found inside a content variant.
type Heading struct {
	Level int // 1..3
	Text  string
	ID    string
	// AnchorHref is the href of an anchor link nested in the heading, if any.
	AnchorHref string
}

// Renderer isolates the controller from the page it drives.
type Renderer interface {
	SetVisible(id string, visible bool) error
	SetActive(id string, active bool) error
	SetText(id, text string) error
	SetAttribute(id, name, value string) error
	ScrollTo(anchorID string) error
	// Headings returns the h1-h3 elements under id in document order.
	Headings(id string) ([]Heading, error)
	// RenderOutline replaces the outline panel's entries.
	RenderOutline(entries []OutlineEntry) error
	// OnOutsideClick calls fn for every click outside the element id until
	// the returned detach func is called.
	OnOutsideClick(id string, fn func()) (detach func(), err error)
}

// Scheduler queues follow-up work on the host's event loop.
type Scheduler interface {
	// Defer runs fn after the current task completes.
	Defer(fn func())
	// After runs fn once d has elapsed. cancel prevents a pending run.
	After(d time.Duration, fn func()) (cancel func())
}

// ImmediateScheduler runs deferred work synchronously. It suits one-shot
// server-side rendering where there is no event loop.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Defer(fn func()) { fn() }

func (ImmediateScheduler) After(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}

// ManualScheduler queues work until Flush is called.
type ManualScheduler struct {
	deferred []func()
	timers   []*manualTimer
}

type manualTimer struct {
	fn       func()
	canceled bool
}

func (s *ManualScheduler) Defer(fn func()) {
	s.deferred = append(s.deferred, fn)
}

func (s *ManualScheduler) After(_ time.Duration, fn func()) func() {
	t := &manualTimer{fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.canceled = true }
}

// Pending reports the number of queued deferred tasks and live timers.
func (s *ManualScheduler) Pending() int {
	n := len(s.deferred)
	for _, t := range s.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

// RunDeferred runs queued deferred tasks and leaves timers pending.
func (s *ManualScheduler) RunDeferred() {
	for len(s.deferred) > 0 {
		fn := s.deferred[0]
		s.deferred = s.deferred[1:]
		fn()
	}
}

// Flush runs queued deferred tasks, then timers, in FIFO order regardless of
// their delay. Work queued while flushing runs in the same call.
func (s *ManualScheduler) Flush() {
	for len(s.deferred) > 0 || len(s.timers) > 0 {
		for len(s.deferred) > 0 {
			fn := s.deferred[0]
			s.deferred = s.deferred[1:]
			fn()
		}
		if len(s.timers) > 0 {
			t := s.timers[0]
			s.timers = s.timers[1:]
			if !t.canceled {
				t.canceled = true
				t.fn()
			}
		}
	}
}
