package loop

import (
	"sync"
	"time"

	"github.com/san-kum/backdrop/internal/scene"
)

// FrameHandle cancels one requested frame. Cancel after the frame ran is a
// no-op.
type FrameHandle interface {
	Cancel()
}

// FrameSource schedules a single callback for the next display frame.
type FrameSource interface {
	RequestFrame(fn func(now time.Time)) FrameHandle
}

// ResizeSource delivers new viewport bounds. The returned func removes the
// subscription.
type ResizeSource interface {
	Subscribe(fn func(scene.Bounds)) (unsubscribe func())
}

const DefaultFPS = 60

// TickerFrames fires each requested frame on its own timer goroutine.
type TickerFrames struct {
	Interval time.Duration
}

func NewTickerFrames(fps int) *TickerFrames {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerFrames{Interval: time.Second / time.Duration(fps)}
}

func (t *TickerFrames) RequestFrame(fn func(now time.Time)) FrameHandle {
	return timerHandle{time.AfterFunc(t.Interval, func() { fn(time.Now()) })}
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() { h.t.Stop() }

// ManualFrames queues requests until the host calls Fire. Window loops,
// headless runs and tests drive frames this way.
type ManualFrames struct {
	mu      sync.Mutex
	next    uint64
	pending []manualReq
}

type manualReq struct {
	id uint64
	fn func(time.Time)
}

func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

func (m *ManualFrames) RequestFrame(fn func(now time.Time)) FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.pending = append(m.pending, manualReq{id: m.next, fn: fn})
	return &manualHandle{m: m, id: m.next}
}

// Fire runs every callback queued before the call. Callbacks requested while
// firing wait for the next Fire. It returns the number of callbacks run.
func (m *ManualFrames) Fire(now time.Time) int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, r := range batch {
		r.fn(now)
	}
	return len(batch)
}

func (m *ManualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *ManualFrames) cancel(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.pending {
		if r.id == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

type manualHandle struct {
	m  *ManualFrames
	id uint64
}

func (h *manualHandle) Cancel() { h.m.cancel(h.id) }

// Notifier is a ResizeSource fed by the host through Notify.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(scene.Bounds)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(scene.Bounds))}
}

func (n *Notifier) Subscribe(fn func(scene.Bounds)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Notify(b scene.Bounds) {
	n.mu.Lock()
	fns := make([]func(scene.Bounds), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(b)
	}
}

func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
