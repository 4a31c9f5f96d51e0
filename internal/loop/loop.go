// Package loop drives a world from a frame source: tick, render, request the
// next frame, until stopped.
package loop

import (
	"sync"
	"time"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

// Builder creates the world for a run. It is called once per Start.
type Builder func(b scene.Bounds) *world.World

// Observer sees the world after every rendered frame, still under the loop's
// lock. It must not call back into the loop.
type Observer func(now time.Time, w *world.World)

type Loop struct {
	surface scene.Surface
	frames  FrameSource
	resizes ResizeSource
	build   Builder

	bmu    sync.Mutex
	bounds scene.Bounds

	mu       sync.Mutex
	world    *world.World
	handle   FrameHandle
	unsub    func()
	running  bool
	gen      uint64
	frameN   int
	observer Observer
}

// New wires a loop. A nil surface makes Start a no-op; a nil resizes source
// leaves bounds fixed unless SetBounds is called.
func New(surface scene.Surface, frames FrameSource, resizes ResizeSource, build Builder, bounds scene.Bounds) *Loop {
	if build == nil {
		build = func(b scene.Bounds) *world.World {
			return world.New(b, world.DefaultOptions())
		}
	}
	return &Loop{
		surface: surface,
		frames:  frames,
		resizes: resizes,
		build:   build,
		bounds:  bounds,
	}
}

func (l *Loop) SetObserver(o Observer) {
	l.mu.Lock()
	l.observer = o
	l.mu.Unlock()
}

func (l *Loop) Start() {
	if l.surface == nil || l.frames == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}

	l.world = l.build(l.Bounds())
	if l.resizes != nil {
		l.unsub = l.resizes.Subscribe(l.SetBounds)
	}
	l.running = true
	l.gen++
	l.request()
}

// Stop cancels the pending frame and drops the resize subscription. Once it
// returns no tick or render runs, including one whose timer already fired.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	if l.handle != nil {
		l.handle.Cancel()
		l.handle = nil
	}
	if l.unsub != nil {
		l.unsub()
		l.unsub = nil
	}
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// SetBounds replaces the bounds read by the next tick. Invalid bounds, such as
// a minimised window, are ignored.
func (l *Loop) SetBounds(b scene.Bounds) {
	if b.Validate() != nil {
		return
	}
	l.bmu.Lock()
	l.bounds = b
	l.bmu.Unlock()
}

func (l *Loop) Bounds() scene.Bounds {
	l.bmu.Lock()
	defer l.bmu.Unlock()
	return l.bounds
}

// Frames returns how many frames were ticked and rendered since New.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frameN
}

// Stats reports the current world stats; ok is false before the first Start.
func (l *Loop) Stats() (world.Stats, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.world == nil {
		return world.Stats{}, false
	}
	return l.world.Stats(), true
}

// request must be called with mu held.
func (l *Loop) request() {
	gen := l.gen
	l.handle = l.frames.RequestFrame(func(now time.Time) { l.frame(gen, now) })
}

func (l *Loop) frame(gen uint64, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running || gen != l.gen {
		return
	}

	l.world.Tick(l.Bounds())
	l.world.Render(l.surface)
	l.frameN++
	if l.observer != nil {
		l.observer(now, l.world)
	}
	l.request()
}
