package loop_test

import (
	"image/color"
	"math/rand"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

// clearCounter counts frames drawn from a timer goroutine.
type clearCounter struct {
	n atomic.Int64
}

func (c *clearCounter) BeginPath()                                                          {}
func (c *clearCounter) MoveTo(x, y float64)                                                 {}
func (c *clearCounter) LineTo(x, y float64)                                                 {}
func (c *clearCounter) Stroke(color.Color, float64)                                         {}
func (c *clearCounter) FillCircle(cx, cy, r float64, col color.Color)                       {}
func (c *clearCounter) FillRect(x, y, w, h float64, col color.Color)                        {}
func (c *clearCounter) FillText(string, float64, float64, scene.Font, color.Color, float64) {}
func (c *clearCounter) Clear(x, y, w, h float64)                                            { c.n.Add(1) }

func (c *clearCounter) clears() int64 { return c.n.Load() }

func seededBuilder(seed int64) loop.Builder {
	return func(b scene.Bounds) *world.World {
		opts := world.DefaultOptions()
		opts.Rand = rand.New(rand.NewSource(seed))
		opts.Clock = scene.NewMockClock(time.Unix(0, 0))
		return world.New(b, opts)
	}
}

var _ = Describe("Loop", func() {
	var (
		bounds  scene.Bounds
		rec     *scene.Recorder
		frames  *loop.ManualFrames
		resizes *loop.Notifier
		l       *loop.Loop
	)

	BeforeEach(func() {
		bounds = scene.Bounds{Width: 800, Height: 600}
		rec = scene.NewRecorder()
		frames = loop.NewManualFrames()
		resizes = loop.NewNotifier()
		l = loop.New(rec, frames, resizes, seededBuilder(1), bounds)
	})

	Context("when started", func() {
		BeforeEach(func() {
			l.Start()
		})

		It("requests exactly one frame and subscribes to resizes", func() {
			Expect(l.Running()).To(BeTrue())
			Expect(frames.Pending()).To(Equal(1))
			Expect(resizes.Subscribers()).To(Equal(1))
			Expect(rec.Ops).To(BeEmpty())
		})

		It("ticks and renders once per frame then re-requests", func() {
			for i := 0; i < 3; i++ {
				Expect(frames.Fire(time.Now())).To(Equal(1))
			}
			Expect(l.Frames()).To(Equal(3))
			Expect(rec.Count(scene.OpClear)).To(Equal(3))
			Expect(frames.Pending()).To(Equal(1))

			st, ok := l.Stats()
			Expect(ok).To(BeTrue())
			Expect(st.Ticks).To(Equal(3))
		})

		It("ignores a second Start", func() {
			l.Start()
			Expect(frames.Pending()).To(Equal(1))
			Expect(resizes.Subscribers()).To(Equal(1))
		})

		It("uses resized bounds on the next tick", func() {
			resizes.Notify(scene.Bounds{Width: 400, Height: 300})
			frames.Fire(time.Now())

			Expect(l.Bounds()).To(Equal(scene.Bounds{Width: 400, Height: 300}))
			Expect(rec.Ops[0].W).To(Equal(400.0))
			Expect(rec.Ops[0].H).To(Equal(300.0))
		})

		It("ignores degenerate resize notifications", func() {
			resizes.Notify(scene.Bounds{Width: 0, Height: 300})
			Expect(l.Bounds()).To(Equal(bounds))
		})

		It("passes every rendered frame to the observer", func() {
			var seen []int
			l.SetObserver(func(_ time.Time, w *world.World) {
				seen = append(seen, w.Stats().Ticks)
			})
			frames.Fire(time.Now())
			frames.Fire(time.Now())
			Expect(seen).To(Equal([]int{1, 2}))
		})
	})

	Context("when stopped", func() {
		It("renders nothing if no frame fired", func() {
			l.Start()
			l.Stop()

			Expect(l.Running()).To(BeFalse())
			Expect(frames.Pending()).To(BeZero())
			Expect(resizes.Subscribers()).To(BeZero())
			Expect(frames.Fire(time.Now())).To(BeZero())
			Expect(rec.Ops).To(BeEmpty())
		})

		It("ignores resize notifications after stopping", func() {
			l.Start()
			l.Stop()

			resizes.Notify(scene.Bounds{Width: 400, Height: 300})
			Expect(l.Bounds()).To(Equal(bounds))
			Expect(rec.Ops).To(BeEmpty())
		})

		It("drops a callback that was already taken for firing", func() {
			var stale func(time.Time)
			capture := &capturingFrames{grab: func(fn func(time.Time)) { stale = fn }}
			l = loop.New(rec, capture, resizes, seededBuilder(1), bounds)

			l.Start()
			l.Stop()
			stale(time.Now())

			Expect(rec.Ops).To(BeEmpty())
			Expect(l.Frames()).To(BeZero())
		})

		It("does not run the previous run's frame after a restart", func() {
			var grabbed []func(time.Time)
			capture := &capturingFrames{grab: func(fn func(time.Time)) { grabbed = append(grabbed, fn) }}
			l = loop.New(rec, capture, resizes, seededBuilder(1), bounds)

			l.Start()
			l.Stop()
			l.Start()
			Expect(grabbed).To(HaveLen(2))

			grabbed[0](time.Now())
			Expect(l.Frames()).To(BeZero())
			grabbed[1](time.Now())
			Expect(l.Frames()).To(Equal(1))
		})

		It("tolerates repeated Stop", func() {
			l.Stop()
			l.Start()
			l.Stop()
			l.Stop()
			Expect(l.Running()).To(BeFalse())
		})
	})

	Context("without a surface", func() {
		It("treats Start as a silent no-op", func() {
			l = loop.New(nil, frames, resizes, seededBuilder(1), bounds)
			l.Start()

			Expect(l.Running()).To(BeFalse())
			Expect(frames.Pending()).To(BeZero())
			Expect(resizes.Subscribers()).To(BeZero())
			_, ok := l.Stats()
			Expect(ok).To(BeFalse())
		})
	})

	Context("with ticker frames", func() {
		It("keeps ticking until stopped", func() {
			lr := &clearCounter{}
			l = loop.New(lr, &loop.TickerFrames{Interval: time.Millisecond}, nil, seededBuilder(2), bounds)
			l.Start()

			Eventually(lr.clears).WithTimeout(2 * time.Second).Should(BeNumerically(">=", int64(3)))
			l.Stop()

			after := lr.clears()
			Consistently(lr.clears).WithTimeout(50 * time.Millisecond).Should(Equal(after))
		})
	})
})

type capturingFrames struct {
	grab func(func(time.Time))
}

func (c *capturingFrames) RequestFrame(fn func(time.Time)) loop.FrameHandle {
	c.grab(fn)
	return noopHandle{}
}

type noopHandle struct{}

func (noopHandle) Cancel() {}
