// Package scene provides the primitives shared by the backdrop simulation and its
// hosts.
//
// The simulation draws through a [Surface] and never assumes more about it than an
// origin at the top-left with x growing right, y growing down and units in pixels.
//
//   - [Point]: a position in surface space
//   - [Bounds]: the visible area entities are stepped against
//   - [Surface]: path, fill, text and clear primitives
//   - [Rand]: injectable random source
//   - [Clock]: monotonic time source used for animation phases
//
// # Example
//
//	rec := scene.NewRecorder()
//	w := world.New(scene.Bounds{Width: 800, Height: 600}, world.DefaultOptions())
//	w.Tick(scene.Bounds{Width: 800, Height: 600})
//	w.Render(rec)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use except [MockClock].
package scene
