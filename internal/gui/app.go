package gui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/scene"
)

const introSeconds = 1.5

var (
	ColText    = rl.NewColor(60, 60, 60, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
)

type Options struct {
	Width, Height int
	FPS           int
	Title         string
	Background    color.Color
	FontPath      string
	Glyphs        []string
	ShowStats     bool
	Build         loop.Builder
}

// App owns the window. Frames are fired from the render loop into an
// offscreen texture so a paused scene keeps its last frame on screen.
type App struct {
	opts    Options
	surface *Surface
	frames  *loop.ManualFrames
	resizes *loop.Notifier
	loop    *loop.Loop
	target  rl.RenderTexture2D
	intro   *gween.Tween

	paused    bool
	showStats bool
	quit      bool
}

// initWindow opens a resizable window and disables the default exit key.
func initWindow(o Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(o.Width), int32(o.Height), o.Title)
	rl.SetTargetFPS(int32(o.FPS))
	rl.SetExitKey(0)
}

func NewApp(o Options) *App {
	a := &App{
		opts:      o,
		surface:   NewSurface(o.Background),
		frames:    loop.NewManualFrames(),
		resizes:   loop.NewNotifier(),
		intro:     gween.New(0, 1, introSeconds, ease.OutQuad),
		showStats: o.ShowStats,
	}
	a.surface.Alpha = 0
	if o.FontPath != "" {
		a.surface.Font = rl.LoadFontEx(o.FontPath, 32, codepoints(o.Glyphs))
		rl.SetTextureFilter(a.surface.Font.Texture, rl.FilterBilinear)
		a.surface.HasFont = true
	}

	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.target = rl.LoadRenderTexture(int32(w), int32(h))
	a.loop = loop.New(a.surface, a.frames, a.resizes, o.Build, bounds(w, h))
	return a
}

// Run opens the window and blocks until it is closed.
func Run(o Options) error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("gui: invalid window size %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		o.FPS = loop.DefaultFPS
	}
	if o.Title == "" {
		o.Title = "backdrop"
	}
	if o.Background == nil {
		o.Background = color.White
	}

	initWindow(o)
	defer rl.CloseWindow()

	app := NewApp(o)
	defer app.Close()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	a.loop.Start()
	defer a.loop.Stop()

	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.showStats = !a.showStats
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.loop.Stop()
		a.intro = gween.New(0, 1, introSeconds, ease.OutQuad)
		a.loop.Start()
	}

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if w > 0 && h > 0 {
			rl.UnloadRenderTexture(a.target)
			a.target = rl.LoadRenderTexture(int32(w), int32(h))
			a.resizes.Notify(bounds(w, h))
		}
	}

	fade, _ := a.intro.Update(rl.GetFrameTime())
	a.surface.Alpha = fade
}

func (a *App) Draw() {
	if !a.paused {
		rl.BeginTextureMode(a.target)
		a.frames.Fire(time.Now())
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(a.surface.Background)
	// render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(a.target.Texture.Width), -float32(a.target.Texture.Height))
	rl.DrawTextureRec(a.target.Texture, src, rl.NewVector2(0, 0), rl.White)

	if a.paused {
		rl.DrawText("PAUSED", 20, 20, 20, ColText)
	}
	if a.showStats {
		a.drawStats()
	}
	rl.EndDrawing()
}

func (a *App) drawStats() {
	st, ok := a.loop.Stats()
	if !ok {
		return
	}
	lines := []string{
		fmt.Sprintf("%d FPS", rl.GetFPS()),
		fmt.Sprintf("frame     %d", st.Ticks),
		fmt.Sprintf("particles %d", st.Particles),
		fmt.Sprintf("engaged   %d", st.Engaged),
		fmt.Sprintf("spawns    %d", st.Spawns),
	}
	y := int32(rl.GetScreenHeight()) - int32(len(lines))*18 - 12
	for _, l := range lines {
		rl.DrawText(l, 20, y, 14, ColTextDim)
		y += 18
	}
}

func (a *App) Close() {
	rl.UnloadRenderTexture(a.target)
	if a.surface.HasFont {
		rl.UnloadFont(a.surface.Font)
	}
}

func bounds(w, h int) scene.Bounds {
	return scene.Bounds{Width: float64(w), Height: float64(h)}
}

// codepoints lists ASCII plus every rune used by the glyph palette so the
// loaded font atlas covers them.
func codepoints(glyphs []string) []rune {
	runes := make([]rune, 0, 95+len(glyphs))
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	seen := make(map[rune]bool)
	for _, g := range glyphs {
		for _, r := range g {
			if r >= 127 && !seen[r] {
				seen[r] = true
				runes = append(runes, r)
			}
		}
	}
	return runes
}
