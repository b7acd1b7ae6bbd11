// Package gui runs an effect session in a raylib window.
package gui

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/render"
	"github.com/san-kum/livebg/internal/session"
)

var (
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(110, 110, 110, 255)
	ColError   = rl.NewColor(255, 80, 80, 255)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

type Options struct {
	Effects []string
	Initial string
	FPS     int
	Width   int
	Height  int
}

type loaded struct {
	name    string
	backend effect.Backend
	err     error
}

type App struct {
	ctx     context.Context
	sess    *session.Session
	loader  session.Loader
	effects []string
	font    rl.Font
	target  rl.RenderTexture2D
	done    chan loaded
	status  string
	failed  bool
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "livebg")
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if !rl.FileExists(fontPath) {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens a window and drives sess from the window's frame loop until the
// window is closed.
func Run(ctx context.Context, sess *session.Session, loader session.Loader, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	initWindow(opts)
	defer rl.CloseWindow()

	a := &App{
		ctx:     ctx,
		sess:    sess,
		loader:  loader,
		effects: opts.Effects,
		font:    loadFont(),
		done:    make(chan loaded, 4),
	}
	a.resize()
	defer rl.UnloadRenderTexture(a.target)

	if opts.Initial != "" {
		a.selectEffect(opts.Initial)
	}
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.ctx.Err() != nil {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) resize() {
	if a.target.ID != 0 {
		rl.UnloadRenderTexture(a.target)
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.target = rl.LoadRenderTexture(int32(w), int32(h))
	a.sess.Resize(float64(w), float64(h), 1)
}

// selectEffect starts a swap and loads the backend off the frame loop. The
// result is applied by Update.
func (a *App) selectEffect(name string) {
	swapping := a.sess.State() == session.Swapping
	if !a.sess.BeginSelect(name, time.Now()) {
		if swapping && a.sess.State() != session.Swapping {
			a.status, a.failed = "", false
		}
		return
	}
	a.status, a.failed = "loading "+name, false
	go func() {
		b, err := a.loader.Load(a.ctx, name)
		deliver(a.ctx, a.done, loaded{name: name, backend: b, err: err})
	}()
}

// deliver hands a finished load to the frame loop. It gives up once ctx is
// done so no loader goroutine outlives the window.
func deliver(ctx context.Context, done chan<- loaded, l loaded) bool {
	select {
	case done <- l:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *App) Update() {
	select {
	case l := <-a.done:
		if err := a.sess.CompleteSelect(l.name, l.backend, l.err, time.Now()); err != nil {
			a.status, a.failed = err.Error(), true
		} else if a.sess.ActiveName() == l.name {
			a.status = ""
		}
	default:
	}

	if rl.IsWindowResized() {
		a.resize()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		modifier := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) ||
			rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
			rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
		a.sess.Wheel(wheelDelta(wheel), modifier)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.sess.Key("+")
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.sess.Key("-")
	case rl.IsKeyPressed(rl.KeySpace):
		a.sess.Toggle(time.Now())
	case rl.IsKeyPressed(rl.KeyR):
		a.sess.Reset()
	case rl.IsKeyPressed(rl.KeyA):
		a.sess.SetZoomAuto(!a.sess.Params().ZoomAuto)
	case rl.IsKeyPressed(rl.KeyN):
		a.selectEffect(a.next())
	}
	for i := 0; i < len(a.effects) && i < 9; i++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			a.selectEffect(a.effects[i])
		}
	}
}

func (a *App) next() string {
	if len(a.effects) == 0 {
		return ""
	}
	cur := a.sess.Pending()
	if cur == "" {
		cur = a.sess.ActiveName()
	}
	for i, name := range a.effects {
		if name == cur {
			return a.effects[(i+1)%len(a.effects)]
		}
	}
	return a.effects[0]
}

// Draw ticks the session into the offscreen target, which keeps the last
// frame while the loop is paused, then composes the HUD on top.
func (a *App) Draw() {
	s := sink{font: a.font}
	if a.sess.Running() {
		rl.BeginTextureMode(a.target)
		a.sess.Tick(time.Now(), s)
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(toColor(render.Background))
	tex := a.target.Texture
	rl.DrawTextureRec(tex, rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height)), rl.NewVector2(0, 0), rl.White)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	ov := a.sess.Overlay()
	h := rl.GetScreenHeight()
	lines := []string{ov.FPS, ov.Points, ov.Speed, ov.Zoom,
		fmt.Sprintf("density %s  zoom %s  auto %v", ov.DensityValue, ov.ZoomValue, a.sess.Params().ZoomAuto)}
	y := h - 20*len(lines) - 30
	for _, line := range lines {
		a.drawText(line, 10, y, 16, ColText)
		y += 20
	}

	state := a.sess.ActiveName()
	switch {
	case a.sess.State() == session.Swapping:
		state += " (loading)"
	case !a.sess.Params().Running:
		state += " (paused)"
	}
	a.drawText(state, 10, y, 16, ColTextDim)

	if a.status != "" {
		col := ColText
		if a.failed {
			col = ColError
		}
		a.drawText(a.status, 10, y+20, 16, col)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
