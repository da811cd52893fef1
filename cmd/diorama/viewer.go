package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/diorama/internal/config"
	"github.com/taigrr/diorama/pkg/render"
)

// OrbitAxis tracks the angular velocity of one orbit axis with spring decay
type OrbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewOrbitAxis creates an axis whose velocity springs back to rest
func NewOrbitAxis(fps int, frequency, damping float64) OrbitAxis {
	return OrbitAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Step returns the angle to turn this frame and decays the velocity toward 0
func (a *OrbitAxis) Step() float64 {
	step := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// OrbitState holds yaw and pitch spin around the camera target
type OrbitState struct {
	Yaw, Pitch OrbitAxis

	fps                int
	frequency, damping float64
}

func NewOrbitState(cfg config.Config) *OrbitState {
	o := &OrbitState{fps: cfg.FPS, frequency: cfg.OrbitFrequency, damping: cfg.OrbitDamping}
	o.Reset()
	return o
}

func (o *OrbitState) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

func (o *OrbitState) Reset() {
	o.Yaw = NewOrbitAxis(o.fps, o.frequency, o.damping)
	o.Pitch = NewOrbitAxis(o.fps, o.frequency, o.damping)
}

// Apply turns the camera by this frame's step
func (o *OrbitState) Apply(cam *render.Camera) {
	yaw, pitch := o.Yaw.Step(), o.Pitch.Step()
	if yaw != 0 || pitch != 0 {
		cam.Orbit(yaw, pitch)
	}
}

// ViewState holds viewer toggles (UI state, not library code)
type ViewState struct {
	TexturesEnabled bool
	Wireframe       bool
	ShowHUD         bool
}

// HUD renders an overlay with scene info and controls
type HUD struct {
	name      string
	triangles int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	status    string // Last reload result
}

// NewHUD creates a new HUD
func NewHUD(name string, triangles int) *HUD {
	return &HUD{
		name:      name,
		triangles: triangles,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, vs *ViewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !vs.ShowHUD {
		return
	}

	// Top left: FPS
	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	// Top middle: scene name
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset))

	// Top right: triangle count
	tris := fmt.Sprintf(" %d tris ", h.triangles)
	fmt.Print(moveTo(1, max(width-len(tris), 1)) + fmt.Sprintf("%s%s%s%s%s", bgBlack, fgCyan, bold, tris, reset))

	checkTex := "[ ]"
	if vs.TexturesEnabled && !vs.Wireframe {
		checkTex = "[✓]"
	}
	checkWire := "[ ]"
	if vs.Wireframe {
		checkWire = "[✓]"
	}
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s %s Texture  %s Wireframe %s", bgBlack, fgWhite, checkTex, checkWire, reset))

	if h.status != "" {
		fmt.Print(moveTo(height, max(width-len(h.status)-2, 1)) + fmt.Sprintf("%s%s%s %s %s", bgBlack, dim, fgYellow, h.status, reset))
	}
}

// viewer owns everything the frame loop touches. Terminal events and scene
// reloads are applied on the frame loop's goroutine.
type viewer struct {
	term *uv.Terminal

	width, height int
	termRenderer  *render.TerminalRenderer
	fb            *render.Framebuffer

	scene *render.SceneRenderer
	home  render.Camera // Camera as declared, for reset
	orbit *OrbitState
	state ViewState
	hud   *HUD
	quit  bool

	dragging     bool
	lastX, lastY int
}

// Input tuning.
const (
	keyImpulse  = 0.04
	dragImpulse = 0.01
	dollyStep   = 0.9
	slowFrame   = 100 * time.Millisecond
)

func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.termRenderer = render.NewTerminalRenderer(v.term, width, height)
	fbWidth, fbHeight := v.termRenderer.FramebufferSize()
	v.fb = render.NewFramebuffer(fbWidth, fbHeight)
}

// setScene swaps in a freshly built renderer and makes its camera the reset
// target.
func (v *viewer) setScene(src *sceneSource, r *render.SceneRenderer) {
	v.scene = r
	v.home = *r.Camera()
	r.Wireframe = v.state.Wireframe
	r.TexturesEnabled = v.state.TexturesEnabled
	v.orbit.Reset()
	v.hud.name = src.name
	v.hud.triangles = src.graph.Stats().Triangles
}

func (v *viewer) handle(ev uv.Event) {
	cam := v.scene.Camera()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.term.Erase()
		v.term.Resize(ev.Width, ev.Height)
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			v.quit = true
		case ev.MatchString("r"):
			v.orbit.Reset()
			cam.SetLookAt(v.home.Eye, v.home.Target, v.home.Up)
		case ev.MatchString("w", "up"):
			v.orbit.ApplyImpulse(0, keyImpulse)
		case ev.MatchString("s", "down"):
			v.orbit.ApplyImpulse(0, -keyImpulse)
		case ev.MatchString("a", "left"):
			v.orbit.ApplyImpulse(-keyImpulse, 0)
		case ev.MatchString("d", "right"):
			v.orbit.ApplyImpulse(keyImpulse, 0)
		case ev.MatchString("+", "="):
			cam.Dolly(dollyStep)
		case ev.MatchString("-", "_"):
			cam.Dolly(1 / dollyStep)
		case ev.MatchString("t"):
			v.state.TexturesEnabled = !v.state.TexturesEnabled
			v.scene.TexturesEnabled = v.state.TexturesEnabled
		case ev.MatchString("x"):
			v.state.Wireframe = !v.state.Wireframe
			v.scene.Wireframe = v.state.Wireframe
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			v.state.ShowHUD = !v.state.ShowHUD
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.orbit.ApplyImpulse(-float64(dx)*dragImpulse, float64(dy)*dragImpulse)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			cam.Dolly(dollyStep)
		case uv.MouseWheelDown:
			cam.Dolly(1 / dollyStep)
		}
	}
}

// view runs the interactive terminal viewer until Esc or ctx is done.
func view(ctx context.Context, src *sceneSource, cfg config.Config, log *slog.Logger) error {
	r, err := newRenderer(src, cfg, *cameraName, log)
	if err != nil {
		return err
	}

	var reloads <-chan reload
	if *watch {
		w, err := watchScene(ctx, src, cfg, *cameraName, log)
		if err != nil {
			return err
		}
		defer w.Close()
		reloads = w.reloads
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	v := &viewer{
		term:  term,
		orbit: NewOrbitState(cfg),
		state: ViewState{TexturesEnabled: true, Wireframe: *wireframe},
		hud:   NewHUD(src.name, 0),
	}
	v.resize(width, height)
	v.setScene(src, r)

	events := term.Events()
	targetDuration := time.Second / time.Duration(cfg.FPS)

	for !v.quit {
		now := time.Now()

		select {
		case <-ctx.Done():
			return nil
		case rl := <-reloads:
			if rl.err != nil {
				v.hud.status = "reload failed"
			} else {
				v.setScene(rl.src, rl.renderer)
				v.hud.status = "reloaded " + now.Format(time.TimeOnly)
			}
		default:
		}

	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				v.handle(ev)
			default:
				break drain
			}
		}

		v.orbit.Apply(v.scene.Camera())

		if err := v.scene.Draw(ctx, v.fb); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("render: %w", err)
		}

		v.termRenderer.Render(v.fb)
		if err := v.termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		v.hud.UpdateFPS()
		v.hud.Render(v.width, v.height, &v.state)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		} else if elapsed > slowFrame {
			log.Debug("slow frame", "elapsed", elapsed)
		}
	}
	return nil
}
