// diorama - Terminal 3D Scene Viewer
// Renders scenes written in a line-oriented text format in your terminal.
//
// Controls:
//
//	Mouse drag  - Orbit camera (yaw/pitch)
//	Scroll      - Dolly in/out
//	W/S         - Orbit up/down
//	A/D         - Orbit left/right
//	R           - Reset camera
//	T           - Toggle textures on/off
//	X           - Toggle wireframe mode
//	?           - Toggle HUD overlay (FPS, scene name, triangle count, mode status)
//	+/-         - Dolly in/out
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/taigrr/diorama/internal/config"
	"github.com/taigrr/diorama/internal/logging"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file")
	outPath    = flag.String("out", "", "Render one frame to this PNG file and exit")
	outSize    = flag.String("size", "800x600", "Snapshot size (WxH)")
	ssaa       = flag.Int("ssaa", 0, "Snapshot supersampling factor (overrides config)")
	cameraName = flag.String("camera", "", "Camera to view from (default: first declared)")
	watch      = flag.Bool("watch", false, "Reload the scene file when it changes")
	check      = flag.Bool("check", false, "Parse the scene, print a summary and exit")
	wireframe  = flag.Bool("wireframe", false, "Start in wireframe mode")
	targetFPS  = flag.Int("fps", 0, "Target FPS (overrides config)")
	bgColor    = flag.String("bg", "", "Background color R,G,B (overrides config)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "diorama - Terminal 3D Scene Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: diorama [options] [scene-file]\n\n")
		fmt.Fprintf(os.Stderr, "Without a scene file the built-in demo scene is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Dolly in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle textures\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// settings merges the config file with command line overrides.
func settings() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	if *ssaa > 0 {
		cfg.SSAA = *ssaa
	}
	if *targetFPS > 0 {
		cfg.FPS = *targetFPS
	}
	if *bgColor != "" {
		cfg.Background = *bgColor
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.Validate()
}

func run(scenePath string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, level)

	if *watch && scenePath == "" {
		return errors.New("-watch needs a scene file")
	}

	src, err := loadScene(scenePath)
	if err != nil {
		return err
	}
	log.Debug("parsed scene", "scene", src.name, "objects", len(src.graph.Objects()))

	if *check {
		printStats(os.Stdout, src)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *outPath != "" {
		return snapshot(ctx, src, cfg, log)
	}
	return view(ctx, src, cfg, log)
}

// sceneSource is a parsed scene and where its relative paths resolve from.
type sceneSource struct {
	path  string // Empty for the built-in scene
	name  string
	dir   string
	graph *scene.Graph
}

// loadScene parses the scene at path, or the built-in scene when path is
// empty. Mesh files are resolved relative to the scene file.
func loadScene(path string) (*sceneSource, error) {
	if path == "" {
		g, err := scene.Parse(scene.DefaultScene)
		if err != nil {
			return nil, fmt.Errorf("parse default scene: %w", err)
		}
		return &sceneSource{name: "default scene", dir: ".", graph: g}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	g, err := scene.ParseReader(f, scene.WithMeshLoader(func(file string) (*models.Mesh, error) {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		return models.LoadGLB(file)
	}))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &sceneSource{path: path, name: filepath.Base(path), dir: dir, graph: g}, nil
}

// newRenderer builds a SceneRenderer looking through the named camera, or
// the first declared one.
func newRenderer(src *sceneSource, cfg config.Config, camName string, log *slog.Logger) (*render.SceneRenderer, error) {
	var sc *scene.Camera
	var ok bool
	if camName != "" {
		if sc, ok = src.graph.Camera(camName); !ok {
			return nil, fmt.Errorf("camera %q not declared in %s", camName, src.name)
		}
	} else {
		sc, ok = src.graph.DefaultCamera()
	}

	var cam *render.Camera
	if ok {
		cam = render.CameraFromScene(sc)
	} else {
		log.Warn("scene declares no camera, using default view", "scene", src.name)
		cam = render.NewCamera()
	}
	cfg.ApplyCamera(cam)

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return nil, err
	}

	return render.NewSceneRenderer(src.graph, cam, render.Options{
		Logger:     log,
		Textures:   render.DirTextures(src.dir),
		Filter:     filter,
		Workers:    cfg.Workers,
		Background: bg,
		Wireframe:  *wireframe,
	})
}

func printStats(w io.Writer, src *sceneSource) {
	st := src.graph.Stats()
	fmt.Fprintf(w, "%s: %d primitives, %d materials, %d objects, %d cameras, %d lights, %d triangles\n",
		src.name, st.Primitives, st.Materials, st.Objects, st.Cameras, st.Lights, st.Triangles)
}

// parseSize parses "WxH".
func parseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	if width, err = strconv.Atoi(ws); err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad width", s)
	}
	if height, err = strconv.Atoi(hs); err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("size %q: bad height", s)
	}
	return width, height, nil
}

// snapshot renders one supersampled frame to a PNG file.
func snapshot(ctx context.Context, src *sceneSource, cfg config.Config, log *slog.Logger) error {
	width, height, err := parseSize(*outSize)
	if err != nil {
		return err
	}

	r, err := newRenderer(src, cfg, *cameraName, log)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(width*cfg.SSAA, height*cfg.SSAA)
	if err := r.Draw(ctx, fb); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := fb.SavePNG(*outPath, cfg.SSAA); err != nil {
		return err
	}

	log.Info("wrote snapshot", "path", *outPath, "width", width, "height", height, "ssaa", cfg.SSAA)
	return nil
}
