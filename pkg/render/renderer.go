package render

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/scene"
	"github.com/taigrr/diorama/pkg/shading"
)

// TextureSource resolves a material's texture name to a texture.
type TextureSource func(name string) (*Texture, error)

// DirTextures resolves texture names relative to dir.
func DirTextures(dir string) TextureSource {
	return func(name string) (*Texture, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return LoadTexture(name)
	}
}

// Options configures a SceneRenderer.
type Options struct {
	Logger     *slog.Logger  // Defaults to slog.Default()
	Textures   TextureSource // Nil gives textured materials the placeholder
	Filter     FilterMode
	Workers    int // Row bands; zero or less means GOMAXPROCS
	Background Color
	Wireframe  bool
}

// renderObject is a scene object with its composed model matrix and
// resolved material.
type renderObject struct {
	obj      *scene.Object
	model    math3d.Mat4
	material shading.Material
	texture  *Texture
}

// SceneRenderer draws a parsed scene graph from a camera.
type SceneRenderer struct {
	camera  *Camera
	objects []renderObject
	light   scene.Light
	opts    Options
	log     *slog.Logger

	raster *Rasterizer

	// Toggled by the viewer between frames.
	Wireframe       bool
	TexturesEnabled bool
}

// missingTexture stands in for textures that fail to load.
var missingTexture = func() *Texture {
	t := NewCheckerTexture(8, 8, 4, RGB(255, 0, 255), RGB(32, 32, 32))
	t.FilterMode = FilterNearest
	return t
}()

// NewSceneRenderer composes every object's transform sequence and resolves
// textures. It fails if any object's transforms do not compose. Textures
// that fail to load are logged and replaced with a checkerboard.
func NewSceneRenderer(g *scene.Graph, camera *Camera, opts Options) (*SceneRenderer, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &SceneRenderer{
		camera:          camera,
		opts:            opts,
		log:             log,
		Wireframe:       opts.Wireframe,
		TexturesEnabled: true,
	}

	// A scene without lights renders with a black light at the origin.
	if l, ok := g.DefaultLight(); ok {
		s.light = *l
	}

	cache := map[string]*Texture{}
	for _, obj := range g.Objects() {
		model, err := obj.ModelMatrix()
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.Name, err)
		}
		m := obj.Material
		ro := renderObject{
			obj:   obj,
			model: model,
			material: shading.Material{
				Ka:        m.Ka,
				Kd:        m.Kd,
				Ks:        m.Ks,
				Shininess: m.Shininess,
			},
		}
		if m.HasTexture() {
			ro.texture = s.resolveTexture(m, cache)
		}
		s.objects = append(s.objects, ro)
	}
	return s, nil
}

func (s *SceneRenderer) resolveTexture(m *scene.Material, cache map[string]*Texture) *Texture {
	if tex, ok := cache[m.Texture]; ok {
		return tex
	}

	tex := missingTexture
	if s.opts.Textures == nil {
		s.log.Warn("no texture source, using placeholder", "material", m.Name, "texture", m.Texture)
	} else if loaded, err := s.opts.Textures(m.Texture); err != nil {
		s.log.Warn("texture unavailable, using placeholder", "material", m.Name, "texture", m.Texture, "err", err)
	} else {
		loaded.FilterMode = s.opts.Filter
		tex = loaded
		s.log.Debug("loaded texture", "texture", m.Texture, "width", tex.Width, "height", tex.Height)
	}
	cache[m.Texture] = tex
	return tex
}

// Camera returns the camera the renderer draws from.
func (s *SceneRenderer) Camera() *Camera {
	return s.camera
}

// Light returns the light the scene is lit by.
func (s *SceneRenderer) Light() scene.Light {
	return s.light
}

// Draw clears fb and renders every object into it in declaration order.
func (s *SceneRenderer) Draw(ctx context.Context, fb *Framebuffer) error {
	s.camera.SetAspectRatio(float64(fb.Width) / float64(max(fb.Height, 1)))
	fb.Clear(s.opts.Background)

	if s.Wireframe {
		s.drawWireframe(fb)
		return ctx.Err()
	}

	if s.raster == nil || s.raster.fb != fb || len(s.raster.zbuffer) != fb.Width*fb.Height {
		s.raster = NewRasterizer(fb)
	}
	s.raster.Workers = s.opts.Workers
	s.raster.ClearDepth()

	view := s.camera.ViewMatrix()
	proj := s.camera.ProjectionMatrix()
	calls := make([]DrawCall, len(s.objects))
	for i, ro := range s.objects {
		calls[i] = DrawCall{
			Mesh:      ro.obj.Primitive.Mesh,
			Uniforms:  shading.NewUniforms(ro.model, view, proj, s.light.Position),
			Material:  ro.material,
			Intensity: s.light.Intensity,
		}
		if ro.texture != nil && s.TexturesEnabled {
			calls[i].Texture = ro.texture
		}
	}
	return s.raster.Draw(ctx, calls)
}

func (s *SceneRenderer) drawWireframe(fb *Framebuffer) {
	w := NewWireframe(s.camera, fb)
	w.DrawAxes(1)
	for _, ro := range s.objects {
		w.DrawMesh(ro.obj.Primitive.Mesh, ro.model, ColorWire)
	}
	w.DrawPoint(s.light.Position, 0.3, ColorWhite)
}
