package render

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/shading"
)

// MeshRenderer is the read-only mesh view the rasterizer draws from.
// models.Mesh satisfies it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// DrawCall is one mesh drawn with one material under one light.
type DrawCall struct {
	Mesh      MeshRenderer
	Uniforms  shading.Uniforms
	Material  shading.Material
	Intensity math3d.Vec3     // Light RGB intensity
	Texture   shading.Sampler // Nil draws untextured
}

// Rasterizer fills triangles into a framebuffer with a depth buffer. Both
// winding orders are filled.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)

	// Workers is the number of row bands shaded in parallel. Zero or less
	// means GOMAXPROCS.
	Workers int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // NDC depth (for Z-buffer)
	W    float64 // Clip W (for perspective-correct interpolation)
}

// setupTriangle is a triangle after the vertex stage, ready for scan
// conversion.
type setupTriangle struct {
	call *DrawCall
	sv   [3]screenVertex
	vary [3]shading.Varyings

	minX, maxX, minY, maxY int // Screen bounding box, clamped

	// Edge functions: edge(x,y) = A*x + B*y + C, one per opposite vertex
	a, b, c [3]float64
	invArea float64
}

// Draw shades every triangle of calls into the framebuffer. Pixels are
// split into horizontal bands shaded concurrently; each band owns its rows
// of both buffers. Cancelling ctx stops the draw between triangles.
func (r *Rasterizer) Draw(ctx context.Context, calls []DrawCall) error {
	tris := r.setup(calls)
	if len(tris) == 0 || r.Height() == 0 {
		return ctx.Err()
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, r.Height())
	rowsPer := (r.Height() + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < r.Height(); y0 += rowsPer {
		y1 := min(y0+rowsPer, r.Height()) - 1
		g.Go(func() error {
			for i := range tris {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.fillBand(&tris[i], y0, y1)
			}
			return nil
		})
	}
	return g.Wait()
}

// setup runs the vertex stage and prepares the edge functions of every
// triangle that is in front of the camera and has non-zero screen area.
func (r *Rasterizer) setup(calls []DrawCall) []setupTriangle {
	var tris []setupTriangle
	width, height := r.Width(), r.Height()

	for ci := range calls {
		call := &calls[ci]
		mesh := call.Mesh

		vary := make([]shading.Varyings, mesh.VertexCount())
		for i := range vary {
			pos, normal, uv := mesh.GetVertex(i)
			vary[i] = shading.ShadeVertex(call.Uniforms, shading.VertexInput{Position: pos, Normal: normal, UV: uv})
		}

		for fi := 0; fi < mesh.TriangleCount(); fi++ {
			face := mesh.GetFace(fi)
			t := setupTriangle{call: call}
			visible := true
			for k := range 3 {
				v := vary[face[k]]
				if v.Clip.W <= 0 {
					visible = false
					break
				}
				t.vary[k] = v
				ndc := v.Clip.PerspectiveDivide()
				x, y := ndcToScreen(ndc.X, ndc.Y, width, height)
				t.sv[k] = screenVertex{X: x, Y: y, Z: ndc.Z, W: v.Clip.W}
			}
			if visible && t.prepare(width, height) {
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// prepare computes the bounding box and edge functions. It reports false
// for degenerate or off-screen triangles.
func (t *setupTriangle) prepare(width, height int) bool {
	sv := &t.sv
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 || math.IsNaN(area2) {
		return false
	}

	// Bounding box (clamped to screen)
	t.minX = int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	t.maxX = int(math.Min(float64(width-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	t.minY = int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	t.maxY = int(math.Min(float64(height-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if t.minX > t.maxX || t.minY > t.maxY {
		return false
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	t.a[0], t.b[0], t.c[0] = edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	t.a[1], t.b[1], t.c[1] = edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	t.a[2], t.b[2], t.c[2] = edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	// Flip clockwise triangles so inside is always positive
	if area2 < 0 {
		for k := range 3 {
			t.a[k], t.b[k], t.c[k] = -t.a[k], -t.b[k], -t.c[k]
		}
		area2 = -area2
	}
	t.invArea = 1 / area2
	return true
}

// fillBand rasterizes the rows [y0, y1] of a triangle.
func (r *Rasterizer) fillBand(t *setupTriangle, y0, y1 int) {
	minY, maxY := max(t.minY, y0), min(t.maxY, y1)
	if minY > maxY {
		return
	}

	width := r.Width()
	call := t.call
	sv := &t.sv
	w := math3d.V3(sv[0].W, sv[1].W, sv[2].W)

	// Evaluate edge functions at the first pixel center
	px := float64(t.minX) + 0.5
	py := float64(minY) + 0.5
	var row [3]float64
	for k := range 3 {
		row[k] = edgeFunc(t.a[k], t.b[k], t.c[k], px, py)
	}

	for y := minY; y <= maxY; y++ {
		e := row
		rowOffset := y * width

		for x := t.minX; x <= t.maxX; x++ {
			if e[0] >= 0 && e[1] >= 0 && e[2] >= 0 {
				bc := math3d.V3(e[0]*t.invArea, e[1]*t.invArea, e[2]*t.invArea)
				z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z

				idx := rowOffset + x
				if z >= -1 && z <= 1 && z < r.zbuffer[idx] {
					frag := shading.Interpolate(t.vary[0], t.vary[1], t.vary[2], bc, w)
					color := shading.ShadeFragment(frag, call.Material, call.Intensity, call.Texture)
					r.zbuffer[idx] = z
					r.fb.Pixels[idx] = ColorFromVec(color)
				}
			}
			e[0] += t.a[0]
			e[1] += t.a[1]
			e[2] += t.a[2]
		}

		row[0] += t.b[0]
		row[1] += t.b[1]
		row[2] += t.b[2]
	}
}

// edgeCoeffs returns A, B, C for edge(x,y) = A*x + B*y + C, positive to the
// left of the edge from (x0,y0) to (x1,y1) in Y-down screen space.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
