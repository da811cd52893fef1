// Package render rasterizes scene graphs into framebuffers and draws
// framebuffers on the terminal or into PNG snapshots.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/anthonynsimon/bild/transform"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Framebuffer is a 2D array of pixels. For terminal output its height is
// twice the number of rows, since each cell shows two half-block pixels.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		copy(img.Pix[y*img.Stride:], rgbaBytes(fb.Pixels[y*fb.Width:(y+1)*fb.Width]))
	}
	return img
}

func rgbaBytes(row []color.RGBA) []byte {
	b := make([]byte, 0, len(row)*4)
	for _, c := range row {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return b
}

// Downsample returns the framebuffer shrunk by an integer supersampling
// factor. A factor of 1 or less returns the framebuffer as is.
func (fb *Framebuffer) Downsample(factor int) image.Image {
	img := fb.ToImage()
	if factor <= 1 {
		return img
	}
	w, h := max(fb.Width/factor, 1), max(fb.Height/factor, 1)
	return transform.Resize(img, w, h, transform.Box)
}

// WritePNG encodes the framebuffer, downsampled by factor, as PNG.
func (fb *Framebuffer) WritePNG(w io.Writer, factor int) error {
	if err := png.Encode(w, fb.Downsample(factor)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG saves the framebuffer, downsampled by factor, as a PNG file.
func (fb *Framebuffer) SavePNG(path string, factor int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := fb.WritePNG(f, factor); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ColorFromVec converts a linear [0,1] color to 8-bit RGBA, clamping each
// channel.
func ColorFromVec(c math3d.Vec4) Color {
	v := c.Vec3().Clamp01()
	a := math.Max(0, math.Min(1, c.W))
	return Color{
		R: uint8(v.X*255 + 0.5),
		G: uint8(v.Y*255 + 0.5),
		B: uint8(v.Z*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// VecFromColor converts an 8-bit color to [0,1] RGB.
func VecFromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
