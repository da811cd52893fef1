// Package scene parses the diorama scene language into a Graph of named
// cameras, lights, primitives, materials and objects.
package scene

import (
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/transform"
)

// Primitive is a named mesh template shared by any number of objects.
type Primitive struct {
	Name   string
	Kind   models.PrimitiveKind
	Params []int  // Stack and sector counts for spheres
	File   string // Source file for imported meshes
	Mesh   *models.Mesh
}

// Material holds Blinn-Phong reflectance coefficients and an optional
// texture name, resolved by the renderer.
type Material struct {
	Name      string
	Ka        math3d.Vec3 // Ambient
	Kd        math3d.Vec3 // Diffuse
	Ks        math3d.Vec3 // Specular
	Shininess float64
	Texture   string
}

// HasTexture reports whether the material names a texture.
func (m *Material) HasTexture() bool {
	return m.Texture != ""
}

// Object places a primitive with a material under an ordered sequence of
// transform operations.
type Object struct {
	Name       string
	Primitive  *Primitive
	Material   *Material
	Transforms []transform.Op
}

// ModelMatrix composes the object's transform sequence.
func (o *Object) ModelMatrix() (math3d.Mat4, error) {
	return transform.Compose(o.Transforms)
}

// Projection kinds a camera may declare.
const ProjectionPerspective = "perspective"

// Camera is a look-at camera.
type Camera struct {
	Name       string
	Projection string
	Eye        math3d.Vec3
	Target     math3d.Vec3
	Up         math3d.Vec3
}

// Light kinds a light may declare.
const LightPoint = "point"

// Light is a point light with an RGB intensity.
type Light struct {
	Name      string
	Kind      string
	Position  math3d.Vec3
	Intensity math3d.Vec3
}

// registry maps names to entries and remembers first-declaration order.
type registry[T any] struct {
	byName map[string]T
	order  []string
}

func newRegistry[T any]() registry[T] {
	return registry[T]{byName: make(map[string]T)}
}

func (r *registry[T]) put(name string, v T) {
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = v
}

func (r *registry[T]) get(name string) (T, bool) {
	v, ok := r.byName[name]
	return v, ok
}

func (r *registry[T]) list() []T {
	out := make([]T, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Graph is the scene built from one parse. It is read-only once Parse
// returns; re-parsing builds a new Graph.
type Graph struct {
	primitives registry[*Primitive]
	materials  registry[*Material]
	objects    registry[*Object]
	cameras    registry[*Camera]
	lights     registry[*Light]
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		primitives: newRegistry[*Primitive](),
		materials:  newRegistry[*Material](),
		objects:    newRegistry[*Object](),
		cameras:    newRegistry[*Camera](),
		lights:     newRegistry[*Light](),
	}
}

// Primitive looks up a primitive by name.
func (g *Graph) Primitive(name string) (*Primitive, bool) { return g.primitives.get(name) }

// Material looks up a material by name.
func (g *Graph) Material(name string) (*Material, bool) { return g.materials.get(name) }

// Object looks up an object by name.
func (g *Graph) Object(name string) (*Object, bool) { return g.objects.get(name) }

// Camera looks up a camera by name.
func (g *Graph) Camera(name string) (*Camera, bool) { return g.cameras.get(name) }

// Light looks up a light by name.
func (g *Graph) Light(name string) (*Light, bool) { return g.lights.get(name) }

// Primitives returns all primitives in declaration order.
func (g *Graph) Primitives() []*Primitive { return g.primitives.list() }

// Materials returns all materials in declaration order.
func (g *Graph) Materials() []*Material { return g.materials.list() }

// Objects returns all objects in declaration order.
func (g *Graph) Objects() []*Object { return g.objects.list() }

// Cameras returns all cameras in declaration order.
func (g *Graph) Cameras() []*Camera { return g.cameras.list() }

// Lights returns all lights in declaration order.
func (g *Graph) Lights() []*Light { return g.lights.list() }

// DefaultCamera returns the first declared camera.
func (g *Graph) DefaultCamera() (*Camera, bool) {
	if len(g.cameras.order) == 0 {
		return nil, false
	}
	return g.cameras.get(g.cameras.order[0])
}

// DefaultLight returns the first declared light.
func (g *Graph) DefaultLight() (*Light, bool) {
	if len(g.lights.order) == 0 {
		return nil, false
	}
	return g.lights.get(g.lights.order[0])
}

// Stats counts the entries of a Graph.
type Stats struct {
	Primitives int
	Materials  int
	Objects    int
	Cameras    int
	Lights     int
	Triangles  int // Across all objects
}

// Stats returns entry counts and the number of triangles the objects draw.
func (g *Graph) Stats() Stats {
	s := Stats{
		Primitives: len(g.primitives.order),
		Materials:  len(g.materials.order),
		Objects:    len(g.objects.order),
		Cameras:    len(g.cameras.order),
		Lights:     len(g.lights.order),
	}
	for _, o := range g.Objects() {
		s.Triangles += o.Primitive.Mesh.TriangleCount()
	}
	return s
}
