package scene

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/transform"
)

// MeshLoader loads the mesh for a `p,<name>,mesh,<file>` statement.
type MeshLoader func(file string) (*models.Mesh, error)

// Option configures a parse.
type Option func(*parser)

// WithMeshLoader enables the mesh primitive kind. Without a loader, mesh
// primitives are rejected.
func WithMeshLoader(load MeshLoader) Option {
	return func(p *parser) {
		p.loadMesh = load
	}
}

// Parse builds a Graph from scene-language text. The first error aborts the
// parse; no partial graph is returned.
func Parse(text string, opts ...Option) (*Graph, error) {
	return ParseReader(strings.NewReader(text), opts...)
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader, opts ...Option) (*Graph, error) {
	p := &parser{g: NewGraph()}
	for _, opt := range opts {
		opt(p)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := p.parseLine(line, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return p.g, nil
}

type parser struct {
	g        *Graph
	loadMesh MeshLoader
}

// statement is one split, trimmed line.
type statement struct {
	line   int
	text   string
	tag    string
	fields []string // fields[0] is the tag
}

func (s *statement) fail(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Line: s.line, Text: s.text, Tag: s.tag, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (s *statement) unresolved(kind, name string) *ReferenceError {
	return &ReferenceError{Line: s.line, Tag: s.tag, Kind: kind, Name: name}
}

func (s *statement) arity(want ...int) error {
	for _, n := range want {
		if len(s.fields) == n {
			return nil
		}
	}
	if len(want) == 1 {
		return s.fail(ErrArity, "want %d fields, got %d", want[0], len(s.fields))
	}
	return s.fail(ErrArity, "want one of %v fields, got %d", want, len(s.fields))
}

func (s *statement) name(i int) (string, error) {
	if s.fields[i] == "" {
		return "", s.fail(ErrValue, "field %d: empty name", i+1)
	}
	return s.fields[i], nil
}

func (s *statement) float(i int) (float64, error) {
	v, err := strconv.ParseFloat(s.fields[i], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, s.fail(ErrNumber, "field %d: %q is not a finite number", i+1, s.fields[i])
	}
	return v, nil
}

func (s *statement) vec3(i int) (math3d.Vec3, error) {
	var v [3]float64
	for j := range v {
		f, err := s.float(i + j)
		if err != nil {
			return math3d.Vec3{}, err
		}
		v[j] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

func (s *statement) count(i int) (int, error) {
	n, err := strconv.Atoi(s.fields[i])
	if err != nil {
		return 0, s.fail(ErrNumber, "field %d: %q is not an integer", i+1, s.fields[i])
	}
	if n <= 0 {
		return 0, s.fail(ErrValue, "field %d: count must be positive, got %d", i+1, n)
	}
	return n, nil
}

func (p *parser) parseLine(line int, raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}

	s := &statement{line: line, text: text}
	body, ok := strings.CutSuffix(text, ";")
	if !ok {
		return s.fail(ErrMalformed, "missing ';' terminator")
	}
	if strings.Contains(body, ";") {
		return s.fail(ErrMalformed, "more than one statement on the line")
	}

	s.fields = strings.Split(body, ",")
	for i, f := range s.fields {
		s.fields[i] = strings.TrimSpace(f)
	}
	s.tag = s.fields[0]
	switch len(s.tag) {
	case 0:
		return s.fail(ErrMalformed, "empty directive tag")
	case 1:
	default:
		tag := s.tag
		s.tag = ""
		return s.fail(ErrMalformed, "directive tag %q is not a single character", tag)
	}

	switch s.tag {
	case "c":
		return p.camera(s)
	case "l":
		return p.light(s)
	case "p":
		return p.primitive(s)
	case "m":
		return p.material(s)
	case "o":
		return p.object(s)
	case "X":
		return p.transformOp(s)
	default:
		return s.fail(ErrUnknownDirective, "tag %q", s.tag)
	}
}

// c,name,perspective,eye(3),target(3),up(3)
func (p *parser) camera(s *statement) error {
	if err := s.arity(12); err != nil {
		return err
	}
	name, err := s.name(1)
	if err != nil {
		return err
	}
	if s.fields[2] != ProjectionPerspective {
		return s.fail(ErrValue, "unsupported projection %q", s.fields[2])
	}
	eye, err := s.vec3(3)
	if err != nil {
		return err
	}
	target, err := s.vec3(6)
	if err != nil {
		return err
	}
	up, err := s.vec3(9)
	if err != nil {
		return err
	}
	p.g.cameras.put(name, &Camera{Name: name, Projection: ProjectionPerspective, Eye: eye, Target: target, Up: up})
	return nil
}

// l,name,point,position(3),intensity(3)
func (p *parser) light(s *statement) error {
	if err := s.arity(9); err != nil {
		return err
	}
	name, err := s.name(1)
	if err != nil {
		return err
	}
	if s.fields[2] != LightPoint {
		return s.fail(ErrValue, "unsupported light kind %q", s.fields[2])
	}
	pos, err := s.vec3(3)
	if err != nil {
		return err
	}
	intensity, err := s.vec3(6)
	if err != nil {
		return err
	}
	p.g.lights.put(name, &Light{Name: name, Kind: LightPoint, Position: pos, Intensity: intensity})
	return nil
}

// p,name,cube | p,name,sphere,stacks,sectors | p,name,mesh,file
func (p *parser) primitive(s *statement) error {
	if len(s.fields) < 3 {
		return s.fail(ErrArity, "want at least 3 fields, got %d", len(s.fields))
	}
	name, err := s.name(1)
	if err != nil {
		return err
	}
	kind, err := models.ParsePrimitiveKind(s.fields[2])
	if err != nil {
		return s.fail(ErrValue, "%v", err)
	}

	prim := &Primitive{Name: name, Kind: kind}
	switch kind {
	case models.KindCube:
		if err := s.arity(3); err != nil {
			return err
		}
	case models.KindSphere:
		if err := s.arity(5); err != nil {
			return err
		}
		for i := 3; i < 5; i++ {
			n, err := s.count(i)
			if err != nil {
				return err
			}
			prim.Params = append(prim.Params, n)
		}
	case models.KindImported:
		if err := s.arity(4); err != nil {
			return err
		}
		if p.loadMesh == nil {
			return s.fail(ErrValue, "mesh primitives need a mesh loader")
		}
		prim.File = s.fields[3]
		mesh, err := p.loadMesh(prim.File)
		if err != nil {
			return s.fail(ErrValue, "load %s: %w", prim.File, err)
		}
		prim.Mesh = mesh
	}

	if prim.Mesh == nil {
		prim.Mesh, err = models.GeneratePrimitive(kind, prim.Params...)
		if err != nil {
			return s.fail(ErrValue, "%w", err)
		}
		prim.Mesh.Name = name
	}
	p.g.primitives.put(name, prim)
	return nil
}

// m,name,ka(3),kd(3),ks(3),shininess[,texture]
func (p *parser) material(s *statement) error {
	if err := s.arity(12, 13); err != nil {
		return err
	}
	name, err := s.name(1)
	if err != nil {
		return err
	}
	m := &Material{Name: name}
	if m.Ka, err = s.vec3(2); err != nil {
		return err
	}
	if m.Kd, err = s.vec3(5); err != nil {
		return err
	}
	if m.Ks, err = s.vec3(8); err != nil {
		return err
	}
	if m.Shininess, err = s.float(11); err != nil {
		return err
	}
	if m.Shininess < 0 {
		return s.fail(ErrValue, "field 12: shininess must not be negative, got %g", m.Shininess)
	}
	if len(s.fields) == 13 {
		m.Texture = s.fields[12]
	}
	p.g.materials.put(name, m)
	return nil
}

// o,name,primitive,material
func (p *parser) object(s *statement) error {
	if err := s.arity(4); err != nil {
		return err
	}
	name, err := s.name(1)
	if err != nil {
		return err
	}
	prim, ok := p.g.primitives.get(s.fields[2])
	if !ok {
		return s.unresolved(RefPrimitive, s.fields[2])
	}
	mat, ok := p.g.materials.get(s.fields[3])
	if !ok {
		return s.unresolved(RefMaterial, s.fields[3])
	}
	p.g.objects.put(name, &Object{Name: name, Primitive: prim, Material: mat})
	return nil
}

// X,object,op,args...
func (p *parser) transformOp(s *statement) error {
	if len(s.fields) < 3 {
		return s.fail(ErrArity, "want at least 3 fields, got %d", len(s.fields))
	}
	kind, err := transform.ParseKind(s.fields[2])
	if err != nil {
		return s.fail(ErrUnknownTransform, "%w", err)
	}
	if err := s.arity(3 + kind.Arity()); err != nil {
		return err
	}
	args := make([]float64, kind.Arity())
	for i := range args {
		if args[i], err = s.float(3 + i); err != nil {
			return err
		}
	}
	op, err := transform.NewOp(kind, args...)
	if err != nil {
		return s.fail(ErrValue, "%w", err)
	}

	obj, ok := p.g.objects.get(s.fields[1])
	if !ok {
		return s.unresolved(RefObject, s.fields[1])
	}
	obj.Transforms = append(obj.Transforms, op)
	return nil
}
