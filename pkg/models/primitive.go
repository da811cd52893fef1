package models

import "fmt"

// PrimitiveKind names a mesh template the scene language can declare.
type PrimitiveKind int

const (
	KindCube     PrimitiveKind = iota + 1 // Procedural ±1 cube
	KindSphere                            // Procedural UV sphere
	KindImported                          // Loaded from a GLB/GLTF file
)

var primitiveKindNames = map[PrimitiveKind]string{
	KindCube:     "cube",
	KindSphere:   "sphere",
	KindImported: "mesh",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(k))
}

// ParsePrimitiveKind maps a scene-language kind name to its PrimitiveKind.
func ParsePrimitiveKind(name string) (PrimitiveKind, error) {
	for k, n := range primitiveKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown primitive kind %q", name)
}

// MaxSphereCount bounds the stack and sector counts a sphere accepts.
const MaxSphereCount = 1 << 10

// GeneratePrimitive builds the mesh for a procedural kind. A sphere takes
// stack and sector counts in [1, MaxSphereCount]; a cube takes none.
func GeneratePrimitive(kind PrimitiveKind, params ...int) (*Mesh, error) {
	switch kind {
	case KindCube:
		if len(params) != 0 {
			return nil, fmt.Errorf("cube takes no parameters, got %d", len(params))
		}
		return GenerateCube(), nil
	case KindSphere:
		if len(params) != 2 {
			return nil, fmt.Errorf("sphere takes stack and sector counts, got %d parameters", len(params))
		}
		if params[0] <= 0 || params[1] <= 0 {
			return nil, fmt.Errorf("sphere counts must be positive, got %d x %d", params[0], params[1])
		}
		if params[0] > MaxSphereCount || params[1] > MaxSphereCount {
			return nil, fmt.Errorf("sphere counts must be at most %d, got %d x %d", MaxSphereCount, params[0], params[1])
		}
		return GenerateSphere(params[0], params[1]), nil
	case KindImported:
		return nil, fmt.Errorf("%s primitives are loaded from files, not generated", kind)
	default:
		return nil, fmt.Errorf("unknown primitive kind %v", kind)
	}
}
