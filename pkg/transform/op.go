// Package transform turns ordered sequences of symbolic rotate, scale and
// translate operations into model matrices.
package transform

import (
	"errors"
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
)

// ErrUnknownOp is returned when an operation's kind is not one of the five
// supported kinds.
var ErrUnknownOp = errors.New("unknown transform operation")

// Kind identifies the operation an Op performs. The zero Kind is invalid.
type Kind int

const (
	RotateX   Kind = iota + 1 // Rx: rotate about X by Args[0] degrees
	RotateY                   // Ry: rotate about Y by Args[0] degrees
	RotateZ                   // Rz: rotate about Z by Args[0] degrees
	Scale                     // S: scale by Args
	Translate                 // T: translate by Args
)

var kindCodes = [...]string{
	RotateX:   "Rx",
	RotateY:   "Ry",
	RotateZ:   "Rz",
	Scale:     "S",
	Translate: "T",
}

// Code returns the scene-language op code for k.
func (k Kind) Code() string {
	if k.Valid() {
		return kindCodes[k]
	}
	return ""
}

func (k Kind) String() string {
	if k.Valid() {
		return kindCodes[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the five operation kinds.
func (k Kind) Valid() bool {
	return k >= RotateX && k <= Translate
}

// Arity returns the number of numeric arguments the kind takes.
func (k Kind) Arity() int {
	switch k {
	case RotateX, RotateY, RotateZ:
		return 1
	case Scale, Translate:
		return 3
	}
	return 0
}

// ParseKind maps an op code (Rx, Ry, Rz, S, T) to its Kind.
func ParseKind(code string) (Kind, error) {
	for k := RotateX; k <= Translate; k++ {
		if kindCodes[k] == code {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOp, code)
}

// Op is a single transform operation. Rotations use Args[0] as an angle in
// degrees; Scale and Translate use all three Args.
type Op struct {
	Kind Kind
	Args [3]float64
}

// Rx returns a rotation about X by deg degrees.
func Rx(deg float64) Op { return Op{Kind: RotateX, Args: [3]float64{deg}} }

// Ry returns a rotation about Y by deg degrees.
func Ry(deg float64) Op { return Op{Kind: RotateY, Args: [3]float64{deg}} }

// Rz returns a rotation about Z by deg degrees.
func Rz(deg float64) Op { return Op{Kind: RotateZ, Args: [3]float64{deg}} }

// S returns a non-uniform scale.
func S(x, y, z float64) Op { return Op{Kind: Scale, Args: [3]float64{x, y, z}} }

// T returns a translation.
func T(x, y, z float64) Op { return Op{Kind: Translate, Args: [3]float64{x, y, z}} }

// NewOp builds an Op of kind k from exactly k.Arity() arguments.
func NewOp(k Kind, args ...float64) (Op, error) {
	if !k.Valid() {
		return Op{}, fmt.Errorf("%w: %v", ErrUnknownOp, k)
	}
	if len(args) != k.Arity() {
		return Op{}, fmt.Errorf("%s takes %d arguments, got %d", k, k.Arity(), len(args))
	}
	op := Op{Kind: k}
	copy(op.Args[:], args)
	return op, nil
}

// Matrix returns the elementary matrix for the operation.
func (o Op) Matrix() (math3d.Mat4, error) {
	switch o.Kind {
	case RotateX:
		return math3d.RotateX(math3d.DegToRad(o.Args[0])), nil
	case RotateY:
		return math3d.RotateY(math3d.DegToRad(o.Args[0])), nil
	case RotateZ:
		return math3d.RotateZ(math3d.DegToRad(o.Args[0])), nil
	case Scale:
		return math3d.Scale(math3d.V3(o.Args[0], o.Args[1], o.Args[2])), nil
	case Translate:
		return math3d.Translate(math3d.V3(o.Args[0], o.Args[1], o.Args[2])), nil
	default:
		return math3d.Mat4{}, fmt.Errorf("%w: %v", ErrUnknownOp, o.Kind)
	}
}

func (o Op) String() string {
	if o.Kind.Arity() == 1 {
		return fmt.Sprintf("%s(%g)", o.Kind, o.Args[0])
	}
	return fmt.Sprintf("%s(%g,%g,%g)", o.Kind, o.Args[0], o.Args[1], o.Args[2])
}
