package transform

import (
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Compose reduces seq to a single model matrix. The accumulator starts as
// identity and each elementary matrix is multiplied in on the right, walking
// from the last operation back to the first. The result applies seq[0] to a
// point first and the last operation last. An empty sequence yields identity.
//
// If any operation has an unknown kind Compose returns ErrUnknownOp and no
// matrix.
func Compose(seq []Op) (math3d.Mat4, error) {
	acc := math3d.Identity()
	for i := len(seq) - 1; i >= 0; i-- {
		m, err := seq[i].Matrix()
		if err != nil {
			return math3d.Mat4{}, fmt.Errorf("op %d: %w", i, err)
		}
		acc = acc.Mul(m)
	}
	return acc, nil
}
