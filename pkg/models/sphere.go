package models

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// sphereDetail multiplies the requested stack and sector counts.
const sphereDetail = 2

// GenerateSphere returns an indexed unit UV sphere. The stack (latitude) and
// sector (longitude) counts are doubled before generation. Pole rows emit a
// single triangle per sector so no triangle degenerates to zero area.
// Counts are clamped to [1, MaxSphereCount].
func GenerateSphere(stackCount, sectorCount int) *Mesh {
	stackCount = min(max(stackCount, 1), MaxSphereCount)
	sectorCount = min(max(sectorCount, 1), MaxSphereCount)
	stacks := stackCount * sphereDetail
	sectors := sectorCount * sphereDetail

	mesh := NewMesh("sphere")
	mesh.Vertices = make([]MeshVertex, 0, (stacks+1)*(sectors+1))

	for stack := 0; stack <= stacks; stack++ {
		phi := math.Pi/2 - float64(stack)*math.Pi/float64(stacks)
		for sector := 0; sector <= sectors; sector++ {
			theta := 2 * math.Pi * float64(sector) / float64(sectors)

			p := math3d.V3(
				math.Cos(phi)*math.Cos(theta),
				math.Cos(phi)*math.Sin(theta),
				math.Sin(phi),
			)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: p,
				Normal:   p,
				UV: math3d.V2(
					1-float64(sector)/float64(sectors),
					float64(stack)/float64(stacks),
				),
			})
		}
	}

	mesh.Indices = make([][3]int, 0, 2*stacks*sectors-2*sectors)
	for stack := range stacks {
		k1 := stack * (sectors + 1)
		k2 := k1 + sectors + 1

		for sector := 0; sector < sectors; sector, k1, k2 = sector+1, k1+1, k2+1 {
			if stack != 0 {
				mesh.Indices = append(mesh.Indices, [3]int{k1, k2, k1 + 1})
			}
			if stack != stacks-1 {
				mesh.Indices = append(mesh.Indices, [3]int{k1 + 1, k2, k2 + 1})
			}
		}
	}

	mesh.CalculateBounds()
	return mesh
}
