package renderer

import "github.com/pthm-cable/dissolve/targets"

// VerticesPerParticle is the vertex count of one particle quad (two triangles).
const VerticesPerParticle = 6

// quadCorners are the corner offsets of the two triangles of a particle quad.
var quadCorners = [VerticesPerParticle][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// vertexData holds the CPU side of the particle mesh, laid out in the raylib
// mesh attribute slots:
//
//	Positions  (3) start.xy, seed
//	Texcoords  (2) cluster target
//	Texcoords2 (2) destination target
//	Normals    (3) ambient target.xy, group
//	Tangents   (4) quad corner.xy, 0, 0
//	Colors     (4) RGBA bytes
type vertexData struct {
	Positions  []float32
	Texcoords  []float32
	Texcoords2 []float32
	Normals    []float32
	Tangents   []float32
	Colors     []uint8
}

// vertexCount returns the number of vertices packed.
func (v *vertexData) vertexCount() int {
	return len(v.Positions) / 3
}

// pack fills v from set, reusing capacity. Every particle of set becomes six
// vertices carrying identical attributes and different corners.
func (v *vertexData) pack(set *targets.Set) {
	n := set.Len() * VerticesPerParticle
	v.Positions = resize(v.Positions, 3*n)
	v.Texcoords = resize(v.Texcoords, 2*n)
	v.Texcoords2 = resize(v.Texcoords2, 2*n)
	v.Normals = resize(v.Normals, 3*n)
	v.Tangents = resize(v.Tangents, 4*n)
	if cap(v.Colors) < 4*n {
		v.Colors = make([]uint8, 4*n)
	}
	v.Colors = v.Colors[:4*n]

	for i := 0; i < set.Len(); i++ {
		for k, corner := range quadCorners {
			j := i*VerticesPerParticle + k

			v.Positions[3*j] = set.Start[2*i]
			v.Positions[3*j+1] = set.Start[2*i+1]
			v.Positions[3*j+2] = set.Seeds[i]

			v.Texcoords[2*j] = set.Cluster[2*i]
			v.Texcoords[2*j+1] = set.Cluster[2*i+1]

			v.Texcoords2[2*j] = set.Destination[2*i]
			v.Texcoords2[2*j+1] = set.Destination[2*i+1]

			v.Normals[3*j] = set.Ambient[2*i]
			v.Normals[3*j+1] = set.Ambient[2*i+1]
			v.Normals[3*j+2] = float32(set.Group[i])

			v.Tangents[4*j] = corner[0]
			v.Tangents[4*j+1] = corner[1]
			v.Tangents[4*j+2] = 0
			v.Tangents[4*j+3] = 0

			copy(v.Colors[4*j:4*j+4], set.Colors[4*i:4*i+4])
		}
	}
}

func resize(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}
