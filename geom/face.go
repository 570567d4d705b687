package geom

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// Face is an exposed voxel surface in world space. HalfExtents is zero along
// the normal axis; Normal points from the solid side towards empty space.
type Face struct {
	Center      mgl32.Vec3
	Normal      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Material    uint8
}

// Axis returns the index of the axis the face is perpendicular to.
func (f Face) Axis() int {
	ax := 0
	best := math32.Abs(f.Normal[0])
	for i := 1; i < 3; i++ {
		if a := math32.Abs(f.Normal[i]); a > best {
			ax, best = i, a
		}
	}
	return ax
}

// Plane is the world coordinate of the face along its normal axis.
func (f Face) Plane() float32 {
	return f.Center[f.Axis()]
}

// NormalIndex orders the six axis-aligned normals as -X, +X, -Y, +Y, -Z, +Z.
func (f Face) NormalIndex() int {
	ax := f.Axis()
	if f.Normal[ax] > 0 {
		return ax*2 + 1
	}
	return ax * 2
}

func (f Face) Area() float32 {
	a := f.Axis()
	area := float32(4)
	for i := 0; i < 3; i++ {
		if i != a {
			area *= f.HalfExtents[i]
		}
	}
	return area
}

func (f Face) Bounds() cube.BBox {
	min := f.Center.Sub(f.HalfExtents)
	max := f.Center.Add(f.HalfExtents)
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}

type FaceSet []Face

func (s FaceSet) Area() float64 {
	var total float64
	for _, f := range s {
		total += float64(f.Area())
	}
	return total
}

// AreaByNormal sums face area per normal, indexed as NormalIndex.
func (s FaceSet) AreaByNormal() [6]float64 {
	var out [6]float64
	for _, f := range s {
		out[f.NormalIndex()] += float64(f.Area())
	}
	return out
}

// Fingerprint hashes the faces in order. Two extractions over the same octree
// and region produce the same fingerprint.
func (s FaceSet) Fingerprint() uint64 {
	buf := make([]byte, 0, len(s)*37)
	var tmp [4]byte
	put := func(v mgl32.Vec3) {
		for i := 0; i < 3; i++ {
			binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v[i]))
			buf = append(buf, tmp[:]...)
		}
	}
	for _, f := range s {
		put(f.Center)
		put(f.Normal)
		put(f.HalfExtents)
		buf = append(buf, f.Material)
	}
	return xxh3.Hash(buf)
}
