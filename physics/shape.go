package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultThickness is the half depth of the slab built behind each face.
const DefaultThickness = 0.05

// Cuboid is one sub-shape of a compound collider: a thin box sitting on the
// solid side of the face it was built from.
type Cuboid struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Face        geom.Face
}

func (c Cuboid) Bounds() cube.BBox {
	min := c.Center.Sub(c.HalfExtents)
	max := c.Center.Add(c.HalfExtents)
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}

// Compound is a collider made of many cuboids attached as one unit.
type Compound struct {
	Parts  []Cuboid
	bounds cube.BBox
}

// NewCompound builds one cuboid per face. thickness <= 0 selects
// DefaultThickness.
func NewCompound(faces []geom.Face, thickness float32) *Compound {
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	c := &Compound{Parts: make([]Cuboid, 0, len(faces))}
	var min, max mgl32.Vec3
	for i, f := range faces {
		n := f.Normal
		abs := mgl32.Vec3{math32.Abs(n[0]), math32.Abs(n[1]), math32.Abs(n[2])}
		part := Cuboid{
			Center:      f.Center.Sub(n.Mul(thickness)),
			HalfExtents: f.HalfExtents.Add(abs.Mul(thickness)),
			Face:        f,
		}
		c.Parts = append(c.Parts, part)

		lo := part.Center.Sub(part.HalfExtents)
		hi := part.Center.Add(part.HalfExtents)
		if i == 0 {
			min, max = lo, hi
			continue
		}
		for a := 0; a < 3; a++ {
			min[a] = math32.Min(min[a], lo[a])
			max[a] = math32.Max(max[a], hi[a])
		}
	}
	c.bounds = cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
	return c
}

func (c *Compound) Len() int {
	return len(c.Parts)
}

// Bounds is the box enclosing every part. It is the zero box for an empty
// compound.
func (c *Compound) Bounds() cube.BBox {
	return c.bounds
}
