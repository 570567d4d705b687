package geom

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Penetration is the displacement along Normal that separates a box from the
// solid side of a face.
type Penetration struct {
	Normal mgl32.Vec3
	Depth  float32
}

func (p Penetration) Vector() mgl32.Vec3 {
	return p.Normal.Mul(p.Depth)
}

// BoxFacePenetration tests a box against one face. The face plane must lie
// strictly inside the box along the normal axis and the face rectangle must
// overlap the box with positive area; touching contacts do not count.
func BoxFacePenetration(box cube.BBox, f Face) (Penetration, bool) {
	ax := f.Axis()
	plane := f.Center[ax]
	min, max := box.Min(), box.Max()
	if !(min[ax] < plane && plane < max[ax]) {
		return Penetration{}, false
	}

	for t := 0; t < 3; t++ {
		if t == ax {
			continue
		}
		lo := math32.Max(min[t], f.Center[t]-f.HalfExtents[t])
		hi := math32.Min(max[t], f.Center[t]+f.HalfExtents[t])
		if hi <= lo {
			return Penetration{}, false
		}
	}

	var depth float32
	if f.Normal[ax] > 0 {
		// solid lies below the plane
		depth = plane - min[ax]
	} else {
		depth = max[ax] - plane
	}
	if depth <= 0 {
		return Penetration{}, false
	}
	return Penetration{Normal: f.Normal, Depth: depth}, true
}

// Correction combines penetration vectors by keeping, per axis, the component
// of largest magnitude. The first vector wins ties.
type Correction struct {
	v   mgl32.Vec3
	hit bool
}

func (c *Correction) Add(v mgl32.Vec3) {
	c.hit = true
	for i := 0; i < 3; i++ {
		if math32.Abs(v[i]) > math32.Abs(c.v[i]) {
			c.v[i] = v[i]
		}
	}
}

func (c *Correction) Result() (mgl32.Vec3, bool) {
	if !c.hit || c.v.ApproxEqual(mgl32.Vec3{}) {
		return mgl32.Vec3{}, false
	}
	return c.v, true
}
