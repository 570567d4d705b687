package geom

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxAround returns a box of the given half extent centered on p.
func BoxAround(p mgl32.Vec3, half float32) cube.BBox {
	return cube.Box(p.X()-half, p.Y()-half, p.Z()-half, p.X()+half, p.Y()+half, p.Z()+half)
}

func Center(b cube.BBox) mgl32.Vec3 {
	return b.Min().Add(b.Max()).Mul(0.5)
}

// PointDistance is the distance from v to the nearest point of b, zero when
// v lies inside.
func PointDistance(b cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(b.Min().X()-v.X(), math32.Max(0, v.X()-b.Max().X()))
	y := math32.Max(b.Min().Y()-v.Y(), math32.Max(0, v.Y()-b.Max().Y()))
	z := math32.Max(b.Min().Z()-v.Z(), math32.Max(0, v.Z()-b.Max().Z()))
	return math32.Sqrt(x*x + y*y + z*z)
}

// BoxDistance is the distance between the nearest points of a and b, zero
// when they touch or overlap.
func BoxDistance(a, b cube.BBox) float32 {
	var sq float32
	for i := 0; i < 3; i++ {
		gap := math32.Max(a.Min()[i]-b.Max()[i], b.Min()[i]-a.Max()[i])
		if gap > 0 {
			sq += gap * gap
		}
	}
	return math32.Sqrt(sq)
}
