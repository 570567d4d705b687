package geom

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame maps the voxel units of a 2^Depth octree onto world units. The world
// is centered at the origin: world = (voxel - 2^(Depth-1)) * Scale.
type Frame struct {
	Depth uint32
	Scale float32
}

func NewFrame(depth uint32, scale float32) Frame {
	if scale <= 0 {
		scale = 1
	}
	return Frame{Depth: depth, Scale: scale}
}

// Size is the world edge in voxel units.
func (f Frame) Size() int {
	return 1 << f.Depth
}

func (f Frame) scale() float32 {
	if f.Scale <= 0 {
		return 1
	}
	return f.Scale
}

func (f Frame) half() mgl32.Vec3 {
	h := float32(f.Size()) * 0.5
	return mgl32.Vec3{h, h, h}
}

// WorldSize is the world edge in world units.
func (f Frame) WorldSize() float32 {
	return float32(f.Size()) * f.scale()
}

// VoxelSize is the edge of one finest-depth voxel in world units.
func (f Frame) VoxelSize() float32 {
	return f.scale()
}

func (f Frame) ToWorld(v mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(f.half()).Mul(f.scale())
}

func (f Frame) ToVoxel(w mgl32.Vec3) mgl32.Vec3 {
	return w.Mul(1 / f.scale()).Add(f.half())
}

// Bounds returns the world box covered by the octree.
func (f Frame) Bounds() cube.BBox {
	h := f.WorldSize() * 0.5
	return cube.Box(-h, -h, -h, h, h, h)
}
