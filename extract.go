package voxcollide

import (
	"math"
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/octree"
	"github.com/go-gl/mathgl/mgl32"
)

// ExtractFaces returns the exposed faces owned by voxels inside r, in world
// units. Extracting the cells of a partition of the world one by one yields
// the same surface as extracting the whole world at once.
func ExtractFaces(tree VoxelOctree, r octree.Region, frame geom.Frame) geom.FaceSet {
	var faces geom.FaceSet
	tree.VisitFacesInRegion(r, func(f octree.Face) {
		faces = append(faces, worldFace(f, frame))
	})
	return faces
}

func ExtractWorldFaces(tree VoxelOctree, frame geom.Frame) geom.FaceSet {
	n := frame.Size()
	return ExtractFaces(tree, octree.NewRegion(0, 0, 0, n, n, n), frame)
}

func worldFace(f octree.Face, frame geom.Frame) geom.Face {
	min := frame.ToWorld(voxelVec(f.Min))
	max := frame.ToWorld(voxelVec(f.Max))
	return geom.Face{
		Center:      min.Add(max).Mul(0.5),
		Normal:      f.Dir.Normal(),
		HalfExtents: max.Sub(min).Mul(0.5),
		Material:    f.Material,
	}
}

func voxelVec(v [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// ChunkCoord addresses a chunk: floor(position / chunk size) in world units.
type ChunkCoord struct {
	X, Y, Z int
}

func ChunkCoordOf(p mgl32.Vec3, chunkSize float32) ChunkCoord {
	return ChunkCoord{
		X: int(math32.Floor(p.X() / chunkSize)),
		Y: int(math32.Floor(p.Y() / chunkSize)),
		Z: int(math32.Floor(p.Z() / chunkSize)),
	}
}

func (c ChunkCoord) axis(i int) int {
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	}
	return c.Z
}

// ChunkBounds is the world box of a chunk.
func ChunkBounds(c ChunkCoord, chunkSize float32) cube.BBox {
	return cube.Box(
		float32(c.X)*chunkSize, float32(c.Y)*chunkSize, float32(c.Z)*chunkSize,
		float32(c.X+1)*chunkSize, float32(c.Y+1)*chunkSize, float32(c.Z+1)*chunkSize,
	)
}

// ChunkRegion converts a chunk to voxel units. Both bounds are floored so
// neighbouring chunks share their boundary exactly. The result is not
// clipped to the world.
func ChunkRegion(frame geom.Frame, c ChunkCoord, chunkSize float32) octree.Region {
	var r octree.Region
	for i := 0; i < 3; i++ {
		r.Min[i] = worldToVoxelFloor(frame, float64(c.axis(i))*float64(chunkSize))
		r.Max[i] = worldToVoxelFloor(frame, float64(c.axis(i)+1)*float64(chunkSize))
	}
	return r
}

func worldToVoxelFloor(frame geom.Frame, w float64) int {
	half := float64(frame.Size()) / 2
	return int(math.Floor(w/float64(frame.VoxelSize()) + half))
}

// regionEmpty reports whether r is covered by a single empty octree node. It
// only answers for cubic, power-of-two sized regions aligned to their size.
func regionEmpty(tree VoxelOctree, r octree.Region) bool {
	size := r.Max[0] - r.Min[0]
	if size <= 0 || size != r.Max[1]-r.Min[1] || size != r.Max[2]-r.Min[2] {
		return false
	}
	if size&(size-1) != 0 {
		return false
	}
	for i := 0; i < 3; i++ {
		if r.Min[i] < 0 || r.Min[i]%size != 0 {
			return false
		}
	}
	level := uint32(bits.TrailingZeros(uint(size)))
	if level > tree.Depth() {
		return false
	}
	m, ok := tree.Lookup(tree.Depth()-level, r.Min[0]/size, r.Min[1]/size, r.Min[2]/size)
	return ok && m == 0
}
