package voxcollide

import (
	"testing"

	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/octree"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSingleVoxel(t *testing.T) {
	tree := newTree(t, 4)
	require.True(t, tree.Set(8, 8, 8, 7))
	frame := geom.NewFrame(4, 1)

	faces := ExtractWorldFaces(tree, frame)
	require.Len(t, faces, 6)
	for _, f := range faces {
		assert.Equal(t, uint8(7), f.Material)
		assert.InDelta(t, 1.0, f.Area(), 1e-6)
		// the voxel spans [0,1] in world units
		center := mgl32.Vec3{0.5, 0.5, 0.5}.Add(f.Normal.Mul(0.5))
		assert.True(t, center.ApproxEqual(f.Center), "face %v", f)
	}
}

func TestExtractScale(t *testing.T) {
	tree := newTree(t, 4)
	require.True(t, tree.Set(8, 8, 8, 1))

	faces := ExtractWorldFaces(tree, geom.NewFrame(4, 0.25))
	require.Len(t, faces, 6)
	assert.InDelta(t, 6*0.25*0.25, faces.Area(), 1e-6)
}

func TestExtractDeterministic(t *testing.T) {
	tree := pillarWorld(t, 7)
	frame := geom.NewFrame(7, 1)
	r := ChunkRegion(frame, ChunkCoord{X: -1, Y: 0, Z: 0}, 32)

	a := ExtractFaces(tree, r, frame)
	b := ExtractFaces(tree, r, frame)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestChunkRegion(t *testing.T) {
	frame := geom.NewFrame(8, 1)
	assert.Equal(t, octree.NewRegion(128, 128, 128, 192, 192, 192), ChunkRegion(frame, ChunkCoord{}, 64))
	assert.Equal(t, octree.NewRegion(64, 0, 128, 128, 64, 192), ChunkRegion(frame, ChunkCoord{X: -1, Y: -2, Z: 0}, 64))

	// half-voxel chunks still tile without gaps
	scaled := geom.NewFrame(4, 2)
	a := ChunkRegion(scaled, ChunkCoord{X: 0}, 3)
	b := ChunkRegion(scaled, ChunkCoord{X: 1}, 3)
	assert.Equal(t, a.Max[0], b.Min[0])
}

func TestChunkCoordOf(t *testing.T) {
	assert.Equal(t, ChunkCoord{0, 0, 0}, ChunkCoordOf(mgl32.Vec3{0, 50, 63.9}, 64))
	assert.Equal(t, ChunkCoord{-1, 1, -2}, ChunkCoordOf(mgl32.Vec3{-0.1, 64, -65}, 64))
}

func TestChunkSeamsPartitionSurface(t *testing.T) {
	for _, size := range []float32{16, 24, 64} {
		tree := pillarWorld(t, 7)
		frame := geom.NewFrame(7, 1)
		whole := ExtractWorldFaces(tree, frame).AreaByNormal()

		g := newChunkGrid(frame, size, 0)
		var sum [6]float64
		for _, c := range allChunks(g) {
			area := ExtractFaces(tree, g.region(c), frame).AreaByNormal()
			for i := range sum {
				sum[i] += area[i]
			}
		}
		for i := range sum {
			assert.InDelta(t, whole[i], sum[i], 1e-6, "chunk size %v normal %d", size, i)
		}
	}
}

func TestRegionEmpty(t *testing.T) {
	tree := flatWorld(t, 6)

	assert.True(t, regionEmpty(tree, octree.NewRegion(0, 32, 0, 32, 64, 32)))
	assert.True(t, regionEmpty(tree, octree.NewRegion(16, 48, 16, 32, 64, 32)))
	assert.False(t, regionEmpty(tree, octree.NewRegion(0, 0, 0, 32, 32, 32)), "solid")
	assert.False(t, regionEmpty(tree, octree.NewRegion(0, 16, 0, 32, 48, 32)), "mixed")
	assert.False(t, regionEmpty(tree, octree.NewRegion(0, 40, 0, 24, 64, 24)), "not a power of two")
	assert.False(t, regionEmpty(tree, octree.NewRegion(8, 48, 8, 24, 64, 24)), "unaligned")
	assert.False(t, regionEmpty(tree, octree.NewRegion(64, 64, 64, 128, 128, 128)), "outside")
}
