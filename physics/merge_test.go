package physics

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitUp(x, z float32, material uint8) geom.Face {
	return geom.Face{
		Center:      mgl32.Vec3{x + 0.5, 0, z + 0.5},
		Normal:      mgl32.Vec3{0, 1, 0},
		HalfExtents: mgl32.Vec3{0.5, 0, 0.5},
		Material:    material,
	}
}

func TestMergeFacesGrid(t *testing.T) {
	var faces []geom.Face
	for x := 0; x < 3; x++ {
		for z := 0; z < 2; z++ {
			faces = append(faces, unitUp(float32(x), float32(z), 1))
		}
	}

	merged := MergeFaces(faces)
	require.Len(t, merged, 1)
	f := merged[0]
	assert.Equal(t, mgl32.Vec3{1.5, 0, 1}, f.Center)
	assert.Equal(t, mgl32.Vec3{1.5, 0, 1}, f.HalfExtents)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, f.Normal)
	assert.InDelta(t, geom.FaceSet(faces).Area(), geom.FaceSet(merged).Area(), 1e-6)
}

func TestMergeFacesKeepsShape(t *testing.T) {
	// an L shape cannot become a single rectangle
	faces := []geom.Face{unitUp(0, 0, 1), unitUp(1, 0, 1), unitUp(0, 1, 1)}
	merged := MergeFaces(faces)
	assert.Len(t, merged, 2)
	assert.InDelta(t, 3, geom.FaceSet(merged).Area(), 1e-6)
}

func TestMergeFacesSeparatesGroups(t *testing.T) {
	down := unitUp(1, 0, 1)
	down.Normal = mgl32.Vec3{0, -1, 0}
	faces := []geom.Face{unitUp(0, 0, 1), unitUp(1, 0, 2), down}

	merged := MergeFaces(faces)
	assert.Len(t, merged, 3)
}

func TestWorldMergeFaces(t *testing.T) {
	w := NewWorld()
	w.MergeFaces = true
	body, _ := w.CreateFixedBody()

	var faces []geom.Face
	for x := -4; x < 4; x++ {
		for z := -4; z < 4; z++ {
			faces = append(faces, unitUp(float32(x), float32(z), 1))
		}
	}
	shape, err := w.BuildCompound(faces)
	require.NoError(t, err)
	_, err = w.Attach(body, shape)
	require.NoError(t, err)
	assert.Equal(t, 1, w.ShapeCount())

	v, ok := w.Resolve(cube.Box(-0.5, -0.3, -0.5, 0.5, 0.7, 0.5))
	require.True(t, ok)
	assert.InDelta(t, 0.3, v.Y(), 1e-6)
}
