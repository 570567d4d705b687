package voxcollide

import (
	"errors"
	"testing"

	"github.com/gekko3d/voxcollide/octree"
	"github.com/gekko3d/voxcollide/physics"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

// recordingWorld wraps the physics world and can fail attach or remove calls.
type recordingWorld struct {
	*physics.World

	failBody   bool
	failAttach bool
	failRemove bool

	attached map[physics.ColliderHandle]int
	removed  map[physics.ColliderHandle]int
}

func newRecordingWorld() *recordingWorld {
	return &recordingWorld{
		World:    physics.NewWorld(),
		attached: make(map[physics.ColliderHandle]int),
		removed:  make(map[physics.ColliderHandle]int),
	}
}

func (w *recordingWorld) CreateFixedBody() (physics.BodyHandle, error) {
	if w.failBody {
		return physics.BodyHandle{}, errInjected
	}
	return w.World.CreateFixedBody()
}

func (w *recordingWorld) Attach(body physics.BodyHandle, shape *physics.Compound) (physics.ColliderHandle, error) {
	if w.failAttach {
		return physics.ColliderHandle{}, errInjected
	}
	h, err := w.World.Attach(body, shape)
	if err == nil {
		w.attached[h]++
	}
	return h, err
}

func (w *recordingWorld) Remove(h physics.ColliderHandle) error {
	if w.failRemove {
		return errInjected
	}
	err := w.World.Remove(h)
	if err == nil {
		w.removed[h]++
	}
	return err
}

// panicTree panics when asked for the faces of one region.
type panicTree struct {
	*octree.Octree
	region octree.Region
}

func (t panicTree) VisitFacesInRegion(r octree.Region, visit func(octree.Face)) {
	if r == t.region {
		panic("corrupt node")
	}
	t.Octree.VisitFacesInRegion(r, visit)
}

func newTree(t *testing.T, depth uint32) *octree.Octree {
	tree, err := octree.New(depth)
	require.NoError(t, err)
	return tree
}

// flatWorld is solid below the world's mid height, like ground embedded in a
// larger solid world.
func flatWorld(t *testing.T, depth uint32) *octree.Octree {
	tree := newTree(t, depth)
	n := tree.Size()
	tree.Fill(octree.NewRegion(0, 0, 0, n, n/2, n), 1)
	tree.SetBorder(octree.Border{Lower: 1})
	return tree
}

// latticeWorld has one solid voxel every step voxels, starting at step/2.
func latticeWorld(t *testing.T, depth uint32, step int) *octree.Octree {
	tree := newTree(t, depth)
	n := tree.Size()
	for x := step / 2; x < n; x += step {
		for y := step / 2; y < n; y += step {
			for z := step / 2; z < n; z += step {
				require.True(t, tree.Set(x, y, z, 2))
			}
		}
	}
	return tree
}

// pillarWorld is a flat world with a few columns of different sizes, some of
// them crossing chunk seams.
func pillarWorld(t *testing.T, depth uint32) *octree.Octree {
	tree := flatWorld(t, depth)
	n := tree.Size()
	tree.Fill(octree.NewRegion(3, n/2, 5, 9, n/2+20, 11), 3)
	tree.Fill(octree.NewRegion(n/2-4, n/2, n/2-4, n/2+4, n/2+7, n/2+4), 4)
	tree.Fill(octree.NewRegion(n-10, n/2, 60, n-1, n/2+33, 70), 5)
	require.True(t, tree.Set(n/2+1, n-2, n/2+1, 6))
	return tree
}

func allChunks(g *chunkGrid) []ChunkCoord {
	var out []ChunkCoord
	for x := g.lo; x <= g.hi; x++ {
		for y := g.lo; y <= g.hi; y++ {
			for z := g.lo; z <= g.hi; z++ {
				out = append(out, ChunkCoord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}
