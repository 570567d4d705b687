package voxcollide

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/octree"
	"github.com/gekko3d/voxcollide/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type ChunkState uint8

const (
	ChunkUnloaded ChunkState = iota
	ChunkLoaded
)

func (s ChunkState) String() string {
	if s == ChunkLoaded {
		return "loaded"
	}
	return "unloaded"
}

type chunkEntry struct {
	State     ChunkState
	Handle    physics.ColliderHandle
	FaceCount int
}

// chunkGrid partitions the world into cubes of size world units and tracks
// the chunks holding a collider. Chunks without exposed faces are never
// loaded; they are remembered in empty while some body keeps them required.
type chunkGrid struct {
	size   float32
	radius float32
	frame  geom.Frame

	chunks *orderedmap.OrderedMap[ChunkCoord, *chunkEntry]
	empty  map[ChunkCoord]struct{}

	// first and last chunk index along each axis inside the world
	lo, hi int
}

func newChunkGrid(frame geom.Frame, size, radius float32) *chunkGrid {
	half := frame.WorldSize() * 0.5
	return &chunkGrid{
		size:   size,
		radius: radius,
		frame:  frame,
		chunks: orderedmap.NewOrderedMap[ChunkCoord, *chunkEntry](),
		empty:  make(map[ChunkCoord]struct{}),
		lo:     int(math32.Floor(-half / size)),
		hi:     int(math32.Ceil(half/size)) - 1,
	}
}

func (g *chunkGrid) clamp(i int) int {
	if i < g.lo {
		return g.lo
	}
	if i > g.hi {
		return g.hi
	}
	return i
}

// required returns, in discovery order, every chunk whose box lies within
// radius of at least one body box. Distances are measured between nearest
// points, so a chunk touching a body is at distance zero.
func (g *chunkGrid) required(bodies []cube.BBox) *orderedmap.OrderedMap[ChunkCoord, struct{}] {
	req := orderedmap.NewOrderedMap[ChunkCoord, struct{}]()
	for _, b := range bodies {
		reach := b.Grow(g.radius)
		lo := g.lowestChunk(reach.Min())
		hi := ChunkCoordOf(reach.Max(), g.size)
		if lo.X > g.hi || lo.Y > g.hi || lo.Z > g.hi || hi.X < g.lo || hi.Y < g.lo || hi.Z < g.lo {
			continue
		}
		for x := g.clamp(lo.X); x <= g.clamp(hi.X); x++ {
			for y := g.clamp(lo.Y); y <= g.clamp(hi.Y); y++ {
				for z := g.clamp(lo.Z); z <= g.clamp(hi.Z); z++ {
					c := ChunkCoord{X: x, Y: y, Z: z}
					if _, ok := req.Get(c); ok {
						continue
					}
					if geom.BoxDistance(ChunkBounds(c, g.size), b) <= g.radius {
						req.Set(c, struct{}{})
					}
				}
			}
		}
	}
	return req
}

// lowestChunk is the smallest chunk whose upper face is not below p on each
// axis. A chunk ending exactly at p is included.
func (g *chunkGrid) lowestChunk(p mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X: int(math32.Ceil(p.X()/g.size)) - 1,
		Y: int(math32.Ceil(p.Y()/g.size)) - 1,
		Z: int(math32.Ceil(p.Z()/g.size)) - 1,
	}
}

func (g *chunkGrid) state(c ChunkCoord) ChunkState {
	if e, ok := g.chunks.Get(c); ok {
		return e.State
	}
	return ChunkUnloaded
}

func (g *chunkGrid) loaded() []ChunkCoord {
	out := make([]ChunkCoord, 0, g.chunks.Len())
	for el := g.chunks.Front(); el != nil; el = el.Next() {
		if el.Value.State == ChunkLoaded {
			out = append(out, el.Key)
		}
	}
	return out
}

func (g *chunkGrid) totals() (colliders, faces int) {
	for el := g.chunks.Front(); el != nil; el = el.Next() {
		if el.Value.State == ChunkLoaded {
			colliders++
			faces += el.Value.FaceCount
		}
	}
	return colliders, faces
}

func (g *chunkGrid) region(c ChunkCoord) octree.Region {
	return ChunkRegion(g.frame, c, g.size)
}
