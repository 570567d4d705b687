package voxcollide

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/octree"
	"github.com/go-gl/mathgl/mgl32"
)

// HybridCollider answers contact queries straight from the octree and never
// touches the physics world.
type HybridCollider struct {
	opts options

	tree    VoxelOctree
	frame   geom.Frame
	bodies  []cube.BBox
	ready   bool
	metrics Metrics
}

// Contact is the correction computed for one cached body.
type Contact struct {
	Body       int
	Correction mgl32.Vec3
}

func NewHybrid(opts ...Option) *HybridCollider {
	return &HybridCollider{
		opts:    newOptions(opts),
		metrics: Metrics{StrategyName: StrategyHybrid},
	}
}

// Init keeps a reference to the octree. The physics world is not used and
// may be nil.
func (h *HybridCollider) Init(tree VoxelOctree, world PhysicsWorld) error {
	if h.ready {
		return stateError(StrategyHybrid, "collider already initialized")
	}
	if tree == nil {
		return initError(StrategyHybrid, errors.New("octree is required"))
	}

	start := time.Now()
	h.tree = tree
	h.frame = geom.NewFrame(tree.Depth(), h.opts.scale)
	h.ready = true
	h.metrics.InitTimeMs = millis(time.Since(start))

	h.opts.logger.Infof("%s", h.metrics)
	if h.opts.exporter != nil {
		h.opts.exporter.Observe(h.metrics)
	}
	return nil
}

// Update only remembers the body boxes for ResolveCached.
func (h *HybridCollider) Update(bodies []cube.BBox) error {
	if !h.ready {
		return stateError(StrategyHybrid, "update before init")
	}
	start := time.Now()
	h.bodies = append(h.bodies[:0], bodies...)
	h.metrics.UpdateTimeUs = micros(time.Since(start))
	if h.opts.exporter != nil {
		h.opts.exporter.Observe(h.metrics)
	}
	return nil
}

func (h *HybridCollider) Metrics() Metrics {
	return h.metrics
}

// ResolveCollision visits the faces around body and combines their
// penetrations, keeping the largest component per axis.
func (h *HybridCollider) ResolveCollision(body cube.BBox) (mgl32.Vec3, bool) {
	if !h.ready {
		return mgl32.Vec3{}, false
	}
	var corr geom.Correction
	h.tree.VisitFacesInRegion(h.queryRegion(body), func(f octree.Face) {
		if p, ok := geom.BoxFacePenetration(body, worldFace(f, h.frame)); ok {
			corr.Add(p.Vector())
		}
	})
	return corr.Result()
}

// ResolveCached resolves every body passed to the last Update and returns the
// ones in contact.
func (h *HybridCollider) ResolveCached() []Contact {
	var out []Contact
	for i, b := range h.bodies {
		if v, ok := h.ResolveCollision(b); ok {
			out = append(out, Contact{Body: i, Correction: v})
		}
	}
	return out
}

// queryRegion is the voxel region covering body plus one voxel on every side.
func (h *HybridCollider) queryRegion(body cube.BBox) octree.Region {
	lo := h.frame.ToVoxel(body.Min())
	hi := h.frame.ToVoxel(body.Max())
	var r octree.Region
	for i := 0; i < 3; i++ {
		r.Min[i] = int(math32.Floor(lo[i])) - 1
		r.Max[i] = int(math32.Ceil(hi[i])) + 1
	}
	return r
}

func (h *HybridCollider) Close() error {
	h.bodies = nil
	return nil
}
