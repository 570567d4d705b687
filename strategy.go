package voxcollide

import (
	"runtime"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/octree"
	"github.com/gekko3d/voxcollide/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelOctree is the read-only view of the voxel world a strategy needs.
type VoxelOctree interface {
	Depth() uint32
	// Lookup returns the material of the uniform node covering the cell at
	// the given depth. ok is false when the cell is mixed or out of range.
	Lookup(depth uint32, x, y, z int) (material uint8, ok bool)
	VisitFacesInRegion(r octree.Region, visit func(octree.Face))
}

// PhysicsWorld is the part of the physics engine that strategies mutate.
// Calls are made from a single goroutine.
type PhysicsWorld interface {
	CreateFixedBody() (physics.BodyHandle, error)
	BuildCompound(faces []geom.Face) (*physics.Compound, error)
	Attach(body physics.BodyHandle, shape *physics.Compound) (physics.ColliderHandle, error)
	Remove(h physics.ColliderHandle) error
	RemoveBody(h physics.BodyHandle) error
}

// Strategy decides which solid surfaces of the voxel world are exposed to
// collision. Init is called once; Update once per tick with the bounds of
// every moving body. Implementations are not safe for concurrent use.
type Strategy interface {
	Init(tree VoxelOctree, world PhysicsWorld) error
	Update(bodies []cube.BBox) error
	Metrics() Metrics
	// ResolveCollision returns the correction pushing body out of solid
	// geometry. Strategies that rely on the physics engine for contacts
	// always return false.
	ResolveCollision(body cube.BBox) (mgl32.Vec3, bool)
	// Close detaches every collider the strategy created.
	Close() error
}

var (
	_ Strategy = (*MonolithicCollider)(nil)
	_ Strategy = (*ChunkedCollider)(nil)
	_ Strategy = (*HybridCollider)(nil)

	_ VoxelOctree  = (*octree.Octree)(nil)
	_ PhysicsWorld = (*physics.World)(nil)
)

type options struct {
	logger   Logger
	scale    float32
	workers  int
	exporter *Exporter
}

type Option func(*options)

func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithScale sets the size of one voxel in world units.
func WithScale(scale float32) Option {
	return func(o *options) {
		o.scale = scale
	}
}

// WithWorkers bounds the goroutines extracting chunk faces in parallel.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithExporter(e *Exporter) Option {
	return func(o *options) {
		o.exporter = e
	}
}

func newOptions(opts []Option) options {
	o := options{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NewNopLogger()
	}
	if !(o.scale > 0) || math32.IsInf(o.scale, 1) {
		o.scale = 1
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	return o
}

// New builds the strategy selected by cfg. Scale and workers from cfg are
// applied before opts, so options override the configuration.
func New(cfg ColliderConfig, opts ...Option) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	all := make([]Option, 0, len(opts)+2)
	if cfg.Scale > 0 {
		all = append(all, WithScale(cfg.Scale))
	}
	if cfg.Workers > 0 {
		all = append(all, WithWorkers(cfg.Workers))
	}
	all = append(all, opts...)

	switch cfg.Strategy {
	case StrategyChunked:
		return NewChunked(cfg.Chunked.ChunkSize, cfg.Chunked.LoadRadius, all...)
	case StrategyHybrid:
		return NewHybrid(all...), nil
	default:
		return NewMonolithic(all...), nil
	}
}
