package voxcollide

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// MonolithicCollider attaches one compound collider covering every exposed
// face of the world. Update does nothing.
type MonolithicCollider struct {
	opts options

	world   PhysicsWorld
	body    physics.BodyHandle
	handle  physics.ColliderHandle
	ready   bool
	metrics Metrics
}

func NewMonolithic(opts ...Option) *MonolithicCollider {
	return &MonolithicCollider{
		opts:    newOptions(opts),
		metrics: Metrics{StrategyName: StrategyMonolithic},
	}
}

func (m *MonolithicCollider) Init(tree VoxelOctree, world PhysicsWorld) error {
	if m.ready {
		return stateError(StrategyMonolithic, "collider already initialized")
	}
	if tree == nil || world == nil {
		return initError(StrategyMonolithic, errors.New("octree and physics world are required"))
	}

	start := time.Now()
	frame := geom.NewFrame(tree.Depth(), m.opts.scale)
	faces := ExtractWorldFaces(tree, frame)

	shape, err := world.BuildCompound(faces)
	if err != nil {
		return initError(StrategyMonolithic, err)
	}
	body, err := world.CreateFixedBody()
	if err != nil {
		return initError(StrategyMonolithic, err)
	}
	handle, err := world.Attach(body, shape)
	if err != nil {
		if rerr := world.RemoveBody(body); rerr != nil {
			m.opts.logger.Warnf("removing body %s after failed attach: %v", body, rerr)
		}
		return initError(StrategyMonolithic, err)
	}

	m.world = world
	m.body = body
	m.handle = handle
	m.ready = true
	m.metrics.InitTimeMs = millis(time.Since(start))
	m.metrics.ActiveColliders = 1
	m.metrics.TotalFaces = len(faces)

	m.opts.logger.Infof("%s", m.metrics)
	if m.opts.exporter != nil {
		m.opts.exporter.Observe(m.metrics)
	}
	return nil
}

// Update never looks at bodies.
func (m *MonolithicCollider) Update(bodies []cube.BBox) error {
	if !m.ready {
		return stateError(StrategyMonolithic, "update before init")
	}
	return nil
}

func (m *MonolithicCollider) Metrics() Metrics {
	return m.metrics
}

func (m *MonolithicCollider) ResolveCollision(body cube.BBox) (mgl32.Vec3, bool) {
	return mgl32.Vec3{}, false
}

func (m *MonolithicCollider) Close() error {
	if !m.ready || m.handle.IsZero() {
		return nil
	}
	if err := m.world.Remove(m.handle); err != nil {
		return err
	}
	m.handle = physics.ColliderHandle{}
	m.metrics.ActiveColliders = 0
	m.metrics.TotalFaces = 0
	return nil
}
