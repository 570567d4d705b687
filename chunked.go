package voxcollide

import (
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/gekko3d/voxcollide/physics"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
)

// ChunkedCollider keeps colliders only for the chunks near moving bodies.
// Each update loads the chunks that became required and unloads the ones no
// body is close to anymore; other chunks are left untouched.
type ChunkedCollider struct {
	opts       options
	chunkSize  float32
	loadRadius float32

	tree    VoxelOctree
	world   PhysicsWorld
	body    physics.BodyHandle
	grid    *chunkGrid
	ready   bool
	metrics Metrics
}

func NewChunked(chunkSize, loadRadius float32, opts ...Option) (*ChunkedCollider, error) {
	cfg := ChunkedConfig{ChunkSize: chunkSize, LoadRadius: loadRadius}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ChunkedCollider{
		opts:       newOptions(opts),
		chunkSize:  chunkSize,
		loadRadius: loadRadius,
		metrics:    Metrics{StrategyName: StrategyChunked},
	}, nil
}

// Init records the world and creates the fixed body chunk colliders attach
// to. No collider is built until the first Update.
func (c *ChunkedCollider) Init(tree VoxelOctree, world PhysicsWorld) error {
	if c.ready {
		return stateError(StrategyChunked, "collider already initialized")
	}
	if tree == nil || world == nil {
		return initError(StrategyChunked, errors.New("octree and physics world are required"))
	}

	start := time.Now()
	body, err := world.CreateFixedBody()
	if err != nil {
		return initError(StrategyChunked, err)
	}

	c.tree = tree
	c.world = world
	c.body = body
	c.grid = newChunkGrid(geom.NewFrame(tree.Depth(), c.opts.scale), c.chunkSize, c.loadRadius)
	c.ready = true
	c.metrics.InitTimeMs = millis(time.Since(start))

	c.opts.logger.Infof("%s chunk_size=%g load_radius=%g workers=%d",
		c.metrics, c.chunkSize, c.loadRadius, c.opts.workers)
	if c.opts.exporter != nil {
		c.opts.exporter.Observe(c.metrics)
	}
	return nil
}

// Update brings the loaded chunk set in line with bodies. The required set is
// computed over every body before anything is unloaded, so a chunk kept by
// one body is never dropped because another moved away. Failed attaches and
// detaches are counted in FailedOps and leave the chunk in its prior state.
func (c *ChunkedCollider) Update(bodies []cube.BBox) error {
	if !c.ready {
		return stateError(StrategyChunked, "update before init")
	}
	start := time.Now()
	failed := c.metrics.FailedOps

	req := c.grid.required(bodies)
	unloaded := c.unload(req)

	for coord := range c.grid.empty {
		if _, ok := req.Get(coord); !ok {
			delete(c.grid.empty, coord)
		}
	}

	var pending []ChunkCoord
	for el := req.Front(); el != nil; el = el.Next() {
		if c.grid.state(el.Key) == ChunkLoaded {
			continue
		}
		if _, ok := c.grid.empty[el.Key]; ok {
			continue
		}
		pending = append(pending, el.Key)
	}
	loaded := c.load(pending)

	c.metrics.ActiveColliders, c.metrics.TotalFaces = c.grid.totals()
	c.metrics.UpdateTimeUs = micros(time.Since(start))

	if loaded > 0 || unloaded > 0 {
		c.opts.logger.Debugf("chunks loaded=%d unloaded=%d active=%d faces=%d",
			loaded, unloaded, c.metrics.ActiveColliders, c.metrics.TotalFaces)
	}
	if c.opts.exporter != nil {
		c.opts.exporter.chunksChanged(StrategyChunked, loaded, unloaded)
		c.opts.exporter.failed(StrategyChunked, c.metrics.FailedOps-failed)
		c.opts.exporter.Observe(c.metrics)
	}
	return nil
}

func (c *ChunkedCollider) unload(req *orderedmap.OrderedMap[ChunkCoord, struct{}]) int {
	var stale []ChunkCoord
	for el := c.grid.chunks.Front(); el != nil; el = el.Next() {
		if _, ok := req.Get(el.Key); !ok {
			stale = append(stale, el.Key)
		}
	}

	n := 0
	for _, coord := range stale {
		entry, _ := c.grid.chunks.Get(coord)
		if entry.State == ChunkLoaded {
			if err := c.world.Remove(entry.Handle); err != nil {
				c.metrics.FailedOps++
				c.opts.logger.Warnf("unloading chunk %v failed: %v", coord, err)
				continue
			}
			n++
		}
		c.grid.chunks.Delete(coord)
	}
	return n
}

type chunkFaces struct {
	coord ChunkCoord
	faces geom.FaceSet
	done  bool
}

func (c *ChunkedCollider) load(pending []ChunkCoord) int {
	if len(pending) == 0 {
		return 0
	}

	n := 0
	for _, res := range c.extract(pending) {
		if !res.done {
			c.metrics.FailedOps++
			c.opts.logger.Warnf("extracting chunk %v failed", res.coord)
			continue
		}
		if len(res.faces) == 0 {
			c.grid.empty[res.coord] = struct{}{}
			continue
		}

		shape, err := c.world.BuildCompound(res.faces)
		if err != nil {
			c.metrics.FailedOps++
			c.opts.logger.Warnf("building collider for chunk %v failed: %v", res.coord, err)
			continue
		}
		handle, err := c.world.Attach(c.body, shape)
		if err != nil {
			c.metrics.FailedOps++
			c.opts.logger.Warnf("attaching collider for chunk %v failed: %v", res.coord, err)
			continue
		}
		c.grid.chunks.Set(res.coord, &chunkEntry{
			State:     ChunkLoaded,
			Handle:    handle,
			FaceCount: len(res.faces),
		})
		n++
	}
	return n
}

// extract runs face extraction for every pending chunk on a bounded set of
// goroutines. Results keep the order of pending.
func (c *ChunkedCollider) extract(pending []ChunkCoord) []chunkFaces {
	results := make([]chunkFaces, len(pending))
	workers := c.opts.workers
	if workers > len(pending) {
		workers = len(pending)
	}
	if workers <= 1 {
		for i, coord := range pending {
			c.extractChunk(&results[i], coord)
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c.extractChunk(&results[i], pending[i])
			}
		}()
	}
	for i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (c *ChunkedCollider) extractChunk(res *chunkFaces, coord ChunkCoord) {
	defer sentry.Recover()

	res.coord = coord
	r := c.grid.region(coord)
	if !regionEmpty(c.tree, r) {
		res.faces = ExtractFaces(c.tree, r, c.grid.frame)
	}
	res.done = true
}

func (c *ChunkedCollider) Metrics() Metrics {
	return c.metrics
}

func (c *ChunkedCollider) ResolveCollision(body cube.BBox) (mgl32.Vec3, bool) {
	return mgl32.Vec3{}, false
}

// ChunkState reports the state of one chunk. Chunks never seen are unloaded.
func (c *ChunkedCollider) ChunkState(coord ChunkCoord) ChunkState {
	if c.grid == nil {
		return ChunkUnloaded
	}
	return c.grid.state(coord)
}

// LoadedChunks lists the loaded chunks in load order.
func (c *ChunkedCollider) LoadedChunks() []ChunkCoord {
	if c.grid == nil {
		return nil
	}
	return c.grid.loaded()
}

func (c *ChunkedCollider) ChunkSize() float32 {
	return c.chunkSize
}

func (c *ChunkedCollider) LoadRadius() float32 {
	return c.loadRadius
}

// Close unloads every chunk, as an update with no bodies would.
func (c *ChunkedCollider) Close() error {
	if !c.ready {
		return nil
	}
	if err := c.Update(nil); err != nil {
		return err
	}
	if n := c.metrics.ActiveColliders; n > 0 {
		return errors.New("chunk colliders left attached").
			WithTag("strategy", StrategyChunked).
			WithTag("count", n)
	}
	return nil
}
