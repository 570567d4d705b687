// Package bench drives collider strategies through a synthetic scenario and
// compares their timings.
package bench

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ethaniccc/float32-cube/cube"
	voxcollide "github.com/gekko3d/voxcollide"
	"github.com/shirou/gopsutil/v3/process"
)

// Result holds the measurements of one strategy.
type Result struct {
	Strategy     string
	InitTime     time.Duration
	AvgFrameTime time.Duration
	MaxFrameTime time.Duration
	Metrics      voxcollide.Metrics
	// Contacts is the number of body corrections found over all frames.
	Contacts int
	// RSS is the resident set size of the process after the run.
	RSS uint64
	// HeapDelta is the live heap growth caused by Init.
	HeapDelta int64
	// DeltaPct is the average frame time relative to the baseline, in
	// percent. Negative values are faster than the baseline.
	DeltaPct float64
}

type Report struct {
	Baseline string
	Scenario Scenario
	Results  []Result
}

// Harness runs strategies against one world. Every strategy gets a fresh
// physics world.
type Harness struct {
	Tree     voxcollide.VoxelOctree
	Collider voxcollide.ColliderConfig
	Physics  voxcollide.PhysicsConfig
	Logger   voxcollide.Logger
	Exporter *voxcollide.Exporter
}

func (h *Harness) logger() voxcollide.Logger {
	if h.Logger == nil {
		return voxcollide.NewNopLogger()
	}
	return h.Logger
}

// Run measures every strategy in order and fills in the delta against
// baseline. An empty baseline selects monolithic; a baseline missing from
// strategies leaves every delta at zero.
func (h *Harness) Run(ctx context.Context, sc Scenario, strategies []string, baseline string) (Report, error) {
	if baseline == "" {
		baseline = voxcollide.StrategyMonolithic
	}
	report := Report{Baseline: baseline, Scenario: sc}
	for _, name := range strategies {
		res, err := h.RunStrategy(ctx, name, sc)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}
	report.computeDeltas()
	return report, nil
}

func (r *Report) computeDeltas() {
	var base time.Duration
	found := false
	for _, res := range r.Results {
		if res.Strategy == r.Baseline {
			base = res.AvgFrameTime
			found = true
			break
		}
	}
	if !found || base <= 0 {
		return
	}
	for i := range r.Results {
		avg := r.Results[i].AvgFrameTime
		r.Results[i].DeltaPct = float64(avg-base) / float64(base) * 100
	}
}

// RunStrategy initializes one strategy and drives it through every frame of
// sc. A frame is one Update plus the contact queries for every body.
func (h *Harness) RunStrategy(ctx context.Context, name string, sc Scenario) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, errors.New("invalid scenario").
			WithType(voxcollide.ErrTypeConfig).
			Wrap(err)
	}

	cfg := h.Collider
	cfg.Strategy = name
	opts := []voxcollide.Option{voxcollide.WithLogger(h.logger())}
	if h.Exporter != nil {
		opts = append(opts, voxcollide.WithExporter(h.Exporter))
	}
	strategy, err := voxcollide.New(cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	world := h.Physics.NewWorld()

	heapBefore := heapInUse()
	start := time.Now()
	if err := strategy.Init(h.Tree, world); err != nil {
		return Result{}, err
	}
	res := Result{
		Strategy:  name,
		InitTime:  time.Since(start),
		HeapDelta: int64(heapInUse()) - int64(heapBefore),
	}
	defer func() {
		if err := strategy.Close(); err != nil {
			h.logger().Warnf("closing %s collider failed: %v", name, err)
		}
	}()

	engine := sc.EngineResolve && name != voxcollide.StrategyHybrid
	var bodies []cube.BBox
	var total time.Duration
	for frame := 0; frame < sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		bodies = sc.Bodies(frame, bodies)

		frameStart := time.Now()
		if err := strategy.Update(bodies); err != nil {
			return res, err
		}
		for _, b := range bodies {
			var hit bool
			if engine {
				_, hit = world.Resolve(b)
			} else {
				_, hit = strategy.ResolveCollision(b)
			}
			if hit {
				res.Contacts++
			}
		}
		elapsed := time.Since(frameStart)

		total += elapsed
		if elapsed > res.MaxFrameTime {
			res.MaxFrameTime = elapsed
		}
	}

	res.AvgFrameTime = total / time.Duration(sc.Frames)
	res.Metrics = strategy.Metrics()
	res.RSS = residentSetSize()

	h.logger().Infof("%s init=%v avg_frame=%v max_frame=%v contacts=%d",
		name, res.InitTime, res.AvgFrameTime, res.MaxFrameTime, res.Contacts)
	return res, nil
}

func heapInUse() uint64 {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// residentSetSize returns zero when the platform does not report it.
func residentSetSize() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}
