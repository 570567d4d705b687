package bench

import (
	"context"
	"testing"
	"time"

	voxcollide "github.com/gekko3d/voxcollide"
	"github.com/gekko3d/voxcollide/worldgen"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T) *Harness {
	tree, err := worldgen.Flat(8)
	require.NoError(t, err)
	return &Harness{
		Tree:     tree,
		Collider: voxcollide.DefaultConfig().Collider,
	}
}

func TestScenarioPatterns(t *testing.T) {
	sc := DefaultScenario()

	sc.Pattern = PatternStatic
	for f := 0; f < 5; f++ {
		assert.Equal(t, sc.spawn(7), sc.Position(7, f))
	}

	sc.Pattern = PatternOrbit
	p0 := sc.Position(3, 0)
	p1 := sc.Position(3, 90)
	assert.InDelta(t, mgl32.Vec2{p0.X(), p0.Z()}.Len(), mgl32.Vec2{p1.X(), p1.Z()}.Len(), 1e-3)
	assert.Equal(t, p0.Y(), p1.Y())

	sc.Pattern = PatternDrift
	for f := 0; f < 600; f += 37 {
		p := sc.Position(11, f)
		assert.GreaterOrEqual(t, p.X(), -sc.Spread)
		assert.Less(t, p.X(), sc.Spread)
	}

	sc.Pattern = PatternCluster
	for i := 0; i < sc.Objects; i++ {
		p := sc.Position(i, 45)
		assert.LessOrEqual(t, mgl32.Abs(p.X()), sc.Spread/8+2)
		assert.LessOrEqual(t, mgl32.Abs(p.Z()), sc.Spread/8+2)
	}

	bodies := sc.Bodies(0, nil)
	require.Len(t, bodies, sc.Objects)
	assert.InDelta(t, 1.0, bodies[0].Max().X()-bodies[0].Min().X(), 1e-6)
}

func TestScenarioValidate(t *testing.T) {
	require.NoError(t, DefaultScenario().Validate())

	sc := DefaultScenario()
	sc.Pattern = "spiral"
	assert.Error(t, sc.Validate())

	sc = DefaultScenario()
	sc.Frames = 0
	assert.Error(t, sc.Validate())
}

func TestRunComparesAgainstBaseline(t *testing.T) {
	h := newHarness(t)
	sc := DefaultScenario()
	sc.Objects = 16
	sc.Frames = 10

	report, err := h.Run(context.Background(), sc,
		[]string{voxcollide.StrategyMonolithic, voxcollide.StrategyChunked, voxcollide.StrategyHybrid}, "")
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, voxcollide.StrategyMonolithic, report.Baseline)

	byName := make(map[string]Result)
	for _, res := range report.Results {
		byName[res.Strategy] = res
		assert.Equal(t, res.Strategy, res.Metrics.StrategyName)
		assert.Positive(t, res.AvgFrameTime)
		assert.GreaterOrEqual(t, res.MaxFrameTime, res.AvgFrameTime)
	}
	assert.Zero(t, byName[voxcollide.StrategyMonolithic].DeltaPct)
	assert.Equal(t, 1, byName[voxcollide.StrategyMonolithic].Metrics.ActiveColliders)
	assert.Positive(t, byName[voxcollide.StrategyChunked].Metrics.ActiveColliders)
	assert.Zero(t, byName[voxcollide.StrategyHybrid].Metrics.ActiveColliders)
}

func TestRunDefaultClusterScenario(t *testing.T) {
	tree, err := worldgen.Flat(7)
	require.NoError(t, err)
	collider := voxcollide.DefaultConfig().Collider
	collider.Chunked = voxcollide.ChunkedConfig{ChunkSize: 16, LoadRadius: 16}
	h := &Harness{Tree: tree, Collider: collider}

	sc := DefaultScenario()
	require.Equal(t, 100, sc.Objects)
	require.Equal(t, 300, sc.Frames)
	require.Equal(t, PatternCluster, sc.Pattern)
	sc.Height = 8

	report, err := h.Run(context.Background(), sc,
		[]string{voxcollide.StrategyMonolithic, voxcollide.StrategyChunked}, voxcollide.StrategyMonolithic)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	mono, chunked := report.Results[0], report.Results[1]
	require.Equal(t, voxcollide.StrategyChunked, chunked.Strategy)
	require.Positive(t, mono.AvgFrameTime)
	assert.Zero(t, mono.DeltaPct)
	want := float64(chunked.AvgFrameTime-mono.AvgFrameTime) / float64(mono.AvgFrameTime) * 100
	assert.InDelta(t, want, chunked.DeltaPct, 1e-9)
	assert.Positive(t, chunked.Metrics.ActiveColliders)
	assert.Zero(t, chunked.Metrics.FailedOps)
}

func TestRunContactsAgree(t *testing.T) {
	h := newHarness(t)
	sc := DefaultScenario()
	sc.Objects = 9
	sc.Frames = 4
	sc.Pattern = PatternStatic
	sc.Height = 0.2
	sc.EngineResolve = true

	report, err := h.Run(context.Background(), sc,
		[]string{voxcollide.StrategyMonolithic, voxcollide.StrategyChunked, voxcollide.StrategyHybrid}, "")
	require.NoError(t, err)
	for _, res := range report.Results {
		assert.Equal(t, sc.Objects*sc.Frames, res.Contacts, res.Strategy)
	}
}

func TestRunMergedFaces(t *testing.T) {
	h := newHarness(t)
	h.Physics.MergeFaces = true
	sc := DefaultScenario()
	sc.Objects = 4
	sc.Frames = 2
	sc.Pattern = PatternStatic
	sc.Height = 0.2
	sc.EngineResolve = true

	res, err := h.RunStrategy(context.Background(), voxcollide.StrategyMonolithic, sc)
	require.NoError(t, err)
	assert.Equal(t, sc.Objects*sc.Frames, res.Contacts)
	assert.Equal(t, 1, res.Metrics.ActiveColliders)
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Run(ctx, DefaultScenario(), []string{voxcollide.StrategyHybrid}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	h := newHarness(t)
	_, err := h.Run(context.Background(), DefaultScenario(), []string{"bvh"}, "")
	assert.Error(t, err)
}

func TestComputeDeltas(t *testing.T) {
	r := Report{
		Baseline: voxcollide.StrategyMonolithic,
		Results: []Result{
			{Strategy: voxcollide.StrategyMonolithic, AvgFrameTime: 200 * time.Microsecond},
			{Strategy: voxcollide.StrategyChunked, AvgFrameTime: 50 * time.Microsecond},
			{Strategy: voxcollide.StrategyHybrid, AvgFrameTime: 300 * time.Microsecond},
		},
	}
	r.computeDeltas()
	assert.InDelta(t, 0, r.Results[0].DeltaPct, 1e-9)
	assert.InDelta(t, -75, r.Results[1].DeltaPct, 1e-9)
	assert.InDelta(t, 50, r.Results[2].DeltaPct, 1e-9)

	r.Baseline = "none"
	r.Results[1].DeltaPct = 0
	r.computeDeltas()
	assert.Zero(t, r.Results[1].DeltaPct)
}
