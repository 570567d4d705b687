package main

import (
	"strings"
	"testing"
	"time"

	voxcollide "github.com/gekko3d/voxcollide"
	"github.com/gekko3d/voxcollide/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReport(t *testing.T) {
	r := bench.Report{
		Baseline: voxcollide.StrategyMonolithic,
		Scenario: bench.DefaultScenario(),
		Results: []bench.Result{
			{
				Strategy:     voxcollide.StrategyMonolithic,
				InitTime:     12 * time.Millisecond,
				AvgFrameTime: 40 * time.Microsecond,
				Metrics:      voxcollide.Metrics{StrategyName: voxcollide.StrategyMonolithic, ActiveColliders: 1, TotalFaces: 4096},
			},
			{
				Strategy:     voxcollide.StrategyChunked,
				AvgFrameTime: 10 * time.Microsecond,
				DeltaPct:     -75,
				Metrics:      voxcollide.Metrics{StrategyName: voxcollide.StrategyChunked, ActiveColliders: 18, TotalFaces: 512},
			},
		},
	}

	var b strings.Builder
	require.NoError(t, printReport(&b, r))
	out := b.String()
	assert.Contains(t, out, "baseline monolithic")
	assert.Contains(t, out, "-75.0%")
	assert.Contains(t, out, "4096")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "512B", bytes(512))
	assert.Equal(t, "1.5KiB", bytes(1536))
	assert.Equal(t, "-2.0MiB", bytes(-2*1024*1024))
}

func TestApplyOptions(t *testing.T) {
	conf := voxcollide.DefaultConfig()
	applyOptions(&conf, options{Strategies: "chunked,hybrid", Objects: 7, World: "terrain"})
	assert.Equal(t, []string{"chunked", "hybrid"}, conf.Bench.Strategies)
	assert.Equal(t, 7, conf.Bench.Objects)
	assert.Equal(t, "terrain", conf.Bench.World)
	assert.Equal(t, 300, conf.Bench.Frames)
}
