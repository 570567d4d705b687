// Package worldgen builds synthetic voxel worlds for tests and benchmarks.
package worldgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/gekko3d/voxcollide/octree"
)

const (
	MaterialStone uint8 = 1
	MaterialGrass uint8 = 2
	MaterialWood  uint8 = 3
)

const (
	KindFlat    = "flat"
	KindTerrain = "terrain"
	KindPillars = "pillars"
)

var ErrUnknownKind = errors.New("worldgen: unknown world kind")

// Build generates a world by kind name.
func Build(kind string, depth uint32, seed int64) (*octree.Octree, error) {
	switch kind {
	case KindFlat, "":
		return Flat(depth)
	case KindTerrain:
		return Terrain(depth, TerrainOptions{Seed: seed})
	case KindPillars:
		return Pillars(depth, PillarOptions{Seed: seed})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Flat is solid below the world's mid height. The border below the mid
// height is solid too, so the ground has no exposed sides or bottom.
func Flat(depth uint32) (*octree.Octree, error) {
	tree, err := octree.New(depth)
	if err != nil {
		return nil, err
	}
	n := tree.Size()
	tree.Fill(octree.NewRegion(0, 0, 0, n, n/2, n), MaterialStone)
	tree.SetBorder(octree.Border{Lower: MaterialStone})
	return tree, nil
}

type TerrainOptions struct {
	Seed int64
	// Amplitude is the largest height offset from the mid height, in voxels.
	// Zero picks an eighth of the world size.
	Amplitude int
	// Tile is the edge of the square columns sharing one height sample.
	// Zero picks 8.
	Tile int
	// Frequency scales tile coordinates before sampling noise. Zero picks
	// 0.05.
	Frequency float64
}

func (o TerrainOptions) withDefaults(size int) TerrainOptions {
	if o.Amplitude <= 0 {
		o.Amplitude = size / 8
	}
	if o.Tile <= 0 {
		o.Tile = 8
	}
	if o.Tile > size {
		o.Tile = size
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
	}
	return o
}

// Terrain is rolling ground shaped by 2D Perlin noise around the mid height.
func Terrain(depth uint32, opts TerrainOptions) (*octree.Octree, error) {
	tree, err := octree.New(depth)
	if err != nil {
		return nil, err
	}
	n := tree.Size()
	opts = opts.withDefaults(n)
	noise := perlin.NewPerlin(2, 2, 3, opts.Seed)

	for x := 0; x < n; x += opts.Tile {
		for z := 0; z < n; z += opts.Tile {
			tx := float64(x/opts.Tile) * opts.Frequency
			tz := float64(z/opts.Tile) * opts.Frequency
			v := math.Max(-1, math.Min(1, noise.Noise2D(tx, tz)))
			h := n/2 + int(math.Round(v*float64(opts.Amplitude)))
			h = clamp(h, 1, n-1)

			tree.Fill(octree.NewRegion(x, 0, z, x+opts.Tile, h-1, z+opts.Tile), MaterialStone)
			tree.Fill(octree.NewRegion(x, h-1, z, x+opts.Tile, h, z+opts.Tile), MaterialGrass)
		}
	}
	tree.SetBorder(octree.Border{Lower: MaterialStone})
	return tree, nil
}

type PillarOptions struct {
	Seed int64
	// Count is the number of pillars. Zero picks one per 64x64 voxel area.
	Count int
	// MaxHeight bounds pillar height in voxels. Zero picks a quarter of the
	// world size.
	MaxHeight int
}

// Pillars is a flat world with randomly placed square columns on top.
func Pillars(depth uint32, opts PillarOptions) (*octree.Octree, error) {
	tree, err := Flat(depth)
	if err != nil {
		return nil, err
	}
	n := tree.Size()
	if opts.Count <= 0 {
		opts.Count = max(1, (n/64)*(n/64))
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = max(2, n/4)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	ground := n / 2
	for i := 0; i < opts.Count; i++ {
		w := 1 + rng.Intn(max(1, n/32))
		h := 1 + rng.Intn(opts.MaxHeight)
		x := rng.Intn(n)
		z := rng.Intn(n)
		top := clamp(ground+h, ground+1, n)
		tree.Fill(octree.NewRegion(x, ground, z, min(x+w, n), top, min(z+w, n)), MaterialWood)
	}
	return tree, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
