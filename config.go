package voxcollide

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chewxy/math32"
	"github.com/gekko3d/voxcollide/physics"
	"gopkg.in/yaml.v3"
)

const (
	StrategyMonolithic = "monolithic"
	StrategyChunked    = "chunked"
	StrategyHybrid     = "hybrid"
)

const (
	DefaultChunkSize  = 64
	DefaultLoadRadius = 128
)

// ConfigEnv names the environment variable consulted by Load when no path is
// given.
const ConfigEnv = "VOXCOLLIDE_CONFIG"

type Config struct {
	Collider ColliderConfig `yaml:"collider"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Bench    BenchConfig    `yaml:"bench"`
}

type ColliderConfig struct {
	// Strategy is one of monolithic, chunked or hybrid. Empty selects
	// monolithic.
	Strategy string        `yaml:"strategy"`
	Scale    float32       `yaml:"scale"`
	Workers  int           `yaml:"workers"`
	Chunked  ChunkedConfig `yaml:"chunked"`
}

type ChunkedConfig struct {
	ChunkSize  float32 `yaml:"chunk_size"`
	LoadRadius float32 `yaml:"load_radius"`
}

// PhysicsConfig tunes the engine world colliders are attached to. Zero
// values select the engine defaults.
type PhysicsConfig struct {
	CellSize   float32 `yaml:"cell_size"`
	Thickness  float32 `yaml:"thickness"`
	MergeFaces bool    `yaml:"merge_faces"`
}

type LoggingConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
	Level  string `yaml:"level"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
	// StatsView enables the live runtime chart server.
	StatsView     bool   `yaml:"statsview"`
	StatsViewAddr string `yaml:"statsview_addr"`
}

type BenchConfig struct {
	World      string   `yaml:"world"`
	WorldDepth uint32   `yaml:"world_depth"`
	Seed       int64    `yaml:"seed"`
	Objects    int      `yaml:"objects"`
	Frames     int      `yaml:"frames"`
	Pattern    string   `yaml:"pattern"`
	Strategies []string `yaml:"strategies"`
	Baseline   string   `yaml:"baseline"`
	// EngineResolve adds the physics engine's own contact query to every
	// frame of engine-backed strategies.
	EngineResolve bool `yaml:"engine_resolve"`
}

func DefaultConfig() Config {
	return Config{
		Collider: ColliderConfig{
			Strategy: StrategyMonolithic,
			Scale:    1,
			Chunked: ChunkedConfig{
				ChunkSize:  DefaultChunkSize,
				LoadRadius: DefaultLoadRadius,
			},
		},
		Logging: LoggingConfig{
			Prefix: "voxcollide",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			StatsViewAddr: "localhost:18066",
		},
		Bench: BenchConfig{
			World:      "flat",
			WorldDepth: 10,
			Seed:       1,
			Objects:    100,
			Frames:     300,
			Pattern:    "cluster",
			Strategies: []string{StrategyMonolithic, StrategyChunked, StrategyHybrid},
			Baseline:   StrategyMonolithic,
		},
	}
}

// Load reads a YAML configuration on top of DefaultConfig. When path is empty
// the ConfigEnv variable is used; when that is empty too the defaults are
// returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.New("reading config failed").
			WithType(ErrTypeConfig).
			WithTag("path", path).
			Wrap(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.New("decoding config failed").
			WithType(ErrTypeConfig).
			WithTag("path", path).
			Wrap(err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Collider.Validate(); err != nil {
		return err
	}
	return c.Physics.Validate()
}

// Validate rejects out-of-range values. Chunk parameters are only checked
// when the chunked strategy is selected. A zero scale means one world unit
// per voxel.
func (c ColliderConfig) Validate() error {
	switch c.Strategy {
	case "", StrategyMonolithic, StrategyHybrid:
	case StrategyChunked:
		if err := c.Chunked.Validate(); err != nil {
			return err
		}
	default:
		return configError("collider.strategy", c.Strategy, "unknown collider strategy")
	}
	if !(c.Scale >= 0) || math32.IsInf(c.Scale, 1) {
		return configError("collider.scale", c.Scale, "scale must be finite and not negative")
	}
	if c.Workers < 0 {
		return configError("collider.workers", c.Workers, "workers must not be negative")
	}
	return nil
}

func (c ChunkedConfig) Validate() error {
	if !(c.ChunkSize > 0) || math32.IsInf(c.ChunkSize, 1) {
		return configError("collider.chunked.chunk_size", c.ChunkSize, "chunk size must be finite and positive")
	}
	if !(c.LoadRadius >= 0) || math32.IsInf(c.LoadRadius, 1) {
		return configError("collider.chunked.load_radius", c.LoadRadius, "load radius must be finite and not negative")
	}
	return nil
}

func (c PhysicsConfig) Validate() error {
	if !(c.CellSize >= 0) || math32.IsInf(c.CellSize, 1) {
		return configError("physics.cell_size", c.CellSize, "cell size must be finite and not negative")
	}
	if !(c.Thickness >= 0) || math32.IsInf(c.Thickness, 1) {
		return configError("physics.thickness", c.Thickness, "thickness must be finite and not negative")
	}
	return nil
}

// NewWorld returns an empty engine world configured by c.
func (c PhysicsConfig) NewWorld() *physics.World {
	w := physics.NewWorldWithCellSize(c.CellSize)
	if c.Thickness > 0 {
		w.Thickness = c.Thickness
	}
	w.MergeFaces = c.MergeFaces
	return w
}

func (c BenchConfig) Validate() error {
	switch {
	case c.WorldDepth == 0 || c.WorldDepth > 16:
		return configError("bench.world_depth", c.WorldDepth, "world depth must be within 1..16")
	case c.Objects < 0:
		return configError("bench.objects", c.Objects, "object count must not be negative")
	case c.Frames <= 0:
		return configError("bench.frames", c.Frames, "frame count must be positive")
	case len(c.Strategies) == 0:
		return configError("bench.strategies", c.Strategies, "at least one strategy is required")
	}
	for _, s := range c.Strategies {
		if !knownStrategy(s) {
			return configError("bench.strategies", s, "unknown collider strategy")
		}
	}
	if c.Baseline != "" && !knownStrategy(c.Baseline) {
		return configError("bench.baseline", c.Baseline, "unknown collider strategy")
	}
	return nil
}

func knownStrategy(name string) bool {
	switch name {
	case StrategyMonolithic, StrategyChunked, StrategyHybrid:
		return true
	}
	return false
}
