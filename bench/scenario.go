package bench

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Motion patterns for the synthetic bodies.
const (
	PatternCluster = "cluster"
	PatternOrbit   = "orbit"
	PatternDrift   = "drift"
	PatternStatic  = "static"
)

// FrameRate is the simulated tick rate.
const FrameRate = 60

// Scenario describes the dynamic bodies driven through every strategy.
type Scenario struct {
	Objects int
	Frames  int
	Pattern string
	Seed    int64
	// Spread is the half width of the square the bodies spawn in.
	Spread float32
	// Height is the spawn height of the bodies above the origin.
	Height float32
	// HalfSize is the half extent of each body box.
	HalfSize float32
	// EngineResolve runs the physics engine's contact query for every body
	// on strategies that rely on the engine.
	EngineResolve bool
}

func DefaultScenario() Scenario {
	return Scenario{
		Objects:  100,
		Frames:   300,
		Pattern:  PatternCluster,
		Seed:     1,
		Spread:   100,
		Height:   50,
		HalfSize: 0.5,
	}
}

func (s Scenario) Validate() error {
	switch s.Pattern {
	case PatternCluster, PatternOrbit, PatternDrift, PatternStatic:
	default:
		return fmt.Errorf("unknown motion pattern %q", s.Pattern)
	}
	if s.Objects < 0 {
		return fmt.Errorf("negative object count %d", s.Objects)
	}
	if s.Frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", s.Frames)
	}
	if !(s.HalfSize > 0) {
		return fmt.Errorf("body half size must be positive, got %g", s.HalfSize)
	}
	return nil
}

// spawn lays bodies out on a square grid centered on the origin.
func (s Scenario) spawn(i int) mgl32.Vec3 {
	side := int(math.Ceil(math.Sqrt(float64(s.Objects))))
	if side == 0 {
		side = 1
	}
	spread := s.Spread
	if s.Pattern == PatternCluster {
		spread /= 8
	}
	step := 2 * spread / float32(side)
	x := -spread + step*(float32(i%side)+0.5)
	z := -spread + step*(float32(i/side)+0.5)
	return mgl32.Vec3{x, s.Height, z}
}

// Position returns where body i is at the given frame.
func (s Scenario) Position(i, frame int) mgl32.Vec3 {
	p := s.spawn(i)
	t := float32(frame) / FrameRate
	phase := float32(i) * 0.7

	switch s.Pattern {
	case PatternCluster:
		p[0] += 2 * math32.Sin(t*1.5+phase)
		p[1] += 2 * math32.Cos(t*2+phase)
		p[2] += 2 * math32.Sin(t*1.1-phase)
	case PatternOrbit:
		angle := t * 0.5
		sin, cos := math32.Sin(angle), math32.Cos(angle)
		p[0], p[2] = p[0]*cos-p[2]*sin, p[0]*sin+p[2]*cos
	case PatternDrift:
		width := 2 * s.Spread
		if width > 0 {
			x := p[0] + s.Spread + t*20
			p[0] = x - width*math32.Floor(x/width) - s.Spread
		}
	}
	return p
}

// Bodies fills dst with the body boxes at the given frame.
func (s Scenario) Bodies(frame int, dst []cube.BBox) []cube.BBox {
	dst = dst[:0]
	for i := 0; i < s.Objects; i++ {
		dst = append(dst, geom.BoxAround(s.Position(i, frame), s.HalfSize))
	}
	return dst
}
