package octree

import "github.com/go-gl/mathgl/mgl32"

// Dir names one of the six axis-aligned face directions.
type Dir uint8

const (
	DirLeft  Dir = iota // -X
	DirRight            // +X
	DirDown             // -Y
	DirUp               // +Y
	DirBack             // -Z
	DirFront            // +Z
)

var Dirs = [6]Dir{DirLeft, DirRight, DirDown, DirUp, DirBack, DirFront}

func (d Dir) Axis() int {
	return int(d) / 2
}

func (d Dir) Sign() int {
	if d%2 == 1 {
		return 1
	}
	return -1
}

func (d Dir) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	n[d.Axis()] = float32(d.Sign())
	return n
}

func (d Dir) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirBack:
		return "back"
	case DirFront:
		return "front"
	}
	return "unknown"
}

// Region is a half-open box [Min, Max) in finest-depth voxel units.
type Region struct {
	Min [3]int
	Max [3]int
}

func NewRegion(minX, minY, minZ, maxX, maxY, maxZ int) Region {
	return Region{Min: [3]int{minX, minY, minZ}, Max: [3]int{maxX, maxY, maxZ}}
}

// Empty reports a zero-volume region. Inverted bounds are empty too.
func (r Region) Empty() bool {
	return r.Min[0] >= r.Max[0] || r.Min[1] >= r.Max[1] || r.Min[2] >= r.Max[2]
}

func (r Region) Intersect(o Region) Region {
	out := r
	for i := 0; i < 3; i++ {
		out.Min[i] = max(r.Min[i], o.Min[i])
		out.Max[i] = min(r.Max[i], o.Max[i])
	}
	return out
}

func (r Region) Contains(x, y, z int) bool {
	return x >= r.Min[0] && x < r.Max[0] &&
		y >= r.Min[1] && y < r.Max[1] &&
		z >= r.Min[2] && z < r.Max[2]
}

func (r Region) Grow(n int) Region {
	for i := 0; i < 3; i++ {
		r.Min[i] -= n
		r.Max[i] += n
	}
	return r
}

func (r Region) Volume() int {
	if r.Empty() {
		return 0
	}
	return (r.Max[0] - r.Min[0]) * (r.Max[1] - r.Min[1]) * (r.Max[2] - r.Min[2])
}

// Face is an exposed rectangle of a solid leaf, in voxel units. Along the
// normal axis Min and Max both hold the plane coordinate.
type Face struct {
	Dir      Dir
	Min      [3]int
	Max      [3]int
	Material uint8
}

func (f Face) Plane() int {
	return f.Min[f.Dir.Axis()]
}

func (f Face) Area() int {
	ax := f.Dir.Axis()
	area := 1
	for i := 0; i < 3; i++ {
		if i != ax {
			area *= f.Max[i] - f.Min[i]
		}
	}
	return area
}
