package octree

import (
	"errors"
	"fmt"
)

// MaxDepth keeps the world edge representable in voxel units.
const MaxDepth = 24

var ErrDepth = errors.New("octree: depth out of range")

// Border gives the material of space outside the world. Cells below the
// world's mid height take Lower, the rest take Upper. Zero means empty.
type Border struct {
	Lower uint8
	Upper uint8
}

type node struct {
	children *[8]*node
	material uint8
}

func (n *node) leaf() bool {
	return n.children == nil
}

// split turns a leaf into a branch of eight leaves carrying its material.
func (n *node) split() *node {
	var kids [8]*node
	for i := range kids {
		kids[i] = &node{material: n.material}
	}
	return &node{children: &kids}
}

// compact collapses a branch whose children are leaves of one material.
func (n *node) compact() *node {
	if n.leaf() {
		return n
	}
	first := n.children[0]
	if !first.leaf() {
		return n
	}
	for _, c := range n.children[1:] {
		if !c.leaf() || c.material != first.material {
			return n
		}
	}
	return &node{material: first.material}
}

// Octree is a sparse voxel octree over a cube of edge 2^depth. Material 0 is
// empty, anything else is solid. Leaves are homogeneous and kept compacted so
// large uniform volumes stay a single node.
type Octree struct {
	depth  uint32
	root   *node
	border Border
}

func New(depth uint32) (*Octree, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("new octree with depth %d: %w", depth, ErrDepth)
	}
	return &Octree{depth: depth, root: &node{}}, nil
}

func (t *Octree) Depth() uint32 {
	return t.depth
}

func (t *Octree) Size() int {
	return 1 << t.depth
}

func (t *Octree) Bounds() Region {
	s := t.Size()
	return NewRegion(0, 0, 0, s, s, s)
}

func (t *Octree) SetBorder(b Border) {
	t.border = b
}

func (t *Octree) Border() Border {
	return t.border
}

// Set writes one finest-depth voxel. Coordinates outside the world are
// ignored and reported as false.
func (t *Octree) Set(x, y, z int, material uint8) bool {
	if !t.Bounds().Contains(x, y, z) {
		return false
	}
	t.Fill(NewRegion(x, y, z, x+1, y+1, z+1), material)
	return true
}

// Fill writes material into every voxel of r clipped to the world.
func (t *Octree) Fill(r Region, material uint8) {
	r = r.Intersect(t.Bounds())
	if r.Empty() {
		return
	}
	t.root = fill(t.root, [3]int{}, t.Size(), r, material)
}

func fill(n *node, origin [3]int, size int, r Region, material uint8) *node {
	box := cell(origin, size)
	ov := box.Intersect(r)
	if ov.Empty() {
		return n
	}
	if ov == box {
		return &node{material: material}
	}
	if n.leaf() {
		if n.material == material {
			return n
		}
		n = n.split()
	}
	half := size / 2
	for i := 0; i < 8; i++ {
		n.children[i] = fill(n.children[i], childOrigin(origin, half, i), half, r, material)
	}
	return n.compact()
}

// Get returns the material of a finest-depth voxel, 0 outside the world.
func (t *Octree) Get(x, y, z int) uint8 {
	m, _ := t.Lookup(t.depth, x, y, z)
	return m
}

// Lookup returns the material of the cell at the given depth and integer
// coordinate. ok is false when the cell is outside the world or is not
// homogeneous at that depth.
func (t *Octree) Lookup(depth uint32, x, y, z int) (material uint8, ok bool) {
	if depth > t.depth {
		return 0, false
	}
	cells := 1 << depth
	if x < 0 || y < 0 || z < 0 || x >= cells || y >= cells || z >= cells {
		return 0, false
	}
	shift := t.depth - depth
	target := [3]int{x << shift, y << shift, z << shift}

	n := t.root
	origin := [3]int{}
	size := t.Size()
	for level := uint32(0); level < depth; level++ {
		if n.leaf() {
			return n.material, true
		}
		half := size / 2
		idx := 0
		for i := 0; i < 3; i++ {
			if target[i] >= origin[i]+half {
				idx |= 1 << i
				origin[i] += half
			}
		}
		n = n.children[idx]
		size = half
	}
	if !n.leaf() {
		return 0, false
	}
	return n.material, true
}

// NodeCount returns the number of nodes, leaves included.
func (t *Octree) NodeCount() int {
	var count func(n *node) int
	count = func(n *node) int {
		c := 1
		if !n.leaf() {
			for _, k := range n.children {
				c += count(k)
			}
		}
		return c
	}
	return count(t.root)
}

func cell(origin [3]int, size int) Region {
	return Region{
		Min: origin,
		Max: [3]int{origin[0] + size, origin[1] + size, origin[2] + size},
	}
}

// childOrigin uses the octant index x + y*2 + z*4.
func childOrigin(origin [3]int, half, idx int) [3]int {
	o := origin
	for i := 0; i < 3; i++ {
		if idx&(1<<i) != 0 {
			o[i] += half
		}
	}
	return o
}
