package octree

// VisitFaces visits every exposed face of the world.
func (t *Octree) VisitFaces(visit func(Face)) {
	t.VisitFacesInRegion(t.Bounds(), visit)
}

// VisitFacesInRegion visits the exposed faces owned by solid voxels inside r.
// A face lying on the boundary of r is reported only when the solid side is
// inside r and the other side is empty in the octree, so regions that tile the
// world report each face exactly once. Faces are split where the neighbor
// across them is partly solid. The visit order is fixed by the octant order.
func (t *Octree) VisitFacesInRegion(r Region, visit func(Face)) {
	r = r.Intersect(t.Bounds())
	if r.Empty() {
		return
	}
	t.visitSolid(t.root, [3]int{}, t.Size(), r, visit)
}

func (t *Octree) visitSolid(n *node, origin [3]int, size int, r Region, visit func(Face)) {
	box := cell(origin, size)
	clip := box.Intersect(r)
	if clip.Empty() {
		return
	}
	if !n.leaf() {
		half := size / 2
		for i := 0; i < 8; i++ {
			t.visitSolid(n.children[i], childOrigin(origin, half, i), half, r, visit)
		}
		return
	}
	if n.material == 0 {
		return
	}

	for _, d := range Dirs {
		ax := d.Axis()
		var plane int
		if d.Sign() > 0 {
			if clip.Max[ax] != box.Max[ax] {
				continue
			}
			plane = box.Max[ax]
		} else {
			if clip.Min[ax] != box.Min[ax] {
				continue
			}
			plane = box.Min[ax]
		}
		f := Face{Dir: d, Min: clip.Min, Max: clip.Max, Material: n.material}
		f.Min[ax], f.Max[ax] = plane, plane
		t.visitExposed(f, visit)
	}
}

// visitExposed reports the parts of f whose neighbor cells are empty.
func (t *Octree) visitExposed(f Face, visit func(Face)) {
	ax := f.Dir.Axis()
	plane := f.Plane()
	slab := Region{Min: f.Min, Max: f.Max}
	if f.Dir.Sign() > 0 {
		slab.Min[ax], slab.Max[ax] = plane, plane+1
	} else {
		slab.Min[ax], slab.Max[ax] = plane-1, plane
	}
	if slab.Min[ax] < 0 || slab.Max[ax] > t.Size() {
		t.visitBorder(f, visit)
		return
	}
	t.visitEmpty(t.root, [3]int{}, t.Size(), slab, f, visit)
}

func (t *Octree) visitEmpty(n *node, origin [3]int, size int, slab Region, f Face, visit func(Face)) {
	clip := cell(origin, size).Intersect(slab)
	if clip.Empty() {
		return
	}
	if !n.leaf() {
		half := size / 2
		for i := 0; i < 8; i++ {
			t.visitEmpty(n.children[i], childOrigin(origin, half, i), half, slab, f, visit)
		}
		return
	}
	if n.material != 0 {
		return
	}
	ax := f.Dir.Axis()
	piece := f
	for i := 0; i < 3; i++ {
		if i != ax {
			piece.Min[i], piece.Max[i] = clip.Min[i], clip.Max[i]
		}
	}
	visit(piece)
}

func (t *Octree) visitBorder(f Face, visit func(Face)) {
	const yAxis = 1
	if f.Dir.Axis() == yAxis {
		m := t.border.Upper
		if f.Dir.Sign() < 0 {
			m = t.border.Lower
		}
		if m == 0 {
			visit(f)
		}
		return
	}

	if t.border.Lower == t.border.Upper {
		if t.border.Lower == 0 {
			visit(f)
		}
		return
	}
	mid := t.Size() / 2
	if t.border.Lower == 0 && f.Min[yAxis] < mid {
		lower := f
		lower.Max[yAxis] = min(f.Max[yAxis], mid)
		visit(lower)
	}
	if t.border.Upper == 0 && f.Max[yAxis] > mid {
		upper := f
		upper.Min[yAxis] = max(f.Min[yAxis], mid)
		visit(upper)
	}
}
