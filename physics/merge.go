package physics

import (
	"sort"

	"github.com/gekko3d/voxcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
)

type planeKey struct {
	normal   int
	plane    float32
	material uint8
}

// rect is a face in its plane: lo and hi along the two tangent axes in
// ascending axis order.
type rect struct {
	lo, hi [2]float32
}

// MergeFaces joins coplanar faces of the same material and facing that share
// a full edge. Faces are first grown along the first tangent axis, then the
// resulting strips along the second. The covered area is unchanged.
func MergeFaces(faces []geom.Face) []geom.Face {
	if len(faces) < 2 {
		return faces
	}

	groups := make(map[planeKey][]rect)
	normals := make(map[planeKey]mgl32.Vec3)
	for _, f := range faces {
		k := planeKey{normal: f.NormalIndex(), plane: f.Plane(), material: f.Material}
		u, v := tangents(f.Axis())
		groups[k] = append(groups[k], rect{
			lo: [2]float32{f.Center[u] - f.HalfExtents[u], f.Center[v] - f.HalfExtents[v]},
			hi: [2]float32{f.Center[u] + f.HalfExtents[u], f.Center[v] + f.HalfExtents[v]},
		})
		normals[k] = f.Normal
	}

	keys := make([]planeKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.normal != b.normal {
			return a.normal < b.normal
		}
		if a.plane != b.plane {
			return a.plane < b.plane
		}
		return a.material < b.material
	})

	out := make([]geom.Face, 0, len(faces))
	for _, k := range keys {
		rs := sweep(sweep(groups[k], 0), 1)
		n := normals[k]
		ax := geom.Face{Normal: n}.Axis()
		u, v := tangents(ax)
		for _, r := range rs {
			var f geom.Face
			f.Normal = n
			f.Material = k.material
			f.Center[ax] = k.plane
			f.Center[u] = (r.lo[0] + r.hi[0]) * 0.5
			f.Center[v] = (r.lo[1] + r.hi[1]) * 0.5
			f.HalfExtents[u] = (r.hi[0] - r.lo[0]) * 0.5
			f.HalfExtents[v] = (r.hi[1] - r.lo[1]) * 0.5
			out = append(out, f)
		}
	}
	return out
}

// sweep merges rectangles along axis a when they span the same range on the
// other axis and touch end to start.
func sweep(rs []rect, a int) []rect {
	b := 1 - a
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].lo[b] != rs[j].lo[b] {
			return rs[i].lo[b] < rs[j].lo[b]
		}
		if rs[i].hi[b] != rs[j].hi[b] {
			return rs[i].hi[b] < rs[j].hi[b]
		}
		return rs[i].lo[a] < rs[j].lo[a]
	})

	out := make([]rect, 0, len(rs))
	for _, r := range rs {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.lo[b] == r.lo[b] && last.hi[b] == r.hi[b] && last.hi[a] == r.lo[a] {
				last.hi[a] = r.hi[a]
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func tangents(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}
