package physics

import (
	"errors"
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/voxcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// DefaultCellSize is the broadphase cell edge in world units.
const DefaultCellSize = 16

var (
	ErrUnknownBody     = errors.New("physics: unknown rigid body")
	ErrUnknownCollider = errors.New("physics: unknown collider")
)

type BodyHandle uuid.UUID

func (h BodyHandle) String() string {
	return uuid.UUID(h).String()
}

func (h BodyHandle) IsZero() bool {
	return uuid.UUID(h) == uuid.Nil
}

type ColliderHandle uuid.UUID

func (h ColliderHandle) String() string {
	return uuid.UUID(h).String()
}

func (h ColliderHandle) IsZero() bool {
	return uuid.UUID(h) == uuid.Nil
}

// RigidBody is a fixed body; colliders attached to it never move.
type RigidBody struct {
	Handle    BodyHandle
	Colliders map[ColliderHandle]struct{}
}

type Collider struct {
	Handle ColliderHandle
	Body   BodyHandle
	Shape  *Compound
}

// World owns fixed rigid bodies and the compound colliders attached to them.
// It is not safe for concurrent mutation.
type World struct {
	Gravity   mgl32.Vec3
	Thickness float32
	// MergeFaces joins coplanar faces before compounds are built.
	MergeFaces bool

	bodies    map[BodyHandle]*RigidBody
	colliders map[ColliderHandle]*Collider
	grid      *spatialHash
	shapes    int
}

func NewWorld() *World {
	return NewWorldWithCellSize(DefaultCellSize)
}

func NewWorldWithCellSize(cellSize float32) *World {
	return &World{
		Gravity:   mgl32.Vec3{0, -9.81, 0},
		Thickness: DefaultThickness,
		bodies:    make(map[BodyHandle]*RigidBody),
		colliders: make(map[ColliderHandle]*Collider),
		grid:      newSpatialHash(cellSize),
	}
}

func (w *World) CreateFixedBody() (BodyHandle, error) {
	h := BodyHandle(uuid.New())
	w.bodies[h] = &RigidBody{Handle: h, Colliders: make(map[ColliderHandle]struct{})}
	return h, nil
}

func (w *World) BuildCompound(faces []geom.Face) (*Compound, error) {
	if w.MergeFaces {
		faces = MergeFaces(faces)
	}
	return NewCompound(faces, w.Thickness), nil
}

func (w *World) Attach(body BodyHandle, shape *Compound) (ColliderHandle, error) {
	rb, ok := w.bodies[body]
	if !ok {
		return ColliderHandle{}, fmt.Errorf("attach collider to body %s: %w", body, ErrUnknownBody)
	}
	if shape == nil {
		shape = &Compound{}
	}
	h := ColliderHandle(uuid.New())
	w.colliders[h] = &Collider{Handle: h, Body: body, Shape: shape}
	rb.Colliders[h] = struct{}{}
	w.grid.insert(h, shape)
	w.shapes += shape.Len()
	return h, nil
}

// Remove detaches and destroys a collider. Removing a handle twice fails.
func (w *World) Remove(h ColliderHandle) error {
	c, ok := w.colliders[h]
	if !ok {
		return fmt.Errorf("remove collider %s: %w", h, ErrUnknownCollider)
	}
	w.grid.remove(h, c.Shape)
	w.shapes -= c.Shape.Len()
	delete(w.colliders, h)
	if rb, ok := w.bodies[c.Body]; ok {
		delete(rb.Colliders, h)
	}
	return nil
}

// RemoveBody destroys a body together with its colliders.
func (w *World) RemoveBody(h BodyHandle) error {
	rb, ok := w.bodies[h]
	if !ok {
		return fmt.Errorf("remove body %s: %w", h, ErrUnknownBody)
	}
	for ch := range rb.Colliders {
		if err := w.Remove(ch); err != nil {
			return err
		}
	}
	delete(w.bodies, h)
	return nil
}

func (w *World) Collider(h ColliderHandle) (*Collider, bool) {
	c, ok := w.colliders[h]
	return c, ok
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

func (w *World) ColliderCount() int {
	return len(w.colliders)
}

// ShapeCount is the number of cuboids across all attached compounds.
func (w *World) ShapeCount() int {
	return w.shapes
}

// QueryBox returns the parts whose boxes overlap b.
func (w *World) QueryBox(b cube.BBox) []Cuboid {
	var out []Cuboid
	for _, ref := range w.grid.query(b) {
		c, ok := w.colliders[ref.collider]
		if !ok {
			continue
		}
		part := c.Shape.Parts[ref.index]
		if part.Bounds().IntersectsWith(b) {
			out = append(out, part)
		}
	}
	return out
}

// Resolve computes the correction separating b from the attached colliders,
// using the faces the parts were built from.
func (w *World) Resolve(b cube.BBox) (mgl32.Vec3, bool) {
	var corr geom.Correction
	for _, ref := range w.grid.query(b) {
		c, ok := w.colliders[ref.collider]
		if !ok {
			continue
		}
		if p, ok := geom.BoxFacePenetration(b, c.Shape.Parts[ref.index].Face); ok {
			corr.Add(p.Vector())
		}
	}
	return corr.Result()
}
