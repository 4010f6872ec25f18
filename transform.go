package warpfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ObjectToWorld is T * R * S. A zero rotation quaternion is treated as
// identity so zero-valued components still render.
func (t TransformComponent) ObjectToWorld() mgl32.Mat4 {
	rot := t.Rotation
	if rot.W == 0 && rot.V == (mgl32.Vec3{}) {
		rot = mgl32.QuatIdent()
	}
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rot.Mat4()).Mul4(scale)
}
