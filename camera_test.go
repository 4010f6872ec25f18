package warpfx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v, got %v", want, got)
}

func TestCameraState_Forward(t *testing.T) {
	cam := NewCameraState()
	assertVec3(t, mgl32.Vec3{0, 0, -1}, cam.Forward())

	cam.Yaw = math.Pi / 2
	assertVec3(t, mgl32.Vec3{1, 0, 0}, cam.Forward())

	cam.Yaw = 0
	cam.Pitch = math.Pi / 2
	assertVec3(t, mgl32.Vec3{0, 1, 0}, cam.Forward())
}

func TestCameraState_ViewProjection(t *testing.T) {
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{0, 0, 5}

	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, -5, 1})
	assert.Greater(t, clip.W(), float32(0), "a point ahead is in front of the camera")
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)

	behind := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 10, 1})
	assert.Less(t, behind.W(), float32(0))

	cam.Aspect = 0
	assert.NotPanics(t, func() { cam.ProjectionMatrix() })
}

func TestCameraState_SeesLayer(t *testing.T) {
	cam := NewCameraState()
	assert.True(t, cam.SeesLayer(0))
	assert.True(t, cam.SeesLayer(31))
	assert.False(t, cam.SeesLayer(-1))
	assert.False(t, cam.SeesLayer(32))

	cam.LayerMask = 1 << 4
	assert.True(t, cam.SeesLayer(4))
	assert.False(t, cam.SeesLayer(0))
}

func TestCameraDef_Apply(t *testing.T) {
	cam := NewCameraState()
	CameraDef{Position: mgl32.Vec3{1, 2, 3}, Yaw: 180, Pitch: -45}.Apply(cam)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position)
	assert.InDelta(t, math.Pi, cam.Yaw, 1e-6)
	assert.InDelta(t, -math.Pi/4, cam.Pitch, 1e-6)
	assert.Equal(t, float32(60), cam.FovY, "zero FovY keeps the current one")
	assert.Equal(t, AllLayers, cam.LayerMask, "no layers keeps the mask")

	CameraDef{Layers: []int{1, 2, 40, -1}}.Apply(cam)
	assert.Equal(t, uint32(0b110), cam.LayerMask)
}

func TestTransform_ObjectToWorld(t *testing.T) {
	zeroRot := TransformComponent{Position: mgl32.Vec3{1, 2, 3}, Scale: mgl32.Vec3{1, 1, 1}}
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), zeroRot.ObjectToWorld())

	tr := TransformComponent{
		Position: mgl32.Vec3{0, 0, 1},
		Rotation: mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	p := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertVec3(t, mgl32.Vec3{0, 0, -1}, p.Vec3())
}

func TestFlyCamera(t *testing.T) {
	cam := NewCameraState()

	FlyCamera(cam, mgl32.Vec3{0, 0, 1}, mgl32.Vec2{}, 5, 0.002, 0.5)
	assertVec3(t, mgl32.Vec3{0, 0, -2.5}, cam.Position)

	FlyCamera(cam, mgl32.Vec3{1, 0, 0}, mgl32.Vec2{}, 2, 0.002, 1)
	assertVec3(t, mgl32.Vec3{2, 0, -2.5}, cam.Position)

	FlyCamera(cam, mgl32.Vec3{0, 1, 0}, mgl32.Vec2{}, 1, 0.002, 0)
	assertVec3(t, mgl32.Vec3{2, 0, -2.5}, cam.Position)

	FlyCamera(cam, mgl32.Vec3{}, mgl32.Vec2{100, -1e6}, 1, 0.01, 1)
	assert.InDelta(t, 1, cam.Yaw, 1e-6)
	assert.InDelta(t, maxPitch, cam.Pitch, 1e-6, "pitch is clamped short of straight up")
}
