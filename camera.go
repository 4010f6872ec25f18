package warpfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is the single view the renderer draws from. LayerMask
// selects which render layers it sees; bit n is layer n.
type CameraState struct {
	Position  mgl32.Vec3
	Yaw       float32
	Pitch     float32
	FovY      float32 // degrees
	Near      float32
	Far       float32
	Aspect    float32
	LayerMask uint32
}

const AllLayers uint32 = 0xFFFFFFFF

func NewCameraState() *CameraState {
	return &CameraState{
		Position:  mgl32.Vec3{0, 0, 0},
		FovY:      60,
		Near:      0.05,
		Far:       2000,
		Aspect:    16.0 / 9.0,
		LayerMask: AllLayers,
	}
}

// Forward is -Z at zero yaw and pitch, Y up.
func (c *CameraState) Forward() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		-cp * float32(math.Cos(float64(c.Yaw))),
	}
}

func (c *CameraState) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) ProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

func (c *CameraState) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

func (c *CameraState) SeesLayer(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return c.LayerMask&(1<<uint(layer)) != 0
}
