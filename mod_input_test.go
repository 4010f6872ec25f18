package warpfx

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestInput_SetEdges(t *testing.T) {
	var input Input

	input.Set(KeyW, true)
	assert.True(t, input.Pressed[KeyW])
	assert.True(t, input.JustPressed[KeyW])

	input.Set(KeyW, true)
	assert.True(t, input.Pressed[KeyW])
	assert.False(t, input.JustPressed[KeyW], "held is not a new press")

	input.Set(KeyW, false)
	assert.False(t, input.Pressed[KeyW])
	assert.True(t, input.JustReleased[KeyW])

	input.Set(KeyW, false)
	assert.False(t, input.JustReleased[KeyW])
}

func TestInput_MoveCursor(t *testing.T) {
	var input Input

	input.MoveCursor(10, 20)
	input.MoveCursor(15, 30)
	assert.Zero(t, input.MouseDeltaX, "free cursor reports no look delta")
	assert.Equal(t, 15.0, input.MouseX)

	input.MouseCaptured = true
	input.MoveCursor(18, 26)
	assert.Equal(t, 3.0, input.MouseDeltaX)
	assert.Equal(t, -4.0, input.MouseDeltaY)
}

func TestFlyingCameraSystem(t *testing.T) {
	input := &Input{}
	cam := NewCameraState()
	fc := &flyingCamera{speed: 4, sensitivity: 0.01}
	clock := &Time{Dt: 500 * time.Millisecond}

	input.Set(KeyTab, true)
	input.Set(KeyW, true)
	flyingCameraSystem(input, cam, fc, clock)
	assert.True(t, input.MouseCaptured)
	assertVec3(t, mgl32.Vec3{0, 0, -2}, cam.Position)

	input.Set(KeyTab, true)
	input.MouseDeltaX = 50
	flyingCameraSystem(input, cam, fc, clock)
	assert.True(t, input.MouseCaptured, "holding tab does not toggle again")
	assert.InDelta(t, 0.5, cam.Yaw, 1e-6)
}

func TestFlyingCameraSystem_SprintAndRightClick(t *testing.T) {
	input := &Input{}
	cam := NewCameraState()
	fc := &flyingCamera{speed: 2, sensitivity: 0.01}
	clock := &Time{Dt: time.Second}

	input.Set(MouseButtonRight, true)
	input.Set(KeyShift, true)
	input.Set(KeyW, true)
	flyingCameraSystem(input, cam, fc, clock)

	assert.True(t, input.MouseCaptured)
	assertVec3(t, mgl32.Vec3{0, 0, -2 * sprintFactor}, cam.Position)
}
