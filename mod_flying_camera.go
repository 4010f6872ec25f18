package warpfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCameraModule moves the CameraState with WASD, Space/Control and
// the captured mouse. Shift flies faster. Tab or the right mouse button
// toggles mouse capture.
type FlyingCameraModule struct {
	Speed       float32 // units per second, default 5
	Sensitivity float32 // radians per pixel, default 0.002
}

type flyingCamera struct {
	speed       float32
	sensitivity float32
}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	fc := &flyingCamera{speed: m.Speed, sensitivity: m.Sensitivity}
	if fc.speed == 0 {
		fc.speed = 5
	}
	if fc.sensitivity == 0 {
		fc.sensitivity = 0.002
	}
	cmd.AddResources(fc)
	app.UseSystem(
		System(flyingCameraSystem).
			InStage(Update),
	)
}

const (
	maxPitch     = 89 * math.Pi / 180
	sprintFactor = 4
)

func flyingCameraSystem(input *Input, cam *CameraState, fc *flyingCamera, time *Time) {
	if input.JustPressed[KeyTab] || input.JustPressed[MouseButtonRight] {
		input.MouseCaptured = !input.MouseCaptured
	}

	var move mgl32.Vec3
	if input.Pressed[KeyW] {
		move[2] += 1
	}
	if input.Pressed[KeyS] {
		move[2] -= 1
	}
	if input.Pressed[KeyA] {
		move[0] -= 1
	}
	if input.Pressed[KeyD] {
		move[0] += 1
	}
	if input.Pressed[KeySpace] {
		move[1] += 1
	}
	if input.Pressed[KeyControl] {
		move[1] -= 1
	}

	var look mgl32.Vec2
	if input.MouseCaptured {
		look = mgl32.Vec2{float32(input.MouseDeltaX), float32(input.MouseDeltaY)}
	}

	speed := fc.speed
	if input.Pressed[KeyShift] {
		speed *= sprintFactor
	}
	FlyCamera(cam, move, look, speed, fc.sensitivity, time.DeltaSeconds())
}

// FlyCamera turns cam by look (pixels) and moves it along move, given in
// camera space: x right, y up, z forward.
func FlyCamera(cam *CameraState, move mgl32.Vec3, look mgl32.Vec2, speed, sensitivity, dt float32) {
	cam.Yaw += look[0] * sensitivity
	cam.Pitch = mgl32.Clamp(cam.Pitch-look[1]*sensitivity, -maxPitch, maxPitch)

	if dt <= 0 || move.Len() == 0 {
		return
	}
	forward := cam.Forward().Normalize()
	up := mgl32.Vec3{0, 1, 0}
	right := forward.Cross(up).Normalize()

	dir := right.Mul(move[0]).Add(up.Mul(move[1])).Add(forward.Mul(move[2]))
	if dir.Len() > 0 {
		cam.Position = cam.Position.Add(dir.Normalize().Mul(speed * dt))
	}
}
