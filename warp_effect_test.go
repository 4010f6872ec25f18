package warpfx

import (
	"testing"

	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWarpShader = &core.Shader{Name: "warp", Params: WarpParams}

func newTestEffect(lines int) (*WarpEffect, *core.RecordingDevice) {
	dev := core.NewRecordingDevice()
	cfg := DefaultWarpConfig()
	cfg.LineCount = lines
	cfg.Shader = testWarpShader
	e := NewWarpEffect(dev, cfg)
	e.Activate()
	return e, dev
}

func playing(t float32) FrameContext {
	return FrameContext{Time: t, Playing: true, Transform: mgl32.Ident4()}
}

func TestWarpEffect_FirstTick(t *testing.T) {
	e, dev := newTestEffect(4)
	assert.Nil(t, e.Mesh(), "nothing allocated before the first tick")

	e.Tick(playing(3))

	require.Len(t, dev.Meshes, 1)
	require.Len(t, dev.Materials, 1)
	mesh := dev.Meshes[0]
	assert.Equal(t, "Warp Effect", mesh.Name())
	assert.Len(t, mesh.Vertices, 8)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 6, 7}, mesh.Indices)
	assert.Equal(t, core.TopologyLines, mesh.Topology)
	assert.Equal(t, WarpBounds, mesh.Bounds)
	assert.Equal(t, 1, mesh.UploadCount)
	assert.False(t, mesh.Readable)
	for _, v := range mesh.Vertices {
		assert.Equal(t, mgl32.Vec3{}, v)
	}
	assert.Same(t, testWarpShader, dev.Materials[0].Shader())

	require.Len(t, dev.Draws, 1)
	params := dev.Draws[0].Params
	assert.Equal(t, mgl32.Vec4{0.487, 0.1, 0, 0}, params[ParamDepthParams])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 0}, params[ParamExtent])
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 0}, params[ParamSpeed])
	assert.Equal(t, mgl32.Vec4{0.1, 0.5, 0, 0}, params[ParamLength])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, params[ParamLineColor])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, params[ParamSparkleColor])
	assert.Equal(t, mgl32.Vec4{0.5, 0, 0, 0}, params[ParamSparkleDensity])
	assert.Equal(t, mgl32.Vec4{13, 0, 0, 0}, params[ParamLocalTime])
}

func TestWarpEffect_TicksReuseResources(t *testing.T) {
	e, dev := newTestEffect(4)
	for i := 0; i < 3; i++ {
		e.Tick(playing(float32(i)))
	}

	assert.Len(t, dev.Meshes, 1)
	assert.Len(t, dev.Materials, 1)
	assert.Equal(t, 1, dev.Meshes[0].UploadCount)
	require.Len(t, dev.Draws, 3)
	for i, d := range dev.Draws {
		assert.Same(t, e.Mesh(), d.Mesh)
		assert.Same(t, e.Material(), d.Material)
		assert.Equal(t, float32(i)+TimeBias, d.Params[ParamLocalTime].X())
	}
}

func TestWarpEffect_DrawUsesTransformAndLayer(t *testing.T) {
	e, dev := newTestEffect(1)
	xf := mgl32.Translate3D(1, 2, 3)
	e.Tick(FrameContext{Time: 0, Playing: true, Transform: xf, Layer: 5})

	require.Len(t, dev.Draws, 1)
	assert.Equal(t, xf, dev.Draws[0].Transform)
	assert.Equal(t, 5, dev.Draws[0].Layer)
}

func TestWarpEffect_ReconstructMesh(t *testing.T) {
	e, dev := newTestEffect(4)

	// before the first tick there is nothing to rebuild
	e.ReconstructMesh()
	assert.Empty(t, dev.Meshes)

	e.Tick(playing(0))
	e.SetLineCount(2)
	assert.Len(t, dev.Meshes[0].Vertices, 8, "SetLineCount alone does not rebuild")

	e.ReconstructMesh()
	mesh := dev.Meshes[0]
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3}, mesh.Indices)
	assert.Equal(t, 2, mesh.UploadCount)
	assert.Len(t, dev.Meshes, 1, "rebuild reuses the mesh")
}

func TestWarpEffect_SetLineCountClamps(t *testing.T) {
	e, _ := newTestEffect(4)
	e.SetLineCount(0)
	assert.Equal(t, 1, e.LineCount())
	e.SetLineCount(-3)
	assert.Equal(t, 1, e.LineCount())
}

func TestWarpEffect_Configure(t *testing.T) {
	e, dev := newTestEffect(4)
	e.Tick(playing(0))

	cfg := e.Config()
	cfg.Speed = 2
	e.Configure(cfg)
	assert.Equal(t, 1, dev.Meshes[0].UploadCount, "same line count keeps the mesh")

	cfg.LineCount = 10
	cfg.Length = 3
	e.Configure(cfg)
	assert.Equal(t, 2, dev.Meshes[0].UploadCount)
	assert.Len(t, dev.Meshes[0].Vertices, 20)
	assert.Equal(t, float32(MaxLength), e.Config().Length)

	e.Tick(playing(0))
	assert.Equal(t, mgl32.Vec4{2, 0.5, 0, 0}, dev.Draws[1].Params[ParamSpeed])
}

func TestWarpEffect_NewValidates(t *testing.T) {
	cfg := DefaultWarpConfig()
	cfg.LineCount = 0
	cfg.SparkleDensity = 4
	e := NewWarpEffect(core.NewRecordingDevice(), cfg)

	assert.Equal(t, 1, e.LineCount())
	assert.Equal(t, float32(1), e.Config().SparkleDensity)
}

func TestWarpEffect_Inactive(t *testing.T) {
	dev := core.NewRecordingDevice()
	e := NewWarpEffect(dev, DefaultWarpConfig())

	e.Tick(playing(1))
	assert.Empty(t, dev.Meshes)
	assert.Empty(t, dev.Draws)

	e.Activate()
	e.Tick(playing(1))
	e.Deactivate()
	e.Tick(playing(2))
	assert.Len(t, dev.Draws, 1)
}

func TestWarpEffect_NilShader(t *testing.T) {
	dev := core.NewRecordingDevice()
	e := NewWarpEffect(dev, DefaultWarpConfig())
	e.Activate()

	e.Tick(playing(0))
	require.Len(t, dev.Materials, 1)
	assert.Nil(t, dev.Materials[0].Shader())
	assert.Len(t, dev.Draws, 1, "the device decides what a shaderless draw does")
}

func TestWarpEffect_TimeControl(t *testing.T) {
	e, dev := newTestEffect(1)
	assert.Equal(t, TimeFree, e.TimeControlState())

	e.StartControl()
	assert.Equal(t, TimeFree, e.TimeControlState(), "StartControl alone does not take the clock")

	e.SetTime(5)
	assert.Equal(t, TimeControlled, e.TimeControlState())
	assert.Equal(t, float32(5), e.LocalTime(playing(100)))
	assert.Equal(t, float32(5), e.LocalTime(FrameContext{Time: 100}))

	e.Tick(playing(100))
	assert.Equal(t, float32(5)+TimeBias, dev.Draws[0].Params[ParamLocalTime].X())

	e.SetTime(0)
	assert.Equal(t, TimeControlled, e.TimeControlState(), "zero is a valid held time")
	assert.Equal(t, float32(0), e.LocalTime(playing(100)))

	e.StopControl()
	assert.Equal(t, TimeFree, e.TimeControlState())
	assert.Equal(t, float32(7), e.LocalTime(playing(7)))
	assert.Equal(t, float32(0), e.LocalTime(FrameContext{Time: 7}), "paused preview runs at zero")
}

func TestWarpEffect_GatherPropertiesIsEmpty(t *testing.T) {
	e, _ := newTestEffect(1)
	props := &PropertyList{}
	e.GatherProperties(props)
	assert.Empty(t, props.Entries)
}

func TestWarpEffect_Teardown(t *testing.T) {
	e, dev := newTestEffect(2)
	e.Tick(playing(0))

	e.Teardown()
	e.Teardown()

	assert.Equal(t, 1, dev.Meshes[0].Released)
	assert.Equal(t, 1, dev.Materials[0].Released)
	assert.Nil(t, e.Mesh())
	assert.Nil(t, e.Material())
	assert.False(t, e.Active())

	e.Activate()
	e.Tick(playing(1))
	assert.Len(t, dev.Meshes, 1, "a torn down effect never allocates again")
	assert.Len(t, dev.Draws, 1)
}

func TestWarpEffect_TeardownWithoutResources(t *testing.T) {
	dev := core.NewRecordingDevice()
	e := NewWarpEffect(dev, DefaultWarpConfig())

	assert.NotPanics(t, e.Teardown)
	assert.Empty(t, dev.Meshes)
	assert.Empty(t, dev.Materials)
}
