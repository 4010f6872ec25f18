package warpfx

import (
	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Material parameter names written every frame.
const (
	ParamDepthParams    = "DepthParams"
	ParamExtent         = "Extent"
	ParamSpeed          = "Speed"
	ParamLength         = "Length"
	ParamLineColor      = "LineColor"
	ParamSparkleColor   = "SparkleColor"
	ParamSparkleDensity = "SparkleDensity"
	ParamLocalTime      = "LocalTime"
)

// WarpParams lists the parameters in the order the warp shader declares
// them.
var WarpParams = []string{
	ParamDepthParams,
	ParamExtent,
	ParamSpeed,
	ParamLength,
	ParamLineColor,
	ParamSparkleColor,
	ParamSparkleDensity,
	ParamLocalTime,
}

// TimeBias is added to the local time before it reaches the shader. The
// shader hashes on time and shows artifacts close to zero.
const TimeBias float32 = 10

const warpMeshName = "Warp Effect"

// WarpBounds is assigned to the line mesh so culling never has to look at
// the vertices; lines are placed by the shader.
var WarpBounds = core.Bounds{
	Min: mgl32.Vec3{-1, -1, -1000},
	Max: mgl32.Vec3{1, 1, 1000},
}

// FrameContext is what the host loop hands an effect each frame.
type FrameContext struct {
	// Time is the engine's running time in seconds.
	Time float32
	// Playing is false for paused or edit-mode preview.
	Playing   bool
	Transform mgl32.Mat4
	Layer     int
}

// WarpEffect owns a procedural line mesh and a material instance and
// pushes its configuration into the material every frame.
//
// Both resources are created on the first Tick and live until Teardown.
// The effect is not safe for concurrent use; the engine drives it from
// its main loop.
type WarpEffect struct {
	device core.Device
	logger Logger

	config WarpConfig
	clock  timeControl

	mesh     core.Mesh
	material core.Material

	active   bool
	torndown bool
}

type EffectOption func(*WarpEffect)

func WithLogger(l Logger) EffectOption {
	return func(e *WarpEffect) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewWarpEffect(device core.Device, cfg WarpConfig, opts ...EffectOption) *WarpEffect {
	cfg.Validate()
	e := &WarpEffect{
		device: device,
		logger: NewNopLogger(),
		config: cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *WarpEffect) Config() WarpConfig { return e.config }

func (e *WarpEffect) LineCount() int { return e.config.LineCount }

// SetLineCount stores n, floored at one line. The mesh keeps its old
// size until ReconstructMesh.
func (e *WarpEffect) SetLineCount(n int) {
	e.config.LineCount = clampLineCount(n)
}

// Configure replaces the configuration the way an editor edit does: the
// new values are validated and the mesh is rebuilt if the line count
// changed after it was built.
func (e *WarpEffect) Configure(cfg WarpConfig) {
	cfg.Validate()
	rebuild := e.mesh != nil && cfg.LineCount != e.config.LineCount
	e.config = cfg
	if rebuild {
		e.ReconstructMesh()
	}
}

// ReconstructMesh rebuilds the whole line mesh for the current line count.
// Vertex positions stay at the origin; the shader places every line from
// the vertex index. Does nothing before the mesh exists.
func (e *WarpEffect) ReconstructMesh() {
	if e.mesh == nil {
		return
	}
	vertexCount := 2 * e.config.LineCount

	indices := make([]uint32, vertexCount)
	for i := range indices {
		indices[i] = uint32(i)
	}

	e.mesh.Clear()
	e.mesh.SetVertices(make([]mgl32.Vec3, vertexCount))
	e.mesh.SetIndices(indices, core.TopologyLines)
	e.mesh.SetBounds(WarpBounds)
	e.mesh.Upload(true)

	e.logger.Debugf("warp: rebuilt mesh with %d lines", e.config.LineCount)
}

func (e *WarpEffect) ensureResources() {
	if e.mesh == nil {
		e.mesh = e.device.NewMesh(warpMeshName)
		e.ReconstructMesh()
	}
	if e.material == nil {
		e.material = e.device.NewMaterial(e.config.Shader)
		if e.config.Shader == nil {
			e.logger.Debugf("warp: material created without a shader")
		}
	}
}

func (e *WarpEffect) Mesh() core.Mesh { return e.mesh }

func (e *WarpEffect) Material() core.Material { return e.material }

func (e *WarpEffect) Active() bool { return e.active }

func (e *WarpEffect) Activate() {
	if e.torndown {
		return
	}
	e.config.Validate()
	e.active = true
}

func (e *WarpEffect) Deactivate() {
	e.active = false
}

// Tick makes sure the resources exist, writes the configuration into the
// material and submits one draw. Inactive effects skip the frame.
func (e *WarpEffect) Tick(ctx FrameContext) {
	if !e.active || e.torndown {
		return
	}
	e.ensureResources()

	cfg := &e.config
	m := e.material
	m.SetVector(ParamDepthParams, mgl32.Vec4{cfg.Depth, cfg.Cutoff, 0, 0})
	m.SetVector(ParamExtent, cfg.Extent.Vec4(0))
	m.SetVector(ParamSpeed, mgl32.Vec4{cfg.Speed, cfg.SpeedRandomness, 0, 0})
	m.SetVector(ParamLength, mgl32.Vec4{cfg.Length, cfg.LengthRandomness, 0, 0})
	m.SetColor(ParamLineColor, cfg.LineColor)
	m.SetColor(ParamSparkleColor, cfg.SparkleColor)
	m.SetFloat(ParamSparkleDensity, cfg.SparkleDensity)
	m.SetFloat(ParamLocalTime, e.LocalTime(ctx)+TimeBias)

	e.device.DrawMesh(e.mesh, ctx.Transform, m, ctx.Layer)
}

// Teardown releases the mesh and the material. Safe to call when nothing
// was ever allocated and safe to call twice.
func (e *WarpEffect) Teardown() {
	if e.mesh != nil {
		e.mesh.Release()
		e.mesh = nil
	}
	if e.material != nil {
		e.material.Release()
		e.material = nil
	}
	e.active = false
	e.torndown = true
	e.logger.Debugf("warp: released resources")
}

// LocalTime is the time the effect animates at for ctx.
func (e *WarpEffect) LocalTime(ctx FrameContext) float32 {
	return e.clock.resolve(ctx)
}

func (e *WarpEffect) TimeControlState() TimeControlState {
	return e.clock.state
}

func (e *WarpEffect) StartControl() {}

func (e *WarpEffect) StopControl() {
	e.clock.reset()
}

func (e *WarpEffect) SetTime(t float64) {
	e.clock.set(t)
}

// GatherProperties exposes nothing: all animation goes through SetTime.
func (e *WarpEffect) GatherProperties(collector PropertyCollector) {}

var (
	_ TimeControl     = (*WarpEffect)(nil)
	_ PropertyPreview = (*WarpEffect)(nil)
)
