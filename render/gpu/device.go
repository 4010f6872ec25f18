// Package gpu implements core.Device on WebGPU.
//
// Shaders handed to NewMaterial are WGSL with entry points vs_main and
// fs_main, one vertex attribute (@location(0) position: vec3<f32>) and
// three uniform groups:
//
//	@group(0) @binding(0) frame:  struct { view_proj: mat4x4<f32> }
//	@group(1) @binding(0) object: struct { model: mat4x4<f32> }
//	@group(2) @binding(0) params: array<vec4<f32>, N>
//
// where N is len(Shader.Params) and parameter i lives in params[i].
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	mat4Size = 64
	vec4Size = 16
)

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// FrameStats counts what happened to the draws of the last frame.
type FrameStats struct {
	Submitted    int
	Drawn        int
	LayerCulled  int
	FrustumCull  int
	Skipped      int
	DrawnIndices int
}

type drawCall struct {
	mesh     *Mesh
	material *Material
	slot     *objectSlot
}

type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	format wgpu.TextureFormat
	logger Logger

	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	paramsLayout   *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup

	slots []*objectSlot
	draws []drawCall

	viewProj  mgl32.Mat4
	frustum   [6]mgl32.Vec4
	layerMask uint32

	Stats FrameStats
}

// NewDevice builds the shared layouts and the per-frame uniform on an
// already requested device. format is the color target format.
func NewDevice(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat) (*Device, error) {
	d := &Device{
		device:    device,
		queue:     queue,
		format:    format,
		logger:    nopLogger{},
		viewProj:  mgl32.Ident4(),
		layerMask: 0xFFFFFFFF,
	}

	var err error
	d.frameLayout, err = uniformLayout(device, "WarpFrameBGL", mat4Size, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	if err != nil {
		return nil, err
	}
	d.objectLayout, err = uniformLayout(device, "WarpObjectBGL", mat4Size, wgpu.ShaderStageVertex)
	if err != nil {
		return nil, err
	}
	d.paramsLayout, err = uniformLayout(device, "WarpParamsBGL", vec4Size, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	if err != nil {
		return nil, err
	}

	d.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "WarpPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.frameLayout, d.objectLayout, d.paramsLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	d.frameBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "WarpFrameUniforms",
		Size:  mat4Size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create frame buffer: %w", err)
	}
	d.frameBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "WarpFrameBG",
		Layout: d.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: d.frameBuffer, Size: mat4Size},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create frame bind group: %w", err)
	}

	return d, nil
}

func uniformLayout(device *wgpu.Device, label string, minSize uint64, visibility wgpu.ShaderStage) (*wgpu.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: minSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return layout, nil
}

func (d *Device) SetLogger(l Logger) {
	if l != nil {
		d.logger = l
	}
}

// BeginFrame sets the camera for the draws that follow and forgets the
// previous frame's draws.
func (d *Device) BeginFrame(viewProj mgl32.Mat4, layerMask uint32) {
	d.viewProj = viewProj
	d.frustum = ExtractFrustum(viewProj)
	d.layerMask = layerMask
	d.draws = d.draws[:0]
	d.Stats = FrameStats{}

	d.queue.WriteBuffer(d.frameBuffer, 0, wgpu.ToBytes(viewProj[:]))
}

func (d *Device) NewMesh(name string) core.Mesh {
	return &Mesh{dev: d, name: name, readable: true}
}

func (d *Device) NewMaterial(shader *core.Shader) core.Material {
	return newMaterial(d, shader)
}

// DrawMesh queues a draw for the current frame. Draws whose layer the
// camera does not see, whose bounds fall outside the view, whose material
// has no pipeline or whose mesh was never uploaded are dropped silently.
func (d *Device) DrawMesh(mesh core.Mesh, transform mgl32.Mat4, material core.Material, layer int) {
	d.Stats.Submitted++

	m, okMesh := mesh.(*Mesh)
	mat, okMat := material.(*Material)
	if !okMesh || !okMat || m.indexBuf == nil || !mat.usable() {
		d.Stats.Skipped++
		return
	}
	if layer < 0 || layer > 31 || d.layerMask&(1<<uint(layer)) == 0 {
		d.Stats.LayerCulled++
		return
	}
	if !BoundsInFrustum(d.frustum, m.bounds.Transform(transform)) {
		d.Stats.FrustumCull++
		return
	}

	slot, err := d.slot(len(d.draws), mat)
	if err != nil {
		d.logger.Warnf("gpu: draw %s: %v", m.name, err)
		d.Stats.Skipped++
		return
	}
	d.queue.WriteBuffer(slot.object, 0, wgpu.ToBytes(transform[:]))
	if len(mat.params) > 0 {
		d.queue.WriteBuffer(slot.params, 0, wgpu.ToBytes(mat.params))
	}

	d.draws = append(d.draws, drawCall{mesh: m, material: mat, slot: slot})
}

// Encode records the queued draws into pass.
func (d *Device) Encode(pass *wgpu.RenderPassEncoder) {
	for _, dc := range d.draws {
		pipeline, err := dc.material.pipeline(dc.mesh.topology)
		if err != nil {
			d.logger.Warnf("gpu: pipeline for %s: %v", dc.mesh.name, err)
			d.Stats.Skipped++
			continue
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, d.frameBindGroup, nil)
		pass.SetBindGroup(1, dc.slot.objectGroup, nil)
		pass.SetBindGroup(2, dc.slot.paramsGroup, nil)
		pass.SetVertexBuffer(0, dc.mesh.vertexBuf, 0, dc.mesh.vertexBuf.GetSize())
		pass.SetIndexBuffer(dc.mesh.indexBuf, wgpu.IndexFormatUint32, 0, dc.mesh.indexBuf.GetSize())
		pass.DrawIndexed(dc.mesh.indexCount, 1, 0, 0, 0)

		d.Stats.Drawn++
		d.Stats.DrawnIndices += int(dc.mesh.indexCount)
	}
}

func (d *Device) Release() {
	for _, s := range d.slots {
		s.release()
	}
	d.slots = nil
	if d.frameBindGroup != nil {
		d.frameBindGroup.Release()
	}
	if d.frameBuffer != nil {
		d.frameBuffer.Release()
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{d.frameLayout, d.objectLayout, d.paramsLayout} {
		if l != nil {
			l.Release()
		}
	}
}

var _ core.Device = (*Device)(nil)
