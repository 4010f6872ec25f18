package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

var errNoShader = errors.New("material has no shader")

// Material holds one vec4 per shader parameter and the render pipelines
// built from its shader, one per topology.
type Material struct {
	dev    *Device
	shader *core.Shader
	module *wgpu.ShaderModule
	params []mgl32.Vec4

	pipelines map[core.Topology]*wgpu.RenderPipeline
}

func newMaterial(d *Device, shader *core.Shader) *Material {
	m := &Material{
		dev:       d,
		shader:    shader,
		pipelines: map[core.Topology]*wgpu.RenderPipeline{},
	}
	if shader == nil {
		return m
	}
	m.params = make([]mgl32.Vec4, len(shader.Params))

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          shader.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shader.Source},
	})
	if err != nil {
		d.logger.Warnf("gpu: compile %s: %v", shader.Name, err)
		return m
	}
	m.module = module
	return m
}

func (m *Material) Shader() *core.Shader { return m.shader }

func (m *Material) usable() bool { return m.module != nil }

func (m *Material) SetVector(name string, v mgl32.Vec4) {
	if slot := m.shader.ParamSlot(name); slot >= 0 {
		m.params[slot] = v
	}
}

func (m *Material) SetColor(name string, c core.Color) {
	m.SetVector(name, c.Vec4())
}

func (m *Material) SetFloat(name string, f float32) {
	m.SetVector(name, mgl32.Vec4{f, 0, 0, 0})
}

// Vector returns the value stored for name.
func (m *Material) Vector(name string) (mgl32.Vec4, bool) {
	slot := m.shader.ParamSlot(name)
	if slot < 0 {
		return mgl32.Vec4{}, false
	}
	return m.params[slot], true
}

func (m *Material) paramsSize() uint64 {
	if len(m.params) == 0 {
		return vec4Size
	}
	return uint64(len(m.params)) * vec4Size
}

func primitiveTopology(t core.Topology) wgpu.PrimitiveTopology {
	switch t {
	case core.TopologyPoints:
		return wgpu.PrimitiveTopologyPointList
	case core.TopologyLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case core.TopologyTriangles:
		return wgpu.PrimitiveTopologyTriangleList
	default:
		return wgpu.PrimitiveTopologyLineList
	}
}

// pipeline returns the cached pipeline for topology, building it on first
// use. Blending is additive so overlapping lines brighten.
func (m *Material) pipeline(t core.Topology) (*wgpu.RenderPipeline, error) {
	if p, ok := m.pipelines[t]; ok {
		return p, nil
	}
	if m.module == nil {
		return nil, errNoShader
	}

	primitive := wgpu.PrimitiveState{
		Topology:  primitiveTopology(t),
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
	if t == core.TopologyLineStrip {
		primitive.StripIndexFormat = wgpu.IndexFormatUint32
	}

	p, err := m.dev.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s %s", m.shader.Name, t),
		Layout: m.dev.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     m.module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 12,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Primitive: primitive,
		Fragment: &wgpu.FragmentState{
			Module:     m.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: m.dev.format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	m.pipelines[t] = p
	return p, nil
}

func (m *Material) Release() {
	for t, p := range m.pipelines {
		p.Release()
		delete(m.pipelines, t)
	}
	if m.module != nil {
		m.module.Release()
		m.module = nil
	}
}

var _ core.Material = (*Material)(nil)
