package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh stages geometry on the CPU until Upload copies it into vertex and
// index buffers.
type Mesh struct {
	dev  *Device
	name string

	vertices []mgl32.Vec3
	indices  []uint32
	topology core.Topology
	bounds   core.Bounds
	readable bool

	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	indexCount uint32
}

func (m *Mesh) Name() string { return m.name }

// Readable reports whether the CPU copy is still around.
func (m *Mesh) Readable() bool { return m.readable }

func (m *Mesh) Clear() {
	m.vertices = m.vertices[:0]
	m.indices = m.indices[:0]
	m.readable = true
}

func (m *Mesh) SetVertices(v []mgl32.Vec3) {
	m.vertices = append(m.vertices[:0], v...)
}

func (m *Mesh) SetIndices(idx []uint32, topology core.Topology) {
	m.indices = append(m.indices[:0], idx...)
	m.topology = topology
}

func (m *Mesh) SetBounds(b core.Bounds) { m.bounds = b }

func (m *Mesh) Upload(markNoLongerReadable bool) {
	m.releaseBuffers()
	if len(m.vertices) == 0 || len(m.indices) == 0 {
		return
	}

	var err error
	m.vertexBuf, err = m.dev.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    m.name + " Vertices",
		Contents: wgpu.ToBytes(m.vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		m.dev.logger.Warnf("gpu: upload %s vertices: %v", m.name, err)
		return
	}
	m.indexBuf, err = m.dev.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    m.name + " Indices",
		Contents: wgpu.ToBytes(m.indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		m.dev.logger.Warnf("gpu: upload %s indices: %v", m.name, err)
		m.releaseBuffers()
		return
	}
	m.indexCount = uint32(len(m.indices))
	m.dev.logger.Debugf("gpu: uploaded %s (%d vertices, %d indices, %s)",
		m.name, len(m.vertices), len(m.indices), m.topology)

	if markNoLongerReadable {
		m.vertices = nil
		m.indices = nil
		m.readable = false
	}
}

func (m *Mesh) releaseBuffers() {
	if m.vertexBuf != nil {
		m.vertexBuf.Release()
		m.vertexBuf = nil
	}
	if m.indexBuf != nil {
		m.indexBuf.Release()
		m.indexBuf = nil
	}
	m.indexCount = 0
}

func (m *Mesh) Release() {
	m.releaseBuffers()
	m.vertices = nil
	m.indices = nil
}

var _ core.Mesh = (*Mesh)(nil)
