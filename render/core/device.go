package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Topology is the primitive layout an index list is interpreted with.
type Topology uint32

const (
	TopologyPoints Topology = iota
	TopologyLines
	TopologyLineStrip
	TopologyTriangles
)

func (t Topology) String() string {
	switch t {
	case TopologyPoints:
		return "points"
	case TopologyLines:
		return "lines"
	case TopologyLineStrip:
		return "line-strip"
	case TopologyTriangles:
		return "triangles"
	}
	return "unknown"
}

// Device is the slice of a rendering backend an effect talks to.
// Implementations decide what an absent shader or an unknown parameter
// name does; callers never see an error for either.
type Device interface {
	NewMesh(name string) Mesh
	NewMaterial(shader *Shader) Material
	DrawMesh(mesh Mesh, transform mgl32.Mat4, material Material, layer int)
}

// Mesh is a device geometry resource. Vertex and index data are staged
// on the CPU until Upload.
type Mesh interface {
	Name() string
	Clear()
	SetVertices(vertices []mgl32.Vec3)
	SetIndices(indices []uint32, topology Topology)
	SetBounds(bounds Bounds)
	// Upload pushes staged data to device memory. When markNoLongerReadable
	// is set the CPU copy is dropped and cannot be read back.
	Upload(markNoLongerReadable bool)
	Release()
}

// Material is an instantiation of a shader with its own parameter values.
type Material interface {
	Shader() *Shader
	SetVector(name string, v mgl32.Vec4)
	SetColor(name string, c Color)
	SetFloat(name string, f float32)
	Release()
}
