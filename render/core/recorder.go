package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RecordingDevice is a headless Device that keeps every resource and draw
// call it is handed. It backs tests and offline previews where no GPU is
// available.
type RecordingDevice struct {
	Meshes    []*RecordedMesh
	Materials []*RecordedMaterial
	Draws     []DrawCall
}

type DrawCall struct {
	Mesh      Mesh
	Transform mgl32.Mat4
	Material  Material
	Layer     int
	// Params is a snapshot of the material parameters at submission time.
	Params map[string]mgl32.Vec4
}

func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{}
}

func (d *RecordingDevice) NewMesh(name string) Mesh {
	m := &RecordedMesh{name: name, Readable: true}
	d.Meshes = append(d.Meshes, m)
	return m
}

func (d *RecordingDevice) NewMaterial(shader *Shader) Material {
	m := &RecordedMaterial{shader: shader, Params: make(map[string]mgl32.Vec4)}
	d.Materials = append(d.Materials, m)
	return m
}

func (d *RecordingDevice) DrawMesh(mesh Mesh, transform mgl32.Mat4, material Material, layer int) {
	call := DrawCall{
		Mesh:      mesh,
		Transform: transform,
		Material:  material,
		Layer:     layer,
	}
	if rm, ok := material.(*RecordedMaterial); ok {
		call.Params = make(map[string]mgl32.Vec4, len(rm.Params))
		for k, v := range rm.Params {
			call.Params[k] = v
		}
	}
	d.Draws = append(d.Draws, call)
}

// Reset forgets recorded draws but keeps the resource lists.
func (d *RecordingDevice) Reset() {
	d.Draws = d.Draws[:0]
}

type RecordedMesh struct {
	name string

	Vertices []mgl32.Vec3
	Indices  []uint32
	Topology Topology
	Bounds   Bounds

	// Uploaded holds the vertex count of the most recent upload.
	Uploaded    int
	UploadCount int
	Readable    bool
	Released    int
}

func (m *RecordedMesh) Name() string { return m.name }

func (m *RecordedMesh) Clear() {
	m.Vertices = nil
	m.Indices = nil
	m.Bounds = Bounds{}
}

func (m *RecordedMesh) SetVertices(vertices []mgl32.Vec3) {
	m.Vertices = vertices
}

func (m *RecordedMesh) SetIndices(indices []uint32, topology Topology) {
	m.Indices = indices
	m.Topology = topology
}

func (m *RecordedMesh) SetBounds(bounds Bounds) {
	m.Bounds = bounds
}

func (m *RecordedMesh) Upload(markNoLongerReadable bool) {
	m.Uploaded = len(m.Vertices)
	m.UploadCount++
	m.Readable = !markNoLongerReadable
}

func (m *RecordedMesh) Release() {
	m.Released++
}

type RecordedMaterial struct {
	shader   *Shader
	Params   map[string]mgl32.Vec4
	Writes   int
	Released int
}

func (m *RecordedMaterial) Shader() *Shader { return m.shader }

func (m *RecordedMaterial) SetVector(name string, v mgl32.Vec4) {
	m.Params[name] = v
	m.Writes++
}

func (m *RecordedMaterial) SetColor(name string, c Color) {
	m.Params[name] = c.Vec4()
	m.Writes++
}

func (m *RecordedMaterial) SetFloat(name string, f float32) {
	m.Params[name] = mgl32.Vec4{f, 0, 0, 0}
	m.Writes++
}

func (m *RecordedMaterial) Release() {
	m.Released++
}
