package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingDevice_Draw(t *testing.T) {
	dev := NewRecordingDevice()
	var _ Device = dev

	mesh := dev.NewMesh("lines")
	mesh.SetVertices(make([]mgl32.Vec3, 4))
	mesh.SetIndices([]uint32{0, 1, 2, 3}, TopologyLines)
	mesh.Upload(true)

	mat := dev.NewMaterial(nil)
	mat.SetFloat("Time", 1)
	dev.DrawMesh(mesh, mgl32.Ident4(), mat, 3)

	// the draw keeps its own copy of the parameters
	mat.SetFloat("Time", 2)

	require.Len(t, dev.Draws, 1)
	assert.Equal(t, 3, dev.Draws[0].Layer)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0}, dev.Draws[0].Params["Time"])

	rm := dev.Meshes[0]
	assert.Equal(t, "lines", rm.Name())
	assert.Equal(t, 4, rm.Uploaded)
	assert.Equal(t, 1, rm.UploadCount)
	assert.False(t, rm.Readable)
	assert.Equal(t, 2, dev.Materials[0].Writes)

	dev.Reset()
	assert.Empty(t, dev.Draws)
	assert.Len(t, dev.Meshes, 1)
}

func TestRecordingDevice_ClearAndRelease(t *testing.T) {
	dev := NewRecordingDevice()
	mesh := dev.NewMesh("m")
	mesh.SetVertices(make([]mgl32.Vec3, 2))
	mesh.SetBounds(Bounds{Max: mgl32.Vec3{1, 1, 1}})
	mesh.Clear()

	rm := dev.Meshes[0]
	assert.Empty(t, rm.Vertices)
	assert.Equal(t, Bounds{}, rm.Bounds)

	mesh.Release()
	dev.NewMaterial(nil).Release()
	assert.Equal(t, 1, rm.Released)
	assert.Equal(t, 1, dev.Materials[0].Released)
}
