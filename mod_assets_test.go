package warpfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShaderSource = `@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }`

func TestAssetServer_CreateShader(t *testing.T) {
	server := NewAssetServer()
	id, shader := server.CreateShader("warp", testShaderSource, WarpParams...)

	require.NotEmpty(t, id)
	got, ok := server.Shader(id)
	require.True(t, ok)
	assert.Same(t, shader, got)
	assert.Equal(t, 0, shader.ParamSlot(ParamDepthParams))
	assert.Equal(t, len(WarpParams)-1, shader.ParamSlot(ParamLocalTime))

	_, ok = server.ShaderPath(shader)
	assert.False(t, ok, "created shaders have no file")

	id2, _ := server.CreateShader("warp", testShaderSource)
	assert.NotEqual(t, id, id2)
}

func TestAssetServer_LoadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warp.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testShaderSource), 0644))

	server := NewAssetServer()
	id, shader, err := server.LoadShader(path, WarpParams...)
	require.NoError(t, err)
	assert.Equal(t, "warp", shader.Name)
	assert.Equal(t, testShaderSource, shader.Source)

	id2, shader2, err := server.LoadShader(filepath.Join(dir, ".", "warp.wgsl"))
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Same(t, shader, shader2)

	p, ok := server.ShaderPath(shader)
	require.True(t, ok)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "warp.wgsl", filepath.Base(p))
}

func TestAssetServer_LoadShaderErrors(t *testing.T) {
	dir := t.TempDir()
	server := NewAssetServer()

	_, _, err := server.LoadShader(filepath.Join(dir, "missing.wgsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.wgsl")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0644))
	_, _, err = server.LoadShader(empty)
	assert.ErrorContains(t, err, "empty source")
}
