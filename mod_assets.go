package warpfx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ditho/warpfx/render/core"
	"github.com/google/uuid"
)

type AssetId string

// AssetServer owns shader programs by id. Effects hold the *core.Shader
// directly; the id is how scenes refer to them.
type AssetServer struct {
	shaders map[AssetId]*core.Shader
	byPath  map[string]AssetId
	ids     map[*core.Shader]AssetId
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		shaders: make(map[AssetId]*core.Shader),
		byPath:  make(map[string]AssetId),
		ids:     make(map[*core.Shader]AssetId),
	}
}

// CreateShader registers WGSL source under a fresh id.
func (server *AssetServer) CreateShader(name string, source string, params ...string) (AssetId, *core.Shader) {
	id := makeAssetId()
	shader := &core.Shader{
		Name:   name,
		Source: source,
		Params: params,
	}
	server.shaders[id] = shader
	server.ids[shader] = id
	return id, shader
}

// LoadShader reads a WGSL file. Loading the same path twice returns the
// first shader.
func (server *AssetServer) LoadShader(filename string, params ...string) (AssetId, *core.Shader, error) {
	key, err := filepath.Abs(filename)
	if err != nil {
		key = filepath.Clean(filename)
	}
	if id, ok := server.byPath[key]; ok {
		return id, server.shaders[id], nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return "", nil, fmt.Errorf("load shader %s: %w", filename, err)
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		return "", nil, fmt.Errorf("load shader %s: empty source", filename)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	id, shader := server.CreateShader(name, string(source), params...)
	server.byPath[key] = id
	return id, shader, nil
}

func (server *AssetServer) Shader(id AssetId) (*core.Shader, bool) {
	shader, ok := server.shaders[id]
	return shader, ok
}

// ShaderPath returns the absolute path a shader was loaded from, if any.
func (server *AssetServer) ShaderPath(shader *core.Shader) (string, bool) {
	id, ok := server.ids[shader]
	if !ok {
		return "", false
	}
	for path, pid := range server.byPath {
		if pid == id {
			return path, true
		}
	}
	return "", false
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
