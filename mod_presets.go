package warpfx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadScene reads a scene from JSON or YAML, chosen by file extension.
func LoadScene(filename string) (SceneDef, error) {
	var def SceneDef
	data, err := os.ReadFile(filename)
	if err != nil {
		return def, fmt.Errorf("load scene: %w", err)
	}
	if isYAML(filename) {
		err = yaml.Unmarshal(data, &def)
	} else {
		err = json.Unmarshal(data, &def)
	}
	if err != nil {
		return def, fmt.Errorf("parse scene %s: %w", filename, err)
	}
	return def, nil
}

func SaveScene(filename string, def SceneDef) error {
	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(def)
	} else {
		data, err = json.MarshalIndent(def, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// SpawnScene queues one entity per warp in def. Shader paths are resolved
// against baseDir. A shader that fails to load is logged and the effect
// is spawned without one.
func SpawnScene(cmd *Commands, server *AssetServer, def SceneDef, baseDir string) []EntityId {
	logger := cmd.app.Logger()

	if def.Camera != nil {
		if cam := Resource[CameraState](cmd.app); cam != nil {
			def.Camera.Apply(cam)
		}
	}

	var entities []EntityId
	for _, w := range def.Warps {
		cfg := w.Config
		if w.Shader != "" {
			path := w.Shader
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			_, shader, err := server.LoadShader(path, WarpParams...)
			if err != nil {
				logger.Warnf("warp %q: %v", w.Name, err)
			} else {
				cfg.Shader = shader
			}
		}

		wc := NewWarpComponent(cfg)
		wc.Layer = w.Layer
		wc.Enabled = w.Enabled

		components := []any{wc, w.Transform()}
		if w.Name != "" {
			components = append(components, NameComponent{Name: w.Name})
		}
		entities = append(entities, cmd.AddEntity(components...))
	}
	logger.Infof("Spawned %d warp effects", len(entities))
	return entities
}

type NameComponent struct {
	Name string
}

// CaptureScene builds a SceneDef from the live warp entities.
func CaptureScene(cmd *Commands, server *AssetServer) SceneDef {
	var def SceneDef
	MakeQuery2[WarpComponent, TransformComponent](cmd).Map(func(eid EntityId, wc *WarpComponent, tr *TransformComponent) bool {
		w := DefaultWarpDef()
		w.Layer = wc.Layer
		w.Enabled = wc.Enabled
		w.Config = wc.Config
		if tr != nil {
			w.Position = tr.Position
			w.Rotation = tr.Rotation
			w.Scale = tr.Scale
		}
		if wc.Config.Shader != nil {
			if path, ok := server.ShaderPath(wc.Config.Shader); ok {
				w.Shader = path
			}
		}
		for _, c := range cmd.GetAllComponents(eid) {
			if n, ok := c.(NameComponent); ok {
				w.Name = n.Name
			}
		}
		def.Warps = append(def.Warps, w)
		return true
	}, TransformComponent{})

	if cam := Resource[CameraState](cmd.app); cam != nil {
		def.Camera = &CameraDef{
			Position: cam.Position,
			Yaw:      mgl32.RadToDeg(cam.Yaw),
			Pitch:    mgl32.RadToDeg(cam.Pitch),
			FovY:     cam.FovY,
		}
		if cam.LayerMask != AllLayers {
			for l := 0; l < 32; l++ {
				if cam.SeesLayer(l) {
					def.Camera.Layers = append(def.Camera.Layers, l)
				}
			}
		}
	}
	return def
}
