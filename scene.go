package warpfx

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef describes a set of warp effects and the camera looking at them.
type SceneDef struct {
	Camera *CameraDef `json:"camera,omitempty" yaml:"camera,omitempty"`
	Warps  []WarpDef  `json:"warps" yaml:"warps"`
}

type CameraDef struct {
	Position mgl32.Vec3 `json:"position" yaml:"position"`
	Yaw      float32    `json:"yaw" yaml:"yaw"`
	Pitch    float32    `json:"pitch" yaml:"pitch"`
	FovY     float32    `json:"fov_y,omitempty" yaml:"fov_y,omitempty"`
	Layers   []int      `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// WarpDef is one warp effect instance. Shader is a path to a WGSL file,
// relative to the scene file.
type WarpDef struct {
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Position mgl32.Vec3 `json:"position" yaml:"position"`
	Rotation mgl32.Quat `json:"rotation" yaml:"rotation"`
	Scale    mgl32.Vec3 `json:"scale" yaml:"scale"`
	Layer    int        `json:"layer" yaml:"layer"`
	Enabled  bool       `json:"enabled" yaml:"enabled"`
	Shader   string     `json:"shader,omitempty" yaml:"shader,omitempty"`
	Config   WarpConfig `json:"config" yaml:"config"`
}

func DefaultWarpDef() WarpDef {
	return WarpDef{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Enabled:  true,
		Config:   DefaultWarpConfig(),
	}
}

// Fields missing from a scene file keep their defaults.

func (d *WarpDef) UnmarshalJSON(data []byte) error {
	type plain WarpDef
	p := plain(DefaultWarpDef())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = WarpDef(p)
	return nil
}

func (d *WarpDef) UnmarshalYAML(node *yaml.Node) error {
	type plain WarpDef
	p := plain(DefaultWarpDef())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = WarpDef(p)
	return nil
}

func (d WarpDef) Transform() TransformComponent {
	return TransformComponent{
		Position: d.Position,
		Rotation: d.Rotation,
		Scale:    d.Scale,
	}
}

func (c CameraDef) Apply(cam *CameraState) {
	cam.Position = c.Position
	cam.Yaw = mgl32.DegToRad(c.Yaw)
	cam.Pitch = mgl32.DegToRad(c.Pitch)
	if c.FovY > 0 {
		cam.FovY = c.FovY
	}
	if len(c.Layers) > 0 {
		cam.LayerMask = 0
		for _, l := range c.Layers {
			if l >= 0 && l < 32 {
				cam.LayerMask |= 1 << uint(l)
			}
		}
	}
}
