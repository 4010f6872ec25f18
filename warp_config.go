package warpfx

import (
	"math"

	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// WarpConfig holds the tunables of a warp effect. It is read once per
// frame; edits go through Validate before they reach the effect.
type WarpConfig struct {
	LineCount int `json:"line_count" yaml:"line_count"`

	Depth  float32    `json:"depth" yaml:"depth"`
	Cutoff float32    `json:"cutoff" yaml:"cutoff"`
	Extent mgl32.Vec3 `json:"extent" yaml:"extent"`

	Speed            float32 `json:"speed" yaml:"speed"`
	SpeedRandomness  float32 `json:"speed_randomness" yaml:"speed_randomness"`   // 0..1
	Length           float32 `json:"length" yaml:"length"`                       // 0..0.5
	LengthRandomness float32 `json:"length_randomness" yaml:"length_randomness"` // 0..1

	LineColor      core.Color `json:"line_color" yaml:"line_color"`
	SparkleColor   core.Color `json:"sparkle_color" yaml:"sparkle_color"`
	SparkleDensity float32    `json:"sparkle_density" yaml:"sparkle_density"` // 0..1

	Shader *core.Shader `json:"-" yaml:"-"`
}

const (
	DefaultLineCount = 1000
	MaxLength        = 0.5
)

func DefaultWarpConfig() WarpConfig {
	return WarpConfig{
		LineCount:        DefaultLineCount,
		Depth:            0.487,
		Cutoff:           0.1,
		Extent:           mgl32.Vec3{1, 1, 1},
		Speed:            1,
		SpeedRandomness:  0.5,
		Length:           0.1,
		LengthRandomness: 0.5,
		LineColor:        core.White,
		SparkleColor:     core.White,
		SparkleDensity:   0.5,
	}
}

// Validate clamps every field into its editable range and puts NaN fields
// back to their defaults. Invalid input is corrected, never reported.
func (c *WarpConfig) Validate() {
	def := DefaultWarpConfig()
	c.Depth = orDefault(c.Depth, def.Depth)
	c.Cutoff = orDefault(c.Cutoff, def.Cutoff)
	for i := range c.Extent {
		c.Extent[i] = orDefault(c.Extent[i], def.Extent[i])
	}
	c.Speed = orDefault(c.Speed, def.Speed)
	c.SpeedRandomness = orDefault(c.SpeedRandomness, def.SpeedRandomness)
	c.Length = orDefault(c.Length, def.Length)
	c.LengthRandomness = orDefault(c.LengthRandomness, def.LengthRandomness)
	c.LineColor = colorOrDefault(c.LineColor, def.LineColor)
	c.SparkleColor = colorOrDefault(c.SparkleColor, def.SparkleColor)
	c.SparkleDensity = orDefault(c.SparkleDensity, def.SparkleDensity)

	c.LineCount = clampLineCount(c.LineCount)
	c.SpeedRandomness = clamp01(c.SpeedRandomness)
	c.Length = mgl32.Clamp(c.Length, 0, MaxLength)
	c.LengthRandomness = clamp01(c.LengthRandomness)
	c.SparkleDensity = clamp01(c.SparkleDensity)
}

func clampLineCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// orDefault returns def when v is NaN.
func orDefault(v, def float32) float32 {
	if math.IsNaN(float64(v)) {
		return def
	}
	return v
}

func colorOrDefault(c, def core.Color) core.Color {
	return core.Color{
		R: orDefault(c.R, def.R),
		G: orDefault(c.G, def.G),
		B: orDefault(c.B, def.B),
		A: orDefault(c.A, def.A),
	}
}

func clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}
