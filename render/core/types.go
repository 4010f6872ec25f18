package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA color. Channels may exceed 1 for HDR inputs.
type Color struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
	A float32 `json:"a" yaml:"a"`
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

func NewColor(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Bounds is an axis aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewBoundsCenterSize(center, size mgl32.Vec3) Bounds {
	half := size.Mul(0.5)
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Bounds) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Corners returns the eight corners of the box.
func (b Bounds) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		x, y, z := b.Min.X(), b.Min.Y(), b.Min.Z()
		if i&1 != 0 {
			x = b.Max.X()
		}
		if i&2 != 0 {
			y = b.Max.Y()
		}
		if i&4 != 0 {
			z = b.Max.Z()
		}
		out[i] = mgl32.Vec3{x, y, z}
	}
	return out
}

// Transform returns the axis aligned box enclosing b after applying m.
func (b Bounds) Transform(m mgl32.Mat4) Bounds {
	corners := b.Corners()
	first := m.Mul4x1(corners[0].Vec4(1)).Vec3()
	res := Bounds{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.Mul4x1(c.Vec4(1)).Vec3()
		for i := 0; i < 3; i++ {
			if p[i] < res.Min[i] {
				res.Min[i] = p[i]
			}
			if p[i] > res.Max[i] {
				res.Max[i] = p[i]
			}
		}
	}
	return res
}

// Shader is a shader program reference. Params lists the uniform
// parameters the program reads, in declaration order; each one occupies
// a vec4 slot in the material uniform block.
type Shader struct {
	Name   string
	Source string
	Params []string
}

// ParamSlot returns the uniform slot of name, or -1 if the shader does not
// declare it.
func (s *Shader) ParamSlot(name string) int {
	if s == nil {
		return -1
	}
	for i, p := range s.Params {
		if p == name {
			return i
		}
	}
	return -1
}
