package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ditho/warpfx/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// objectSlot is the per-draw uniform pair. Slots are pooled by draw index
// so each draw in a frame keeps its own model matrix and parameters until
// the queue is submitted.
type objectSlot struct {
	object      *wgpu.Buffer
	objectGroup *wgpu.BindGroup

	params      *wgpu.Buffer
	paramsGroup *wgpu.BindGroup
}

func (d *Device) slot(i int, mat *Material) (*objectSlot, error) {
	for len(d.slots) <= i {
		s, err := d.newSlot(len(d.slots))
		if err != nil {
			return nil, err
		}
		d.slots = append(d.slots, s)
	}
	s := d.slots[i]

	need := mat.paramsSize()
	if s.params == nil || s.params.GetSize() < need {
		if err := d.growParams(s, i, need); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (d *Device) newSlot(i int) (*objectSlot, error) {
	s := &objectSlot{}
	var err error
	s.object, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("WarpObject%d", i),
		Size:  mat4Size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create object buffer: %w", err)
	}
	s.objectGroup, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: d.objectLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: s.object, Size: mat4Size},
		},
	})
	if err != nil {
		s.release()
		return nil, fmt.Errorf("create object bind group: %w", err)
	}
	return s, nil
}

func (d *Device) growParams(s *objectSlot, i int, size uint64) error {
	if s.paramsGroup != nil {
		s.paramsGroup.Release()
		s.paramsGroup = nil
	}
	if s.params != nil {
		s.params.Release()
		s.params = nil
	}

	var err error
	s.params, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("WarpParams%d", i),
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	s.paramsGroup, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: d.paramsLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: s.params, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("create params bind group: %w", err)
	}
	return nil
}

func (s *objectSlot) release() {
	if s.objectGroup != nil {
		s.objectGroup.Release()
	}
	if s.object != nil {
		s.object.Release()
	}
	if s.paramsGroup != nil {
		s.paramsGroup.Release()
	}
	if s.params != nil {
		s.params.Release()
	}
	*s = objectSlot{}
}

// ExtractFrustum returns the six clip planes of viewProj as (a, b, c, d)
// with normals pointing inward, using the -1..1 clip depth of mgl32.Perspective.
func ExtractFrustum(viewProj mgl32.Mat4) [6]mgl32.Vec4 {
	row := func(i int) mgl32.Vec4 { return viewProj.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	for i, p := range planes {
		l := p.Vec3().Len()
		if l > 0 {
			planes[i] = p.Mul(1 / l)
		}
	}
	return planes
}

// BoundsInFrustum reports whether any part of b may lie inside the planes.
func BoundsInFrustum(planes [6]mgl32.Vec4, b core.Bounds) bool {
	for _, p := range planes {
		// farthest corner along the plane normal
		v := b.Min
		if p.X() >= 0 {
			v[0] = b.Max.X()
		}
		if p.Y() >= 0 {
			v[1] = b.Max.Y()
		}
		if p.Z() >= 0 {
			v[2] = b.Max.Z()
		}
		if p.Vec3().Dot(v)+p.W() < 0 {
			return false
		}
	}
	return true
}
