// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"goq3bsp/math"
	"goq3bsp/math/vec"
	"goq3bsp/qerr"
)

const DefaultSubdivisions = 10

// patchVertex keeps the color in float so blending twice does not round twice.
type patchVertex struct {
	pos, normal vec.Vec3
	tc, lm      vec.Vec2
	color       [4]float32
}

func toPatch(v *Vertex) patchVertex {
	p := patchVertex{
		pos:    v.Position,
		normal: v.Normal,
		tc:     v.TexCoord,
		lm:     v.LightmapCoord,
	}
	for i, c := range v.Color {
		p.color[i] = float32(c)
	}
	return p
}

func (p *patchVertex) vertex() Vertex {
	v := Vertex{
		Position:      p.pos,
		Normal:        p.normal,
		TexCoord:      p.tc,
		LightmapCoord: p.lm,
	}
	for i, c := range p.color {
		v.Color[i] = math.ColorByte(c)
	}
	return v
}

// bezier evaluates b²·p0 + 2ab·p1 + a²·p2.
func bezier(p0, p1, p2 *patchVertex, a float32) patchVertex {
	b := 1 - a
	w0, w1, w2 := b*b, 2*a*b, a*a
	v3 := func(x, y, z vec.Vec3) vec.Vec3 {
		return vec.Add(vec.Add(x.Scale(w0), y.Scale(w1)), z.Scale(w2))
	}
	v2 := func(x, y, z vec.Vec2) vec.Vec2 {
		return vec.Add2(vec.Add2(x.Scale(w0), y.Scale(w1)), z.Scale(w2))
	}
	r := patchVertex{
		pos:    v3(p0.pos, p1.pos, p2.pos),
		normal: v3(p0.normal, p1.normal, p2.normal),
		tc:     v2(p0.tc, p1.tc, p2.tc),
		lm:     v2(p0.lm, p1.lm, p2.lm),
	}
	for i := range r.color {
		r.color[i] = w0*p0.color[i] + w1*p1.color[i] + w2*p2.color[i]
	}
	return r
}

// Tessellate replaces every patch by a grid of (level+1)² vertices per 3x3
// control net. A level below 1 selects DefaultSubdivisions.
func (in *Indexed) Tessellate(level int) (*Tessellated, error) {
	b, err := in.take()
	if err != nil {
		return nil, err
	}
	if level < 1 {
		level = DefaultSubdivisions
	}
	for i := range b.Faces {
		f := &b.Faces[i]
		if f.Kind != KindPatch {
			continue
		}
		w, h := f.PatchSize[0], f.PatchSize[1]
		if w < 3 || h < 3 || w%2 == 0 || h%2 == 0 {
			return nil, qerr.InFile(qerr.Format("face %d: bad patch size %dx%d", i, w, h), b.Name)
		}
		if !f.Vertices.within(len(b.Vertices)) || w*h > f.Vertices.Count {
			return nil, qerr.InFile(qerr.Format("face %d: %dx%d patch with vertices %d+%d of %d",
				i, w, h, f.Vertices.First, f.Vertices.Count, len(b.Vertices)), b.Name)
		}
		vstart, istart := len(b.Vertices), len(b.Indices)
		for m := 0; m < (h-1)/2; m++ {
			for n := 0; n < (w-1)/2; n++ {
				var ctrl [9]patchVertex
				for y := 0; y < 3; y++ {
					for x := 0; x < 3; x++ {
						idx := f.Vertices.First + (2*m+y)*w + 2*n + x
						ctrl[y*3+x] = toPatch(&b.Vertices[idx])
					}
				}
				base := len(b.Vertices)
				b.Vertices = appendNet(b.Vertices, &ctrl, level)
				b.Indices = appendGrid(b.Indices, base, level)
			}
		}
		f.Vertices = Range{vstart, len(b.Vertices) - vstart}
		f.Draw = Range{istart, len(b.Indices) - istart}
	}
	return &Tessellated{stage{buffers: b}}, nil
}

func appendNet(vs []Vertex, ctrl *[9]patchVertex, level int) []Vertex {
	l := float32(level)
	for i := 0; i <= level; i++ {
		a := float32(i) / l
		var col [3]patchVertex
		for k := 0; k < 3; k++ {
			col[k] = bezier(&ctrl[k], &ctrl[k+3], &ctrl[k+6], a)
		}
		for j := 0; j <= level; j++ {
			v := bezier(&col[0], &col[1], &col[2], float32(j)/l)
			vs = append(vs, v.vertex())
		}
	}
	return vs
}

func appendGrid(idx []uint32, base, level int) []uint32 {
	at := func(i, j int) uint32 {
		return uint32(base + i*(level+1) + j)
	}
	for i := 0; i < level; i++ {
		for j := 0; j < level; j++ {
			idx = append(idx,
				at(i, j), at(i, j+1), at(i+1, j+1),
				at(i+1, j+1), at(i+1, j), at(i, j))
		}
	}
	return idx
}
