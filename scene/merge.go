// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"goq3bsp/bsp"
	"goq3bsp/math"
	"goq3bsp/math/vec"
	"goq3bsp/md3"
	"goq3bsp/model"
	"goq3bsp/qerr"
)

// MD3Scale converts md3 units into map units.
const MD3Scale = md3.Scale

type ModelFunc func(name string) (*md3.Model, error)

// LoadModel loads name through the model registry.
func LoadModel(name string) (*md3.Model, error) {
	m, err := model.Load(name)
	if err != nil {
		return nil, err
	}
	mm, ok := m.(*md3.Model)
	if !ok {
		return nil, qerr.InFile(qerr.Format("not a md3 model"), name)
	}
	return mm, nil
}

// Merge copies f into scene buffers and appends one mesh face per surface of
// every placed model. f is not modified.
func Merge(f *bsp.File, placements []bsp.Placement, load ModelFunc) (*Merged, error) {
	b := buffers{
		Name:      f.Name(),
		Textures:  append([]bsp.Texture(nil), f.Textures...),
		Effects:   append([]bsp.Effect(nil), f.Effects...),
		Faces:     make([]Face, 0, len(f.Faces)),
		Vertices:  make([]Vertex, 0, len(f.Vertexes)),
		MeshVerts: append([]int32(nil), f.MeshVerts...),
		Vis:       f.VisData,
		Mins:      f.Mins(),
		Maxs:      f.Maxs(),
		lightmaps: f.Lightmaps,
	}
	for i := range f.Vertexes {
		b.Vertices = append(b.Vertices, vertexFromFile(&f.Vertexes[i]))
	}
	for i := range f.Faces {
		ff := &f.Faces[i]
		if int(ff.LightmapIndex) >= len(f.Lightmaps) {
			return nil, qerr.InFile(qerr.Format("face %d: lightmap %d of %d", i, ff.LightmapIndex, len(f.Lightmaps)), f.Name())
		}
		lm := int(ff.LightmapIndex)
		if lm < 0 {
			lm = -1
		}
		b.Faces = append(b.Faces, Face{
			Kind:      Kind(ff.Type),
			Texture:   int(ff.Texture),
			Effect:    int(ff.Effect),
			Lightmap:  lm,
			Vertices:  Range{int(ff.Vertex), int(ff.NumVertexes)},
			MeshVerts: Range{int(ff.MeshVert), int(ff.NumMeshVerts)},
			PatchSize: [2]int{int(ff.Size[0]), int(ff.Size[1])},
			Normal:    vec.VFromA(ff.Normal),
		})
	}
	if load == nil {
		load = LoadModel
	}
	for _, p := range placements {
		if p.Model == "" {
			continue
		}
		m, err := load(p.Model)
		if err != nil {
			return nil, errors.Wrapf(err, "%s at %v", p.Model, p.Origin)
		}
		b.appendModel(m, p)
	}
	return &Merged{stage{buffers: b}}, nil
}

func (b *buffers) appendModel(m *md3.Model, p bsp.Placement) {
	rot := mgl32.Rotate3DZ(math.Radians(p.Yaw))
	origin := mgl32.Vec3{p.Origin.X, p.Origin.Y, p.Origin.Z}
	b.Vertices = slices.Grow(b.Vertices, m.VertexCount())
	for _, s := range m.Surfaces {
		tex := -1
		for _, sh := range s.Shaders {
			if tex < 0 {
				tex = len(b.Textures)
			}
			b.Textures = append(b.Textures, bsp.NewTexture(sh, 0, bsp.ContentsSolid))
		}
		f := Face{
			Kind:      KindMesh,
			Texture:   tex,
			Effect:    -1,
			Lightmap:  -1,
			Vertices:  Range{len(b.Vertices), len(s.Vertices)},
			MeshVerts: Range{len(b.MeshVerts), 3 * len(s.Triangles)},
		}
		for i, v := range s.Vertices {
			pos := mgl32.Vec3{float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2])}
			pos = origin.Add(rot.Mul3x1(pos).Mul(MD3Scale))
			n := md3.DecodeNormal(v.Normal)
			nr := rot.Mul3x1(mgl32.Vec3{n.X, n.Y, n.Z})
			var tc vec.Vec2
			if i < len(s.TexCoords) {
				tc = vec.V2FromA(s.TexCoords[i])
			}
			b.Vertices = append(b.Vertices, Vertex{
				Position: vec.Vec3{X: pos[0], Y: pos[1], Z: pos[2]},
				TexCoord: tc,
				Normal:   vec.Vec3{X: nr[0], Y: nr[1], Z: nr[2]},
				Color:    [4]byte{255, 255, 255, 255},
			})
		}
		for _, t := range s.Triangles {
			b.MeshVerts = append(b.MeshVerts, t[0], t[1], t[2])
		}
		b.Faces = append(b.Faces, f)
	}
}
