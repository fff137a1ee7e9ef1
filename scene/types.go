// SPDX-License-Identifier: GPL-2.0-or-later

// Package scene turns a decoded map into draw ready buffers.
//
// The work is split into stages which have to run in order:
//
//	m, _ := Merge(file, placements, LoadModel)
//	i, _ := m.BuildIndices()
//	t, _ := i.Tessellate(DefaultSubdivisions)
//	s, _ := t.PackLightmaps(true)
//
// Every stage hands its buffers to the next one. A stage can only be used
// once, afterwards it is empty and returns ErrConsumed.
package scene

import (
	"image"

	"github.com/pkg/errors"

	"goq3bsp/bsp"
	"goq3bsp/math/vec"
)

var ErrConsumed = errors.New("scene: stage already used")

type Kind int32

const (
	KindPolygon   Kind = bsp.FacePolygon
	KindPatch     Kind = bsp.FacePatch
	KindMesh      Kind = bsp.FaceMesh
	KindBillboard Kind = bsp.FaceBillboard
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindPatch:
		return "patch"
	case KindMesh:
		return "mesh"
	case KindBillboard:
		return "billboard"
	}
	return "unknown"
}

type Range struct {
	First int
	Count int
}

func (r Range) End() int {
	return r.First + r.Count
}

func (r Range) within(n int) bool {
	return r.First >= 0 && r.Count >= 0 && r.End() <= n
}

type Face struct {
	Kind     Kind
	Texture  int
	Effect   int
	Lightmap int // -1 for none
	// Vertices is the current vertex range. For patches it is replaced by
	// the tessellated grid.
	Vertices Range
	// MeshVerts is the range of relative references as read from the map.
	MeshVerts Range
	// Draw is the range inside Indices, empty until the indices are built.
	Draw      Range
	PatchSize [2]int
	Normal    vec.Vec3
}

type Vertex struct {
	Position      vec.Vec3
	TexCoord      vec.Vec2
	LightmapCoord vec.Vec2
	Normal        vec.Vec3
	Color         [4]byte
}

func vertexFromFile(v *bsp.Vertex) Vertex {
	return Vertex{
		Position:      vec.VFromA(v.Position),
		TexCoord:      vec.V2FromA(v.TexCoord),
		LightmapCoord: vec.V2FromA(v.LightmapCoord),
		Normal:        vec.VFromA(v.Normal),
		Color:         v.Color,
	}
}

// buffers are the growing arrays passed from stage to stage.
type buffers struct {
	Name      string
	Textures  []bsp.Texture
	Effects   []bsp.Effect
	Faces     []Face
	Vertices  []Vertex
	MeshVerts []int32
	Indices   []uint32
	Vis       bsp.VisData
	Mins      vec.Vec3
	Maxs      vec.Vec3

	lightmaps []bsp.Lightmap
}

type stage struct {
	buffers
	used bool
}

// take moves the buffers out of s.
func (s *stage) take() (buffers, error) {
	if s.used {
		return buffers{}, ErrConsumed
	}
	b := s.buffers
	s.buffers = buffers{}
	s.used = true
	return b, nil
}

// Merged holds the map plus the merged external models.
type Merged struct {
	stage
}

// Indexed has draw ranges for all polygon and mesh faces.
type Indexed struct {
	stage
}

// Tessellated has draw ranges for all faces except billboards.
type Tessellated struct {
	stage
}

// Scene is the final result handed to the renderer.
type Scene struct {
	buffers

	Materials []Material
	// One image per lightmap of the map, followed by the fallback.
	Lightmaps        []*image.NRGBA
	FallbackLightmap int
	// Only set in atlas mode.
	Atlas         *image.NRGBA
	AtlasRemapped bool
}

// LightmapSlot returns the lightmap f is drawn with.
func (s *Scene) LightmapSlot(f *Face) int {
	if f.Lightmap < 0 {
		return s.FallbackLightmap
	}
	return f.Lightmap
}
