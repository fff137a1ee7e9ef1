// SPDX-License-Identifier: GPL-2.0-or-later

package md3

import (
	"bytes"

	"goq3bsp/math/vec"
)

const (
	Version = 15
	// positions are stored in 1/64 units
	Scale = 1.0 / 64
)

var Magic = [4]byte{'I', 'D', 'P', '3'}

const (
	headerSize  = 4 + 4 + 64 + 4 + 4*4 + 4*4
	surfaceSize = 4 + 64 + 4*10
	frameSize   = 3*4 + 3*4 + 3*4 + 4 + 16
	shaderSize  = 64 + 4
	vertexSize  = 3*2 + 2
	stSize      = 2 * 4
	triSize     = 3 * 4
)

type header struct {
	Magic          [4]byte
	Version        int32
	Name           [64]byte
	Flags          int32
	FrameCount     int32
	TagCount       int32
	SurfaceCount   int32
	SkinCount      int32
	FramesOffset   int32
	TagsOffset     int32
	SurfacesOffset int32
	EndOffset      int32
}

// Offsets are relative to the start of the surface.
type surfaceHeader struct {
	Magic           [4]byte
	Name            [64]byte
	Flags           int32
	FrameCount      int32
	ShaderCount     int32
	VertexCount     int32
	TriangleCount   int32
	TrianglesOffset int32
	ShadersOffset   int32
	STOffset        int32
	VerticesOffset  int32
	EndOffset       int32
}

type Frame struct {
	Mins   [3]float32
	Maxs   [3]float32
	Origin [3]float32
	Radius float32
	Name   [16]byte
}

type shader struct {
	Name  [64]byte
	Index int32
}

type Triangle [3]int32

type TexCoord [2]float32

// Vertex is one frame vertex. Position is in 1/64 units, Normal is packed
// as latitude (high byte) and longitude (low byte).
type Vertex struct {
	Position [3]int16
	Normal   uint16
}

type Surface struct {
	Name      string
	Shaders   []string
	Triangles []Triangle
	TexCoords []TexCoord
	// first frame only
	Vertices []Vertex
}

type Model struct {
	name     string
	Frames   []Frame
	Surfaces []*Surface
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Mins() vec.Vec3 {
	if len(m.Frames) == 0 {
		return vec.Vec3{}
	}
	return vec.VFromA(m.Frames[0].Mins)
}

func (m *Model) Maxs() vec.Vec3 {
	if len(m.Frames) == 0 {
		return vec.Vec3{}
	}
	return vec.VFromA(m.Frames[0].Maxs)
}

// VertexCount returns the vertices of all surfaces.
func (m *Model) VertexCount() int {
	n := 0
	for _, s := range m.Surfaces {
		n += len(s.Vertices)
	}
	return n
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
