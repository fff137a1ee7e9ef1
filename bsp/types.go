// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
)

const (
	Version = 46

	LightmapSize = 128
)

var Magic = [4]byte{'I', 'B', 'S', 'P'}

// Lump indices, in file order.
const (
	LumpEntities = iota
	LumpTextures
	LumpPlanes
	LumpNodes
	LumpLeafs
	LumpLeafFaces
	LumpLeafBrushes
	LumpModels
	LumpBrushes
	LumpBrushSides
	LumpVertexes
	LumpMeshVerts
	LumpEffects
	LumpFaces
	LumpLightmaps
	LumpLightVols
	LumpVisData
	LumpCount
)

// called direntry in the file format description
type Lump struct {
	Offset int32
	Length int32
}

type header struct {
	Magic   [4]byte
	Version int32
	Lumps   [LumpCount]Lump
}

// Face types
const (
	FacePolygon   = 1
	FacePatch     = 2
	FaceMesh      = 3
	FaceBillboard = 4
)

// Surface flags
const (
	SurfNoDamage   = 0x1
	SurfSlick      = 0x2
	SurfSky        = 0x4
	SurfLadder     = 0x8
	SurfNoImpact   = 0x10
	SurfNoMarks    = 0x20
	SurfFlesh      = 0x40
	SurfNoDraw     = 0x80
	SurfHint       = 0x100
	SurfSkip       = 0x200
	SurfNoLightMp  = 0x400
	SurfPointLight = 0x800
	SurfMetalSteps = 0x1000
	SurfNoSteps    = 0x2000
	SurfNonSolid   = 0x4000
)

// Content flags
const (
	ContentsSolid       = 0x1
	ContentsLava        = 0x8
	ContentsSlime       = 0x10
	ContentsWater       = 0x20
	ContentsFog         = 0x40
	ContentsAreaPortal  = 0x8000
	ContentsPlayerClip  = 0x10000
	ContentsMonsterClip = 0x20000
	ContentsTranslucent = 0x20000000
)

type Texture struct {
	RawName  [64]byte
	Flags    int32
	Contents int32
}

// NewTexture builds a texture record. Names longer than 63 bytes are cut.
func NewTexture(name string, flags, contents int32) Texture {
	t := Texture{Flags: flags, Contents: contents}
	copy(t.RawName[:len(t.RawName)-1], name)
	return t
}

func (t *Texture) Name() string {
	return cString(t.RawName[:])
}

type Plane struct {
	Normal [3]float32
	Dist   float32
}

type Node struct {
	Plane    int32
	Children [2]int32 // negative numbers are leafs: -(leaf+1)
	Mins     [3]int32
	Maxs     [3]int32
}

type Leaf struct {
	Cluster        int32 // -1 is outside the map
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	LeafFace       int32
	NumLeafFaces   int32
	LeafBrush      int32
	NumLeafBrushes int32
}

type Model struct {
	Mins       [3]float32
	Maxs       [3]float32
	Face       int32
	NumFaces   int32
	Brush      int32
	NumBrushes int32
}

type Brush struct {
	BrushSide     int32
	NumBrushSides int32
	Texture       int32
}

type BrushSide struct {
	Plane   int32
	Texture int32
}

type Vertex struct {
	Position      [3]float32
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        [3]float32
	Color         [4]byte
}

type Effect struct {
	RawName [64]byte
	Brush   int32
	Unknown int32 // always 5 except in q3dm8
}

func (e *Effect) Name() string {
	return cString(e.RawName[:])
}

type Face struct {
	Texture        int32
	Effect         int32 // -1 for none
	Type           int32
	Vertex         int32
	NumVertexes    int32
	MeshVert       int32
	NumMeshVerts   int32
	LightmapIndex  int32 // -1 for none
	LightmapStart  [2]int32
	LightmapSize   [2]int32
	LightmapOrigin [3]float32
	LightmapVecs   [2][3]float32
	Normal         [3]float32
	Size           [2]int32 // patch control grid dimensions
}

type Lightmap [LightmapSize][LightmapSize][3]byte

type LightVol struct {
	Ambient     [3]byte
	Directional [3]byte
	Dir         [2]byte // phi, theta
}

// VisData is kept as read. The bits are never interpreted here.
type VisData struct {
	Vectors int32
	Size    int32
	Bits    []byte
}

func cString(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}
