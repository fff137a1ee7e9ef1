// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"io"

	"goq3bsp/filesystem"
	"goq3bsp/math/vec"
	"goq3bsp/model"
	"goq3bsp/qerr"
)

func init() {
	model.Register(Magic, load)
}

var lumpNames = [LumpCount]string{
	"entities", "textures", "planes", "nodes", "leafs", "leaffaces",
	"leafbrushes", "models", "brushes", "brushsides", "vertexes",
	"meshverts", "effects", "faces", "lightmaps", "lightvols", "visdata",
}

// On disk sizes of the records. The entity and vis lumps have none.
var recordSizes = [LumpCount]int64{
	LumpTextures:    64 + 4 + 4,
	LumpPlanes:      4*3 + 4,
	LumpNodes:       4 + 2*4 + 3*4 + 3*4,
	LumpLeafs:       4 + 4 + 3*4 + 3*4 + 4*4,
	LumpLeafFaces:   4,
	LumpLeafBrushes: 4,
	LumpModels:      3*4 + 3*4 + 4*4,
	LumpBrushes:     3 * 4,
	LumpBrushSides:  2 * 4,
	LumpVertexes:    3*4 + 2*4 + 2*4 + 3*4 + 4,
	LumpMeshVerts:   4,
	LumpEffects:     64 + 4 + 4,
	LumpFaces:       8*4 + 2*4 + 2*4 + 3*4 + 2*3*4 + 3*4 + 2*4,
	LumpLightmaps:   LightmapSize * LightmapSize * 3,
	LumpLightVols:   3 + 3 + 2,
}

// RecordSize returns the size of one record of lump l, 0 for lumps that do
// not hold a record array.
func RecordSize(l int) int64 {
	if l < 0 || l >= LumpCount {
		return 0
	}
	return recordSizes[l]
}

func LumpName(l int) string {
	if l < 0 || l >= LumpCount {
		return "unknown"
	}
	return lumpNames[l]
}

// File is a decoded map. Nothing in it is interpreted beyond the record
// layout.
type File struct {
	name  string
	Lumps [LumpCount]Lump

	// Exactly the bytes of the entity lump, no terminator.
	Entities []byte

	Textures    []Texture
	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []int32
	LeafBrushes []int32
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Vertexes    []Vertex
	MeshVerts   []int32
	Effects     []Effect
	Faces       []Face
	Lightmaps   []Lightmap
	LightVols   []LightVol
	VisData     VisData
}

func (f *File) Name() string {
	return f.name
}

func (f *File) SetName(n string) {
	f.name = n
}

// Mins returns the lower bound of the world model.
func (f *File) Mins() vec.Vec3 {
	if len(f.Models) == 0 {
		return vec.Vec3{}
	}
	return vec.VFromA(f.Models[0].Mins)
}

func (f *File) Maxs() vec.Vec3 {
	if len(f.Models) == 0 {
		return vec.Vec3{}
	}
	return vec.VFromA(f.Models[0].Maxs)
}

// Count returns the number of records decoded for lump l.
func (f *File) Count(l int) int {
	switch l {
	case LumpEntities:
		return len(f.Entities)
	case LumpTextures:
		return len(f.Textures)
	case LumpPlanes:
		return len(f.Planes)
	case LumpNodes:
		return len(f.Nodes)
	case LumpLeafs:
		return len(f.Leafs)
	case LumpLeafFaces:
		return len(f.LeafFaces)
	case LumpLeafBrushes:
		return len(f.LeafBrushes)
	case LumpModels:
		return len(f.Models)
	case LumpBrushes:
		return len(f.Brushes)
	case LumpBrushSides:
		return len(f.BrushSides)
	case LumpVertexes:
		return len(f.Vertexes)
	case LumpMeshVerts:
		return len(f.MeshVerts)
	case LumpEffects:
		return len(f.Effects)
	case LumpFaces:
		return len(f.Faces)
	case LumpLightmaps:
		return len(f.Lightmaps)
	case LumpLightVols:
		return len(f.LightVols)
	case LumpVisData:
		return len(f.VisData.Bits)
	}
	return 0
}

func load(name string, file filesystem.File) (model.Model, error) {
	f, err := Read(file)
	if err != nil {
		return nil, qerr.InFile(err, name)
	}
	f.name = name
	return f, nil
}

// Read decodes a whole map. The directory is read first, then the lumps in
// index order. On error no File is returned.
func Read(r io.ReadSeeker) (*File, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, qerr.IO(err, "seek to end")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, qerr.IO(err, "seek to header")
	}
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, qerr.Format("file of %d bytes is too short for a header", size)
		}
		return nil, qerr.IO(err, "read header")
	}
	if h.Magic != Magic {
		return nil, qerr.Format("wrong magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return nil, qerr.Format("wrong version %d (should be %d)", h.Version, Version)
	}
	for i, l := range h.Lumps {
		if l.Offset < 0 || l.Length < 0 || int64(l.Offset)+int64(l.Length) > size {
			return nil, qerr.Format("lump %s (offset %d, length %d) is outside the file of %d bytes",
				lumpNames[i], l.Offset, l.Length, size)
		}
	}

	f := &File{Lumps: h.Lumps}
	if f.Entities, err = readRaw(r, h.Lumps[LumpEntities]); err != nil {
		return nil, err
	}
	if f.Textures, err = readRecords[Texture](r, &h.Lumps, LumpTextures); err != nil {
		return nil, err
	}
	if f.Planes, err = readRecords[Plane](r, &h.Lumps, LumpPlanes); err != nil {
		return nil, err
	}
	if f.Nodes, err = readRecords[Node](r, &h.Lumps, LumpNodes); err != nil {
		return nil, err
	}
	if f.Leafs, err = readRecords[Leaf](r, &h.Lumps, LumpLeafs); err != nil {
		return nil, err
	}
	if f.LeafFaces, err = readRecords[int32](r, &h.Lumps, LumpLeafFaces); err != nil {
		return nil, err
	}
	if f.LeafBrushes, err = readRecords[int32](r, &h.Lumps, LumpLeafBrushes); err != nil {
		return nil, err
	}
	if f.Models, err = readRecords[Model](r, &h.Lumps, LumpModels); err != nil {
		return nil, err
	}
	if f.Brushes, err = readRecords[Brush](r, &h.Lumps, LumpBrushes); err != nil {
		return nil, err
	}
	if f.BrushSides, err = readRecords[BrushSide](r, &h.Lumps, LumpBrushSides); err != nil {
		return nil, err
	}
	if f.Vertexes, err = readRecords[Vertex](r, &h.Lumps, LumpVertexes); err != nil {
		return nil, err
	}
	if f.MeshVerts, err = readRecords[int32](r, &h.Lumps, LumpMeshVerts); err != nil {
		return nil, err
	}
	if f.Effects, err = readRecords[Effect](r, &h.Lumps, LumpEffects); err != nil {
		return nil, err
	}
	if f.Faces, err = readRecords[Face](r, &h.Lumps, LumpFaces); err != nil {
		return nil, err
	}
	if f.Lightmaps, err = readRecords[Lightmap](r, &h.Lumps, LumpLightmaps); err != nil {
		return nil, err
	}
	if f.LightVols, err = readRecords[LightVol](r, &h.Lumps, LumpLightVols); err != nil {
		return nil, err
	}
	if f.VisData, err = readVisData(r, h.Lumps[LumpVisData]); err != nil {
		return nil, err
	}
	return f, nil
}

func readRaw(r io.ReadSeeker, l Lump) ([]byte, error) {
	b := make([]byte, l.Length)
	if l.Length == 0 {
		return b, nil
	}
	if _, err := r.Seek(int64(l.Offset), io.SeekStart); err != nil {
		return nil, qerr.IO(err, "seek lump %s", lumpNames[LumpEntities])
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, qerr.IO(err, "read lump %s", lumpNames[LumpEntities])
	}
	return b, nil
}

func readRecords[T any](r io.ReadSeeker, lumps *[LumpCount]Lump, idx int) ([]T, error) {
	l := lumps[idx]
	rs := recordSizes[idx]
	if int64(l.Length)%rs != 0 {
		return nil, qerr.Format("lump %s: length %d is not a multiple of the record size %d",
			lumpNames[idx], l.Length, rs)
	}
	recs := make([]T, int64(l.Length)/rs)
	if len(recs) == 0 {
		return recs, nil
	}
	if _, err := r.Seek(int64(l.Offset), io.SeekStart); err != nil {
		return nil, qerr.IO(err, "seek lump %s", lumpNames[idx])
	}
	if err := binary.Read(r, binary.LittleEndian, recs); err != nil {
		return nil, qerr.IO(err, "read lump %s", lumpNames[idx])
	}
	return recs, nil
}

func readVisData(r io.ReadSeeker, l Lump) (VisData, error) {
	v := VisData{Bits: []byte{}}
	if l.Length == 0 {
		return v, nil
	}
	if l.Length < 8 {
		return v, qerr.Format("lump %s: length %d is too short", lumpNames[LumpVisData], l.Length)
	}
	if _, err := r.Seek(int64(l.Offset), io.SeekStart); err != nil {
		return v, qerr.IO(err, "seek lump %s", lumpNames[LumpVisData])
	}
	var dims [2]int32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return v, qerr.IO(err, "read lump %s", lumpNames[LumpVisData])
	}
	v.Vectors, v.Size = dims[0], dims[1]
	if v.Vectors < 0 || v.Size < 0 {
		return v, qerr.Format("lump %s: negative dimensions %d x %d", lumpNames[LumpVisData], v.Vectors, v.Size)
	}
	n := int64(v.Vectors) * int64(v.Size)
	if n == 0 {
		return v, nil
	}
	if n > int64(l.Length)-8 {
		return v, qerr.Format("lump %s: %d x %d bytes do not fit into %d",
			lumpNames[LumpVisData], v.Vectors, v.Size, l.Length-8)
	}
	v.Bits = make([]byte, n)
	if _, err := io.ReadFull(r, v.Bits); err != nil {
		return v, qerr.IO(err, "read lump %s", lumpNames[LumpVisData])
	}
	return v, nil
}
