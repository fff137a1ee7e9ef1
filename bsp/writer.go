// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"

	"goq3bsp/qerr"
)

// Write encodes f. Lumps are laid out in index order directly after the
// header, each aligned to 4 bytes. f.Lumps is ignored and recomputed.
func Write(w io.Writer, f *File) error {
	var body bytes.Buffer
	var h header
	h.Magic = Magic
	h.Version = Version
	start := int32(binary.Size(h))

	put := func(idx int, data any) {
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
		off := body.Len()
		switch d := data.(type) {
		case []byte:
			body.Write(d)
		default:
			// slices of fixed size records can not fail to encode
			binary.Write(&body, binary.LittleEndian, d)
		}
		h.Lumps[idx] = Lump{Offset: start + int32(off), Length: int32(body.Len() - off)}
	}
	put(LumpEntities, f.Entities)
	put(LumpTextures, f.Textures)
	put(LumpPlanes, f.Planes)
	put(LumpNodes, f.Nodes)
	put(LumpLeafs, f.Leafs)
	put(LumpLeafFaces, f.LeafFaces)
	put(LumpLeafBrushes, f.LeafBrushes)
	put(LumpModels, f.Models)
	put(LumpBrushes, f.Brushes)
	put(LumpBrushSides, f.BrushSides)
	put(LumpVertexes, f.Vertexes)
	put(LumpMeshVerts, f.MeshVerts)
	put(LumpEffects, f.Effects)
	put(LumpFaces, f.Faces)
	put(LumpLightmaps, f.Lightmaps)
	put(LumpLightVols, f.LightVols)
	if v := f.VisData; len(v.Bits) != 0 || v.Vectors != 0 || v.Size != 0 {
		var vis bytes.Buffer
		binary.Write(&vis, binary.LittleEndian, [2]int32{f.VisData.Vectors, f.VisData.Size})
		vis.Write(f.VisData.Bits)
		put(LumpVisData, vis.Bytes())
	} else {
		put(LumpVisData, []byte{})
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return qerr.IO(err, "write header")
	}
	if _, err := body.WriteTo(w); err != nil {
		return qerr.IO(err, "write lumps")
	}
	return nil
}
