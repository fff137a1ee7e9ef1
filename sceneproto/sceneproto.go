// SPDX-License-Identifier: GPL-2.0-or-later

// Package sceneproto encodes a finished scene in protobuf wire format.
//
//	message Scene {
//	  repeated Vertex vertices = 1;
//	  repeated uint32 indices = 2 [packed = true];
//	  repeated Face faces = 3;
//	  repeated Material materials = 4;
//	  Vis vis = 5;
//	  uint32 atlas_width = 6;
//	  uint32 fallback_lightmap = 7;
//	  string name = 8;
//	  repeated float mins = 9 [packed = true];
//	  repeated float maxs = 10 [packed = true];
//	}
//
// Vertex, Face, Material and Vis field numbers follow the order of the Go
// struct fields.
package sceneproto

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"goq3bsp/bsp"
	"goq3bsp/scene"
)

const (
	sceneVertices         protowire.Number = 1
	sceneIndices          protowire.Number = 2
	sceneFaces            protowire.Number = 3
	sceneMaterials        protowire.Number = 4
	sceneVis              protowire.Number = 5
	sceneAtlasWidth       protowire.Number = 6
	sceneFallbackLightmap protowire.Number = 7
	sceneName             protowire.Number = 8
	sceneMins             protowire.Number = 9
	sceneMaxs             protowire.Number = 10
)

func appendFloats(b []byte, num protowire.Number, fs ...float32) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(4*len(fs)))
	for _, f := range fs {
		b = protowire.AppendFixed32(b, math.Float32bits(f))
	}
	return b
}

func appendSint(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func vertex(v *scene.Vertex) []byte {
	var b []byte
	b = appendFloats(b, 1, v.Position.X, v.Position.Y, v.Position.Z)
	b = appendFloats(b, 2, v.TexCoord.X, v.TexCoord.Y)
	b = appendFloats(b, 3, v.LightmapCoord.X, v.LightmapCoord.Y)
	b = appendFloats(b, 4, v.Normal.X, v.Normal.Y, v.Normal.Z)
	b = protowire.AppendTag(b, 5, protowire.Fixed32Type)
	c := v.Color
	return protowire.AppendFixed32(b, uint32(c[0])|uint32(c[1])<<8|uint32(c[2])<<16|uint32(c[3])<<24)
}

func face(f *scene.Face) []byte {
	var b []byte
	b = appendUint(b, 1, uint64(f.Kind))
	b = appendSint(b, 2, f.Texture)
	b = appendSint(b, 3, f.Effect)
	b = appendSint(b, 4, f.Lightmap)
	b = appendUint(b, 5, uint64(f.Vertices.First))
	b = appendUint(b, 6, uint64(f.Vertices.Count))
	b = appendUint(b, 7, uint64(f.MeshVerts.First))
	b = appendUint(b, 8, uint64(f.MeshVerts.Count))
	b = appendUint(b, 9, uint64(f.Draw.First))
	b = appendUint(b, 10, uint64(f.Draw.Count))
	b = appendUint(b, 11, uint64(f.PatchSize[0]))
	b = appendUint(b, 12, uint64(f.PatchSize[1]))
	return appendFloats(b, 13, f.Normal.X, f.Normal.Y, f.Normal.Z)
}

func material(m *scene.Material) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Name)
	b = appendBool(b, 2, m.Render)
	b = appendBool(b, 3, m.Solid)
	return appendBool(b, 4, m.Transparent)
}

func vis(v *bsp.VisData) []byte {
	var b []byte
	b = appendSint(b, 1, int(v.Vectors))
	b = appendSint(b, 2, int(v.Size))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	return protowire.AppendBytes(b, v.Bits)
}

// Marshal encodes everything but the images. The atlas is only recorded by
// its width.
func Marshal(s *scene.Scene) []byte {
	var b []byte
	for i := range s.Vertices {
		b = appendMessage(b, sceneVertices, vertex(&s.Vertices[i]))
	}
	if len(s.Indices) > 0 {
		var packed []byte
		for _, idx := range s.Indices {
			packed = protowire.AppendVarint(packed, uint64(idx))
		}
		b = appendMessage(b, sceneIndices, packed)
	}
	for i := range s.Faces {
		b = appendMessage(b, sceneFaces, face(&s.Faces[i]))
	}
	for i := range s.Materials {
		b = appendMessage(b, sceneMaterials, material(&s.Materials[i]))
	}
	b = appendMessage(b, sceneVis, vis(&s.Vis))
	if s.Atlas != nil {
		b = appendUint(b, sceneAtlasWidth, uint64(s.Atlas.Bounds().Dx()))
	}
	b = appendUint(b, sceneFallbackLightmap, uint64(s.FallbackLightmap))
	b = protowire.AppendTag(b, sceneName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = appendFloats(b, sceneMins, s.Mins.X, s.Mins.Y, s.Mins.Z)
	return appendFloats(b, sceneMaxs, s.Maxs.X, s.Maxs.Y, s.Maxs.Z)
}

// fields calls f for every field of the message in b.
func fields(b []byte, f func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return protowire.ParseError(m)
		}
		if err := f(num, typ, b[:m]); err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func varint(typ protowire.Type, v []byte) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, errors.Errorf("wire type %d, want varint", typ)
	}
	x, n := protowire.ConsumeVarint(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return x, nil
}

func sint(typ protowire.Type, v []byte) (int, error) {
	x, err := varint(typ, v)
	return int(protowire.DecodeZigZag(x)), err
}

func bytesValue(typ protowire.Type, v []byte) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, errors.Errorf("wire type %d, want bytes", typ)
	}
	x, n := protowire.ConsumeBytes(v)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	return x, nil
}

func floats(typ protowire.Type, v []byte, dst ...*float32) error {
	x, err := bytesValue(typ, v)
	if err != nil {
		return err
	}
	if len(x) != 4*len(dst) {
		return errors.Errorf("%d float bytes, want %d", len(x), 4*len(dst))
	}
	for i, d := range dst {
		u, _ := protowire.ConsumeFixed32(x[4*i:])
		*d = math.Float32frombits(u)
	}
	return nil
}

func parseVertex(b []byte) (scene.Vertex, error) {
	var v scene.Vertex
	err := fields(b, func(num protowire.Number, typ protowire.Type, x []byte) error {
		switch num {
		case 1:
			return floats(typ, x, &v.Position.X, &v.Position.Y, &v.Position.Z)
		case 2:
			return floats(typ, x, &v.TexCoord.X, &v.TexCoord.Y)
		case 3:
			return floats(typ, x, &v.LightmapCoord.X, &v.LightmapCoord.Y)
		case 4:
			return floats(typ, x, &v.Normal.X, &v.Normal.Y, &v.Normal.Z)
		case 5:
			if typ != protowire.Fixed32Type {
				return errors.Errorf("color wire type %d", typ)
			}
			c, _ := protowire.ConsumeFixed32(x)
			v.Color = [4]byte{byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)}
		}
		return nil
	})
	return v, err
}

func parseFace(b []byte) (scene.Face, error) {
	var f scene.Face
	ints := map[protowire.Number]*int{
		2: &f.Texture, 3: &f.Effect, 4: &f.Lightmap,
	}
	uints := map[protowire.Number]*int{
		5: &f.Vertices.First, 6: &f.Vertices.Count,
		7: &f.MeshVerts.First, 8: &f.MeshVerts.Count,
		9: &f.Draw.First, 10: &f.Draw.Count,
		11: &f.PatchSize[0], 12: &f.PatchSize[1],
	}
	err := fields(b, func(num protowire.Number, typ protowire.Type, x []byte) error {
		if p, ok := ints[num]; ok {
			v, err := sint(typ, x)
			*p = v
			return err
		}
		if p, ok := uints[num]; ok {
			v, err := varint(typ, x)
			*p = int(v)
			return err
		}
		switch num {
		case 1:
			v, err := varint(typ, x)
			f.Kind = scene.Kind(v)
			return err
		case 13:
			return floats(typ, x, &f.Normal.X, &f.Normal.Y, &f.Normal.Z)
		}
		return nil
	})
	return f, err
}

func parseMaterial(b []byte) (scene.Material, error) {
	var m scene.Material
	flags := map[protowire.Number]*bool{
		2: &m.Render, 3: &m.Solid, 4: &m.Transparent,
	}
	err := fields(b, func(num protowire.Number, typ protowire.Type, x []byte) error {
		if num == 1 {
			s, err := bytesValue(typ, x)
			m.Name = string(s)
			return err
		}
		if p, ok := flags[num]; ok {
			v, err := varint(typ, x)
			*p = protowire.DecodeBool(v)
			return err
		}
		return nil
	})
	return m, err
}

func parseVis(b []byte) (bsp.VisData, error) {
	var v bsp.VisData
	err := fields(b, func(num protowire.Number, typ protowire.Type, x []byte) error {
		switch num {
		case 1, 2:
			n, err := sint(typ, x)
			if num == 1 {
				v.Vectors = int32(n)
			} else {
				v.Size = int32(n)
			}
			return err
		case 3:
			bs, err := bytesValue(typ, x)
			v.Bits = append([]byte{}, bs...)
			return err
		}
		return nil
	})
	return v, err
}

// Decoded is a scene read back from its wire form.
type Decoded struct {
	*scene.Scene
	AtlasWidth int
}

// Unmarshal decodes b. Unknown fields are skipped.
func Unmarshal(b []byte) (*Decoded, error) {
	d := &Decoded{Scene: &scene.Scene{}}
	s := d.Scene
	err := fields(b, func(num protowire.Number, typ protowire.Type, x []byte) error {
		switch num {
		case sceneAtlasWidth:
			v, err := varint(typ, x)
			d.AtlasWidth = int(v)
			s.AtlasRemapped = v > 0
			return err
		case sceneFallbackLightmap:
			v, err := varint(typ, x)
			s.FallbackLightmap = int(v)
			return err
		case sceneMins:
			return floats(typ, x, &s.Mins.X, &s.Mins.Y, &s.Mins.Z)
		case sceneMaxs:
			return floats(typ, x, &s.Maxs.X, &s.Maxs.Y, &s.Maxs.Z)
		case sceneVertices, sceneIndices, sceneFaces, sceneMaterials, sceneVis, sceneName:
		default:
			return nil
		}
		m, err := bytesValue(typ, x)
		if err != nil {
			return err
		}
		switch num {
		case sceneVertices:
			v, err := parseVertex(m)
			s.Vertices = append(s.Vertices, v)
			return err
		case sceneIndices:
			for len(m) > 0 {
				v, n := protowire.ConsumeVarint(m)
				if n < 0 {
					return protowire.ParseError(n)
				}
				s.Indices = append(s.Indices, uint32(v))
				m = m[n:]
			}
		case sceneFaces:
			f, err := parseFace(m)
			s.Faces = append(s.Faces, f)
			return err
		case sceneMaterials:
			mat, err := parseMaterial(m)
			s.Materials = append(s.Materials, mat)
			return err
		case sceneVis:
			v, err := parseVis(m)
			s.Vis = v
			return err
		case sceneName:
			s.Name = string(m)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "sceneproto")
	}
	for _, m := range s.Materials {
		s.Textures = append(s.Textures, bsp.NewTexture(m.Name, 0, 0))
	}
	return d, nil
}
