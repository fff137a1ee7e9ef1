// SPDX-License-Identifier: GPL-2.0-or-later

package sceneproto

import (
	"reflect"
	"testing"

	"goq3bsp/bsp"
	"goq3bsp/scene"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	f := &bsp.File{
		Models: []bsp.Model{{Mins: [3]float32{-1, -1, -1}, Maxs: [3]float32{3, 3, 3}}},
		Textures: []bsp.Texture{
			bsp.NewTexture("textures/base/wall", 0, bsp.ContentsSolid),
			bsp.NewTexture("textures/liquids/water", 0, bsp.ContentsWater|bsp.ContentsTranslucent),
		},
		Vertexes: []bsp.Vertex{
			{Position: [3]float32{0, 0, 0}, Color: [4]byte{1, 2, 3, 4}},
			{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{0, 1, 0}, LightmapCoord: [2]float32{0.5, 0.5}},
		},
		MeshVerts: []int32{0, 1, 2},
		Faces: []bsp.Face{
			{Type: bsp.FacePolygon, Texture: 0, Effect: -1, LightmapIndex: 0, NumVertexes: 3, NumMeshVerts: 3, Normal: [3]float32{0, 0, 1}},
			{Type: bsp.FaceBillboard, Texture: 1, Effect: -1, LightmapIndex: -1, Vertex: 2, NumVertexes: 1},
		},
		Lightmaps: make([]bsp.Lightmap, 1),
		VisData:   bsp.VisData{Vectors: 1, Size: 2, Bits: []byte{0xff, 0x01}},
	}
	f.SetName("maps/proto.bsp")
	m, err := scene.Merge(f, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	i, err := m.BuildIndices()
	if err != nil {
		t.Fatalf("BuildIndices: %v", err)
	}
	ts, err := i.Tessellate(0)
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	s, err := ts.PackLightmaps(true)
	if err != nil {
		t.Fatalf("PackLightmaps: %v", err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := testScene(t)
	d, err := Unmarshal(Marshal(s))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(d.Vertices, s.Vertices) {
		t.Errorf("Vertices = %v, want %v", d.Vertices, s.Vertices)
	}
	if !reflect.DeepEqual(d.Indices, s.Indices) {
		t.Errorf("Indices = %v, want %v", d.Indices, s.Indices)
	}
	if !reflect.DeepEqual(d.Faces, s.Faces) {
		t.Errorf("Faces = %+v, want %+v", d.Faces, s.Faces)
	}
	if !reflect.DeepEqual(d.Materials, s.Materials) {
		t.Errorf("Materials = %v, want %v", d.Materials, s.Materials)
	}
	if !reflect.DeepEqual(d.Vis, s.Vis) {
		t.Errorf("Vis = %v, want %v", d.Vis, s.Vis)
	}
	if d.Name != "maps/proto.bsp" || d.Mins != s.Mins || d.Maxs != s.Maxs {
		t.Errorf("Name = %v, bounds = %v %v", d.Name, d.Mins, d.Maxs)
	}
	if d.FallbackLightmap != 1 || d.AtlasWidth != 256 || !d.AtlasRemapped {
		t.Errorf("FallbackLightmap = %v, AtlasWidth = %v", d.FallbackLightmap, d.AtlasWidth)
	}
}

func TestUnmarshalSkipsUnknown(t *testing.T) {
	b := Marshal(testScene(t))
	// field 15, varint 1
	b = append(b, 15<<3, 1)
	if _, err := Unmarshal(b); err != nil {
		t.Errorf("Unmarshal with unknown field: %v", err)
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	b := Marshal(testScene(t))
	if _, err := Unmarshal(b[:len(b)-3]); err == nil {
		t.Errorf("Unmarshal of truncated data succeeded")
	}
}
