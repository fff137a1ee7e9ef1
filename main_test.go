// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"goq3bsp/bsp"
	"goq3bsp/filesystem"
)

func TestRepackFromPack(t *testing.T) {
	want := &bsp.File{
		Entities: []byte(`{ "classname" "worldspawn" }`),
		Textures: []bsp.Texture{bsp.NewTexture("textures/base/wall", 0, bsp.ContentsSolid)},
		Vertexes: []bsp.Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		MeshVerts: []int32{0, 1, 2},
		Faces: []bsp.Face{{
			Type: bsp.FacePolygon, Effect: -1, LightmapIndex: -1,
			NumVertexes: 3, NumMeshVerts: 3,
		}},
	}
	var data bytes.Buffer
	if err := bsp.Write(&data, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "baseq3"), 0o755); err != nil {
		t.Fatal(err)
	}
	pk3, err := os.Create(filepath.Join(base, "baseq3", "pak0.pk3"))
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(pk3)
	w, err := zw.Create("maps/test.bsp")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	pk3.Close()
	filesystem.UseBaseDir(base)

	out := t.TempDir()
	if err := repack(out, "maps/test.bsp"); err != nil {
		t.Fatalf("repack: %v", err)
	}
	f, err := os.Open(filepath.Join(out, "test.bsp"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := bsp.Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got.Entities, want.Entities) {
		t.Errorf("Entities = %q, want %q", got.Entities, want.Entities)
	}
	if !reflect.DeepEqual(got.Vertexes, want.Vertexes) || !reflect.DeepEqual(got.Faces, want.Faces) {
		t.Errorf("geometry changed: %v %v", got.Vertexes, got.Faces)
	}

	if err := repack(out, "maps/missing.bsp"); err == nil {
		t.Errorf("repack of a missing map succeeded")
	}
}
