// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"image"
	"testing"

	"github.com/google/uuid"
)

func TestManager(t *testing.T) {
	m := NewManager()
	var released []Handle
	m.OnRelease = func(h Handle) { released = append(released, h) }
	tex := NewTexture(TexPrefMipMap, "textures/base/wall", ColorTypeRGBA, image.NewNRGBA(image.Rect(0, 0, 64, 32)))
	if tex.Width != 64 || tex.Height != 32 {
		t.Errorf("size = %vx%v, want 64x32", tex.Width, tex.Height)
	}
	h1, err := m.Upload(tex)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	h2, err := m.Upload(NewTexture(TexPrefNone, "lm", ColorTypeLightmap, image.NewNRGBA(image.Rect(0, 0, 128, 128))))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if h1 == uuid.Nil || h1 == h2 {
		t.Errorf("handles %v %v", h1, h2)
	}
	if got, ok := m.Get(h1); !ok || got.Name() != "textures/base/wall" {
		t.Errorf("Get(h1) = %v, %v", got, ok)
	}
	if n := m.Texels(); n != 64*32*4/3+128*128 {
		t.Errorf("Texels() = %v", n)
	}
	m.Release(h1)
	m.Release(h1)
	m.Release(uuid.Nil)
	if m.Len() != 1 {
		t.Errorf("Len() = %v, want 1", m.Len())
	}
	if len(released) != 1 || released[0] != h1 {
		t.Errorf("released = %v", released)
	}
}

func TestUploadEmpty(t *testing.T) {
	if _, err := NewManager().Upload(&Texture{}); err == nil {
		t.Errorf("Upload(empty) succeeded")
	}
}
