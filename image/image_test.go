// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"goq3bsp/filesystem"
)

// tga32 encodes an uncompressed top-left origin 32bit tga.
func tga32(w, h int, c color.NRGBA) []byte {
	var b bytes.Buffer
	b.Write([]byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	b.Write([]byte{byte(w), byte(w >> 8), byte(h), byte(h >> 8), 32, 0x28})
	for i := 0; i < w*h; i++ {
		b.Write([]byte{c.B, c.G, c.R, c.A})
	}
	return b.Bytes()
}

func setupGameDir(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "baseq3", "textures", "base")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	red := color.NRGBA{200, 10, 20, 255}
	if err := os.WriteFile(filepath.Join(dir, "wall.tga"), tga32(4, 2, red), 0o644); err != nil {
		t.Fatal(err)
	}
	var j bytes.Buffer
	if err := jpeg.Encode(&j, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "floor.jpg"), j.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	filesystem.UseBaseDir(base)
	return base
}

func TestLoadTGA(t *testing.T) {
	setupGameDir(t)
	i, err := Load("textures/base/wall")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if i.Bounds().Dx() != 4 || i.Bounds().Dy() != 2 {
		t.Errorf("Bounds() = %v", i.Bounds())
	}
	if c := i.NRGBAAt(1, 1); c != (color.NRGBA{200, 10, 20, 255}) {
		t.Errorf("NRGBAAt(1,1) = %v", c)
	}
}

func TestLoadFallsBackToJPEG(t *testing.T) {
	setupGameDir(t)
	// the shader names a tga that only exists as jpg
	i, err := Load("textures/base/floor.tga")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if i.Bounds().Dx() != 8 {
		t.Errorf("Bounds() = %v", i.Bounds())
	}
	if c := i.NRGBAAt(3, 3); c.A != 255 {
		t.Errorf("alpha = %v, want 255", c.A)
	}
}

func TestLoadMissing(t *testing.T) {
	setupGameDir(t)
	if _, err := Load("textures/base/none"); !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("Load(none) = %v", err)
	}
}

func TestPowerOfTwo(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 5))
	if b := PowerOfTwo(img, 0).Bounds(); b.Dx() != 4 || b.Dy() != 8 {
		t.Errorf("PowerOfTwo(3x5, 0) = %v", b)
	}
	if b := PowerOfTwo(img, 1).Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Errorf("PowerOfTwo(3x5, 1) = %v", b)
	}
	if b := PowerOfTwo(img, 5).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("PowerOfTwo(3x5, 5) = %v", b)
	}
	sq := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	if PowerOfTwo(sq, 0) != sq {
		t.Errorf("PowerOfTwo copied an image that needs no scaling")
	}
}

func TestWrite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 0, color.NRGBA{1, 2, 3, 255})
	name := filepath.Join(t.TempDir(), "out.png")
	if err := Write(name, img); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if c := NRGBA(d).NRGBAAt(1, 0); c != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestWriteWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	name := filepath.Join(t.TempDir(), "out.webp")
	if err := WriteWebP(name, img); err != nil {
		t.Fatalf("WriteWebP: %v", err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 12 || string(b[:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("not a webp file: % x", b[:min(len(b), 12)])
	}
}
