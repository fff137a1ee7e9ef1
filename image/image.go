// SPDX-License-Identifier: GPL-2.0-or-later

// Package image decodes the texture formats found in the game directory and
// writes debug images.
package image

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"goq3bsp/filesystem"
)

// Extensions are tried in this order when the name has none or the named file
// does not exist.
var Extensions = []string{".tga", ".jpg"}

// Write stores img as png.
func Write(name string, img image.Image) error {
	return writeFile(name, img, png.Encode)
}

// WriteWebP stores img as lossless webp.
func WriteWebP(name string, img image.Image) error {
	return writeFile(name, img, func(w io.Writer, i image.Image) error {
		return nativewebp.Encode(w, i, nil)
	})
}

func writeFile(name string, img image.Image, enc func(io.Writer, image.Image) error) error {
	f, err := os.Create(name)
	if err != nil {
		log.Println(err)
		return err
	}
	if err := enc(f, img); err != nil {
		f.Close()
		log.Println(err)
		return errors.Wrapf(err, "encode %s", name)
	}
	return f.Close()
}

// Load finds name in the game filesystem. A shader name usually comes without
// extension, so the name is tried with every entry of Extensions.
func Load(name string) (*image.NRGBA, error) {
	base := filesystem.StripExt(name)
	cand := make([]string, 0, len(Extensions)+1)
	if filesystem.Ext(name) != "" {
		cand = append(cand, name)
	}
	for _, e := range Extensions {
		cand = append(cand, base+e)
	}
	for _, c := range cand {
		if !filesystem.Exists(c) {
			continue
		}
		data, err := filesystem.ReadFile(c)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", c)
		}
		i, err := Decode(filesystem.Ext(c), data)
		if err != nil {
			log.Printf("Failed to load %v, %v", c, err)
			return nil, errors.Wrapf(err, "decode %s", c)
		}
		return i, nil
	}
	return nil, errors.Wrapf(os.ErrNotExist, "image %v not found", name)
}

// Decode reads a tga, jpeg or png image. Tga has no magic so the format
// follows the extension.
func Decode(ext string, data []byte) (*image.NRGBA, error) {
	var i image.Image
	var err error
	r := bytes.NewReader(data)
	switch strings.ToLower(ext) {
	case ".tga":
		i, err = tga.Decode(r)
	case ".jpg", ".jpeg":
		i, err = jpeg.Decode(r)
	default:
		i, err = png.Decode(r)
	}
	if err != nil {
		return nil, err
	}
	return NRGBA(i), nil
}

// NRGBA converts src, images that already are NRGBA are returned as is.
func NRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerOfTwo scales img so both sides are powers of two, rounded up, then
// halves them picmip times. Sides never drop below 1.
func PowerOfTwo(img *image.NRGBA, picmip int) *image.NRGBA {
	b := img.Bounds()
	w, h := nextPowerOfTwo(b.Dx()), nextPowerOfTwo(b.Dy())
	for i := 0; i < picmip; i++ {
		if w > 1 {
			w >>= 1
		}
		if h > 1 {
			h >>= 1
		}
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
