// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"goq3bsp/bsp"
)

// FallbackGrey is the intensity of the lightmap used by faces without one.
const FallbackGrey = 64

func lightmapImage(lm *bsp.Lightmap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bsp.LightmapSize, bsp.LightmapSize))
	for y := range lm {
		for x, p := range lm[y] {
			img.SetNRGBA(x, y, color.NRGBA{p[0], p[1], p[2], 255})
		}
	}
	return img
}

func fallbackImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bsp.LightmapSize, bsp.LightmapSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{FallbackGrey, FallbackGrey, FallbackGrey, 255}), image.Point{}, draw.Src)
	return img
}

// PackLightmaps converts the lightmaps into images and appends the fallback.
// With atlas set all of them are also placed side by side in one image and
// the lightmap coordinates of every drawn vertex are moved into the slot of
// its face.
func (t *Tessellated) PackLightmaps(atlas bool) (*Scene, error) {
	b, err := t.take()
	if err != nil {
		return nil, err
	}
	lms := b.lightmaps
	b.lightmaps = nil
	s := &Scene{
		buffers:          b,
		Materials:        Materials(b.Textures),
		Lightmaps:        make([]*image.NRGBA, 0, len(lms)+1),
		FallbackLightmap: len(lms),
	}
	for i := range lms {
		s.Lightmaps = append(s.Lightmaps, lightmapImage(&lms[i]))
	}
	s.Lightmaps = append(s.Lightmaps, fallbackImage())
	if atlas {
		s.Atlas = packAtlas(s.Lightmaps)
		s.remapLightmapCoords()
		s.AtlasRemapped = true
	}
	return s, nil
}

func packAtlas(lms []*image.NRGBA) *image.NRGBA {
	const size = bsp.LightmapSize
	a := image.NewNRGBA(image.Rect(0, 0, size*len(lms), size))
	for k, lm := range lms {
		r := image.Rect(size*k, 0, size*(k+1), size)
		draw.Draw(a, r, lm, image.Point{}, draw.Src)
	}
	return a
}

// remapLightmapCoords must only run once per scene. Vertices shared between
// faces are moved by the first face drawing them.
func (s *Scene) remapLightmapCoords() {
	slots := float32(len(s.Lightmaps))
	done := make([]uint64, (len(s.Vertices)+63)/64)
	for i := range s.Faces {
		f := &s.Faces[i]
		slot := float32(s.LightmapSlot(f))
		for _, idx := range s.Indices[f.Draw.First:f.Draw.End()] {
			w, bit := idx/64, uint64(1)<<(idx%64)
			if done[w]&bit != 0 {
				continue
			}
			done[w] |= bit
			v := &s.Vertices[idx]
			v.LightmapCoord.X = (v.LightmapCoord.X + slot) / slots
		}
	}
}
