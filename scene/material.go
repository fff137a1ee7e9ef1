// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"goq3bsp/bsp"
)

type Material struct {
	Name        string
	Render      bool
	Solid       bool
	Transparent bool
}

// never drawn even without flags saying so
var hidden = map[string]bool{
	"noshader":              true,
	"textures/common/caulk": true,
}

// Classify derives how a texture is drawn and collided with.
func Classify(t bsp.Texture) Material {
	m := Material{
		Name:   t.Name(),
		Render: true,
		Solid:  true,
	}
	if t.Flags&bsp.SurfNonSolid != 0 {
		m.Solid = false
	}
	if t.Flags&bsp.SurfSky != 0 {
		m.Render = false
	}
	if t.Contents&bsp.ContentsPlayerClip != 0 {
		m.Solid = true
	}
	if t.Contents&bsp.ContentsTranslucent != 0 {
		m.Transparent = true
	}
	if t.Contents&(bsp.ContentsLava|bsp.ContentsWater|bsp.ContentsSlime|bsp.ContentsFog) != 0 {
		m.Render = false
	}
	if hidden[m.Name] {
		m.Render = false
	}
	return m
}

func Materials(ts []bsp.Texture) []Material {
	ms := make([]Material, 0, len(ts))
	for _, t := range ts {
		ms = append(ms, Classify(t))
	}
	return ms
}
