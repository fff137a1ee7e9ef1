// SPDX-License-Identifier: GPL-2.0-or-later
package texture

import (
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type TexPref uint32

const (
	TexPrefMipMap TexPref = 1 << iota
	TexPrefLinear
	TexPrefNearest
	TexPrefAlpha
	TexPrefRepeat
	TexPrefNoPicMip
	TexPrefNone TexPref = 0
)

type ColorType int

const (
	ColorTypeRGBA ColorType = iota
	ColorTypeLightmap
	ColorTypeAtlas
)

// Handle identifies an uploaded image. uuid.Nil means no image.
type Handle = uuid.UUID

type Texture struct {
	Width  int32
	Height int32
	flags  TexPref
	name   string
	Typ    ColorType
	Image  *image.NRGBA
}

func NewTexture(flags TexPref, name string, typ ColorType, img *image.NRGBA) *Texture {
	b := img.Bounds()
	return &Texture{
		Width:  int32(b.Dx()),
		Height: int32(b.Dy()),
		flags:  flags,
		name:   name,
		Typ:    typ,
		Image:  img,
	}
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Texels() int {
	if t.Flags(TexPrefMipMap) {
		return int(t.Width * t.Height * 4 / 3)
	}
	return int(t.Width * t.Height)
}

func (t *Texture) Flags(f TexPref) bool {
	return t.flags&f != 0
}

// Uploader hands images to whatever displays them.
type Uploader interface {
	Upload(t *Texture) (Handle, error)
	Release(h Handle)
}

// Manager keeps uploaded textures in memory. The renderer can hook into
// uploads and releases.
type Manager struct {
	mu        sync.Mutex
	textures  map[Handle]*Texture
	OnUpload  func(Handle, *Texture)
	OnRelease func(Handle)
}

func NewManager() *Manager {
	return &Manager{textures: make(map[Handle]*Texture)}
}

func (m *Manager) Upload(t *Texture) (Handle, error) {
	if t == nil || t.Image == nil {
		return uuid.Nil, errors.New("upload of an empty texture")
	}
	h, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "handle for %s", t.name)
	}
	m.mu.Lock()
	m.textures[h] = t
	cb := m.OnUpload
	m.mu.Unlock()
	if cb != nil {
		cb(h, t)
	}
	return h, nil
}

// Release forgets h. Unknown handles are ignored.
func (m *Manager) Release(h Handle) {
	m.mu.Lock()
	_, ok := m.textures[h]
	delete(m.textures, h)
	cb := m.OnRelease
	m.mu.Unlock()
	if ok && cb != nil {
		cb(h)
	}
}

func (m *Manager) Get(h Handle) (*Texture, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.textures[h]
	return t, ok
}

// Len returns the number of live textures.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

// Texels sums the texel count of all live textures.
func (m *Manager) Texels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.textures {
		n += t.Texels()
	}
	return n
}
