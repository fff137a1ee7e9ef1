// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"goq3bsp/bsp"
	"goq3bsp/conlog"
	"goq3bsp/filesystem"
	qimage "goq3bsp/image"
	"goq3bsp/qerr"
	"goq3bsp/texture"
)

type ImageFunc func(name string) (*image.NRGBA, error)

// Handles are the uploaded images of a scene. Entries of textures that are
// not rendered or could not be loaded are uuid.Nil.
type Handles struct {
	Textures  []texture.Handle
	Lightmaps []texture.Handle
	Atlas     texture.Handle
}

func (h *Handles) all() []texture.Handle {
	r := make([]texture.Handle, 0, len(h.Textures)+len(h.Lightmaps)+1)
	r = append(r, h.Textures...)
	r = append(r, h.Lightmaps...)
	return append(r, h.Atlas)
}

// Loader owns the current scene and the images uploaded for it.
type Loader struct {
	mu      sync.Mutex
	up      texture.Uploader
	atlas   bool
	level   int
	picmip  int
	models  ModelFunc
	images  ImageFunc
	name    string
	scene   *Scene
	handles Handles
}

type Option func(*Loader)

func WithAtlas(a bool) Option {
	return func(l *Loader) { l.atlas = a }
}

func WithSubdivisions(level int) Option {
	return func(l *Loader) { l.level = level }
}

// WithPicMip halves texture sizes n times.
func WithPicMip(n int) Option {
	return func(l *Loader) { l.picmip = n }
}

func WithModelFunc(f ModelFunc) Option {
	return func(l *Loader) { l.models = f }
}

func WithImageFunc(f ImageFunc) Option {
	return func(l *Loader) { l.images = f }
}

func NewLoader(up texture.Uploader, opts ...Option) *Loader {
	l := &Loader{
		up:     up,
		level:  DefaultSubdivisions,
		models: LoadModel,
		images: qimage.Load,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Scene returns the current scene, nil if none is loaded.
func (l *Loader) Scene() (*Scene, Handles) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scene, l.handles
}

// Release invalidates all uploaded images and drops the scene. It returns the
// number of released handles.
func (l *Loader) Release() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.release()
}

func (l *Loader) release() int {
	n := 0
	for _, h := range l.handles.all() {
		if h == uuid.Nil {
			continue
		}
		l.up.Release(h)
		n++
	}
	l.handles = Handles{}
	l.scene = nil
	return n
}

// Load replaces the current scene by the map name. The previous scene is
// released first, also if loading fails.
func (l *Loader) Load(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.release()
	return l.load(name)
}

// Reload releases the current scene and loads name, or the current map if
// name is empty.
func (l *Loader) Reload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if name == "" {
		name = l.name
	}
	if name == "" {
		return errors.New("reload without a map")
	}
	n := l.release()
	conlog.DPrintf("released %d images\n", n)
	return l.load(name)
}

func (l *Loader) load(name string) error {
	s, err := l.build(name)
	if err != nil {
		return err
	}
	h, err := l.upload(s)
	if err != nil {
		return err
	}
	l.name = name
	l.scene = s
	l.handles = h
	return nil
}

func (l *Loader) build(name string) (*Scene, error) {
	file, err := filesystem.Open(name)
	if err != nil {
		return nil, qerr.IO(err, "open %s", name)
	}
	defer file.Close()
	f, err := bsp.Read(file)
	if err != nil {
		return nil, qerr.InFile(err, name)
	}
	f.SetName(name)
	placements := bsp.Placements(bsp.ParseEntities(f.Entities))
	m, err := Merge(f, placements, l.models)
	if err != nil {
		return nil, err
	}
	i, err := m.BuildIndices()
	if err != nil {
		return nil, err
	}
	t, err := i.Tessellate(l.level)
	if err != nil {
		return nil, err
	}
	return t.PackLightmaps(l.atlas)
}

func (l *Loader) upload(s *Scene) (Handles, error) {
	var h Handles
	fail := func(err error) (Handles, error) {
		for _, u := range h.all() {
			if u != uuid.Nil {
				l.up.Release(u)
			}
		}
		return Handles{}, err
	}
	h.Textures = make([]texture.Handle, len(s.Materials))
	for i, m := range s.Materials {
		if !m.Render {
			continue
		}
		img, err := l.images(m.Name)
		if err != nil {
			conlog.Printf("Couldn't load %s\n", m.Name)
			continue
		}
		img = qimage.PowerOfTwo(img, l.picmip)
		t := texture.NewTexture(texture.TexPrefMipMap|texture.TexPrefRepeat, m.Name, texture.ColorTypeRGBA, img)
		u, err := l.up.Upload(t)
		if err != nil {
			return fail(err)
		}
		h.Textures[i] = u
	}
	for i, lm := range s.Lightmaps {
		t := texture.NewTexture(texture.TexPrefLinear|texture.TexPrefNoPicMip, fmt.Sprintf("%s:lightmap%d", s.Name, i), texture.ColorTypeLightmap, lm)
		u, err := l.up.Upload(t)
		if err != nil {
			return fail(err)
		}
		h.Lightmaps = append(h.Lightmaps, u)
	}
	if s.Atlas != nil {
		t := texture.NewTexture(texture.TexPrefLinear|texture.TexPrefNoPicMip, s.Name+":atlas", texture.ColorTypeAtlas, s.Atlas)
		u, err := l.up.Upload(t)
		if err != nil {
			return fail(err)
		}
		h.Atlas = u
	}
	return h, nil
}
