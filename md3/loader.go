// SPDX-License-Identifier: GPL-2.0-or-later

package md3

import (
	"encoding/binary"
	"io"

	"github.com/chewxy/math32"

	"goq3bsp/conlog"
	"goq3bsp/filesystem"
	"goq3bsp/math/vec"
	"goq3bsp/model"
	"goq3bsp/qerr"
)

func init() {
	model.Register(Magic, load)
}

func load(name string, f filesystem.File) (model.Model, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, qerr.IO(err, "seek %s", name)
	}
	m, err := Decode(name, f, size)
	if err != nil {
		return nil, err
	}
	return m, nil
}

type decoder struct {
	r    io.ReaderAt
	size int64
}

// check rejects a section of count records of recSize bytes at off that
// does not fit into the file. Counts come from the file, so this has to run
// before anything is allocated for the section.
func (d *decoder) check(off, count, recSize int64, what string) error {
	if off < 0 || count < 0 || off+count*recSize > d.size {
		return qerr.Format("%s outside of file", what)
	}
	return nil
}

// read decodes count records of recSize bytes at off into data.
func (d *decoder) read(off, count, recSize int64, data any, what string) error {
	if err := d.check(off, count, recSize, what); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	sr := io.NewSectionReader(d.r, off, count*recSize)
	if err := binary.Read(sr, binary.LittleEndian, data); err != nil {
		return qerr.IO(err, "read %s", what)
	}
	return nil
}

// Decode reads a MD3 model of size bytes. Only the first animation frame is
// kept.
func Decode(name string, r io.ReaderAt, size int64) (*Model, error) {
	m, err := decode(name, r, size)
	if err != nil {
		return nil, qerr.InFile(err, name)
	}
	return m, nil
}

func decode(name string, r io.ReaderAt, size int64) (*Model, error) {
	d := &decoder{r: r, size: size}
	var h header
	if size < headerSize {
		return nil, qerr.Format("too short for a header")
	}
	if err := d.read(0, 1, headerSize, &h, "header"); err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, qerr.Format("wrong magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return nil, qerr.Format("wrong version number (%d should be %d)", h.Version, Version)
	}
	if h.FrameCount < 0 || h.SurfaceCount < 0 {
		return nil, qerr.Format("negative count")
	}
	if err := d.check(int64(h.FramesOffset), int64(h.FrameCount), frameSize, "frames"); err != nil {
		return nil, err
	}
	m := &Model{
		name:   name,
		Frames: make([]Frame, h.FrameCount),
	}
	if err := d.read(int64(h.FramesOffset), int64(h.FrameCount), frameSize, m.Frames, "frames"); err != nil {
		return nil, err
	}
	off := int64(h.SurfacesOffset)
	for i := int32(0); i < h.SurfaceCount; i++ {
		var sh surfaceHeader
		if err := d.read(off, 1, surfaceSize, &sh, "surface header"); err != nil {
			return nil, err
		}
		if sh.Magic != Magic {
			if sh.EndOffset <= 0 {
				return nil, qerr.Format("surface %d: bad ident and no end", i)
			}
			conlog.Printf("%s: surface %d has a bad ident, skipped\n", name, i)
			off += int64(sh.EndOffset)
			continue
		}
		s, err := d.surface(off, &sh)
		if err != nil {
			return nil, err
		}
		m.Surfaces = append(m.Surfaces, s)
		if sh.EndOffset <= 0 && i+1 < h.SurfaceCount {
			return nil, qerr.Format("surface %d: no end", i)
		}
		off += int64(sh.EndOffset)
	}
	return m, nil
}

func (d *decoder) surface(off int64, sh *surfaceHeader) (*Surface, error) {
	name := cString(sh.Name[:])
	if sh.ShaderCount < 0 || sh.VertexCount < 0 || sh.TriangleCount < 0 {
		return nil, qerr.Format("surface %s: negative count", name)
	}
	sections := []struct {
		ofs     int32
		count   int32
		recSize int64
		what    string
	}{
		{sh.TrianglesOffset, sh.TriangleCount, triSize, "triangles"},
		{sh.ShadersOffset, sh.ShaderCount, shaderSize, "shaders"},
		{sh.STOffset, sh.VertexCount, stSize, "texture coordinates"},
		{sh.VerticesOffset, sh.VertexCount, vertexSize, "vertices"},
	}
	for _, sec := range sections {
		if err := d.check(off+int64(sec.ofs), int64(sec.count), sec.recSize, sec.what); err != nil {
			return nil, err
		}
	}
	s := &Surface{
		Name:      name,
		Triangles: make([]Triangle, sh.TriangleCount),
		TexCoords: make([]TexCoord, sh.VertexCount),
		Vertices:  make([]Vertex, sh.VertexCount),
	}
	if err := d.read(off+int64(sh.TrianglesOffset), int64(sh.TriangleCount), triSize, s.Triangles, "triangles"); err != nil {
		return nil, err
	}
	shaders := make([]shader, sh.ShaderCount)
	if err := d.read(off+int64(sh.ShadersOffset), int64(sh.ShaderCount), shaderSize, shaders, "shaders"); err != nil {
		return nil, err
	}
	for _, sd := range shaders {
		s.Shaders = append(s.Shaders, cString(sd.Name[:]))
	}
	if err := d.read(off+int64(sh.STOffset), int64(sh.VertexCount), stSize, s.TexCoords, "texture coordinates"); err != nil {
		return nil, err
	}
	if err := d.read(off+int64(sh.VerticesOffset), int64(sh.VertexCount), vertexSize, s.Vertices, "vertices"); err != nil {
		return nil, err
	}
	for _, t := range s.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= sh.VertexCount {
				return nil, qerr.Format("surface %s: triangle index %d out of range", name, idx)
			}
		}
	}
	return s, nil
}

// DecodeNormal unpacks a latitude/longitude encoded normal.
func DecodeNormal(n uint16) vec.Vec3 {
	lat := float32((n>>8)&0xff) * (2 * math32.Pi / 256)
	lng := float32(n&0xff) * (2 * math32.Pi / 256)
	return vec.Vec3{
		X: math32.Cos(lat) * math32.Sin(lng),
		Y: math32.Sin(lat) * math32.Sin(lng),
		Z: math32.Cos(lng),
	}
}
