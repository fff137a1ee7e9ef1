// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads pk3 archives. A pk3 is a zip file.
package pack

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// maxSizeHint caps the buffer preallocated from an entry's claimed size.
const maxSizeHint = 16 << 20

type Pack struct {
	r     *zip.ReadCloser
	files map[string]*zip.File
	name  string
}

// Open returns the decompressed file or os.ErrNotExist if the pack has no
// entry with the provided name. Lookups ignore case.
func (p *Pack) Open(name string) (*bytes.Reader, error) {
	zf, ok := p.files[strings.ToLower(name)]
	if !ok {
		return nil, os.ErrNotExist
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: open %s", p.name, name)
	}
	defer rc.Close()
	buf := bytes.NewBuffer(make([]byte, 0, min(zf.UncompressedSize64, maxSizeHint)))
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, errors.Wrapf(err, "%s: inflate %s", p.name, name)
	}
	return bytes.NewReader(buf.Bytes()), nil
}

// Names lists all regular files in the pack, sorted.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.r.Close()
}

func (p *Pack) init() error {
	p.files = make(map[string]*zip.File, len(p.r.File))
	for _, f := range p.r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(f.Name, "/"))
		if p.files[name] != nil {
			return errors.Errorf("%s: files in pack are not unique: %s", p.name, name)
		}
		p.files[name] = f
	}
	return nil
}

func NewPackReader(name string) (*Pack, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	p := &Pack{r: r, name: name}
	if err := p.init(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
