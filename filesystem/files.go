// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"goq3bsp/conlog"
	"goq3bsp/pack"
)

var (
	baseDir string
	gameDir string
	// searched front to back
	search []searchPath
	mutex  sync.RWMutex
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

type searchPath interface {
	open(name string) (File, error)
	close()
	String() string
}

type dirPath string

func (d dirPath) open(name string) (File, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

func (d dirPath) close() {}

func (d dirPath) String() string {
	return string(d)
}

type packPath struct {
	p *pack.Pack
}

type closer struct {
	*bytes.Reader
}

func (*closer) Close() error {
	return nil
}

func (p packPath) open(name string) (File, error) {
	r, err := p.p.Open(name)
	if err != nil {
		return nil, err
	}
	return &closer{r}, nil
}

func (p packPath) close() {
	p.p.Close()
}

func (p packPath) String() string {
	return p.p.String()
}

func GameDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return gameDir
}

func BaseDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return baseDir
}

// UseBaseDir resets the search path to dir/baseq3.
func UseBaseDir(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	baseDir = dir
	gameDir = filepath.Join(baseDir, "baseq3")
	closeAll()
	search = useDir(nil, gameDir)
}

// UseGameDir puts a mod directory in front of baseq3.
func UseGameDir(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	closeAll()
	search = useDir(nil, filepath.Join(baseDir, "baseq3"))
	gameDir = filepath.Join(baseDir, dir)
	search = useDir(search, gameDir)
}

func closeAll() {
	for _, s := range search {
		s.close()
	}
	search = nil
}

// useDir puts dir in front of sp. The loose files come first, then the
// pk3 files with higher names before lower ones.
func useDir(sp []searchPath, dir string) []searchPath {
	var paks []searchPath
	pk3s, _ := filepath.Glob(filepath.Join(dir, "*.pk3"))
	sort.Sort(sort.Reverse(sort.StringSlice(pk3s)))
	for _, n := range pk3s {
		p, err := pack.NewPackReader(n)
		if err != nil {
			conlog.Printf("skipping %s: %v\n", n, err)
			continue
		}
		conlog.DPrintf("added %s, %d files\n", n, len(p.Names()))
		paks = append(paks, packPath{p})
	}
	r := []searchPath{dirPath(dir)}
	r = append(r, paks...)
	return append(r, sp...)
}

// SearchPath returns the searched locations in order.
func SearchPath() []string {
	mutex.RLock()
	defer mutex.RUnlock()
	r := make([]string, 0, len(search))
	for _, s := range search {
		r = append(r, s.String())
	}
	return r
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

func Open(name string) (File, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	n := clean(name)
	for _, s := range search {
		f, err := s.open(n)
		if err == nil {
			return f, nil
		}
	}
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

// Exists reports whether Open would find name.
func Exists(name string) bool {
	f, err := Open(name)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func ReadFile(name string) ([]byte, error) {
	file, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
