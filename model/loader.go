// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"io"
	"sync"

	"goq3bsp/filesystem"
	"goq3bsp/qerr"
)

var (
	mutex   sync.RWMutex
	loaders = make(map[[4]byte]LoadFunc)
)

type LoadFunc func(string, filesystem.File) (Model, error)

// Register makes f responsible for files starting with magic.
func Register(magic [4]byte, f LoadFunc) {
	mutex.Lock()
	defer mutex.Unlock()
	loaders[magic] = f
}

// Load opens name from the game filesystem and decodes it with the loader
// registered for its magic.
func Load(name string) (Model, error) {
	file, err := filesystem.Open(name)
	if err != nil {
		return nil, qerr.IO(err, "open %s", name)
	}
	defer file.Close()
	return Decode(name, file)
}

// Decode is Load for an already opened file.
func Decode(name string, file filesystem.File) (Model, error) {
	var magic [4]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, qerr.InFile(qerr.Format("too short to hold a magic"), name)
		}
		return nil, qerr.IO(err, "read %s", name)
	}
	mutex.RLock()
	f, ok := loaders[magic]
	mutex.RUnlock()
	if !ok {
		return nil, qerr.InFile(qerr.Format("unknown file format %q", magic[:]), name)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, qerr.IO(err, "seek %s", name)
	}
	return f(name, file)
}
