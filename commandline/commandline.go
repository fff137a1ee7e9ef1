// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	atlas     optBool
	developer bool
	cvarList  bool

	picmip       int
	subdivisions int

	basedir   string
	game      string
	dumpAtlas string
	dumpScene string
	repack    string

	sets setList
)

// optBool is a bool flag that remembers whether it was given at all, so an
// unset flag does not override the cvar.
type optBool struct {
	given bool
	on    bool
}

func (b *optBool) IsBoolFlag() bool {
	return true
}

func (b *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.given = true
	b.on = v
	return nil
}

func (b *optBool) String() string {
	if !b.given {
		return "unset"
	}
	return strconv.FormatBool(b.on)
}

// setList collects repeated "-set name=value" and "-set name" flags as
// console style argument lists.
type setList [][]string

func (s *setList) Set(v string) error {
	n, val, ok := strings.Cut(v, "=")
	if n == "" {
		return fmt.Errorf("want name=value or name, got %q", v)
	}
	if !ok {
		*s = append(*s, []string{n})
		return nil
	}
	*s = append(*s, []string{n, val})
	return nil
}

func (s *setList) String() string {
	var b strings.Builder
	for i, kv := range *s {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.Join(kv, "="))
	}
	return b.String()
}

func init() {
	flag.Var(&atlas, "atlas", "pack lightmaps into one atlas")
	flag.BoolVar(&developer, "developer", false, "print developer messages")
	flag.BoolVar(&cvarList, "cvarlist", false, "list all cvars after applying the flags")

	flag.IntVar(&picmip, "picmip", -1, "texture downscale steps, negative is unset")
	flag.IntVar(&subdivisions, "subdivisions", -1, "patch subdivision level, negative is unset")

	flag.StringVar(&basedir, "basedir", ".", "directory holding baseq3")
	flag.StringVar(&game, "game", "", "mod directory searched before baseq3")
	flag.StringVar(&dumpAtlas, "dumpatlas", "", "write the lightmap atlas to this file, png for .png names, webp otherwise")
	flag.StringVar(&dumpScene, "dumpscene", "", "write the scene in protobuf wire format to this file")
	flag.StringVar(&repack, "repack", "", "rewrite each map into this directory with its lumps in index order")

	flag.Var(&sets, "set", "set a cvar with name=value or print it with name, can be repeated")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

// Atlas reports whether -atlas was given and its value.
func Atlas() (given, on bool) {
	return atlas.given, atlas.on
}

func Developer() bool {
	return developer
}

func CvarList() bool {
	return cvarList
}

func PicMip() int {
	return picmip
}

func Subdivisions() int {
	return subdivisions
}

func DumpAtlas() string {
	return dumpAtlas
}

func DumpScene() string {
	return dumpScene
}

func Repack() string {
	return repack
}

// Sets returns the -set flags in order, each as name and optional value.
func Sets() [][]string {
	return sets
}
