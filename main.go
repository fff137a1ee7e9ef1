// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"goq3bsp/bsp"
	"goq3bsp/commandline"
	"goq3bsp/conlog"
	"goq3bsp/cvar"
	"goq3bsp/cvars"
	"goq3bsp/filesystem"
	"goq3bsp/image"
	"goq3bsp/model"
	"goq3bsp/scene"
	"goq3bsp/sceneproto"
	"goq3bsp/texture"
)

import (
	// register the md3 loader
	_ "goq3bsp/md3"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] maps/name.bsp...\n", os.Args[0])
	flag.PrintDefaults()
}

func applyCommandline() {
	for _, args := range commandline.Sets() {
		if cvar.Execute(args) {
			continue
		}
		if len(args) == 1 {
			conlog.Printf("unknown cvar %s\n", args[0])
			continue
		}
		cvar.Set(args[0], args[1])
	}
	if given, on := commandline.Atlas(); given {
		if on {
			cvars.RLightmapAtlas.SetByString("1")
		} else {
			cvars.RLightmapAtlas.SetByString("0")
		}
	}
	if s := commandline.Subdivisions(); s >= 0 {
		cvars.RSubdivisions.SetValue(float32(s))
	}
	if p := commandline.PicMip(); p >= 0 {
		cvars.RPicMip.SetValue(float32(p))
	}
	if commandline.Developer() {
		cvars.Developer.SetByString("1")
	}
}

func printStats(s *scene.Scene, h scene.Handles) {
	kinds := map[scene.Kind]int{}
	for _, f := range s.Faces {
		kinds[f.Kind]++
	}
	conlog.Printf("%s\n", s.Name)
	conlog.Printf("%6d vertices\n", len(s.Vertices))
	conlog.Printf("%6d indices\n", len(s.Indices))
	for _, k := range []scene.Kind{scene.KindPolygon, scene.KindPatch, scene.KindMesh, scene.KindBillboard} {
		conlog.Printf("%6d %s faces\n", kinds[k], k)
	}
	render := 0
	for _, m := range s.Materials {
		if m.Render {
			render++
		}
	}
	conlog.Printf("%6d textures, %d rendered\n", len(s.Materials), render)
	conlog.Printf("%6d lightmaps, fallback %d\n", len(h.Lightmaps), s.FallbackLightmap)
	if s.Atlas != nil {
		conlog.Printf("atlas %dx%d\n", s.Atlas.Bounds().Dx(), s.Atlas.Bounds().Dy())
	}
}

func dump(s *scene.Scene) error {
	if n := commandline.DumpAtlas(); n != "" {
		img := s.Atlas
		if img == nil {
			img = s.Lightmaps[s.FallbackLightmap]
			conlog.Printf("no atlas, writing the fallback lightmap\n")
		}
		write := image.WriteWebP
		if strings.EqualFold(filepath.Ext(n), ".png") {
			write = image.Write
		}
		if err := write(n, img); err != nil {
			return err
		}
	}
	if n := commandline.DumpScene(); n != "" {
		if err := os.WriteFile(n, sceneproto.Marshal(s), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// repack writes the map as read from the search path into dir.
func repack(dir, name string) error {
	m, err := model.Load(name)
	if err != nil {
		return err
	}
	f, ok := m.(*bsp.File)
	if !ok {
		return fmt.Errorf("%s is not a map", name)
	}
	out, err := os.Create(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		return err
	}
	if err := bsp.Write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func run(maps []string) error {
	filesystem.UseBaseDir(commandline.BaseDirectory())
	if g := commandline.Game(); g != "" {
		filesystem.UseGameDir(g)
	}
	conlog.DPrintf("search path: %s\n", strings.Join(filesystem.SearchPath(), ", "))
	mgr := texture.NewManager()
	l := scene.NewLoader(mgr,
		scene.WithAtlas(cvars.RLightmapAtlas.Bool()),
		scene.WithSubdivisions(cvars.RSubdivisions.Int()),
		scene.WithPicMip(cvars.RPicMip.Int()))
	defer l.Release()
	for _, m := range maps {
		if err := l.Load(m); err != nil {
			return err
		}
		s, h := l.Scene()
		printStats(s, h)
		conlog.DPrintf("%d texels uploaded\n", mgr.Texels())
		if err := dump(s); err != nil {
			return err
		}
		if d := commandline.Repack(); d != "" {
			if err := repack(d, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()
	applyCommandline()
	if commandline.CvarList() {
		cvar.List()
	}
	if flag.NArg() == 0 {
		if commandline.CvarList() {
			return
		}
		usage()
		os.Exit(2)
	}
	if err := run(flag.Args()); err != nil {
		log.Fatalf("%+v", err)
	}
}
