// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"strconv"
	"strings"

	"goq3bsp/math"
	"goq3bsp/math/vec"
)

type Entity struct {
	properties map[string]string
	keys       []string
}

func NewEntity(p map[string]string) *Entity {
	e := &Entity{properties: make(map[string]string, len(p))}
	for k, v := range p {
		e.set(k, v)
	}
	return e
}

func (e *Entity) set(k, v string) {
	if _, ok := e.properties[k]; !ok {
		e.keys = append(e.keys, k)
	}
	e.properties[k] = v
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// PropertyNames returns the keys in the order they were first seen.
func (e *Entity) PropertyNames() []string {
	return append([]string(nil), e.keys...)
}

// String returns the value of key or "" when it is missing.
func (e *Entity) String(key string) string {
	return e.properties[key]
}

// Float returns the value of key or 0 when it is missing or not a number.
func (e *Entity) Float(key string) float32 {
	v, ok := e.properties[key]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

// Vec3 parses "x y z". Missing trailing components are 0.
func (e *Entity) Vec3(key string) (vec.Vec3, bool) {
	v, ok := e.properties[key]
	if !ok {
		return vec.Vec3{}, false
	}
	var a [3]float32
	for i, f := range strings.Fields(v) {
		if i == len(a) {
			break
		}
		n, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		a[i] = float32(n)
	}
	return vec.VFromA(a), true
}

/*
ParseEntities splits the entity lump. The data looks like:

	{
	"classname" "worldspawn"
	"message" "Arena Gate"
	}
	{
	"origin" "-24 -320 40"
	"classname" "misc_model"
	"model" "models/mapobjects/gargoyle.md3"
	}

Keys and values are quoted and may contain braces. Unbalanced input
returns nil.
*/
func ParseEntities(data []byte) []*Entity {
	var (
		es      []*Entity
		cur     *Entity
		key     string
		haveKey bool
	)
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '{':
			if cur != nil {
				return nil
			}
			cur = &Entity{properties: make(map[string]string)}
			haveKey = false
		case '}':
			if cur == nil {
				return nil
			}
			es = append(es, cur)
			cur = nil
		case '"':
			end := i + 1
			for end < len(data) && data[end] != '"' {
				end++
			}
			if end == len(data) || cur == nil {
				return nil
			}
			tok := string(data[i+1 : end])
			i = end
			if haveKey {
				cur.set(key, tok)
			} else {
				key = tok
			}
			haveKey = !haveKey
		}
	}
	if cur != nil {
		return nil
	}
	return es
}

// Placement instances an external model into the map.
type Placement struct {
	ClassName string
	Model     string
	Origin    vec.Vec3
	Yaw       float32 // degrees, within [0,360)
}

// placeable lists the classes whose "model" key names an md3 to merge.
var placeable = map[string]bool{
	"misc_model": true,
}

func Placements(es []*Entity) []Placement {
	var ps []Placement
	for _, e := range es {
		cn, _ := e.Name()
		if !placeable[cn] {
			continue
		}
		m := e.String("model")
		if m == "" {
			continue
		}
		p := Placement{ClassName: cn, Model: m}
		p.Origin, _ = e.Vec3("origin")
		if _, ok := e.Property("angle"); ok {
			p.Yaw = e.Float("angle")
		} else if a, ok := e.Vec3("angles"); ok {
			p.Yaw = a.Y
		}
		p.Yaw = math.AngleMod(p.Yaw)
		ps = append(ps, p)
	}
	return ps
}
