// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"testing"

	"goq3bsp/math/vec"
)

const entityText = `{
"classname" "worldspawn"
"message" "Arena {Gate}"
}
{
"origin" "10 0 -4"
"classname" "misc_model"
"model" "models/mapobjects/gargoyle.md3"
"angle" "90"
}
{
"classname" "misc_model"
"model" "models/mapobjects/pipe.md3"
"angles" "0 -315 0"
}
{
"classname" "misc_model"
}
{
"classname" "info_player_deathmatch"
"origin" "1 2 3"
}`

func TestParseEntities(t *testing.T) {
	es := ParseEntities([]byte(entityText))
	if len(es) != 5 {
		t.Fatalf("ParseEntities found %d entities, want 5", len(es))
	}
	if n, _ := es[0].Name(); n != "worldspawn" {
		t.Errorf("es[0].Name() = %q, want worldspawn", n)
	}
	if m := es[0].String("message"); m != "Arena {Gate}" {
		t.Errorf("message = %q, want %q", m, "Arena {Gate}")
	}
	if o, ok := es[4].Vec3("origin"); !ok || o != (vec.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("origin = %v %v, want {1 2 3}", o, ok)
	}
	if _, ok := es[4].Vec3("angles"); ok {
		t.Errorf("Vec3 of a missing key reports ok")
	}
	if f := es[1].Float("angle"); f != 90 {
		t.Errorf("Float(angle) = %v, want 90", f)
	}
	names := es[1].PropertyNames()
	if len(names) != 4 || names[0] != "origin" || names[3] != "angle" {
		t.Errorf("PropertyNames() = %v", names)
	}
}

func TestParseEntitiesUnbalanced(t *testing.T) {
	for _, in := range []string{
		"{ \"a\" \"b\"",
		"\"a\" \"b\" }",
		"{ { } }",
		"{ \"a\" \"b }",
	} {
		if es := ParseEntities([]byte(in)); es != nil {
			t.Errorf("ParseEntities(%q) = %v, want nil", in, es)
		}
	}
}

func TestPlacements(t *testing.T) {
	ps := Placements(ParseEntities([]byte(entityText)))
	if len(ps) != 2 {
		t.Fatalf("Placements found %d, want 2", len(ps))
	}
	want := Placement{
		ClassName: "misc_model",
		Model:     "models/mapobjects/gargoyle.md3",
		Origin:    vec.Vec3{X: 10, Y: 0, Z: -4},
		Yaw:       90,
	}
	if ps[0] != want {
		t.Errorf("ps[0] = %v, want %v", ps[0], want)
	}
	if ps[1].Yaw != 45 {
		t.Errorf("ps[1].Yaw = %v, want 45", ps[1].Yaw)
	}
}
