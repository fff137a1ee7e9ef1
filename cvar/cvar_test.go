// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"testing"

	"goq3bsp/conlog"
)

func TestRegister(t *testing.T) {
	cv, err := Register("test_level", "10", ARCHIVE)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if cv.Value() != 10 || cv.Int() != 10 || !cv.Archive() {
		t.Errorf("cv = %v %v", cv.Value(), cv.Archive())
	}
	if _, err := Register("test_level", "1", NONE); err == nil {
		t.Errorf("second Register succeeded")
	}
	got, ok := Get("test_level")
	if !ok || got != cv {
		t.Errorf("Get(test_level) = %v, %v", got, ok)
	}
}

func TestSetAndCallback(t *testing.T) {
	cv := MustRegister("test_atlas", "0", NONE)
	calls := 0
	cv.SetCallback(func(*Cvar) { calls++ })
	if cv.Bool() {
		t.Errorf("Bool() = true")
	}
	cv.SetByString("1")
	if !cv.Bool() || calls != 1 {
		t.Errorf("SetByString: Bool() = %v, calls = %v", cv.Bool(), calls)
	}
	cv.SetValue(0.5)
	if cv.String() != "0.5" || calls != 2 {
		t.Errorf("String() = %q, calls = %v", cv.String(), calls)
	}
}

func TestROM(t *testing.T) {
	cv := MustRegister("test_rom", "1", ROM)
	cv.SetByString("2")
	if cv.String() != "1" {
		t.Errorf("rom cvar changed to %v", cv.String())
	}
}

func TestExecute(t *testing.T) {
	var out string
	conlog.SetPrintf(func(f string, v ...any) { out = fmt.Sprintf(f, v...) })
	defer conlog.SetPrintf(nil)
	cv := MustRegister("test_exec", "3", NONE)
	if !Execute([]string{"test_exec"}) || out != "\"test_exec\" is \"3\"\n" {
		t.Errorf("Execute print: %q", out)
	}
	if !Execute([]string{"test_exec", "7"}) || cv.Value() != 7 {
		t.Errorf("Execute set: %v", cv.Value())
	}
	if Execute([]string{"test_none", "1"}) || Execute(nil) {
		t.Errorf("Execute of unknown cvar succeeded")
	}
	Set("test_user", "abc")
	if u, ok := Get("test_user"); !ok || !u.UserDefined() || u.String() != "abc" {
		t.Errorf("Set created %v", u)
	}
}

func TestList(t *testing.T) {
	var out []string
	conlog.SetPrintf(func(f string, v ...any) { out = append(out, fmt.Sprintf(f, v...)) })
	defer conlog.SetPrintf(nil)
	MustRegister("test_list_b", "2", NONE)
	MustRegister("test_list_a", "1", ARCHIVE)
	Set("test_list_c", "3")
	List()
	if len(out) != len(All())+1 {
		t.Fatalf("List printed %d lines for %d cvars", len(out), len(All()))
	}
	a, b, c := -1, -1, -1
	for i, l := range out {
		switch l {
		case "* test_list_a \"1\"\n":
			a = i
		case "  test_list_b \"2\"\n":
			b = i
		case "u test_list_c \"3\"\n":
			c = i
		}
	}
	if a < 0 || b < 0 || c < 0 || a > b || b > c {
		t.Errorf("List() = %q", out)
	}
	if want := fmt.Sprintf("%v cvars\n", len(All())); out[len(out)-1] != want {
		t.Errorf("last line = %q, want %q", out[len(out)-1], want)
	}
}
