// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"reflect"
	"testing"
)

func TestOptBool(t *testing.T) {
	var flags flag.FlagSet
	flags.Init("test", flag.ContinueOnError)
	a := optBool{}
	b := optBool{}
	c := optBool{}
	d := optBool{true, true}
	flags.Var(&a, "a", "usage")
	flags.Var(&b, "b", "usage")
	flags.Var(&c, "c", "usage")
	flags.Var(&d, "d", "usage")
	if err := flags.Parse([]string{"-a", "-b=false"}); err != nil {
		t.Error(err)
	}
	if !a.given || !a.on {
		t.Errorf("a = %+v", a)
	}
	if !b.given || b.on {
		t.Errorf("b = %+v", b)
	}
	if c.given || c.on {
		t.Errorf("c = %+v", c)
	}
	if !d.given || !d.on {
		t.Errorf("d = %+v", d)
	}
	if c.String() != "unset" || b.String() != "false" {
		t.Errorf("String() = %v, %v", c.String(), b.String())
	}
	if err := flags.Parse([]string{"-c=maybe"}); err == nil {
		t.Errorf("-c=maybe parsed")
	}
}

func TestSetList(t *testing.T) {
	var flags flag.FlagSet
	flags.Init("test", flag.ContinueOnError)
	var s setList
	flags.Var(&s, "set", "usage")
	if err := flags.Parse([]string{"-set", "r_picmip=1", "-set=developer=1", "-set", "name=", "-set", "r_subdivisions"}); err != nil {
		t.Fatal(err)
	}
	want := setList{{"r_picmip", "1"}, {"developer", "1"}, {"name", ""}, {"r_subdivisions"}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("s = %v, want %v", s, want)
	}
	if s.String() != "r_picmip=1 developer=1 name= r_subdivisions" {
		t.Errorf("String() = %q", s.String())
	}
	if err := s.Set("=1"); err == nil {
		t.Errorf("Set(=1) succeeded")
	}
}
