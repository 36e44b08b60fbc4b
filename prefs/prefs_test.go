// This file is part of Sketchbook.
//
// Sketchbook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sketchbook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sketchbook.  If not, see <https://www.gnu.org/licenses/>.

package prefs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/prefs"
	"github.com/procgen/sketchbook/test"
)

func TestBool(t *testing.T) {
	var v prefs.Bool
	test.ExpectEquality(t, v.String(), "false")

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, v.Get().(bool), true)

	test.ExpectSuccess(t, v.Set("foo"))
	test.ExpectEquality(t, v.Get().(bool), false)

	test.ExpectSuccess(t, v.Set("TRUE"))
	test.ExpectEquality(t, v.String(), "true")

	test.ExpectFailure(t, v.Set(1.5))
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectEquality(t, v.String(), "0")

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Int(), 10)

	test.ExpectSuccess(t, v.Set(" 99 "))
	test.ExpectEquality(t, v.Get().(int), 99)

	test.ExpectFailure(t, v.Set("foo"))
	test.ExpectEquality(t, v.Int(), 99)

	// the pre hook can veto a value
	v.SetHookPre(func(nv prefs.Value) error {
		if nv.(int) > 100 {
			return os.ErrInvalid
		}
		return nil
	})
	test.ExpectFailure(t, v.Set(101))
	test.ExpectEquality(t, v.Int(), 99)

	var post int
	v.SetHookPost(func(nv prefs.Value) error {
		post = nv.(int)
		return nil
	})
	test.ExpectSuccess(t, v.Set(50))
	test.ExpectEquality(t, post, 50)
}

func TestDuration(t *testing.T) {
	var v prefs.Duration
	test.ExpectSuccess(t, v.Set("1m30s"))
	test.ExpectEquality(t, v.Duration(), 90*time.Second)
	test.ExpectEquality(t, v.Get().(string), "1m30s")
	test.ExpectFailure(t, v.Set("soon"))
	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Duration(), time.Duration(0))
}

func TestList(t *testing.T) {
	var v prefs.List
	test.ExpectEquality(t, len(v.List()), 0)

	test.ExpectSuccess(t, v.Set("*.png, build ,"))
	test.ExpectDeepEquality(t, v.List(), []string{"*.png", "build"})

	test.ExpectSuccess(t, v.Set([]any{"a", 1}))
	test.ExpectDeepEquality(t, v.List(), []string{"a", "1"})
	test.ExpectEquality(t, v.String(), "a, 1")

	// the returned list is a copy
	l := v.List()
	l[0] = "z"
	test.ExpectEquality(t, v.List()[0], "a")
}

func TestDisk(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "prefs.yaml")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var a prefs.Int
	var b prefs.String
	var c prefs.Bool
	test.ExpectSuccess(t, dsk.Add("top", &a))
	test.ExpectSuccess(t, dsk.Add("group.name", &b))
	test.ExpectSuccess(t, dsk.Add("group.flag", &c))
	test.ExpectFailure(t, dsk.Add("top", &a))
	test.ExpectFailure(t, dsk.Add("bad key", &a))

	// missing file is not an error
	test.ExpectSuccess(t, dsk.Load())

	test.ExpectSuccess(t, a.Set(3))
	test.ExpectSuccess(t, b.Set("foo"))
	test.ExpectSuccess(t, c.Set(true))
	test.DemandSuccess(t, dsk.Save())

	d, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), prefs.WarningBoilerPlate+"\ngroup:\n    flag: true\n    name: foo\ntop: 3\n")

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, a.Int(), 0)

	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, a.Int(), 3)
	test.ExpectEquality(t, b.String(), "foo")
	test.ExpectEquality(t, c.String(), "true")

	unused, err := dsk.Override("top::7; group.name:: bar ;other::x; nonsense")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, unused, "other::x")
	test.ExpectEquality(t, a.Int(), 7)
	test.ExpectEquality(t, b.String(), "bar")

	_, err = dsk.Override("top::seven")
	test.ExpectFailure(t, err)
}

func TestSketchbook(t *testing.T) {
	l := paths.Layout{Root: t.TempDir()}

	p, err := prefs.NewSketchbook(l)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Frames.Int(), 1)
	test.ExpectEquality(t, p.Width.Int(), 512)
	test.ExpectEquality(t, p.ExitTimeout.Duration(), 30*time.Second)
	test.ExpectEquality(t, p.Source.String(), "")

	yml := strings.Join([]string{
		"frames: 3",
		"canvas:",
		"  width: 640",
		"source:",
		"  ignore: [\"*.tmp\", testdata]",
		"exit_timeout: 5s",
		"unknown: 1",
	}, "\n")
	test.DemandSuccess(t, os.WriteFile(l.Prefs(), []byte(yml), 0o644))

	p, err = prefs.NewSketchbook(l)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Frames.Int(), 3)
	test.ExpectEquality(t, p.Width.Int(), 640)
	test.ExpectEquality(t, p.Height.Int(), 512)
	test.ExpectDeepEquality(t, p.Ignore.List(), []string{"*.tmp", "testdata"})
	test.ExpectEquality(t, p.ExitTimeout.Duration(), 5*time.Second)

	// values must be positive
	test.ExpectFailure(t, p.Frames.Set(0))
	test.ExpectEquality(t, p.Frames.Int(), 3)

	test.DemandSuccess(t, os.WriteFile(l.Prefs(), []byte("frames: -1\n"), 0o644))
	_, err = prefs.NewSketchbook(l)
	test.ExpectFailure(t, err)
}
