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

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/procgen/sketchbook/manifest"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/test"
)

func TestModes(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	test.DemandSuccess(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))
	test.DemandSuccess(t, os.WriteFile(filepath.Join(root, "sketchbook.yaml"), []byte("canvas:\n  width: 32\n  height: 24\n"), 0o644))

	out := &test.CompareWriter{}

	// RUN is the default mode
	test.DemandEquality(t, launch(ctx, []string{"-root", root, "-frames", "2", "-seed", "42"}, out), 0, out.String())

	l := paths.Layout{Root: root}
	mnfst, err := manifest.Open(ctx, l)
	test.DemandSuccess(t, err)
	recs, err := mnfst.List(ctx)
	mnfst.Close()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(recs), 2)
	a, b := recs[0].Name, recs[1].Name
	test.ExpectEquality(t, recs[0].Seed, uint64(42))
	test.ExpectEquality(t, recs[0].Frame, uint64(0))
	test.ExpectEquality(t, recs[1].Frame, uint64(1))

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"list", "-root", root}, out), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), a))
	test.ExpectSuccess(t, strings.Contains(out.String(), "* "+b))

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"show", "-root", root, a}, out), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), "seed:      42"), out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "source:    2 files"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"diff", "-root", root, a, b}, out), 0)
	test.ExpectSuccess(t, out.Compare("logic is identical\n"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"replay", "-root", root, b}, out), 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "reproduced"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"recover", "-root", root}, out), 0)
	test.ExpectSuccess(t, out.Compare("no residual seed files\n"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"version"}, out), 0)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "Sketchbook"))

	// errors in a mode
	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"show", "-root", root}, out), 20)
	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"show", "-root", root, "2000-01-01 00:00:00 0"}, out), 20)
	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"-root", root, "-seed", "forty-two"}, out), 20)

	// help is not an error
	out.Clear()
	test.ExpectEquality(t, launch(ctx, []string{"-help"}, out), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), "available sub-modes"))
}

func TestRecover(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	l := paths.Layout{Root: root}

	const name = "2021-02-13 14:38:55 7"
	test.DemandSuccess(t, os.MkdirAll(l.Seeds(), 0o755))
	test.DemandSuccess(t, os.WriteFile(l.SeedFile(name), []byte("name: "+name+"\nseed: 99\n"), 0o644))

	out := &test.CompareWriter{}
	test.ExpectEquality(t, launch(ctx, []string{"recover", "-root", root, "-clean"}, out), 0)
	test.ExpectSuccess(t, out.Compare(name+"  seed 99, no bundle\n"), out.String())

	// without a record the seed file is never removed
	_, err := os.Stat(l.SeedFile(name))
	test.ExpectSuccess(t, err)
}
