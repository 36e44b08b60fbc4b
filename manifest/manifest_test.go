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

package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/manifest"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/seed"
	"github.com/procgen/sketchbook/test"
)

var created = time.Date(2021, 2, 13, 14, 38, 55, 0, time.Local)

// write a minimal artifact bundle for the named checkpoint
func bundle(t *testing.T, l paths.Layout, name string, image string) manifest.Entry {
	t.Helper()
	test.DemandSuccess(t, os.MkdirAll(l.Source(name), 0o755))
	test.DemandSuccess(t, os.WriteFile(l.Image(name), []byte(image), 0o644))
	test.DemandSuccess(t, os.WriteFile(l.Record(name), []byte("name: "+name+"\n"), 0o644))
	test.DemandSuccess(t, os.WriteFile(l.SourceSum(name), []byte("0000000000000000  main.go\n"), 0o644))
	return manifest.Entry{
		Name:      name,
		Frame:     7,
		Seed:      42,
		Algorithm: "mt19937-res53/v1",
		RunID:     "run",
		Created:   created,
	}
}

func open(t *testing.T) (*manifest.Manifest, paths.Layout) {
	t.Helper()
	l := paths.Layout{Root: t.TempDir()}
	m, err := manifest.Open(context.Background(), l)
	test.DemandSuccess(t, err)
	t.Cleanup(func() { m.Close() })
	return m, l
}

func TestPublish(t *testing.T) {
	m, l := open(t)
	ctx := context.Background()
	const name = "2021-02-13 14:38:55 7"
	e := bundle(t, l, name, "png")

	test.ExpectFailure(t, m.Published(name))
	test.DemandSuccess(t, m.Publish(ctx, e))
	test.ExpectSuccess(t, m.Published(name))

	target, err := os.Readlink(l.Entry(name))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, target, paths.EntryTarget(name))

	// the entry resolves to the image in the bundle
	d, err := os.ReadFile(filepath.Join(l.Entry(name), name+".png"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(d), "png")

	latest, err := m.Latest()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, latest, name)

	r, ok, err := m.Lookup(ctx, name)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, r.Seed, uint64(42))
	test.ExpectEquality(t, r.Frame, uint64(7))
	test.ExpectEquality(t, r.Algorithm, "mt19937-res53/v1")
	test.ExpectSuccess(t, r.Created.Equal(created))
	test.ExpectInequality(t, r.ImageDigest, uint64(0))

	_, ok, err = m.Lookup(ctx, "missing")
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)
}

func TestPublishIdempotent(t *testing.T) {
	m, l := open(t)
	ctx := context.Background()
	const name = "2021-02-13 14:38:55 7"
	e := bundle(t, l, name, "png")

	test.DemandSuccess(t, m.Publish(ctx, e))
	first, err := m.List(ctx)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, m.Publish(ctx, e))
	second, err := m.List(ctx)
	test.DemandSuccess(t, err)

	test.ExpectDeepEquality(t, second, first)

	target, err := os.Readlink(l.Entry(name))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, target, paths.EntryTarget(name))

	ents, err := os.ReadDir(l.Checkpoints())
	test.ExpectSuccess(t, err)
	var links int
	for _, e := range ents {
		if e.Type()&os.ModeSymlink != 0 {
			links++
		}
	}

	// the entry and the latest pointer
	test.ExpectEquality(t, links, 2)
}

func TestStaleEntry(t *testing.T) {
	m, l := open(t)
	const name = "2021-02-13 14:38:55 7"
	e := bundle(t, l, name, "png")

	test.DemandSuccess(t, os.Symlink("../somewhere/else", l.Entry(name)))
	test.DemandSuccess(t, m.Publish(context.Background(), e))

	target, err := os.Readlink(l.Entry(name))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, target, paths.EntryTarget(name))
}

func TestPublishMissingBundle(t *testing.T) {
	m, _ := open(t)
	err := m.Publish(context.Background(), manifest.Entry{Name: "2021-02-13 14:38:55 7"})
	test.ExpectSuccess(t, curated.Is(err, curated.PublishFailure))
}

func TestCopyEntries(t *testing.T) {
	m, l := open(t)
	m.CopyEntries = true
	ctx := context.Background()
	const name = "2021-02-13 14:38:55 7"
	e := bundle(t, l, name, "png")

	test.DemandSuccess(t, m.Publish(ctx, e))

	info, err := os.Lstat(l.Entry(name))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, info.IsDir())

	for _, f := range []string{name + ".png", paths.RecordFile, paths.SourceSumFile} {
		_, err := os.Stat(filepath.Join(l.Entry(name), f))
		test.ExpectSuccess(t, err, f)
	}

	latest, err := m.Latest()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, latest, name)

	// same content is a no-op
	test.ExpectSuccess(t, m.Publish(ctx, e))

	// different content is not
	test.DemandSuccess(t, os.Remove(l.Image(name)))
	test.DemandSuccess(t, os.WriteFile(l.Image(name), []byte("different"), 0o644))
	err = m.Publish(ctx, e)
	test.ExpectSuccess(t, curated.Is(err, curated.PublishFailure))
}

func TestListOrder(t *testing.T) {
	m, l := open(t)
	ctx := context.Background()

	for _, f := range []uint64{10, 9, 100} {
		name := "2021-02-13 14:38:55 " + strconv.FormatUint(f, 10)
		e := bundle(t, l, name, name)
		e.Frame = f
		test.DemandSuccess(t, m.Publish(ctx, e))
	}

	r, err := m.List(ctx)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(r), 3)
	test.ExpectEquality(t, r[0].Frame, uint64(9))
	test.ExpectEquality(t, r[1].Frame, uint64(10))
	test.ExpectEquality(t, r[2].Frame, uint64(100))
}

func TestListOrderSubSecond(t *testing.T) {
	m, l := open(t)
	ctx := context.Background()

	later := bundle(t, l, "2021-02-13 14:38:55 1", "later")
	later.Frame = 1
	later.Created = created.Add(500 * time.Millisecond)
	test.DemandSuccess(t, m.Publish(ctx, later))

	earlier := bundle(t, l, "2021-02-13 14:38:55 2", "earlier")
	earlier.Frame = 2
	test.DemandSuccess(t, m.Publish(ctx, earlier))

	r, err := m.List(ctx)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(r), 2)
	test.ExpectEquality(t, r[0].Name, earlier.Name)
	test.ExpectEquality(t, r[1].Name, later.Name)
	test.ExpectSuccess(t, r[1].Created.Equal(later.Created))
}

type run struct {
	entries   []manifest.Entry
	attempted []string
	durable   []string
}

func (r run) Entries() []manifest.Entry {
	return r.entries
}

func (r run) Attempted() []string {
	return r.attempted
}

func (r run) Durable() []string {
	return r.durable
}

func TestCleanUp(t *testing.T) {
	m, l := open(t)
	t.Setenv(seed.EnvVar, "")
	seeds, err := seed.NewStore(l)
	test.DemandSuccess(t, err)

	const (
		published = "2021-02-13 14:38:55 1"
		failed    = "2021-02-13 14:38:55 2"
		durable   = "2021-02-13 14:38:55 3"
		collided  = "2021-02-13 14:38:55 4"
		unrelated = "2021-02-12 21:48:51 1"
	)

	e := bundle(t, l, published, "png")
	bundle(t, l, durable, "png")

	// record written by another process under the same name as a failed
	// attempt of this run
	bundle(t, l, collided, "png")

	for _, n := range []string{failed, durable, collided, unrelated} {
		test.DemandSuccess(t, seeds.SaveToFile(n, 42))
	}

	r := run{
		entries:   []manifest.Entry{e},
		attempted: []string{published, failed, durable, collided},
		durable:   []string{published, durable},
	}
	test.DemandSuccess(t, m.CleanUp(context.Background(), r, seeds))

	test.ExpectSuccess(t, m.Published(published))

	residual, err := seeds.Residual()
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, residual, []string{unrelated, failed, collided})
}

func TestCleanUpContinuesOnError(t *testing.T) {
	m, l := open(t)
	t.Setenv(seed.EnvVar, "")
	seeds, err := seed.NewStore(l)
	test.DemandSuccess(t, err)

	good := bundle(t, l, "2021-02-13 14:38:55 2", "png")
	r := run{
		entries: []manifest.Entry{
			{Name: "2021-02-13 14:38:55 1"},
			good,
		},
	}

	err = m.CleanUp(context.Background(), r, seeds)
	test.ExpectSuccess(t, curated.Is(err, curated.CleanupFailure))
	test.ExpectSuccess(t, m.Published(good.Name))
}
