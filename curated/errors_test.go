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

package curated_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/test"
)

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf("snapshot: %v", "no space")
	test.ExpectEquality(t, e.Error(), "snapshot: no space")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf("snapshot: %v", e)
	test.ExpectEquality(t, f.Error(), "snapshot: no space")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(curated.SeedUnavailable, "no entropy")
	test.ExpectSuccess(t, curated.Is(e, curated.SeedUnavailable))
	test.ExpectFailure(t, curated.Is(e, curated.SnapshotFailure))

	// Is() fails when the pattern is wrapped
	f := curated.Errorf("checkpoint: %v", e)
	test.ExpectFailure(t, curated.Is(f, curated.SeedUnavailable))
	test.ExpectSuccess(t, curated.IsAny(f))

	// uncurated errors are never matched
	test.ExpectFailure(t, curated.Is(errors.New("plain"), curated.SeedUnavailable))
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.IsAny(nil))
}

func TestHas(t *testing.T) {
	e := curated.Errorf(curated.SnapshotFailure, "disk full")
	f := curated.Errorf("checkpoint: %v", e)
	g := curated.Errorf("frame 7: %v", f)
	test.ExpectSuccess(t, curated.Has(g, curated.SnapshotFailure))
	test.ExpectFailure(t, curated.Has(g, curated.PublishFailure))
	test.ExpectEquality(t, g.Error(), "frame 7: checkpoint: snapshot failure: disk full")
}

func TestUnwrap(t *testing.T) {
	e := curated.Errorf(curated.SeedUnavailable, fs.ErrNotExist)
	test.ExpectSuccess(t, errors.Is(e, fs.ErrNotExist))

	f := curated.Errorf("checkpoint: %v", e)
	test.ExpectSuccess(t, errors.Is(f, fs.ErrNotExist))

	g := curated.Errorf("checkpoint: %s", "no error value")
	test.ExpectFailure(t, errors.Is(g, fs.ErrNotExist))
}
