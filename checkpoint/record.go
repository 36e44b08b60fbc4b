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

package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/random"
	"github.com/procgen/sketchbook/snapshot"
	"github.com/procgen/sketchbook/version"
)

// Record is the durable description of a checkpoint, stored in the artifact
// bundle alongside the image and the source snapshot. Once the record has been
// written the seed of the checkpoint is no longer transient.
type Record struct {
	Name      string    `yaml:"name"`
	Frame     uint64    `yaml:"frame"`
	Seed      uint64    `yaml:"seed"`
	Algorithm string    `yaml:"algorithm"`
	Created   time.Time `yaml:"created"`
	RunID     string    `yaml:"run"`
	Image     string    `yaml:"image"`
	Version   string    `yaml:"version"`
	Source    Source    `yaml:"source"`
}

// Source summarises the snapshot of the drawing logic.
type Source struct {
	Files  int    `yaml:"files"`
	Bytes  int64  `yaml:"bytes"`
	Digest string `yaml:"digest"`
}

func newRecord(cp *Checkpoint, sum snapshot.Summary) Record {
	return Record{
		Name:      cp.Name,
		Frame:     cp.Frame,
		Seed:      uint64(cp.Seed),
		Algorithm: random.Algorithm,
		Created:   cp.Created,
		RunID:     cp.RunID,
		Image:     filepath.Base(cp.ImagePath()),
		Version:   version.String(),
		Source: Source{
			Files:  sum.Files,
			Bytes:  sum.Bytes,
			Digest: fmt.Sprintf("%016x", sum.Digest),
		},
	}
}

// writeRecord writes the record into the bundle and syncs it to disk. an
// existing record is only replaced if overwrite is true
func writeRecord(layout paths.Layout, rec Record, overwrite bool) (rerr error) {
	d, err := yaml.Marshal(rec)
	if err != nil {
		return curated.Errorf(curated.SnapshotFailure, err)
	}

	filename := layout.Record(rec.Name)

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return curated.Errorf(curated.SnapshotFailure, fmt.Sprintf("record for %q already exists", rec.Name))
		}
		return curated.Errorf(curated.SnapshotFailure, err)
	}
	defer func() {
		if rerr != nil {
			_ = os.Remove(filename)
		}
	}()

	if _, err := f.Write(d); err != nil {
		f.Close()
		return curated.Errorf(curated.SnapshotFailure, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return curated.Errorf(curated.SnapshotFailure, err)
	}
	if err := f.Close(); err != nil {
		return curated.Errorf(curated.SnapshotFailure, err)
	}

	return nil
}

// ReadRecord reads the record of the named checkpoint.
func ReadRecord(layout paths.Layout, name string) (Record, error) {
	d, err := os.ReadFile(layout.Record(name))
	if err != nil {
		return Record{}, curated.Errorf("checkpoint: %s: %v", name, err)
	}

	var rec Record
	if err := yaml.Unmarshal(d, &rec); err != nil {
		return Record{}, curated.Errorf("checkpoint: %s: %v", name, err)
	}

	if rec.Name != name {
		return Record{}, curated.Errorf("checkpoint: %s: record names %q", name, rec.Name)
	}

	return rec, nil
}

// Generator returns a new generator in the state it was in when the
// checkpoint was created. It is an error for the record to have been made
// with a different generator algorithm.
func (rec Record) Generator() (*random.Generator, error) {
	if rec.Algorithm != random.Algorithm {
		return nil, curated.Errorf("checkpoint: %s: recorded with generator %q but this version uses %q",
			rec.Name, rec.Algorithm, random.Algorithm)
	}
	return random.FromSeed(rec.Seed), nil
}
