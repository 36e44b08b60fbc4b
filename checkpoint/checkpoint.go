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
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/procgen/sketchbook/capture"
	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/random"
	"github.com/procgen/sketchbook/seed"
	"github.com/procgen/sketchbook/snapshot"
)

// the format of the timestamp part of a checkpoint name
const timestampFormat = "%Y-%m-%d %H:%M:%S"

// Name returns the name for a checkpoint of the frame created at time t. The
// timestamp has a resolution of one second so the frame number is required to
// make the name unique.
//
// Format of returned string is:
//
//	YYYY-MM-DD HH:MM:SS frame
func Name(frame uint64, t time.Time) string {
	return strftime.Format(timestampFormat, t.Local()) + " " + strconv.FormatUint(frame, 10)
}

// Checkpoint is the unit of reproducibility. A checkpoint is never modified
// after creation except to advance its state.
type Checkpoint struct {
	Name    string
	Frame   uint64
	Seed    seed.Seed
	Created time.Time
	RunID   string

	// the generator for the drawing logic. it is created from Seed and
	// belongs to this checkpoint only
	Random *random.Generator

	layout  paths.Layout
	state   State
	capture *capture.Capture

	// the first error to occur after creation
	err error
}

func (cp *Checkpoint) String() string {
	return cp.Name
}

// ImagePath returns the path the frame for this checkpoint is written to.
func (cp *Checkpoint) ImagePath() string {
	return cp.layout.Image(cp.Name)
}

// State returns the current state of the checkpoint.
func (cp *Checkpoint) State() State {
	return cp.state
}

// Err returns the first error to have occurred after the checkpoint was
// created. Errors after creation do not remove the artifact bundle from the
// versions directory.
func (cp *Checkpoint) Err() error {
	return cp.err
}

// advance the state of the checkpoint. states can be skipped but never
// revisited
func (cp *Checkpoint) advance(s State) {
	if s <= cp.state {
		panic("checkpoint: state of " + cp.Name + " cannot move from " + cp.state.String() + " to " + s.String())
	}
	cp.state = s
}

// fail records the first error after creation
func (cp *Checkpoint) fail(err error) {
	logger.Logf(logger.Allow, "checkpoint", "%s: %v", cp.Name, err)
	if cp.err == nil {
		cp.err = err
	}
}

// SeedStore loads and persists seeds for new checkpoints. Implemented by
// seed.Store.
type SeedStore interface {
	Load() (seed.Seed, error)
	SaveToFile(name string, s seed.Seed) error
	CleanUpFile(name string) error
}

// Snapshotter copies the current drawing logic into the artifact bundle of a
// checkpoint. Implemented by snapshot.Snapshotter.
type Snapshotter interface {
	SaveCurrentVersion(name string) (snapshot.Summary, error)
}

// Creator creates checkpoints.
type Creator struct {
	Layout    paths.Layout
	Seeds     SeedStore
	Snapshots Snapshotter

	// identifier of the run the checkpoints belong to
	RunID string

	// the clock used for checkpoint names. defaults to time.Now
	Now func() time.Time

	// allow an existing checkpoint record to be replaced. never applies once the
	// image of the checkpoint has been written
	Overwrite bool
}

func (c *Creator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Create a new checkpoint for the frame. Each step must complete before the
// next begins. If an error is returned after the seed has been saved, the
// transient seed file remains on disk.
func (c *Creator) Create(frame uint64) (*Checkpoint, error) {
	now := c.now()
	return c.create(frame, Name(frame, now), now)
}

func (c *Creator) create(frame uint64, name string, now time.Time) (*Checkpoint, error) {
	cp := &Checkpoint{
		Name:    name,
		Frame:   frame,
		Created: now,
		RunID:   c.RunID,
		layout:  c.Layout,
		state:   Created,
	}

	s, err := c.Seeds.Load()
	if err != nil {
		return nil, curated.Errorf("checkpoint: %s: %v", name, err)
	}
	cp.Seed = s

	if err := c.Seeds.SaveToFile(name, s); err != nil {
		return nil, curated.Errorf("checkpoint: %s: %v", name, err)
	}
	cp.advance(SeedPersisted)

	// the image of a checkpoint is written once. replacing the logic of a
	// checkpoint whose image exists would leave the two describing different
	// seeds
	if _, err := os.Stat(c.Layout.Image(name)); err == nil {
		err = curated.Errorf(curated.SnapshotFailure, fmt.Sprintf("image for %q already exists", name))
		return nil, curated.Errorf("checkpoint: %s: %v", name, err)
	}

	sum, err := c.Snapshots.SaveCurrentVersion(name)
	if err != nil {
		return nil, curated.Errorf("checkpoint: %s: %v", name, err)
	}

	if err := writeRecord(c.Layout, newRecord(cp, sum), c.Overwrite); err != nil {
		return nil, curated.Errorf("checkpoint: %s: %v", name, err)
	}
	cp.advance(LogicSnapshotted)

	// the seed is durable in the checkpoint record by now. a seed file that
	// cannot be removed here will be tried again by the final cleanup
	if err := c.Seeds.CleanUpFile(name); err != nil {
		logger.Logf(logger.Allow, "checkpoint", "%s: %v", name, err)
	} else {
		cp.advance(SeedFileCleaned)
	}

	cp.Random = random.FromSeed(uint64(s))

	logger.Logf(logger.Allow, "checkpoint", "%s: seed %s", name, s)

	return cp, nil
}
