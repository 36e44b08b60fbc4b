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
	"context"

	"github.com/google/uuid"

	"github.com/procgen/sketchbook/capture"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/manifest"
	"github.com/procgen/sketchbook/random"
)

// Publisher publishes checkpoints into the checkpoints directory. Implemented
// by manifest.Manifest.
type Publisher interface {
	Publish(ctx context.Context, e manifest.Entry) error
	Published(name string) bool
	CleanUp(ctx context.Context, run manifest.Run, seeds manifest.SeedCleaner) error
}

// Run is the set of checkpoints created by a single process.
type Run struct {
	ID string

	creator   *Creator
	publisher Publisher
	seeds     SeedStore

	checkpoints []*Checkpoint
	attempted   []string

	// names whose most recent attempt failed. the seed file of a failed
	// attempt replaces any earlier one with the same name
	failed map[string]bool
}

// NewRun is the preferred method of initialisation for the Run type. The
// RunID field of the creator is set to the ID of the new run.
func NewRun(creator *Creator, publisher Publisher) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		creator:   creator,
		publisher: publisher,
		seeds:     creator.Seeds,
		failed:    make(map[string]bool),
	}
	creator.RunID = r.ID

	logger.Logf(logger.Allow, "run", "started %s", r.ID)

	return r
}

// Save creates a checkpoint for the frame and schedules the capture of the
// current frame of the backend.
//
// An error is returned only if the checkpoint could not be created, in which
// case the caller should decide whether to skip the frame or stop. Failure to
// schedule the capture is logged and can be seen with Checkpoint.Err().
func (r *Run) Save(frame uint64, backend capture.Backend) (*Checkpoint, error) {
	now := r.creator.now()
	name := Name(frame, now)
	r.attempted = append(r.attempted, name)

	cp, err := r.creator.create(frame, name, now)
	if err != nil {
		r.failed[name] = true
		logger.Log(logger.Allow, "run", err)
		return nil, err
	}
	delete(r.failed, name)
	r.checkpoints = append(r.checkpoints, cp)

	c, err := capture.Frame(cp.Name, cp.ImagePath(), backend)
	if err != nil {
		cp.fail(err)
		return cp, nil
	}
	cp.capture = c
	cp.advance(ImageCaptureScheduled)

	return cp, nil
}

// Checkpoints returns the checkpoints created during the run in the order they
// were created.
func (r *Run) Checkpoints() []*Checkpoint {
	return r.checkpoints
}

// written checks whether the capture of the checkpoint has completed without
// blocking
func (r *Run) written(cp *Checkpoint) bool {
	// a failed capture has been reported already
	if cp.state != ImageCaptureScheduled || cp.err != nil || !cp.capture.Ready() {
		return false
	}
	if err := cp.capture.Err(); err != nil {
		cp.fail(err)
		return false
	}
	cp.advance(ImageWritten)
	return true
}

// Consolidate publishes every checkpoint whose image has been written to disk.
// It never waits for a capture to complete. Returns the number of checkpoints
// published.
func (r *Run) Consolidate(ctx context.Context) int {
	var n int
	for _, cp := range r.checkpoints {
		r.written(cp)
		if cp.state != ImageWritten {
			continue
		}
		if err := r.publisher.Publish(ctx, entry(cp)); err != nil {
			cp.fail(err)
			continue
		}
		cp.advance(Consolidated)
		n++
	}
	return n
}

// Exit waits for outstanding captures to complete and then performs the final
// cleanup of the run. Captures that have not completed by the time the context
// is done are left unpublished. The cleanup itself is not cancelled by the
// context.
//
// The returned error is always non-fatal. It summarises the steps of the
// cleanup that failed.
func (r *Run) Exit(ctx context.Context) error {
	for _, cp := range r.checkpoints {
		if cp.state != ImageCaptureScheduled {
			continue
		}
		err := cp.capture.Wait(ctx)
		if !cp.capture.Ready() {
			logger.Logf(logger.Allow, "run", "%s: image not written: %v", cp.Name, err)
			continue
		}
		r.written(cp)
	}

	// the cleanup runs to completion even if the wait for captures timed out
	err := r.publisher.CleanUp(context.WithoutCancel(ctx), r, r.seeds)

	for _, cp := range r.checkpoints {
		if cp.state == ImageWritten && r.publisher.Published(cp.Name) {
			cp.advance(Consolidated)
		}
	}

	logger.Logf(logger.Allow, "run", "finished %s", r.ID)

	return err
}

func entry(cp *Checkpoint) manifest.Entry {
	return manifest.Entry{
		Name:      cp.Name,
		Frame:     cp.Frame,
		Seed:      uint64(cp.Seed),
		Algorithm: random.Algorithm,
		RunID:     cp.RunID,
		Created:   cp.Created,
	}
}

// Entries implements the manifest.Run interface.
func (r *Run) Entries() []manifest.Entry {
	var e []manifest.Entry
	for _, cp := range r.checkpoints {
		if cp.state == ImageWritten || cp.state == Consolidated {
			e = append(e, entry(cp))
		}
	}
	return e
}

// Attempted implements the manifest.Run interface.
func (r *Run) Attempted() []string {
	return r.attempted
}

// Durable implements the manifest.Run interface. A checkpoint is only ever
// added to the run once its record has been written but a later failed
// attempt with the same name leaves a seed file that is recorded nowhere.
func (r *Run) Durable() []string {
	n := make([]string, 0, len(r.checkpoints))
	for _, cp := range r.checkpoints {
		if !r.failed[cp.Name] {
			n = append(n, cp.Name)
		}
	}
	return n
}
