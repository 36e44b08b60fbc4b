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

// Package capture schedules the writing of a rendered frame into the artifact
// bundle of a checkpoint.
//
// Writing the image happens asynchronously. The render backend decides when
// the frame buffer is flushed to disk and signals completion on a channel.
// Nothing should assume the image exists until that signal has been received
// and the Capture type makes the wait explicit.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
)

// Backend is implemented by render backends that can write the current frame
// to disk.
type Backend interface {
	// CaptureFrame schedules the current frame to be written to path. The
	// returned channel receives exactly one value when the write has
	// completed. A nil value indicates success.
	CaptureFrame(path string) <-chan error
}

// Capture is a scheduled frame capture.
type Capture struct {
	Name string
	Path string

	done     <-chan error
	finished bool
	err      error
}

// Frame schedules the current frame of the backend to be written to path on
// behalf of the named checkpoint. The image of a checkpoint is written only
// once and so it is an error for path to exist already.
func Frame(name string, path string, backend Backend) (*Capture, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, curated.Errorf(curated.SnapshotFailure, fmt.Sprintf("image for %q already exists", name))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, curated.Errorf(curated.SnapshotFailure, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, curated.Errorf(curated.SnapshotFailure, err)
	}

	c := &Capture{
		Name: name,
		Path: path,
		done: backend.CaptureFrame(path),
	}

	logger.Logf(logger.Allow, "capture", "scheduled %s", filepath.Base(path))

	return c, nil
}

func (c *Capture) finish(err error) {
	c.finished = true
	if err != nil {
		c.err = curated.Errorf(curated.SnapshotFailure, err)
	}
}

// Ready returns true if the backend has signalled completion. It never
// blocks.
func (c *Capture) Ready() bool {
	if c.finished {
		return true
	}

	select {
	case err := <-c.done:
		c.finish(err)
	default:
	}

	return c.finished
}

// Wait blocks until the backend signals completion or the context is done.
// Returns the error reported by the backend, if any.
func (c *Capture) Wait(ctx context.Context) error {
	if c.finished {
		return c.err
	}

	select {
	case err := <-c.done:
		c.finish(err)
		return c.err
	case <-ctx.Done():
		return curated.Errorf("capture: %s: %v", c.Name, ctx.Err())
	}
}

// Err returns the error reported by the backend. Only meaningful once Ready()
// has returned true.
func (c *Capture) Err() error {
	return c.err
}
