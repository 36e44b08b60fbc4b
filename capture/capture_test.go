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

package capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/procgen/sketchbook/capture"
	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/test"
)

// backend that completes only when the test says so
type manualBackend struct {
	requested []string
	signals   []chan error
}

func (b *manualBackend) CaptureFrame(path string) <-chan error {
	ch := make(chan error, 1)
	b.requested = append(b.requested, path)
	b.signals = append(b.signals, ch)
	return ch
}

func (b *manualBackend) complete(i int, err error) {
	if err == nil {
		_ = os.WriteFile(b.requested[i], []byte("png"), 0o644)
	}
	b.signals[i] <- err
}

func TestFrame(t *testing.T) {
	dir := t.TempDir()
	b := &manualBackend{}
	pth := filepath.Join(dir, "bundle", "a 1.png")

	c, err := capture.Frame("a 1", pth, b)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(b.requested), 1)
	test.ExpectEquality(t, b.requested[0], pth)

	// nothing has been written yet
	test.ExpectFailure(t, c.Ready())

	b.complete(0, nil)
	test.ExpectSuccess(t, c.Wait(context.Background()))
	test.ExpectSuccess(t, c.Ready())
	test.ExpectSuccess(t, c.Err())

	// waiting again returns the same result
	test.ExpectSuccess(t, c.Wait(context.Background()))
}

func TestFrameExists(t *testing.T) {
	dir := t.TempDir()
	pth := filepath.Join(dir, "a 1.png")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("png"), 0o644))

	b := &manualBackend{}
	_, err := capture.Frame("a 1", pth, b)
	test.ExpectSuccess(t, curated.Is(err, curated.SnapshotFailure))

	// backend was never asked to capture
	test.ExpectEquality(t, len(b.requested), 0)
}

func TestBackendFailure(t *testing.T) {
	b := &manualBackend{}
	c, err := capture.Frame("a 1", filepath.Join(t.TempDir(), "a 1.png"), b)
	test.DemandSuccess(t, err)

	b.complete(0, errors.New("frame buffer lost"))

	for !c.Ready() {
		time.Sleep(time.Millisecond)
	}
	test.ExpectSuccess(t, curated.Is(c.Err(), curated.SnapshotFailure))
	test.ExpectSuccess(t, curated.Is(c.Wait(context.Background()), curated.SnapshotFailure))
}

func TestWaitCancelled(t *testing.T) {
	b := &manualBackend{}
	c, err := capture.Frame("a 1", filepath.Join(t.TempDir(), "a 1.png"), b)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	test.ExpectFailure(t, c.Wait(ctx))
	test.ExpectFailure(t, c.Ready())

	// a late signal is still received
	b.complete(0, nil)
	test.ExpectSuccess(t, c.Wait(context.Background()))
}
