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

package canvas_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/procgen/sketchbook/canvas"
	"github.com/procgen/sketchbook/capture"
	"github.com/procgen/sketchbook/snapshot"
	"github.com/procgen/sketchbook/test"
)

var red = color.NRGBA{R: 255, A: 255}
var black = color.NRGBA{A: 255}

func TestDimensions(t *testing.T) {
	_, err := canvas.NewCanvas(0, 10)
	test.ExpectFailure(t, err)

	cnv, err := canvas.NewCanvas(32, 16)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cnv.Bounds(), image.Rect(0, 0, 32, 16))
	test.ExpectEquality(t, cnv.String(), "32x16 frame 0")
}

func TestCapture(t *testing.T) {
	var _ capture.Backend = (*canvas.Canvas)(nil)

	dir := t.TempDir()
	pth := filepath.Join(dir, "frame.png")

	cnv, err := canvas.NewCanvas(8, 8)
	test.DemandSuccess(t, err)
	cnv.Clear(black)

	done := cnv.CaptureFrame(pth)

	// nothing is written until the frame ends
	cnv.Set(1, 1, red)
	select {
	case <-done:
		t.Fatalf("capture completed before end of frame")
	default:
	}
	_, err = os.Stat(pth)
	test.ExpectFailure(t, err)

	want, err := cnv.Digest()
	test.DemandSuccess(t, err)

	cnv.EndFrame()

	// drawing after the end of the frame does not change the capture
	cnv.Clear(red)

	test.DemandSuccess(t, <-done)
	got, err := snapshot.Digest(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, got, want)

	f, err := os.Open(pth)
	test.DemandSuccess(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA), red)
	test.ExpectEquality(t, color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA), black)
}

func TestCaptureExists(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "frame.png")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("png"), 0o644))

	cnv, err := canvas.NewCanvas(8, 8)
	test.DemandSuccess(t, err)

	done := cnv.CaptureFrame(pth)
	cnv.EndFrame()
	test.ExpectFailure(t, <-done)

	// existing file is untouched
	d, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), "png")
}

func TestFrameWithoutCapture(t *testing.T) {
	cnv, err := canvas.NewCanvas(8, 8)
	test.DemandSuccess(t, err)
	cnv.EndFrame()
	cnv.EndFrame()
	cnv.Wait()
	test.ExpectEquality(t, cnv.String(), "8x8 frame 2")
}

func TestDrawing(t *testing.T) {
	cnv, err := canvas.NewCanvas(16, 16)
	test.DemandSuccess(t, err)

	a, err := cnv.Digest()
	test.DemandSuccess(t, err)

	cnv.FillCircle(8, 8, 4, red)
	b, err := cnv.Digest()
	test.DemandSuccess(t, err)
	test.ExpectInequality(t, a, b)

	// same drawing on another canvas produces the same digest
	other, err := canvas.NewCanvas(16, 16)
	test.DemandSuccess(t, err)
	other.FillCircle(8, 8, 4, red)
	c, err := other.Digest()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b, c)

	// shapes outside the canvas are clipped
	cnv.FillCircle(-100, -100, 4, red)
	cnv.FillRect(image.Rect(-5, -5, 2, 2), black)
	cnv.Line(0, 15, 15, 0, black)
	cnv.Line(20, 20, 30, 30, black)
}
