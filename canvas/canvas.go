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

package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
)

// request for the current frame to be written to path
type request struct {
	path string
	done chan error
}

// Canvas is an in-memory drawing surface.
type Canvas struct {
	// the image we draw to until EndFrame() is called
	curr *image.NRGBA

	// captures requested for the current frame
	pending []request

	// number of frames ended
	frameNum int

	// outstanding writes
	writing sync.WaitGroup
}

// NewCanvas is the preferred method of initialisation for the Canvas type.
func NewCanvas(width int, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf("canvas: illegal dimensions (%dx%d)", width, height)
	}
	return &Canvas{
		curr: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

func (cnv *Canvas) String() string {
	b := cnv.curr.Bounds()
	return fmt.Sprintf("%dx%d frame %d", b.Dx(), b.Dy(), cnv.frameNum)
}

// Bounds returns the dimensions of the canvas.
func (cnv *Canvas) Bounds() image.Rectangle {
	return cnv.curr.Bounds()
}

// Clear the canvas with a single colour.
func (cnv *Canvas) Clear(col color.Color) {
	draw.Draw(cnv.curr, cnv.curr.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Set a single pixel. Pixels outside the canvas are ignored.
func (cnv *Canvas) Set(x int, y int, col color.Color) {
	cnv.curr.Set(x, y, col)
}

// FillRect fills the rectangle with the colour, blending with the existing
// pixels if the colour is translucent.
func (cnv *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(cnv.curr, r.Intersect(cnv.curr.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// FillCircle fills the circle with centre (cx, cy) and radius r.
func (cnv *Canvas) FillCircle(cx float64, cy float64, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	box := image.Rect(int(math.Floor(cx-r)), int(math.Floor(cy-r)), int(math.Ceil(cx+r))+1, int(math.Ceil(cy+r))+1)
	box = box.Intersect(cnv.curr.Bounds())

	src := image.NewUniform(col)
	r2 := r * r
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				draw.Draw(cnv.curr, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
			}
		}
	}
}

// Line draws a line of one pixel width between two points.
func (cnv *Canvas) Line(x0 int, y0 int, x1 int, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		cnv.curr.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CaptureFrame implements the capture.Backend interface. The frame is captured
// when EndFrame() is called.
func (cnv *Canvas) CaptureFrame(path string) <-chan error {
	done := make(chan error, 1)
	cnv.pending = append(cnv.pending, request{path: path, done: done})
	return done
}

// EndFrame finishes the current frame. Any captures requested for the frame
// are written to disk in the background. The canvas can be drawn to
// immediately.
func (cnv *Canvas) EndFrame() {
	cnv.frameNum++

	if len(cnv.pending) == 0 {
		return
	}

	// the frame as it is now. drawing to the canvas after EndFrame() has
	// returned does not affect the captured image
	frame := image.NewNRGBA(cnv.curr.Bounds())
	copy(frame.Pix, cnv.curr.Pix)

	for _, req := range cnv.pending {
		cnv.writing.Add(1)
		go func(req request) {
			defer cnv.writing.Done()
			err := writePNG(req.path, frame)
			if err != nil {
				logger.Logf(logger.Allow, "canvas", "%s: %v", req.path, err)
			}
			req.done <- err
		}(req)
	}

	cnv.pending = cnv.pending[:0]
}

// Wait for all outstanding writes to complete.
func (cnv *Canvas) Wait() {
	cnv.writing.Wait()
}

// writePNG writes the image to a new file. it is an error for the file to
// exist already
func writePNG(path string, img image.Image) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Encode the current frame as a PNG image.
func (cnv *Canvas) Encode(w io.Writer) error {
	if err := png.Encode(w, cnv.curr); err != nil {
		return curated.Errorf("canvas: %v", err)
	}
	return nil
}

// Digest returns the digest of the current frame encoded as a PNG image. The
// value is the same as the digest of a file written by a capture of the
// frame.
func (cnv *Canvas) Digest() (uint64, error) {
	var b bytes.Buffer
	if err := cnv.Encode(&b); err != nil {
		return 0, err
	}
	return xxhash.Sum64(b.Bytes()), nil
}
