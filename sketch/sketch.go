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

// Package sketch is the drawing logic. It is snapshotted with every
// checkpoint and so any change here changes what a checkpoint reproduces.
//
// All randomness comes from the generator in the environment.
package sketch

import (
	"image/color"

	"github.com/procgen/sketchbook/canvas"
	"github.com/procgen/sketchbook/environment"
	"github.com/procgen/sketchbook/logger"
)

var (
	plum      = color.NRGBA{R: 0xdd, G: 0xa0, B: 0xdd, A: 0xff}
	steelBlue = color.NRGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
)

// maximum number of lights drawn in a frame
const maxLights = 5

// Draw the frame for the environment onto the canvas.
func Draw(env *environment.Environment, cnv *canvas.Canvas) {
	b := cnv.Bounds()
	width := float64(b.Dx())
	height := float64(b.Dy())

	cnv.Clear(plum)

	// the first light sits on the horizontal centre line
	x := env.Random.Generate() * width
	cnv.FillCircle(x, height/2, min(width, height)/10, steelBlue)

	logger.Logf(logger.Allow, "sketch", "%s: light at %.2f", env.Name, x)

	n := env.Random.Intn(maxLights)
	for i := 0; i < n; i++ {
		x := env.Random.Generate() * width
		y := env.Random.Generate() * height
		r := env.Random.Range(0.02, 0.08) * min(width, height)

		c := steelBlue
		c.A = uint8(env.Random.Range(64, 255))
		cnv.FillCircle(x, y, r, c)
	}
}
