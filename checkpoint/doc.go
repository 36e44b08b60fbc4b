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

// Package checkpoint binds a frame to a seed, a generator, a captured image and
// a snapshot of the drawing logic. The checkpoint is the unit of
// reproducibility: given the checkpoint record and the logic snapshot, the
// frame can be drawn again exactly.
//
// A Run is created once per process. The render loop calls Run.Save() once per
// frame, draws the frame using the generator of the returned checkpoint, and
// calls Run.Exit() when it has finished.
//
//	run := checkpoint.NewRun(creator, mnfst)
//	for frame := uint64(0); frame < frames; frame++ {
//		cp, err := run.Save(frame, cnv)
//		if err != nil {
//			// skip the frame or halt
//		}
//		draw(cnv, cp.Random)
//		cnv.EndFrame()
//		run.Consolidate(ctx)
//	}
//	err := run.Exit(ctx)
//
// The creation of a checkpoint is a strict sequence: the name is derived from
// the frame and the current time, the seed is loaded and saved to a transient
// seed file, the logic is snapshotted and the checkpoint record written, and
// finally the seed file is removed. If the sequence fails after the seed file
// has been written the seed file remains on disk.
//
// The image is written by the render backend in its own time. A checkpoint is
// published into the checkpoints directory only after the backend signals that
// the image has been written.
package checkpoint
