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

// Package snapshot copies the source of the drawing logic into the artifact
// bundle of a checkpoint. A seed alone cannot reproduce an image if the code
// that consumed the seed has since changed, so every checkpoint carries a
// complete copy of the code that produced it.
//
// Alongside the copy a digest list (src.sum) is written. The digest list is
// used by Diff() to compare the logic of two checkpoints without reading the
// copied files again.
//
// A snapshot is written at most once. Saving a snapshot for a name that
// already has one is an error unless the Overwrite field of the Snapshotter
// is true.
package snapshot
