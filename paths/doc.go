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

// Package paths describes where the artifacts of a sketchbook project are
// stored on disk. All paths are relative to the project root, which is found
// with the FindRoot() function.
//
// The layout of a project root is:
//
//	sketchbook.yaml            preferences (optional)
//	.env                       environment overrides (optional)
//	.seeds/<name>.seed         transient seed files
//	versions/<name>/           artifact bundle of a checkpoint
//	    <name>.png             the captured frame
//	    checkpoint.yaml        the checkpoint record
//	    src/                   snapshot of the drawing logic
//	    src.sum                digests of the snapshot files
//	checkpoints/<name>         published entry (symlink to the bundle)
//	checkpoints/latest         most recently published entry
//	checkpoints/catalog.db     catalog of published checkpoints
//
// For example, on a project rooted at /home/user/sketch, the image for the
// checkpoint "2021-02-13 14:38:55 7" will be found at:
//
//	/home/user/sketch/versions/2021-02-13 14:38:55 7/2021-02-13 14:38:55 7.png
package paths
