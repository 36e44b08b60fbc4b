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

// Package manifest publishes checkpoints into the checkpoints directory. The
// checkpoints directory is the durable, navigable collection of every
// checkpoint and is the only place external viewers need to look.
//
// Each published checkpoint has an entry named after the checkpoint. On
// systems that support them the entry is a relative symbolic link to the
// artifact bundle in the versions directory. Where symbolic links cannot be
// created the image, record and digest list of the bundle are copied into a
// directory instead. The latest entry points to the most recently published
// checkpoint.
//
// Alongside the entries a catalog database records the seed, frame, run and
// image digest of every published checkpoint.
//
// Publishing is idempotent. Publishing a checkpoint that has already been
// published leaves the checkpoints directory in the same state.
package manifest
