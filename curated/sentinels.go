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

package curated

// Sentinel patterns for the kinds of failure that can occur during the life
// of a checkpoint. Use with Errorf() to create the error and with Has() to
// test for it.
const (
	// the seed could not be minted, parsed or read back from the transient
	// seed file. aborts creation of the checkpoint
	SeedUnavailable = "seed unavailable: %v"

	// the logic snapshot or the captured image could not be written. fatal
	// for the checkpoint but not for the run
	SnapshotFailure = "snapshot failure: %v"

	// the checkpoint could not be published into the checkpoints directory.
	// the artifact bundle remains in the versions directory
	PublishFailure = "publish failure: %v"

	// one or more steps of the end-of-run cleanup failed. always non-fatal
	CleanupFailure = "cleanup failure: %v"
)
