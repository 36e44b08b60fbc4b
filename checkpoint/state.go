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

package checkpoint

import "fmt"

// State of a checkpoint. States only ever advance.
type State int

// List of valid State values, in order.
const (
	Created State = iota
	SeedPersisted
	LogicSnapshotted
	SeedFileCleaned
	ImageCaptureScheduled
	ImageWritten
	Consolidated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case SeedPersisted:
		return "seed persisted"
	case LogicSnapshotted:
		return "logic snapshotted"
	case SeedFileCleaned:
		return "seed file cleaned"
	case ImageCaptureScheduled:
		return "image capture scheduled"
	case ImageWritten:
		return "image written"
	case Consolidated:
		return "consolidated"
	}
	return fmt.Sprintf("unknown state (%d)", int(s))
}
