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

package environment

import (
	"github.com/procgen/sketchbook/checkpoint"
	"github.com/procgen/sketchbook/random"
)

// Label is used to name the environment.
type Label string

// List of valid Label values.
const (
	// the environment of a checkpoint being created by a run
	MainLabel Label = ""

	// the environment of a checkpoint being drawn again from its record
	ReplayLabel Label = "replay"
)

// Environment is the context for the drawing of one frame. Drawing logic
// receives the environment explicitly. There is no current checkpoint
// anywhere else.
type Environment struct {
	Label Label

	// the checkpoint being drawn
	Name  string
	Frame uint64

	// any randomisation required by the drawing logic must be retrieved
	// through this field
	Random *random.Generator
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. The environment uses the generator of the checkpoint.
func NewEnvironment(cp *checkpoint.Checkpoint) *Environment {
	return &Environment{
		Label:  MainLabel,
		Name:   cp.Name,
		Frame:  cp.Frame,
		Random: cp.Random,
	}
}

// NewReplay creates an environment from the record of a checkpoint. The
// generator is in the state it was in when the checkpoint was created.
func NewReplay(rec checkpoint.Record) (*Environment, error) {
	g, err := rec.Generator()
	if err != nil {
		return nil, err
	}
	return &Environment{
		Label:  ReplayLabel,
		Name:   rec.Name,
		Frame:  rec.Frame,
		Random: g,
	}, nil
}

// IsReplay returns true if the environment is drawing a checkpoint again
func (env *Environment) IsReplay() bool {
	return env.Label == ReplayLabel
}
