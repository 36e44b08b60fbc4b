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

package prefs

import (
	"fmt"
	"time"

	"github.com/procgen/sketchbook/paths"
)

// Sketchbook is the collection of preferences for a project.
type Sketchbook struct {
	dsk *Disk

	// number of frames to produce in a run
	Frames Int

	// dimensions of the canvas in pixels
	Width  Int
	Height Int

	// root of the source tree that is snapshotted with every checkpoint. an
	// empty value means the project root
	Source String

	// patterns of files and directories to exclude from the snapshot
	Ignore List

	// how long to wait for outstanding image captures when a run ends
	ExitTimeout Duration

	// publish checkpoints by copying instead of with symbolic links
	CopyEntries Bool
}

func (p *Sketchbook) String() string {
	return p.dsk.String()
}

// NewSketchbook is the preferred method of initialisation for the Sketchbook
// type. Values from the prefs file of the project are loaded if the file
// exists.
func NewSketchbook(layout paths.Layout) (*Sketchbook, error) {
	p := &Sketchbook{}
	p.SetDefaults()

	positive := func(v Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("value must be positive (%d)", v.(int))
		}
		return nil
	}
	p.Frames.SetHookPre(positive)
	p.Width.SetHookPre(positive)
	p.Height.SetHookPre(positive)

	var err error
	p.dsk, err = NewDisk(layout.Prefs())
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]pref{
		"frames":        &p.Frames,
		"canvas.width":  &p.Width,
		"canvas.height": &p.Height,
		"source.root":   &p.Source,
		"source.ignore": &p.Ignore,
		"exit_timeout":  &p.ExitTimeout,
		"copy_entries":  &p.CopyEntries,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Sketchbook) SetDefaults() {
	_ = p.Frames.Set(1)
	_ = p.Width.Set(512)
	_ = p.Height.Set(512)
	_ = p.Source.Set("")
	_ = p.Ignore.Set([]string{"*.png", "*.tmp"})
	_ = p.ExitTimeout.Set(30 * time.Second)
	_ = p.CopyEntries.Set(false)
}

// Load preferences from disk.
func (p *Sketchbook) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Sketchbook) Save() error {
	return p.dsk.Save()
}

// Override preferences with a prefs string from the command line. See
// Disk.Override() for details.
func (p *Sketchbook) Override(prefs string) (string, error) {
	return p.dsk.Override(prefs)
}
