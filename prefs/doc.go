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

// Package prefs facilitates the storing of preference values on disk.
//
// Preferences are stored in the YAML file sketchbook.yaml at the root of the
// project. Individual values are represented by the Bool, String, Int,
// Duration and List types. Values are registered with a Disk under a key and
// the key is the path to the value in the file:
//
//	frames: 3
//	canvas:
//	    width: 640
//	    height: 480
//
// The value of canvas.width above is registered with the key "canvas.width".
//
// The Sketchbook type collects the preferences used by a run. Values can be
// overridden with a prefs string on the command line. See Disk.Override().
package prefs
