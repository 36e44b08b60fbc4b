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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Arguments are given with NewArgs() and parsed with Parse(), which takes no
// arguments. This allows the same argument list to be parsed in layers:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "LIST", "SHOW")
//	_, _ = md.Parse()
//
// A mode is a special command line argument that puts the program into a
// different mode of operation, in the way the go command has build, test, etc.
// The first sub-mode is the default and is selected if no sub-mode is named.
// Sub-mode comparisons are case insensitive.
//
// Once a mode has been selected NewMode() starts the next layer, which can
// have its own flags and sub-modes:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		frames := md.AddInt("frames", 1, "number of frames")
//		switch p, err := md.Parse(); p {
//		case modalflag.ParseError:
//			return err
//		case modalflag.ParseHelp:
//			return nil
//		}
//		run(*frames)
//	case "SHOW":
//		md.NewMode()
//		_, _ = md.Parse()
//		if err := md.ExpectArgs(1, 1); err != nil {
//			return err
//		}
//		show(md.GetArg(0))
//	}
//
// Flags of the default mode can be given without naming the mode. In the
// example above, "-frames 3" on its own selects the RUN mode.
package modalflag
