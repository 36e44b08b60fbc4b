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

// Package canvas is a software render backend. Drawing happens on an in-memory
// image and frames are written to disk as PNG files by a goroutine per
// capture.
//
// The Canvas type implements the capture.Backend interface. A call to
// CaptureFrame() only registers the request: the frame is captured when it is
// finished with EndFrame(), and written to disk after that. The channel
// returned by CaptureFrame() is the only indication that the file exists.
package canvas
