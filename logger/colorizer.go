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

package logger

import (
	"bytes"
	"io"
)

const (
	penTag    = "\033[36m"
	penNormal = "\033[0m"
)

// Colorizer applies basic coloring rules to logging output. The tag part of
// each entry is printed in a different pen to the detail.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method if initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	i := bytes.Index(p, []byte(": "))
	if i < 0 {
		return c.out.Write(p)
	}

	var b bytes.Buffer
	b.WriteString(penTag)
	b.Write(p[:i])
	b.WriteString(penNormal)
	b.Write(p[i:])

	if _, err := c.out.Write(b.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
