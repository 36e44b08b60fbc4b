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

package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ExpectDeepEquality compares values that are not comparable with the ==
// operator, such as slices and structs containing slices. The difference
// between the values is included in the failure message
func ExpectDeepEquality(t *testing.T, v any, expectedValue any, opts ...cmp.Option) bool {
	t.Helper()
	if diff := cmp.Diff(expectedValue, v, opts...); diff != "" {
		t.Errorf("deep equality test of type %T failed (-want +got):\n%s", v, diff)
		return false
	}
	return true
}
