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

package statsview_test

import (
	"context"
	"strings"
	"testing"

	"github.com/procgen/sketchbook/statsview"
	"github.com/procgen/sketchbook/test"
)

func TestAddress(t *testing.T) {
	test.ExpectInequality(t, statsview.Address, "")
	test.ExpectSuccess(t, strings.Contains(statsview.Address, ":"))
}

func TestLaunchUnavailable(t *testing.T) {
	if statsview.Available() {
		t.Skip("stats server is compiled in")
	}

	w := &test.CompareWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	statsview.Launch(ctx, w)
	test.ExpectSuccess(t, w.Compare(""))
}
