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

//go:build statsview

package statsview

import (
	"context"
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/procgen/sketchbook/logger"
)

const url = "/debug/statsview"

// Launch the stats server in a new goroutine. The server stops when the
// context is done.
func Launch(ctx context.Context, output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go func() {
		mgr.Start()
	}()

	go func() {
		<-ctx.Done()
		mgr.Stop()
		logger.Log(logger.Allow, "statsview", "stopped")
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
	logger.Logf(logger.Allow, "statsview", "listening on %s", Address)
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
