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

package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
)

// Run is the set of checkpoints produced by a single process.
type Run interface {
	// checkpoints whose images have been written and which can be published
	Entries() []Entry

	// the names of every checkpoint the run tried to create, including those
	// that failed
	Attempted() []string

	// the names of the checkpoints whose record was written by the run
	Durable() []string
}

// SeedCleaner removes transient seed files.
type SeedCleaner interface {
	CleanUpFile(name string) error
}

// CleanUp performs the final consolidation of a run. Every entry of the run is
// published if it has not been already and residual seed files are removed
// for checkpoints whose record was written by the run. Seed files of failed
// attempts are left on disk for recovery, as are those of checkpoints that do
// not belong to the run.
//
// A failure for one checkpoint does not prevent the cleanup of the others.
func (m *Manifest) CleanUp(ctx context.Context, run Run, seeds SeedCleaner) error {
	var failed int
	var last error

	fail := func(err error) {
		logger.Log(logger.Allow, "cleanup", err)
		failed++
		last = err
	}

	for _, e := range run.Entries() {
		if m.Published(e.Name) {
			continue
		}
		if err := m.Publish(ctx, e); err != nil {
			fail(err)
		}
	}

	durable := make(map[string]bool)
	for _, name := range run.Durable() {
		durable[name] = true
	}

	// a record on disk that the run did not write belongs to another process
	// and says nothing about the seed file of a failed attempt with the same
	// name
	for _, name := range run.Attempted() {
		if !durable[name] {
			if _, err := os.Stat(m.layout.SeedFile(name)); err == nil {
				logger.Logf(logger.Allow, "cleanup", "keeping seed file for %s (no durable record)", name)
			}
			continue
		}
		if err := seeds.CleanUpFile(name); err != nil {
			fail(err)
		}
	}

	if failed > 0 {
		return curated.Errorf(curated.CleanupFailure, fmt.Sprintf("%d failures, last: %v", failed, last))
	}

	return nil
}
