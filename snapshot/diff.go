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

package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/paths"
)

// ChangeKind describes how a file differs between two snapshots.
type ChangeKind int

// List of valid ChangeKind values.
const (
	Added ChangeKind = iota
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Modified:
		return "M"
	}
	return "?"
}

// Change is a single difference between two snapshots.
type Change struct {
	Path string
	Kind ChangeKind
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Path)
}

// ReadSum returns the digest list for the snapshot of the named checkpoint.
func ReadSum(layout paths.Layout, name string) (map[string]uint64, error) {
	f, err := os.Open(layout.SourceSum(name))
	if err != nil {
		return nil, curated.Errorf("snapshot: %v", err)
	}
	defer f.Close()

	digests := make(map[string]uint64)

	scanner := bufio.NewScanner(f)
	for ln := 1; scanner.Scan(); ln++ {
		d, p, ok := strings.Cut(scanner.Text(), "  ")
		if !ok {
			return nil, curated.Errorf("snapshot: %s: malformed line %d", layout.SourceSum(name), ln)
		}
		v, err := strconv.ParseUint(d, 16, 64)
		if err != nil {
			return nil, curated.Errorf("snapshot: %s: malformed digest on line %d", layout.SourceSum(name), ln)
		}
		digests[p] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf("snapshot: %v", err)
	}

	return digests, nil
}

// Diff compares the snapshots of two checkpoints. Changes are described from
// the point of view of moving from checkpoint a to checkpoint b and are
// sorted by path.
func Diff(layout paths.Layout, a string, b string) ([]Change, error) {
	da, err := ReadSum(layout, a)
	if err != nil {
		return nil, err
	}
	db, err := ReadSum(layout, b)
	if err != nil {
		return nil, err
	}

	var changes []Change

	for p, v := range da {
		w, ok := db[p]
		if !ok {
			changes = append(changes, Change{Path: p, Kind: Removed})
		} else if v != w {
			changes = append(changes, Change{Path: p, Kind: Modified})
		}
	}
	for p := range db {
		if _, ok := da[p]; !ok {
			changes = append(changes, Change{Path: p, Kind: Added})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})

	return changes, nil
}
