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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/paths"
)

// directories that are never part of a snapshot, regardless of where they
// appear in the source tree
var alwaysIgnore = []string{".git", ".hg", ".svn"}

// Summary of a completed snapshot.
type Summary struct {
	Files int
	Bytes int64

	// digest of the digest list. two snapshots with the same Digest contain
	// the same files with the same content
	Digest uint64
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files (%s) %016x", s.Files, humanize.Bytes(uint64(s.Bytes)), s.Digest)
}

// Snapshotter copies a source tree into artifact bundles.
type Snapshotter struct {
	layout paths.Layout

	// the root of the source tree to copy
	SourceRoot string

	// filename patterns to exclude from the copy. patterns are matched
	// against the base name of each file and directory with filepath.Match()
	Ignore []string

	// allow an existing snapshot to be replaced
	Overwrite bool
}

// NewSnapshotter is the preferred method of initialisation for the
// Snapshotter type. If sourceRoot is empty the project root is used.
func NewSnapshotter(layout paths.Layout, sourceRoot string) (*Snapshotter, error) {
	if sourceRoot == "" {
		sourceRoot = layout.Root
	}
	abs, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, curated.Errorf("snapshot: %v", err)
	}
	return &Snapshotter{
		layout:     layout,
		SourceRoot: abs,
	}, nil
}

// skip returns true if the path (relative to the source root) should not be
// part of the snapshot
func (sn *Snapshotter) skip(pth string, rel string) bool {
	base := filepath.Base(rel)

	for _, n := range alwaysIgnore {
		if base == n {
			return true
		}
	}

	for _, p := range sn.Ignore {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}

	// the managed directories of the project are excluded wherever the source
	// root happens to be
	for _, r := range paths.Reserved() {
		if pth == filepath.Join(sn.layout.Root, r) {
			return true
		}
	}

	return false
}

// SaveCurrentVersion copies the source tree into the bundle of the named
// checkpoint.
func (sn *Snapshotter) SaveCurrentVersion(name string) (Summary, error) {
	dest := sn.layout.Source(name)

	if _, err := os.Stat(dest); err == nil {
		if !sn.Overwrite {
			return Summary{}, curated.Errorf(curated.SnapshotFailure, fmt.Sprintf("snapshot for %q already exists", name))
		}
		if err := os.RemoveAll(dest); err != nil {
			return Summary{}, curated.Errorf(curated.SnapshotFailure, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Summary{}, curated.Errorf(curated.SnapshotFailure, err)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Summary{}, curated.Errorf(curated.SnapshotFailure, err)
	}

	var sum Summary
	digests := make(map[string]uint64)

	err := filepath.WalkDir(sn.SourceRoot, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sn.SourceRoot, pth)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if sn.skip(pth, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(filepath.Join(dest, rel), info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			n, dig, err := copyFile(pth, filepath.Join(dest, rel), info.Mode().Perm())
			if err != nil {
				return err
			}
			sum.Files++
			sum.Bytes += n
			digests[filepath.ToSlash(rel)] = dig
		default:
			logger.Logf(logger.Allow, "snapshot", "skipping %s (not a regular file)", rel)
		}

		return nil
	})
	if err != nil {
		return Summary{}, curated.Errorf(curated.SnapshotFailure, err)
	}

	sum.Digest, err = writeSum(sn.layout.SourceSum(name), digests)
	if err != nil {
		return Summary{}, curated.Errorf(curated.SnapshotFailure, err)
	}

	logger.Logf(logger.Allow, "snapshot", "%s: %s", name, sum)

	return sum, nil
}

// copyFile copies src to dest, returning the number of bytes copied and the
// digest of the content. dest must not already exist
func copyFile(src string, dest string, perm fs.FileMode) (int64, uint64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return 0, 0, err
	}

	h := xxhash.New()
	n, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		out.Close()
		return 0, 0, err
	}

	if err := out.Close(); err != nil {
		return 0, 0, err
	}

	return n, h.Sum64(), nil
}

// writeSum writes the digest list in path order and returns the digest of
// the list itself
func writeSum(filename string, digests map[string]uint64) (uint64, error) {
	keys := make([]string, 0, len(digests))
	for k := range digests {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%016x  %s\n", digests[k], k)
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0o644); err != nil {
		return 0, err
	}

	return xxhash.Sum64String(b.String()), nil
}

// Digest returns the xxhash digest of a file's content.
func Digest(filename string) (uint64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
