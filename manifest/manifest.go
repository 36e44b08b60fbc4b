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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/snapshot"
)

// Entry describes a checkpoint to be published.
type Entry struct {
	Name      string
	Frame     uint64
	Seed      uint64
	Algorithm string
	RunID     string
	Created   time.Time
}

// Manifest is the checkpoints directory of a project.
type Manifest struct {
	layout  paths.Layout
	catalog *catalog

	// publish entries by copying rather than by symbolic link
	CopyEntries bool
}

// Open the checkpoints directory of the project, creating it if necessary.
func Open(ctx context.Context, layout paths.Layout) (*Manifest, error) {
	if err := os.MkdirAll(layout.Checkpoints(), 0o755); err != nil {
		return nil, curated.Errorf("manifest: %v", err)
	}

	cat, err := openCatalog(ctx, layout.Catalog())
	if err != nil {
		return nil, curated.Errorf("manifest: %v", err)
	}

	return &Manifest{
		layout:  layout,
		catalog: cat,
	}, nil
}

// Close the manifest.
func (m *Manifest) Close() error {
	if err := m.catalog.close(); err != nil {
		return curated.Errorf("manifest: %v", err)
	}
	return nil
}

// Publish the checkpoint into the checkpoints directory. The image of the
// checkpoint must have been written before calling this function.
func (m *Manifest) Publish(ctx context.Context, e Entry) error {
	if _, err := os.Stat(m.layout.Bundle(e.Name)); err != nil {
		return curated.Errorf(curated.PublishFailure, err)
	}

	digest, err := snapshot.Digest(m.layout.Image(e.Name))
	if err != nil {
		return curated.Errorf(curated.PublishFailure, err)
	}

	if err := m.link(e.Name); err != nil {
		return curated.Errorf(curated.PublishFailure, err)
	}

	if err := m.catalog.upsert(ctx, e, digest); err != nil {
		return curated.Errorf(curated.PublishFailure, err)
	}

	if err := m.setLatest(e.Name); err != nil {
		return curated.Errorf(curated.PublishFailure, err)
	}

	logger.Logf(logger.Allow, "manifest", "published %s", e.Name)

	return nil
}

// link creates the entry for the named checkpoint
func (m *Manifest) link(name string) error {
	if m.CopyEntries {
		return m.copyEntry(name)
	}

	entry := m.layout.Entry(name)
	target := paths.EntryTarget(name)

	info, err := os.Lstat(entry)
	switch {
	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		existing, err := os.Readlink(entry)
		if err != nil {
			return err
		}
		if existing == target {
			return nil
		}
		logger.Logf(logger.Allow, "manifest", "replacing stale entry for %s (was %s)", name, existing)
		if err := os.Remove(entry); err != nil {
			return err
		}

	case err == nil && info.IsDir():
		// a copied entry from an earlier publication
		return m.copyEntry(name)

	case err == nil:
		return fmt.Errorf("entry for %q is not a link or directory", name)

	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := os.Symlink(target, entry); err != nil {
		logger.Logf(logger.Allow, "manifest", "cannot link %s (%v): copying instead", name, err)
		m.CopyEntries = true
		return m.copyEntry(name)
	}

	return nil
}

// copyEntry copies the parts of the artifact bundle an external viewer needs
// into the entry directory. files already present must have the same content
func (m *Manifest) copyEntry(name string) error {
	entry := m.layout.Entry(name)
	if err := os.MkdirAll(entry, 0o755); err != nil {
		return err
	}

	files := []string{
		m.layout.Image(name),
		m.layout.Record(name),
		m.layout.SourceSum(name),
	}

	for _, src := range files {
		dest := filepath.Join(entry, filepath.Base(src))

		srcDigest, err := snapshot.Digest(src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}

		destDigest, err := snapshot.Digest(dest)
		if err == nil {
			if destDigest != srcDigest {
				return fmt.Errorf("entry for %q has different content in %s", name, filepath.Base(dest))
			}
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := copyFile(src, dest); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src string, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// setLatest points the latest entry at the named checkpoint. the pointer is
// replaced with a rename so a viewer never sees it missing
func (m *Manifest) setLatest(name string) error {
	latest := m.layout.Latest()
	tmp := latest + ".tmp"
	_ = os.Remove(tmp)

	if m.CopyEntries {
		if err := os.WriteFile(tmp, []byte(name+"\n"), 0o644); err != nil {
			return err
		}
	} else {
		if existing, err := os.Readlink(latest); err == nil && existing == name {
			return nil
		}
		if err := os.Symlink(name, tmp); err != nil {
			return err
		}
	}

	return os.Rename(tmp, latest)
}

// Latest returns the name of the most recently published checkpoint.
func (m *Manifest) Latest() (string, error) {
	latest := m.layout.Latest()

	if name, err := os.Readlink(latest); err == nil {
		return name, nil
	}

	d, err := os.ReadFile(latest)
	if err != nil {
		return "", curated.Errorf("manifest: %v", err)
	}

	n := len(d)
	for n > 0 && (d[n-1] == '\n' || d[n-1] == '\r') {
		n--
	}
	return string(d[:n]), nil
}

// Published returns true if the named checkpoint has an entry in the
// checkpoints directory.
func (m *Manifest) Published(name string) bool {
	_, err := os.Lstat(m.layout.Entry(name))
	return err == nil
}

// List all published checkpoints in the order they were created.
func (m *Manifest) List(ctx context.Context) ([]Record, error) {
	r, err := m.catalog.list(ctx)
	if err != nil {
		return nil, curated.Errorf("manifest: %v", err)
	}
	return r, nil
}

// Lookup a published checkpoint by name. Returns false if the checkpoint has
// not been published.
func (m *Manifest) Lookup(ctx context.Context, name string) (Record, bool, error) {
	r, ok, err := m.catalog.lookup(ctx, name)
	if err != nil {
		return Record{}, false, curated.Errorf("manifest: %v", err)
	}
	return r, ok, nil
}
