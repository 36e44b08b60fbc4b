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

package paths

import (
	"os"
	"path/filepath"
)

// names of files and directories in the project root
const (
	PrefsFile       = "sketchbook.yaml"
	EnvFile         = ".env"
	SeedsDir        = ".seeds"
	VersionsDir     = "versions"
	CheckpointsDir  = "checkpoints"
	LatestEntry     = "latest"
	CatalogFile     = "catalog.db"
	RecordFile      = "checkpoint.yaml"
	SourceDir       = "src"
	SourceSumFile   = "src.sum"
	seedFileSuffix  = ".seed"
	imageFileSuffix = ".png"
)

// Reserved returns the names of the directories in the project root that are
// managed by sketchbook and which should never be included in a snapshot of
// the drawing logic.
func Reserved() []string {
	return []string{SeedsDir, VersionsDir, CheckpointsDir}
}

// Layout of a project on disk. The zero value is a layout rooted at the
// current directory.
type Layout struct {
	Root string
}

// NewLayout is the preferred method of initialisation for the Layout type.
// The root path is made absolute so that symlinks and log messages are
// unambiguous.
func NewLayout(root string) (Layout, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Root: abs}, nil
}

// FindRoot returns the project root for the start directory. The policy is
// simple: the nearest directory at or above start that contains a preferences
// file or a go.mod file. If none is found then start is the project root.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range []string{PrefsFile, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// Prefs returns the path to the preferences file.
func (l Layout) Prefs() string {
	return filepath.Join(l.Root, PrefsFile)
}

// Env returns the path to the environment file.
func (l Layout) Env() string {
	return filepath.Join(l.Root, EnvFile)
}

// Seeds returns the directory holding transient seed files.
func (l Layout) Seeds() string {
	return filepath.Join(l.Root, SeedsDir)
}

// SeedFile returns the path of the transient seed file for the named
// checkpoint.
func (l Layout) SeedFile(name string) string {
	return filepath.Join(l.Seeds(), name+seedFileSuffix)
}

// SeedName is the reverse of SeedFile(). Returns false if the filename is not
// that of a seed file.
func SeedName(filename string) (string, bool) {
	base := filepath.Base(filename)
	if filepath.Ext(base) != seedFileSuffix || len(base) == len(seedFileSuffix) {
		return "", false
	}
	return base[:len(base)-len(seedFileSuffix)], true
}

// Versions returns the directory holding all artifact bundles.
func (l Layout) Versions() string {
	return filepath.Join(l.Root, VersionsDir)
}

// Bundle returns the directory of the artifact bundle for the named
// checkpoint.
func (l Layout) Bundle(name string) string {
	return filepath.Join(l.Versions(), name)
}

// Image returns the path of the captured frame for the named checkpoint.
func (l Layout) Image(name string) string {
	return filepath.Join(l.Bundle(name), name+imageFileSuffix)
}

// Record returns the path of the checkpoint record for the named checkpoint.
func (l Layout) Record(name string) string {
	return filepath.Join(l.Bundle(name), RecordFile)
}

// Source returns the directory of the logic snapshot for the named
// checkpoint.
func (l Layout) Source(name string) string {
	return filepath.Join(l.Bundle(name), SourceDir)
}

// SourceSum returns the path of the digest list for the logic snapshot of
// the named checkpoint.
func (l Layout) SourceSum(name string) string {
	return filepath.Join(l.Bundle(name), SourceSumFile)
}

// Checkpoints returns the manifest directory.
func (l Layout) Checkpoints() string {
	return filepath.Join(l.Root, CheckpointsDir)
}

// Entry returns the path of the published entry for the named checkpoint.
func (l Layout) Entry(name string) string {
	return filepath.Join(l.Checkpoints(), name)
}

// Latest returns the path of the pointer to the most recently published
// checkpoint.
func (l Layout) Latest() string {
	return filepath.Join(l.Checkpoints(), LatestEntry)
}

// Catalog returns the path of the catalog database.
func (l Layout) Catalog() string {
	return filepath.Join(l.Checkpoints(), CatalogFile)
}

// EntryTarget returns the target of a published entry relative to the
// manifest directory. Relative targets mean the project root can be moved
// without breaking the manifest.
func EntryTarget(name string) string {
	return filepath.Join("..", VersionsDir, name)
}
