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

package seed

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/paths"
)

// EnvVar is the name of the environment variable that can be used to request
// a specific seed. The variable can also be placed in the project's .env file.
const EnvVar = "SKETCHBOOK_SEED"

// Seed is the value used to initialise the generator of a checkpoint.
type Seed uint64

func (s Seed) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// Parse a seed value. Decimal and hexadecimal (with the 0x prefix) values are
// accepted.
func Parse(s string) (Seed, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, curated.Errorf(curated.SeedUnavailable, fmt.Sprintf("cannot parse %q", s))
	}
	return Seed(v), nil
}

// Store of seed values for a project.
type Store struct {
	layout paths.Layout

	// Request is the seed requested by the operator. If it is nil then the
	// environment is consulted and if that contains no request a seed is
	// minted.
	Request *Seed

	// source of entropy for minting new seeds. defaults to crypto/rand
	Entropy io.Reader

	// contents of the project's .env file
	dotenv map[string]string
}

// NewStore is the preferred method of initialisation for the Store type. The
// project's .env file is read if it exists. Values in the .env file do not
// override the process environment.
func NewStore(layout paths.Layout) (*Store, error) {
	st := &Store{
		layout:  layout,
		Entropy: rand.Reader,
		dotenv:  make(map[string]string),
	}

	env, err := godotenv.Read(layout.Env())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf("seed: %v", err)
		}
	} else {
		st.dotenv = env
	}

	return st, nil
}

// lookup the requested seed in the process environment and then in the .env
// file
func (st *Store) lookup() (string, bool) {
	if v, ok := os.LookupEnv(EnvVar); ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	if v, ok := st.dotenv[EnvVar]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return "", false
}

// Load returns the seed requested by the operator or the environment or, if
// neither have requested a seed, a freshly minted seed.
func (st *Store) Load() (Seed, error) {
	if st.Request != nil {
		return *st.Request, nil
	}

	if v, ok := st.lookup(); ok {
		return Parse(v)
	}

	return st.mint()
}

// mint a new seed from the entropy source. the entropy source is never the
// deterministic generator
func (st *Store) mint() (Seed, error) {
	var b [8]byte
	if _, err := io.ReadFull(st.Entropy, b[:]); err != nil {
		return 0, curated.Errorf(curated.SeedUnavailable, err)
	}
	return Seed(binary.LittleEndian.Uint64(b[:])), nil
}

// the content of a seed file
type seedFile struct {
	Name    string    `yaml:"name"`
	Seed    uint64    `yaml:"seed"`
	Created time.Time `yaml:"created"`
}

// SaveToFile writes the seed to the transient seed file for the named
// checkpoint. The file is synced to disk before the function returns.
func (st *Store) SaveToFile(name string, s Seed) error {
	if err := os.MkdirAll(st.layout.Seeds(), 0o755); err != nil {
		return curated.Errorf(curated.SeedUnavailable, err)
	}

	d, err := yaml.Marshal(seedFile{Name: name, Seed: uint64(s), Created: time.Now()})
	if err != nil {
		return curated.Errorf(curated.SeedUnavailable, err)
	}

	if err := writeSynced(st.layout.SeedFile(name), d); err != nil {
		return curated.Errorf(curated.SeedUnavailable, err)
	}

	logger.Logf(logger.Allow, "seed", "saved %s for %s", s, name)

	return nil
}

// writeSynced writes data to a temporary file in the same directory as
// filename, syncs it and renames it to filename
func writeSynced(filename string, data []byte) (rerr error) {
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rerr != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), filename)
}

// LoadFromFile reads the seed from the transient seed file for the named
// checkpoint.
func (st *Store) LoadFromFile(name string) (Seed, error) {
	d, err := os.ReadFile(st.layout.SeedFile(name))
	if err != nil {
		return 0, curated.Errorf(curated.SeedUnavailable, err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(d, &sf); err != nil {
		return 0, curated.Errorf(curated.SeedUnavailable, err)
	}

	if sf.Name != name {
		return 0, curated.Errorf(curated.SeedUnavailable, fmt.Sprintf("seed file for %q names %q", name, sf.Name))
	}

	return Seed(sf.Seed), nil
}

// CleanUpFile removes the transient seed file for the named checkpoint. It is
// not an error for the file to not exist.
func (st *Store) CleanUpFile(name string) error {
	err := os.Remove(st.layout.SeedFile(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return curated.Errorf(curated.CleanupFailure, err)
	}
	return nil
}

// Residual returns the names of checkpoints for which a transient seed file
// still exists. The list is sorted.
func (st *Store) Residual() ([]string, error) {
	ents, err := os.ReadDir(st.layout.Seeds())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, curated.Errorf("seed: %v", err)
	}

	var names []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if n, ok := paths.SeedName(e.Name()); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	return names, nil
}
