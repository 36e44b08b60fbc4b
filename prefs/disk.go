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

package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/logger"
)

// WarningBoilerPlate is written as a comment at the top of the prefs file.
const WarningBoilerPlate = "# command line flags take precedence over the values in this file"

// key separator. keys in the Disk type are flattened paths into the nested
// mappings of the prefs file
const keySep = "."

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the prefs file. Nested mappings in the
// file are addressed with a dot.
func (dsk *Disk) Add(key string, p pref) error {
	if key == "" || strings.Contains(key, " ") {
		return curated.Errorf("prefs: illegal key %q", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf("prefs: duplicate key %q", key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all the values registered with the Disk to their zero value.
func (dsk *Disk) Reset() error {
	for k, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf("prefs: %s: %v", k, err)
		}
	}
	return nil
}

// Load preference values from disk. A missing prefs file is not an error and
// leaves the current values unchanged. Keys in the file that have not been
// added to the Disk are ignored with a log entry.
func (dsk *Disk) Load() error {
	d, err := os.ReadFile(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return curated.Errorf("prefs: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(d, &doc); err != nil {
		return curated.Errorf("prefs: %s: %v", dsk.path, err)
	}

	values := make(map[string]Value)
	flatten("", doc, values)

	for k, v := range values {
		p, ok := dsk.entries[k]
		if !ok {
			logger.Logf(logger.Allow, "prefs", "unknown key %q in %s", k, dsk.path)
			continue
		}
		if err := p.Set(v); err != nil {
			return curated.Errorf("prefs: %s: %v", k, err)
		}
	}

	return nil
}

// flatten nested mappings into dotted keys. sequences are values and are not
// flattened
func flatten(prefix string, m map[string]any, values map[string]Value) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + keySep + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, values)
			continue
		}
		values[key] = v
	}
}

// Save current preference values to disk. Any values in the existing file
// that are not known to the Disk are lost.
func (dsk *Disk) Save() error {
	doc := make(map[string]any)

	for k, p := range dsk.entries {
		parts := strings.Split(k, keySep)
		m := doc
		for _, part := range parts[:len(parts)-1] {
			sub, ok := m[part].(map[string]any)
			if !ok {
				sub = make(map[string]any)
				m[part] = sub
			}
			m = sub
		}
		m[parts[len(parts)-1]] = p.Get()
	}

	d, err := yaml.Marshal(doc)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	d = append([]byte(WarningBoilerPlate+"\n"), d...)
	if err := os.WriteFile(dsk.path, d, 0o644); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Override values with a prefs string from the command line. The string is a
// list of key::value pairs separated by semi-colons. For example:
//
//	frames::10; canvas.width::640
//
// Override is applied after Load() so the command line takes precedence over
// the prefs file. The return value lists the keys that were not recognised,
// sorted.
func (dsk *Disk) Override(prefs string) (string, error) {
	var unused []string

	for _, kv := range strings.Split(prefs, ";") {
		k, v, ok := strings.Cut(kv, "::")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		p, ok := dsk.entries[k]
		if !ok {
			unused = append(unused, fmt.Sprintf("%s::%s", k, v))
			continue
		}
		if err := p.Set(v); err != nil {
			return "", curated.Errorf("prefs: %s: %v", k, err)
		}
	}

	sort.Strings(unused)
	return strings.Join(unused, "; "), nil
}

func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&s, "%s :: %s\n", k, dsk.entries[k])
	}
	return s.String()
}
