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
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Value represents the actual Go preference value.
type Value any

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	value    atomic.Bool
	hookPost func(value Value) error
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Bool", v)
	}

	p.value.Store(nv)

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated. Note that even if the value hasn't changed, the callback
// will be executed.
func (p *Bool) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// String implements a string type in the prefs system.
type String struct {
	value    atomic.Value // string
	hookPost func(value Value) error
}

func (p *String) String() string {
	ov := p.value.Load()
	if ov == nil {
		return ""
	}
	return ov.(string)
}

// Set new value to String type.
func (p *String) Set(v Value) error {
	nv := fmt.Sprintf("%v", v)

	p.value.Store(nv)

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated.
func (p *String) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Int implements an integer type in the prefs system.
type Int struct {
	value    atomic.Int64
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

func (p *Int) String() string {
	return strconv.FormatInt(p.value.Load(), 10)
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int64:
		nv = int(v)
	case uint64:
		nv = int(v)
	case int:
		nv = v
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("set: cannot convert %T to prefs.Int: %w", v, err)
		}
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Int", v)
	}

	if p.hookPre != nil {
		if err := p.hookPre(nv); err != nil {
			return err
		}
	}

	p.value.Store(int64(nv))

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Int returns the value as an int.
func (p *Int) Int() int {
	return int(p.value.Load())
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// SetHookPre sets the callback function to be called just before the prefs
// value is updated. The value is not updated if the callback returns an
// error, making it a good place to validate values.
func (p *Int) SetHookPre(f func(value Value) error) {
	p.hookPre = f
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated.
func (p *Int) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Duration implements a time.Duration type in the prefs system. Values are
// stored in the prefs file in the format understood by time.ParseDuration().
type Duration struct {
	value atomic.Int64
}

func (p *Duration) String() string {
	return p.Duration().String()
}

// Set new value to Duration type. New value can be a time.Duration or a
// string.
func (p *Duration) Set(v Value) error {
	switch v := v.(type) {
	case time.Duration:
		p.value.Store(int64(v))
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("set: cannot convert %T to prefs.Duration: %w", v, err)
		}
		p.value.Store(int64(d))
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Duration", v)
	}
	return nil
}

// Get returns the raw pref value. The value is the string representation of
// the duration so that it can be written to the prefs file.
func (p *Duration) Get() Value {
	return p.String()
}

// Duration returns the value as a time.Duration.
func (p *Duration) Duration() time.Duration {
	return time.Duration(p.value.Load())
}

// Reset sets the duration to zero.
func (p *Duration) Reset() error {
	return p.Set(time.Duration(0))
}

// List implements a list of strings in the prefs system.
type List struct {
	value atomic.Value // []string
}

func (p *List) String() string {
	return strings.Join(p.List(), ", ")
}

// Set new value to List type. New value can be a slice of strings, a slice
// of any (as decoded from the prefs file) or a comma separated string.
func (p *List) Set(v Value) error {
	var nv []string
	switch v := v.(type) {
	case []string:
		nv = append(nv, v...)
	case []any:
		for _, e := range v {
			nv = append(nv, fmt.Sprintf("%v", e))
		}
	case string:
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				nv = append(nv, e)
			}
		}
	case nil:
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.List", v)
	}
	p.value.Store(nv)
	return nil
}

// Get returns the raw pref value.
func (p *List) Get() Value {
	return p.List()
}

// List returns a copy of the list.
func (p *List) List() []string {
	ov := p.value.Load()
	if ov == nil {
		return []string{}
	}
	return append([]string{}, ov.([]string)...)
}

// Reset sets the list to the empty list.
func (p *List) Reset() error {
	return p.Set([]string{})
}
