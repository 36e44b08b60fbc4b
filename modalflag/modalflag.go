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

package modalflag

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes provides an easy way of handling command line arguments. The Output
// field should be specified before calling Parse() or you will not see any
// help messages.
type Modes struct {
	// where to print help messages
	Output io.Writer

	// flags for the current mode. a new flagset is created on every call to
	// NewArgs() and NewMode()
	flags *flag.FlagSet

	// the argument list as specified by the NewArgs() function and the index
	// of the first argument not yet consumed by a mode
	args    []string
	argsIdx int

	// sub-modes for the current mode. the first entry is the default
	subModes []string

	// modes selected by successive calls to Parse(). never reset
	path []string

	// verbose explanation of the current mode
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the last mode to be encountered.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns all the modes encountered during parsing.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs with a string of arguments (from the command line for example).
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode indicates that further arguments should be considered part of a new
// mode.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.additionalHelp = ""
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
}

// AdditionalHelp adds text to be displayed after the regular help on available
// flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// AddSubModes to list of sub-modes for next parse. The first sub-mode in the
// list is the default sub-mode. Sub-mode comparisons are case insensitive.
func (md *Modes) AddSubModes(submodes ...string) {
	for _, m := range submodes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing. if sub-modes were added then
	// Mode() is the selected sub-mode
	ParseContinue ParseResult = iota

	// help was requested and has been printed to Output
	ParseHelp

	// an error has occurred and is returned as the second return value
	ParseError
)

// Parse the current layer of arguments. The idiomatic usage is:
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return nil
//	case modalflag.ParseError:
//		return err
//	}
//
// If sub-modes have been added, an argument that is not a flag and that
// matches a sub-mode selects that mode. Otherwise the default sub-mode is
// selected and the arguments are left for the next call to Parse(). This
// means that flags belonging to the default mode can be given without naming
// the mode.
func (md *Modes) Parse() (ParseResult, error) {
	// help and errors are reported by this package
	md.flags.SetOutput(io.Discard)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			md.help()
			return ParseHelp, nil
		}

		// unrecognised flags may belong to the default sub-mode
		if len(md.subModes) == 0 {
			return ParseError, err
		}
		md.path = append(md.path, md.subModes[0])
		return ParseContinue, nil
	}

	if len(md.subModes) == 0 {
		return ParseContinue, nil
	}

	// the flags of this layer have been consumed
	md.argsIdx = len(md.args) - md.flags.NArg()

	mode := md.subModes[0]
	arg := strings.ToUpper(md.flags.Arg(0))
	for _, m := range md.subModes {
		if m == arg {
			mode = m
			md.argsIdx++
			break
		}
	}
	md.path = append(md.path, mode)

	return ParseContinue, nil
}

// help writes the help message for the current mode to Output
func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	var flags strings.Builder
	md.flags.SetOutput(&flags)
	md.flags.PrintDefaults()

	if flags.Len() == 0 && len(md.subModes) == 0 && md.additionalHelp == "" {
		if p := md.Path(); p != "" {
			fmt.Fprintf(md.Output, "No help available for %s\n", p)
		} else {
			fmt.Fprintln(md.Output, "No help available")
		}
		return
	}

	if p := md.Path(); p != "" {
		fmt.Fprintf(md.Output, "Usage for %s mode:\n", p)
	} else {
		fmt.Fprintln(md.Output, "Usage:")
	}

	io.WriteString(md.Output, flags.String())

	if len(md.subModes) > 0 {
		if flags.Len() > 0 {
			fmt.Fprintln(md.Output)
		}
		fmt.Fprintf(md.Output, "  available sub-modes: %s\n", strings.Join(md.subModes, ", "))
		fmt.Fprintf(md.Output, "    default: %s\n", md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(md.Output, "\n%s\n", md.additionalHelp)
	}
}

// RemainingArgs after a call to Parse() ie. arguments that aren't flags or a
// listed sub-mode.
func (md *Modes) RemainingArgs() []string {
	if md.flags.Parsed() && len(md.subModes) > 0 {
		return md.args[md.argsIdx:]
	}
	return md.flags.Args()
}

// GetArg returns the numbered argument that isn't a flag or listed sub-mode.
// Returns the empty string if there is no such argument.
func (md *Modes) GetArg(i int) string {
	args := md.RemainingArgs()
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

// ExpectArgs returns an error if the number of remaining arguments is not
// within the range min to max inclusive.
func (md *Modes) ExpectArgs(min int, max int) error {
	n := len(md.RemainingArgs())
	switch {
	case n < min && min == max:
		return fmt.Errorf("%s: %d arguments required", md.Path(), min)
	case n < min:
		return fmt.Errorf("%s: at least %d arguments required", md.Path(), min)
	case n > max:
		return fmt.Errorf("%s: too many arguments", md.Path())
	}
	return nil
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddDuration flag for next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddUint64 flag for next call to Parse().
func (md *Modes) AddUint64(name string, value uint64, usage string) *uint64 {
	return md.flags.Uint64(name, value, usage)
}

// Visit calls fn for each flag that has been set, in lexicographical order.
func (md *Modes) Visit(fn func(flag string)) {
	md.flags.Visit(func(f *flag.Flag) {
		fn(f.Name)
	})
}
