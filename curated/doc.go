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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. The Has() function is similar but checks if a pattern
// occurs somewhere in the error chain.
//
//	e := curated.Errorf(curated.SeedUnavailable, "no entropy")
//	f := curated.Errorf("checkpoint: %v", e)
//
//	curated.Is(f, curated.SeedUnavailable)  // false
//	curated.Has(f, curated.SeedUnavailable) // true
//
// The sentinel patterns in sentinels.go name the failure kinds of the
// checkpoint subsystem. Code that needs to decide whether to skip a frame or
// halt the render loop should test for these with Has().
//
// The Error() function ensures that the error chain is normalised.
// Specifically, that the chain does not contain duplicate adjacent parts. For
// the purposes of this package we think of chains as being composed of parts
// separated by the sub-string ': '. For example:
//
//	part 1: part 2: part 3
//
// Curated errors also implement Unwrap(), returning the first error value
// given to Errorf(). This means errors.Is(err, fs.ErrNotExist) still works
// when an os error has been curated.
package curated
