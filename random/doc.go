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

// Package random is the only source of random numbers available to drawing
// logic. A Generator is created from a single 64-bit seed with FromSeed() and
// always produces the same sequence of numbers for the same seed.
//
// The algorithm is fixed and versioned (see the Algorithm constant) rather
// than relying on the math/rand package, whose output is not guaranteed to be
// stable between Go releases and cannot be reproduced in other languages.
//
// The algorithm is MT19937 with 53-bit resolution floating point output. For
// seeds that fit in 32 bits, the state is initialised with init_genrand(). For
// larger seeds the state is initialised with init_by_array() on the low and
// high 32-bit halves of the seed. As a consequence, the sequence of values
// returned by Generate() matches the random_sample() function of NumPy's
// RandomState for 32-bit seeds and the random() function of CPython's random
// module for seeds of 2^32 and greater.
//
// For example, a generator created with the seed 42 will always return:
//
//	0.3745401188473625
//	0.9507143064099162
//	0.7319939418114051
//
// as the first three values of Generate().
package random
