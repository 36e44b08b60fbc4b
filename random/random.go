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

package random

import "math"

// Algorithm identifies the generator algorithm. It is recorded alongside the
// seed of every checkpoint. Any change to the sequence produced for a given
// seed must be accompanied by a new identifier.
const Algorithm = "mt19937-res53/v1"

const (
	stateLen   = 624
	shiftLen   = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	seedFactor = 1812433253
)

// Generator is a pseudo-random number generator whose entire output is a
// function of the seed it was created with. It is not safe for concurrent
// use and should never be shared between checkpoints.
type Generator struct {
	seed  uint64
	mt    [stateLen]uint32
	index int

	// the number of steps taken since creation. a step is a call to
	// Generate() or Uint32()
	draws uint64
}

// FromSeed is the only method of initialisation for the Generator type.
func FromSeed(seed uint64) *Generator {
	g := &Generator{seed: seed}
	if seed <= 0xffffffff {
		g.initGenrand(uint32(seed))
	} else {
		g.initByArray([]uint32{uint32(seed), uint32(seed >> 32)})
	}
	return g
}

func (g *Generator) initGenrand(s uint32) {
	g.mt[0] = s
	for i := 1; i < stateLen; i++ {
		g.mt[i] = seedFactor*(g.mt[i-1]^(g.mt[i-1]>>30)) + uint32(i)
	}
	g.index = stateLen
}

func (g *Generator) initByArray(key []uint32) {
	g.initGenrand(19650218)

	i := 1
	j := 0

	k := max(stateLen, len(key))
	for ; k > 0; k-- {
		g.mt[i] = (g.mt[i] ^ ((g.mt[i-1] ^ (g.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= stateLen {
			g.mt[0] = g.mt[stateLen-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}

	for k = stateLen - 1; k > 0; k-- {
		g.mt[i] = (g.mt[i] ^ ((g.mt[i-1] ^ (g.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= stateLen {
			g.mt[0] = g.mt[stateLen-1]
			i = 1
		}
	}

	// most significant bit is 1. this assures a non-zero initial state
	g.mt[0] = 0x80000000
	g.index = stateLen
}

// twist regenerates the entire state array
func (g *Generator) twist() {
	for i := 0; i < stateLen; i++ {
		y := (g.mt[i] & upperMask) | (g.mt[(i+1)%stateLen] & lowerMask)
		v := g.mt[(i+shiftLen)%stateLen] ^ (y >> 1)
		if y&1 == 1 {
			v ^= matrixA
		}
		g.mt[i] = v
	}
	g.index = 0
}

// next value from the state array with tempering applied. does not count as
// a draw
func (g *Generator) next() uint32 {
	if g.index >= stateLen {
		g.twist()
	}

	y := g.mt[g.index]
	g.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18

	return y
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Draws returns the number of steps taken by the generator.
func (g *Generator) Draws() uint64 {
	return g.draws
}

// Generate returns the next value in the sequence. The value is uniformly
// distributed in the range [0, 1). Zero is a possible value, one is not.
func (g *Generator) Generate() float64 {
	g.draws++
	a := g.next() >> 5
	b := g.next() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// Uint32 returns the next raw 32-bit output of the generator.
func (g *Generator) Uint32() uint32 {
	g.draws++
	return g.next()
}

// Intn returns a value in the range [0, n). Panics if n <= 0, in the same way
// as the math/rand package.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int(g.Generate() * float64(n))
}

// Range returns a value in the range [lo, hi).
func (g *Generator) Range(lo, hi float64) float64 {
	v := lo + g.Generate()*(hi-lo)

	// rounding can reach hi when the range is narrow compared to lo
	if v >= hi && hi > lo {
		v = math.Nextafter(hi, lo)
	}
	return v
}
