// seehuhn.de/go/cms - color management and pixel sampling for PDF rendering
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package color

import (
	"sync"

	"seehuhn.de/go/cms/function"
	"seehuhn.de/go/cms/icc"
)

// chainSampler evaluates a resolved transform chain for each pixel.
// The chain maps nIn device components to sRGB.
type chainSampler struct {
	chain icc.Chain
	nIn   int
}

func (s *chainSampler) Sample(components []float64) RGBA {
	v := icc.Vec4{0, 0, 0, 1}
	n := min(s.nIn, len(components))
	copy(v[:n], components[:n])
	return vecRGBA(s.chain.Apply(v))
}

// tintTableSampler caches a one-input sampler as a 256-entry lookup
// table.  The table is built on first use, so constructing the
// sampler stays cheap for colors that are never sampled.
type tintTableSampler struct {
	eval func(x float64) RGBA

	once  sync.Once
	table [256]RGBA
}

func (s *tintTableSampler) Sample(components []float64) RGBA {
	s.once.Do(s.build)
	x := 0.0
	if len(components) > 0 {
		x = clamp01(components[0])
	}
	return s.table[int(x*255+0.5)]
}

func (s *tintTableSampler) build() {
	for i := range 256 {
		s.table[i] = s.eval(float64(i) / 255)
	}
}

// funcSampler feeds input components through a tint transform and
// hands the result to the sampler of the alternate space.
type funcSampler struct {
	fn   function.Func
	next Sampler
}

func (s *funcSampler) Sample(components []float64) RGBA {
	// missing components are treated as zero
	if m, _ := s.fn.Shape(); len(components) < m {
		padded := make([]float64, m)
		copy(padded, components)
		components = padded
	}
	out := s.fn.Apply(components...)
	return s.next.Sample(out)
}

// indexedSampler maps an index component to a palette entry.  The
// palette is precomputed when the sampler is built.
type indexedSampler struct {
	palette []RGBA
}

func (s *indexedSampler) Sample(components []float64) RGBA {
	if len(s.palette) == 0 {
		return RGBA{A: 255}
	}
	// clamp before the int conversion; indices beyond the int64 range
	// would otherwise convert to an arbitrary value
	x := 0.0
	if len(components) > 0 && components[0] > 0 {
		x = components[0]
	}
	if max := float64(len(s.palette) - 1); x > max {
		x = max
	}
	return s.palette[int(x+0.5)]
}

// cmykGridSize is the number of grid points per CMY axis and the
// number of K levels in the CMYK acceleration table.
const cmykGridSize = 17

// cmykLUTSampler approximates a four-input transform chain by a set
// of trilinear CMY grids, one per K level, with linear interpolation
// between K levels.  The grids are built lazily on first use.
type cmykLUTSampler struct {
	chain icc.Chain

	once sync.Once
	// grid holds cmykGridSize planes of cmykGridSize^3 RGB triples,
	// indexed K-slowest, then C, M, Y with Y fastest.
	grid []float32
}

func (s *cmykLUTSampler) Sample(components []float64) RGBA {
	s.once.Do(s.build)

	var in [4]float64
	for i := range min(4, len(components)) {
		in[i] = clamp01(components[i])
	}
	c, m, y, k := in[0], in[1], in[2], in[3]

	const n = cmykGridSize
	kPos := k * (n - 1)
	k0 := int(kPos)
	if k0 > n-2 {
		k0 = n - 2
	}
	kFrac := kPos - float64(k0)

	r0, g0, b0 := s.lookupCMY(k0, c, m, y)
	r1, g1, b1 := s.lookupCMY(k0+1, c, m, y)
	r := r0 + kFrac*(r1-r0)
	g := g0 + kFrac*(g1-g0)
	b := b0 + kFrac*(b1-b0)
	return RGBA{toByte(r), toByte(g), toByte(b), 255}
}

// lookupCMY interpolates the CMY grid at the given K level.
func (s *cmykLUTSampler) lookupCMY(kIdx int, c, m, y float64) (r, g, b float64) {
	const n = cmykGridSize
	plane := s.grid[kIdx*3*n*n*n:]

	cPos := c * (n - 1)
	mPos := m * (n - 1)
	yPos := y * (n - 1)
	c0, m0, y0 := int(cPos), int(mPos), int(yPos)
	if c0 > n-2 {
		c0 = n - 2
	}
	if m0 > n-2 {
		m0 = n - 2
	}
	if y0 > n-2 {
		y0 = n - 2
	}
	cf, mf, yf := cPos-float64(c0), mPos-float64(m0), yPos-float64(y0)

	for corner := range 8 {
		ci, mi, yi := c0, m0, y0
		w := 1.0
		if corner&4 != 0 {
			ci++
			w *= cf
		} else {
			w *= 1 - cf
		}
		if corner&2 != 0 {
			mi++
			w *= mf
		} else {
			w *= 1 - mf
		}
		if corner&1 != 0 {
			yi++
			w *= yf
		} else {
			w *= 1 - yf
		}
		if w == 0 {
			continue
		}
		base := 3 * ((ci*n+mi)*n + yi)
		r += w * float64(plane[base])
		g += w * float64(plane[base+1])
		b += w * float64(plane[base+2])
	}
	return r, g, b
}

func (s *cmykLUTSampler) build() {
	const n = cmykGridSize
	s.grid = make([]float32, n*n*n*n*3)
	pos := 0
	for ki := range n {
		k := float64(ki) / (n - 1)
		for ci := range n {
			c := float64(ci) / (n - 1)
			for mi := range n {
				m := float64(mi) / (n - 1)
				for yi := range n {
					y := float64(yi) / (n - 1)
					out := s.chain.Apply(icc.Vec4{c, m, y, k})
					s.grid[pos] = float32(clamp01(out[0]))
					s.grid[pos+1] = float32(clamp01(out[1]))
					s.grid[pos+2] = float32(clamp01(out[2]))
					pos += 3
				}
			}
		}
	}
}

// WithTransfer wraps a sampler so that the given transfer functions
// are applied to the sRGB result of the inner sampler.  Each function
// maps the unit interval to itself; fns may have one entry, applied
// to all three channels, or three entries for red, green and blue.
// A nil entry leaves the corresponding channel unchanged.
func WithTransfer(s Sampler, fns []function.Func) Sampler {
	if len(fns) == 0 {
		return s
	}
	return &transferSampler{next: s, fns: fns}
}

type transferSampler struct {
	next Sampler
	fns  []function.Func
}

func (s *transferSampler) Sample(components []float64) RGBA {
	c := s.next.Sample(components)
	rgb := [3]uint8{c.R, c.G, c.B}
	for i := range 3 {
		fn := s.fns[0]
		if len(s.fns) == 3 {
			fn = s.fns[i]
		}
		if fn == nil {
			continue
		}
		out := fn.Apply(float64(rgb[i]) / 255)
		if len(out) > 0 {
			rgb[i] = toByte(out[0])
		}
	}
	c.R, c.G, c.B = rgb[0], rgb[1], rgb[2]
	return c
}
