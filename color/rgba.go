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
	"math"

	"seehuhn.de/go/cms/icc"
)

// RGBA is a packed 8-bit sRGB color with alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Put writes the color to buf at the given pixel index, in R, G, B, A
// byte order.  The explicit slice bounds let the compiler drop the
// per-byte checks.
func (c RGBA) Put(buf []byte, i int) {
	b := buf[4*i : 4*i+4 : 4*i+4]
	b[0] = c.R
	b[1] = c.G
	b[2] = c.B
	b[3] = c.A
}

// toByte converts a color component in the unit interval to an 8-bit
// value, clamping out-of-range and NaN inputs.
func toByte(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// clamp01 clamps x to the unit interval, mapping NaN to 0.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// clamp clips x to the interval [lo, hi], mapping NaN to lo.
func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// vecRGBA packs the first three components of a clamped vector as an
// opaque pixel.
func vecRGBA(v icc.Vec4) RGBA {
	return RGBA{toByte(v[0]), toByte(v[1]), toByte(v[2]), 255}
}
