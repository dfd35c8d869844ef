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

// Package function implements the four PDF function types used by color
// spaces and shading patterns: sampled functions (type 0), exponential
// interpolation functions (type 2), stitching functions (type 3) and
// PostScript calculator functions (type 4).
//
// Functions are validated at construction time.  Once constructed they
// are immutable, safe for concurrent use, and their Apply methods are
// total: out-of-domain inputs are clipped, and outputs are clipped to
// the declared range.
package function

// Func represents a PDF function.
type Func interface {
	// Shape returns the number of input and output values of the
	// function.
	Shape() (int, int)

	// Apply applies the function to the given input values and returns
	// the output values.
	Apply(inputs ...float64) []float64
}
