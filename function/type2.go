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

package function

import "math"

// Type2 represents an exponential interpolation function,
// y = C0 + x^N * (C1 - C0).  These functions have a single input and
// one or more outputs.
type Type2 struct {
	// Domain defines the valid input range as [min, max].
	Domain []float64

	// Range (optional) defines the valid output ranges as
	// [min0, max0, min1, max1, ...].
	Range []float64

	// C0 holds the output values for x = 0.  The default is [0.0].
	C0 []float64

	// C1 holds the output values for x = 1.  The default is [1.0].
	C1 []float64

	// N is the interpolation exponent.
	N float64
}

// NewType2 validates the function and returns it.
func NewType2(f *Type2) (*Type2, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Type2) validate() error {
	if len(f.Domain) != 2 || !isRange(f.Domain[0], f.Domain[1]) {
		return newInvalidFunctionError(2, "Domain",
			"invalid domain %v", f.Domain)
	}
	_, n := f.Shape()
	if f.C0 != nil && len(f.C0) != n || f.C1 != nil && len(f.C1) != n {
		return newInvalidFunctionError(2, "C0",
			"C0 and C1 must have the same length")
	}
	if f.Range != nil && len(f.Range) != 2*n {
		return newInvalidFunctionError(2, "Range",
			"got %d entries, need %d", len(f.Range), 2*n)
	}
	if !isFinite(f.N) {
		return newInvalidFunctionError(2, "N", "invalid exponent %g", f.N)
	}
	if f.N != math.Trunc(f.N) && f.Domain[0] < 0 {
		return newInvalidFunctionError(2, "Domain",
			"negative domain with non-integer exponent")
	}
	if f.N < 0 && f.Domain[0] <= 0 && f.Domain[1] >= 0 {
		return newInvalidFunctionError(2, "Domain",
			"domain contains 0 with negative exponent")
	}
	return nil
}

// Shape returns the number of input and output values of the function.
func (f *Type2) Shape() (int, int) {
	n := len(f.C0)
	if n == 0 {
		n = len(f.C1)
	}
	if n == 0 {
		n = 1
	}
	return 1, n
}

// Apply applies the function to the given input value and returns the
// output values.
func (f *Type2) Apply(inputs ...float64) []float64 {
	x := clip(inputs[0], f.Domain[0], f.Domain[1])

	var xn float64
	switch f.N {
	case 0:
		xn = 1
	case 1:
		xn = x
	default:
		xn = math.Pow(x, f.N)
	}

	_, n := f.Shape()
	outputs := make([]float64, n)
	for i := range n {
		c0, c1 := 0.0, 1.0
		if f.C0 != nil {
			c0 = f.C0[i]
		}
		if f.C1 != nil {
			c1 = f.C1[i]
		}
		outputs[i] = c0 + xn*(c1-c0)
	}

	if f.Range != nil {
		for i := range n {
			outputs[i] = clip(outputs[i], f.Range[2*i], f.Range[2*i+1])
		}
	}
	return outputs
}
