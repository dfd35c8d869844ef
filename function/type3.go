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

// Type3 represents a piecewise defined function with a single input.
// The PDF specification refers to this as a "stitching function".
type Type3 struct {
	// Domain defines the overall input range as [min, max].
	Domain []float64

	// Range (optional) defines the valid output ranges as
	// [min0, max0, min1, max1, ...].
	Range []float64

	// Functions is the array of k functions to be combined.
	// All functions must have one input and the same number of outputs.
	Functions []Func

	// Bounds defines the boundaries between subdomains.  It must have
	// k-1 elements, in increasing order, within the domain.  The first
	// function applies to [Domain[0], Bounds[0]), the second to
	// [Bounds[0], Bounds[1]), ..., the last to [Bounds[k-2], Domain[1]].
	Bounds []float64

	// Encode maps each subdomain to the corresponding function's domain
	// as [min0, max0, min1, max1, ...].
	Encode []float64
}

// NewType3 validates the function and returns it.
func NewType3(f *Type3) (*Type3, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Type3) validate() error {
	if len(f.Domain) != 2 || !isRange(f.Domain[0], f.Domain[1]) {
		return newInvalidFunctionError(3, "Domain",
			"invalid domain %v", f.Domain)
	}
	k := len(f.Functions)
	if k == 0 {
		return newInvalidFunctionError(3, "Functions", "no functions")
	}
	_, n := f.Functions[0].Shape()
	for i, fn := range f.Functions {
		m, ni := fn.Shape()
		if m != 1 {
			return newInvalidFunctionError(3, "Functions",
				"function %d has %d inputs", i, m)
		}
		if ni != n {
			return newInvalidFunctionError(3, "Functions",
				"function %d has %d outputs, function 0 has %d", i, ni, n)
		}
	}
	if len(f.Bounds) != k-1 {
		return newInvalidFunctionError(3, "Bounds",
			"got %d entries, need %d", len(f.Bounds), k-1)
	}
	prev := f.Domain[0]
	for i, b := range f.Bounds {
		// the first bound may coincide with the lower domain limit
		if b < prev || i > 0 && b == prev || b > f.Domain[1] {
			return newInvalidFunctionError(3, "Bounds",
				"Bounds[%d] = %g out of order", i, b)
		}
		prev = b
	}
	if len(f.Encode) != 2*k {
		return newInvalidFunctionError(3, "Encode",
			"got %d entries, need %d", len(f.Encode), 2*k)
	}
	if f.Range != nil && len(f.Range) != 2*n {
		return newInvalidFunctionError(3, "Range",
			"got %d entries, need %d", len(f.Range), 2*n)
	}
	return nil
}

// Shape returns the number of input and output values of the function.
func (f *Type3) Shape() (int, int) {
	_, n := f.Functions[0].Shape()
	return 1, n
}

// Apply applies the function to the given input value and returns the
// output values.
func (f *Type3) Apply(inputs ...float64) []float64 {
	x := clip(inputs[0], f.Domain[0], f.Domain[1])

	i, sub := f.findSubdomain(x)
	encoded := interpolate(x, sub[0], sub[1], f.Encode[2*i], f.Encode[2*i+1])
	outputs := f.Functions[i].Apply(encoded)

	if f.Range != nil {
		_, n := f.Shape()
		for j := range n {
			outputs[j] = clip(outputs[j], f.Range[2*j], f.Range[2*j+1])
		}
	}
	return outputs
}

// findSubdomain determines which subdomain x belongs to and returns the
// subdomain index together with its boundaries.  Subdomains are
// half-open, closed on the left and open on the right; the last
// subdomain is closed on both sides.  When Domain[0] equals Bounds[0],
// the first subdomain contains only that single point and the second is
// open on the left.
func (f *Type3) findSubdomain(x float64) (int, [2]float64) {
	k := len(f.Functions)
	domain0, domain1 := f.Domain[0], f.Domain[1]

	if len(f.Bounds) == 0 {
		return 0, [2]float64{domain0, domain1}
	}

	if domain0 == f.Bounds[0] {
		if x == domain0 {
			return 0, [2]float64{domain0, f.Bounds[0]}
		}
	} else if x < f.Bounds[0] {
		return 0, [2]float64{domain0, f.Bounds[0]}
	}

	for i := 0; i < len(f.Bounds)-1; i++ {
		if x < f.Bounds[i+1] {
			return i + 1, [2]float64{f.Bounds[i], f.Bounds[i+1]}
		}
	}

	return k - 1, [2]float64{f.Bounds[len(f.Bounds)-1], domain1}
}
