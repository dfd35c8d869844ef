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

// Type0 represents a sampled function, defined by a table of sample
// values with multilinear interpolation between the grid points.
type Type0 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...].
	Range []float64

	// Size specifies the number of samples in each input dimension.
	Size []int

	// BitsPerSample is the number of bits per sample value
	// (1, 2, 4, 8, 12, 16, 24 or 32).
	BitsPerSample int

	// Encode maps inputs to sample table indices.
	// The default is [0, Size[0]-1, 0, Size[1]-1, ...].
	Encode []float64

	// Decode maps sample values to the output range.
	// The default is Range.
	Decode []float64

	// Samples contains the sample data, packed most significant bit
	// first, with the first input dimension varying fastest.
	Samples []byte
}

// NewType0 validates the function and returns it.
func NewType0(f *Type0) (*Type0, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Type0) validate() error {
	m, n := f.Shape()
	if m < 1 || len(f.Domain) != 2*m {
		return newInvalidFunctionError(0, "Domain",
			"length %d is not a positive multiple of 2", len(f.Domain))
	}
	if m > 8 {
		return newInvalidFunctionError(0, "Domain",
			"%d input dimensions not supported", m)
	}
	if n < 1 || len(f.Range) != 2*n {
		return newInvalidFunctionError(0, "Range",
			"length %d is not a positive multiple of 2", len(f.Range))
	}
	for i := range m {
		if !isRange(f.Domain[2*i], f.Domain[2*i+1]) {
			return newInvalidFunctionError(0, "Domain",
				"invalid interval [%g, %g]", f.Domain[2*i], f.Domain[2*i+1])
		}
	}
	if len(f.Size) != m {
		return newInvalidFunctionError(0, "Size",
			"got %d entries, need %d", len(f.Size), m)
	}
	numSamples := n
	for i, s := range f.Size {
		if s < 1 {
			return newInvalidFunctionError(0, "Size",
				"Size[%d] = %d", i, s)
		}
		numSamples *= s
	}
	switch f.BitsPerSample {
	case 1, 2, 4, 8, 12, 16, 24, 32:
	default:
		return newInvalidFunctionError(0, "BitsPerSample",
			"invalid value %d", f.BitsPerSample)
	}
	if f.Encode != nil && len(f.Encode) != 2*m {
		return newInvalidFunctionError(0, "Encode",
			"got %d entries, need %d", len(f.Encode), 2*m)
	}
	if f.Decode != nil && len(f.Decode) != 2*n {
		return newInvalidFunctionError(0, "Decode",
			"got %d entries, need %d", len(f.Decode), 2*n)
	}
	need := (numSamples*f.BitsPerSample + 7) / 8
	if len(f.Samples) < need {
		return newInvalidFunctionError(0, "Samples",
			"got %d bytes, need %d", len(f.Samples), need)
	}
	return nil
}

// Shape returns the number of input and output values of the function.
func (f *Type0) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values and returns the
// output values.
func (f *Type0) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()

	// clip inputs to the domain and encode to sample indices
	var idx0 [8]int
	var frac [8]float64
	indices := idx0[:m]
	fractions := frac[:m]
	for i := range m {
		x := clip(inputs[i], f.Domain[2*i], f.Domain[2*i+1])
		eMin, eMax := 0.0, float64(f.Size[i]-1)
		if f.Encode != nil {
			eMin, eMax = f.Encode[2*i], f.Encode[2*i+1]
		}
		e := interpolate(x, f.Domain[2*i], f.Domain[2*i+1], eMin, eMax)
		e = clip(e, 0, float64(f.Size[i]-1))

		j := int(e)
		if j > f.Size[i]-2 {
			j = f.Size[i] - 2
		}
		if j < 0 {
			j = 0
		}
		indices[i] = j
		fractions[i] = e - float64(j)
		if f.Size[i] == 1 {
			indices[i] = 0
			fractions[i] = 0
		}
	}

	// multilinear interpolation over the grid corners
	outputs := make([]float64, n)
	maxSample := float64(uint64(1)<<uint(f.BitsPerSample) - 1)
	for corner := range 1 << m {
		weight := 1.0
		pos := 0
		stride := 1
		// first input dimension varies fastest
		for dim := range m {
			j := indices[dim]
			if corner&(1<<dim) != 0 {
				weight *= fractions[dim]
				if f.Size[dim] > 1 {
					j++
				}
			} else {
				weight *= 1 - fractions[dim]
			}
			pos += j * stride
			stride *= f.Size[dim]
		}
		if weight == 0 {
			continue
		}
		for i := range n {
			outputs[i] += weight * f.sampleAt(pos*n+i) / maxSample
		}
	}

	// decode and clip to the range
	decode := f.Decode
	if decode == nil {
		decode = f.Range
	}
	for i := range n {
		y := interpolate(outputs[i], 0, 1, decode[2*i], decode[2*i+1])
		outputs[i] = clip(y, f.Range[2*i], f.Range[2*i+1])
	}
	return outputs
}

// sampleAt extracts the sample with the given index from the packed
// sample data.
func (f *Type0) sampleAt(index int) float64 {
	bits := f.BitsPerSample
	bitPos := index * bits

	var v uint64
	bytePos := bitPos / 8
	bitOffset := bitPos % 8
	remaining := bits
	for remaining > 0 {
		if bytePos >= len(f.Samples) {
			return 0
		}
		avail := 8 - bitOffset
		take := remaining
		if take > avail {
			take = avail
		}
		chunk := uint64(f.Samples[bytePos]) >> (avail - take)
		chunk &= (1 << take) - 1
		v = v<<take | chunk
		remaining -= take
		bitOffset += take
		if bitOffset == 8 {
			bitOffset = 0
			bytePos++
		}
	}
	return float64(v)
}
