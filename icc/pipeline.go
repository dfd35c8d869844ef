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

package icc

import (
	"fmt"
	"math"
)

// Pipeline is a device-to-PCS lookup table transform, decoded from the
// lut8Type, lut16Type and lutAToBType tag representations.  Inputs pass
// through the per-channel input curves, the multi-dimensional lookup
// table, and the per-channel output curves, in that order.  Stages with
// nil curves or an empty table are skipped.
type Pipeline struct {
	// NIn and NOut are the numbers of input and output channels.
	// NIn is between 1 and 4, NOut is typically 3.
	NIn, NOut int

	// InputCurves and OutputCurves hold one curve per channel, or nil
	// to pass values through unchanged.
	InputCurves  []*Curve
	OutputCurves []*Curve

	// GridSize holds the number of grid points in each input
	// dimension.  Table is the flattened lookup table in row-major
	// order with the first input dimension varying slowest, NOut
	// values per grid point.
	GridSize []int
	Table    []float64

	// MidCurves and PostMatrix are the M curves and the matrix stage of
	// lutAToBType pipelines, applied between the table and the output
	// curves.  PostMatrix holds a 3x3 matrix followed by an offset
	// vector.  Both may be nil.
	MidCurves  []*Curve
	PostMatrix *[12]float64

	// Matrix, if non-nil, is a 3x3 matrix applied before the input
	// curves (lut8Type and lut16Type profiles with XYZ input).
	Matrix *[9]float64
}

// NewPipeline validates the stage dimensions and returns the pipeline.
func NewPipeline(p *Pipeline) (*Pipeline, error) {
	if p.NIn < 1 || p.NIn > 4 {
		return nil, fmt.Errorf("pipeline with %d input channels: %w",
			p.NIn, ErrDimensionMismatch)
	}
	if p.NOut < 1 || p.NOut > 4 {
		return nil, fmt.Errorf("pipeline with %d output channels: %w",
			p.NOut, ErrDimensionMismatch)
	}
	if p.InputCurves != nil && len(p.InputCurves) != p.NIn {
		return nil, fmt.Errorf("pipeline with %d input curves for %d channels: %w",
			len(p.InputCurves), p.NIn, ErrDimensionMismatch)
	}
	if p.MidCurves != nil && len(p.MidCurves) != 3 {
		return nil, fmt.Errorf("pipeline with %d mid curves: %w",
			len(p.MidCurves), ErrDimensionMismatch)
	}
	if p.OutputCurves != nil && len(p.OutputCurves) != p.NOut {
		return nil, fmt.Errorf("pipeline with %d output curves for %d channels: %w",
			len(p.OutputCurves), p.NOut, ErrDimensionMismatch)
	}
	if len(p.Table) > 0 {
		if len(p.GridSize) != p.NIn {
			return nil, fmt.Errorf("pipeline grid has %d dimensions for %d channels: %w",
				len(p.GridSize), p.NIn, ErrDimensionMismatch)
		}
		n := p.NOut
		for _, g := range p.GridSize {
			if g < 2 {
				return nil, fmt.Errorf("pipeline grid size %d: %w",
					g, ErrMalformedProfile)
			}
			n *= g
		}
		if n != len(p.Table) {
			return nil, fmt.Errorf("pipeline table has %d entries, need %d: %w",
				len(p.Table), n, ErrDimensionMismatch)
		}
	}
	return p, nil
}

// Apply runs the pipeline on the first NIn components of src, writing
// NOut components to dst.  The slices may not overlap.
func (p *Pipeline) Apply(dst, src []float64) {
	var buf [4]float64
	in := buf[:p.NIn]
	copy(in, src[:p.NIn])

	if p.Matrix != nil && p.NIn == 3 {
		m := p.Matrix
		x, y, z := in[0], in[1], in[2]
		in[0] = m[0]*x + m[1]*y + m[2]*z
		in[1] = m[3]*x + m[4]*y + m[5]*z
		in[2] = m[6]*x + m[7]*y + m[8]*z
	}
	if p.InputCurves != nil {
		for i := range in {
			in[i] = p.InputCurves[i].Evaluate(in[i])
		}
	}

	if len(p.Table) > 0 {
		interpolate(dst[:p.NOut], in, p.GridSize, p.Table)
	} else {
		for i := range p.NOut {
			if i < len(in) {
				dst[i] = in[i]
			} else {
				dst[i] = 0
			}
		}
	}

	if p.MidCurves != nil && p.NOut == 3 {
		for i := range 3 {
			dst[i] = p.MidCurves[i].Evaluate(dst[i])
		}
	}
	if p.PostMatrix != nil && p.NOut == 3 {
		m := p.PostMatrix
		x, y, z := dst[0], dst[1], dst[2]
		dst[0] = m[0]*x + m[1]*y + m[2]*z + m[9]
		dst[1] = m[3]*x + m[4]*y + m[5]*z + m[10]
		dst[2] = m[6]*x + m[7]*y + m[8]*z + m[11]
	}

	if p.OutputCurves != nil {
		for i := range p.NOut {
			dst[i] = p.OutputCurves[i].Evaluate(dst[i])
		}
	}
}

// interpolate performs multilinear interpolation on a flattened
// row-major grid, the first dimension varying slowest.  Inputs outside
// the unit interval are clamped to the grid boundary; NaN inputs are
// treated as 0.
func interpolate(dst, pos []float64, gridSize []int, table []float64) {
	nIn := len(gridSize)
	nOut := len(dst)

	var idx0, step [4]int
	var frac [4]float64

	// Strides, last dimension fastest.
	stride := nOut
	for i := nIn - 1; i >= 0; i-- {
		step[i] = stride
		stride *= gridSize[i]
	}

	for i := range nIn {
		x := pos[i]
		if math.IsNaN(x) {
			x = 0
		} else if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		t := x * float64(gridSize[i]-1)
		j := int(t)
		if j > gridSize[i]-2 {
			j = gridSize[i] - 2
		}
		idx0[i] = j
		frac[i] = t - float64(j)
	}

	for k := range dst {
		dst[k] = 0
	}
	for corner := range 1 << nIn {
		w := 1.0
		off := 0
		for i := range nIn {
			if corner&(1<<i) != 0 {
				w *= frac[i]
				off += (idx0[i] + 1) * step[i]
			} else {
				w *= 1 - frac[i]
				off += idx0[i] * step[i]
			}
		}
		if w == 0 {
			continue
		}
		for k := range nOut {
			dst[k] += w * table[off+k]
		}
	}
}
