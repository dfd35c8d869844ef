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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// uniformGrid returns a grid size slice with the given number of
// points in every dimension.
func uniformGrid(nDims, size int) []int {
	g := make([]int, nDims)
	for i := range g {
		g[i] = size
	}
	return g
}

func TestInterpolate1D(t *testing.T) {
	table := []float64{0, 0.1, 0.4, 0.9}
	cases := []struct {
		x, want float64
	}{
		{0, 0},
		{1, 0.9},
		{1.0 / 3, 0.1},
		{0.5, 0.25},
		{-1, 0},
		{2, 0.9},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		var dst [1]float64
		interpolate(dst[:], []float64{tc.x}, []int{4}, table)
		if math.Abs(dst[0]-tc.want) > 1e-12 {
			t.Errorf("interpolate(%g) = %g, want %g", tc.x, dst[0], tc.want)
		}
	}
}

// A trilinear grid sampling a multilinear function must reproduce the
// function exactly at every point.
func TestInterpolate3D(t *testing.T) {
	const n = 3
	f := func(x, y, z float64) float64 {
		return 0.2*x + 0.3*y + 0.5*z
	}
	// first dimension slowest
	table := make([]float64, n*n*n)
	for i := range n {
		for j := range n {
			for k := range n {
				table[(i*n+j)*n+k] = f(
					float64(i)/(n-1),
					float64(j)/(n-1),
					float64(k)/(n-1),
				)
			}
		}
	}
	for _, pos := range [][3]float64{
		{0, 0, 0}, {1, 1, 1}, {0.5, 0.5, 0.5},
		{0.1, 0.9, 0.3}, {0.25, 0.75, 0.6},
	} {
		var dst [1]float64
		interpolate(dst[:], pos[:], uniformGrid(3, n), table)
		want := f(pos[0], pos[1], pos[2])
		if math.Abs(dst[0]-want) > 1e-12 {
			t.Errorf("interpolate(%v) = %g, want %g", pos, dst[0], want)
		}
	}
}

func TestInterpolate4D(t *testing.T) {
	// 2 grid points per dimension, one output channel holding the
	// sum of the corner coordinates.
	grid := uniformGrid(4, 2)
	table := make([]float64, 16)
	for i := range 16 {
		table[i] = float64((i>>3)&1+(i>>2)&1+(i>>1)&1+i&1) / 4
	}
	pos := []float64{0.1, 0.2, 0.3, 0.4}
	var dst [1]float64
	interpolate(dst[:], pos, grid, table)
	want := (0.1 + 0.2 + 0.3 + 0.4) / 4
	if math.Abs(dst[0]-want) > 1e-12 {
		t.Errorf("interpolate(%v) = %g, want %g", pos, dst[0], want)
	}
}

func TestPipelineApply(t *testing.T) {
	// input curve squares, 1D identity table, output curve halves
	sq := NewGammaCurve(2)
	tab := []float64{0, 0.5, 1}
	pipe, err := NewPipeline(&Pipeline{
		NIn:          1,
		NOut:         1,
		InputCurves:  []*Curve{sq},
		OutputCurves: []*Curve{NewGammaCurve(1)},
		GridSize:     []int{3},
		Table:        tab,
	})
	if err != nil {
		t.Fatal(err)
	}
	var out [1]float64
	pipe.Apply(out[:], []float64{0.5})
	if math.Abs(out[0]-0.25) > 1e-12 {
		t.Errorf("Apply(0.5) = %g, want 0.25", out[0])
	}
}

func TestPipelineMidStages(t *testing.T) {
	// no table: mid curves and matrix stage only
	pipe, err := NewPipeline(&Pipeline{
		NIn:  3,
		NOut: 3,
		MidCurves: []*Curve{
			NewGammaCurve(1), NewGammaCurve(1), NewGammaCurve(1),
		},
		PostMatrix: &[12]float64{
			2, 0, 0,
			0, 2, 0,
			0, 0, 2,
			0.1, 0.1, 0.1,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out [3]float64
	pipe.Apply(out[:], []float64{0.1, 0.2, 0.3})
	want := []float64{0.3, 0.5, 0.7}
	if diff := cmp.Diff(want, out[:], cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mid stages (-want +got):\n%s", diff)
	}
}

func TestPipelineValidation(t *testing.T) {
	cases := []struct {
		name string
		pipe *Pipeline
	}{
		{"zero inputs", &Pipeline{NIn: 0, NOut: 3}},
		{"five inputs", &Pipeline{NIn: 5, NOut: 3}},
		{"zero outputs", &Pipeline{NIn: 3, NOut: 0}},
		{"five outputs", &Pipeline{NIn: 3, NOut: 5}},
		{"curve count", &Pipeline{
			NIn: 3, NOut: 3,
			InputCurves: []*Curve{IdentityCurve},
		}},
		{"table size", &Pipeline{
			NIn: 1, NOut: 1,
			GridSize: []int{3},
			Table:    []float64{0, 1},
		}},
		{"grid dims", &Pipeline{
			NIn: 2, NOut: 1,
			GridSize: []int{2},
			Table:    []float64{0, 1},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPipeline(tc.pipe)
			if err == nil {
				t.Error("expected validation error")
			}
			if !errors.Is(err, ErrDimensionMismatch) && !errors.Is(err, ErrMalformedProfile) {
				t.Errorf("unexpected error type: %v", err)
			}
		})
	}
}
