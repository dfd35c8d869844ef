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

// CurveKind distinguishes the representations of a tone curve.
type CurveKind int

// The supported curve representations.
const (
	KindIdentity CurveKind = iota
	KindGamma
	KindParametric
	KindSampled
)

// Curve is a one-dimensional tone reproduction curve.  The kind field
// selects which of the remaining fields are meaningful.  Curves are
// immutable after construction.
type Curve struct {
	Kind CurveKind

	// Gamma is the exponent of KindGamma curves.
	Gamma float64

	// FuncType and Params describe KindParametric curves.  FuncType is
	// the ICC parametric function type (0 to 4); Params holds the
	// parameters in the order g, a, b, c, d, e, f.
	FuncType int
	Params   []float64

	// Samples holds the table of KindSampled curves, uniformly spaced
	// over the unit interval.
	Samples []float64
}

// IdentityCurve maps every input to itself.
var IdentityCurve = &Curve{Kind: KindIdentity}

// NewGammaCurve returns the curve y = x^gamma.
func NewGammaCurve(gamma float64) *Curve {
	return &Curve{Kind: KindGamma, Gamma: gamma}
}

// NewParametricCurve returns a parametric curve of the given ICC function
// type.  Types 0 to 4 are supported; params must hold exactly the
// parameters of the type, in the order g, a, b, c, d, e, f.
func NewParametricCurve(funcType int, params []float64) (*Curve, error) {
	var need int
	switch funcType {
	case 0:
		need = 1
	case 1:
		need = 3
	case 2:
		need = 4
	case 3:
		need = 5
	case 4:
		need = 7
	default:
		return nil, fmt.Errorf("parametric type %d: %w",
			funcType, ErrUnsupportedCurveKind)
	}
	if len(params) != need {
		return nil, fmt.Errorf("parametric type %d: got %d parameters, need %d: %w",
			funcType, len(params), need, ErrMalformedProfile)
	}
	p := make([]float64, need)
	copy(p, params)
	return &Curve{Kind: KindParametric, FuncType: funcType, Params: p}, nil
}

// NewSampledCurve returns a curve interpolating the given samples, which
// are taken to be uniformly spaced over the unit interval.
func NewSampledCurve(samples []float64) (*Curve, error) {
	if len(samples) < 1 {
		return nil, fmt.Errorf("sampled curve with no entries: %w",
			ErrMalformedProfile)
	}
	s := make([]float64, len(samples))
	copy(s, samples)
	return &Curve{Kind: KindSampled, Samples: s}, nil
}

// Evaluate returns the curve value at x.  The function is total: inputs
// outside the unit interval are clamped before table lookups, and
// parametric curves follow the piecewise definitions of the ICC
// specification.  Sampled curve outputs are not clamped.
func (c *Curve) Evaluate(x float64) float64 {
	if c == nil {
		return x
	}
	switch c.Kind {
	case KindGamma:
		if x <= 0 {
			return 0
		}
		return math.Pow(x, c.Gamma)
	case KindParametric:
		return c.evaluateParametric(x)
	case KindSampled:
		return c.evaluateSampled(x)
	default:
		return x
	}
}

func (c *Curve) evaluateParametric(x float64) float64 {
	p := c.Params
	g := p[0]
	switch c.FuncType {
	case 0:
		if x <= 0 {
			return 0
		}
		return math.Pow(x, g)
	case 1:
		a, b := p[1], p[2]
		if a != 0 && x >= -b/a {
			return math.Pow(a*x+b, g)
		}
		return 0
	case 2:
		a, b, cc := p[1], p[2], p[3]
		if a != 0 && x >= -b/a {
			return math.Pow(a*x+b, g) + cc
		}
		return cc
	case 3:
		a, b, cc, d := p[1], p[2], p[3], p[4]
		if x >= d {
			return math.Pow(a*x+b, g)
		}
		return cc * x
	case 4:
		a, b, cc, d, e, f := p[1], p[2], p[3], p[4], p[5], p[6]
		if x >= d {
			return math.Pow(a*x+b, g) + e
		}
		return cc*x + f
	}
	return x
}

// evaluateSampled reconstructs the curve from its samples using
// Catmull-Rom interpolation, with end segments clamped to the table
// boundary values.
func (c *Curve) evaluateSampled(x float64) float64 {
	tab := c.Samples
	n := len(tab)
	if n == 1 {
		return tab[0]
	}
	if math.IsNaN(x) {
		x = 0
	}
	pos := x * float64(n-1)
	if pos <= 0 {
		return tab[0]
	}
	if pos >= float64(n-1) {
		return tab[n-1]
	}
	i := int(pos)
	t := pos - float64(i)

	y1 := tab[i]
	y2 := tab[i+1]
	y0 := y1
	if i > 0 {
		y0 = tab[i-1]
	}
	y3 := y2
	if i+2 < n {
		y3 = tab[i+2]
	}

	// Catmull-Rom spline through y1 and y2 with tangents from the
	// neighbouring samples.
	a := 2*y1 - 2*y2 + (y2-y0)/2 + (y3-y1)/2
	b := -3*y1 + 3*y2 - (y2 - y0) - (y3-y1)/2
	return ((a*t+b)*t+(y2-y0)/2)*t + y1
}

// EvaluateVec4 applies up to four curves component-wise to v.  Nil curve
// entries pass the component through unchanged.  Results agree exactly
// with calling Evaluate on each curve separately.
func EvaluateVec4(curves [4]*Curve, v Vec4) Vec4 {
	for i, c := range curves {
		v[i] = c.Evaluate(v[i])
	}
	return v
}
