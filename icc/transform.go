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

// Vec4 holds up to four color components.  Transforms with fewer
// channels ignore the trailing components.
type Vec4 [4]float64

// Clamp01 clamps every component to the unit interval, mapping NaN to 0.
func (v Vec4) Clamp01() Vec4 {
	for i, x := range v {
		if !(x > 0) { // catches NaN
			v[i] = 0
		} else if x > 1 {
			v[i] = 1
		}
	}
	return v
}

// TransformKind identifies the operation of a Transform.
type TransformKind int

// The supported transform operations.
const (
	TransformIdentity TransformKind = iota
	TransformTRC
	TransformMatrix
	TransformLUT
	TransformDecodeLab
	TransformLabToXYZ
	TransformXYZToSRGB
	TransformScale
	TransformBlackPoint
	TransformFunc
)

func (k TransformKind) String() string {
	names := [...]string{
		"identity", "TRC", "matrix", "LUT", "decode Lab", "Lab to XYZ",
		"XYZ to sRGB", "scale", "black point", "function",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// Transform is one step of a color conversion chain.  The Kind field
// selects the operation; the remaining fields carry its parameters.
// Transforms are immutable and safe for concurrent use.
type Transform struct {
	Kind TransformKind

	// Curves are the per-channel tone curves of TransformTRC steps.
	// Nil entries pass the channel through unchanged.
	Curves [4]*Curve

	// Matrix is the 3x3 matrix of TransformMatrix steps, row-major.
	Matrix [9]float64

	// Pipe is the lookup table of TransformLUT steps.
	Pipe *Pipeline

	// Scale is the per-component factor of TransformScale steps.
	Scale float64

	// ScaleXYZ and OffsetXYZ are the linear correction of
	// TransformBlackPoint steps, applied as v' = scale*v + offset.
	ScaleXYZ, OffsetXYZ [3]float64

	// Fn is the callback of TransformFunc steps.
	Fn func(Vec4) Vec4
}

// Apply runs the transform on v.  The operation is total for all kinds.
func (t *Transform) Apply(v Vec4) Vec4 {
	switch t.Kind {
	case TransformTRC:
		return EvaluateVec4(t.Curves, v)

	case TransformMatrix:
		m := &t.Matrix
		x, y, z := v[0], v[1], v[2]
		return Vec4{
			m[0]*x + m[1]*y + m[2]*z,
			m[3]*x + m[4]*y + m[5]*z,
			m[6]*x + m[7]*y + m[8]*z,
			v[3],
		}

	case TransformLUT:
		var out Vec4
		t.Pipe.Apply(out[:t.Pipe.NOut], v[:])
		return out

	case TransformDecodeLab:
		// ICC-encoded Lab to Lab coordinates.
		return Vec4{100 * v[0], 255*v[1] - 128, 255*v[2] - 128, v[3]}

	case TransformLabToXYZ:
		x, y, z := LabToXYZ(v[0], v[1], v[2])
		return Vec4{x, y, z, v[3]}

	case TransformXYZToSRGB:
		r, g, b := XYZToSRGB(v[0], v[1], v[2])
		return Vec4{r, g, b, v[3]}

	case TransformScale:
		return Vec4{t.Scale * v[0], t.Scale * v[1], t.Scale * v[2], v[3]}

	case TransformBlackPoint:
		return Vec4{
			t.ScaleXYZ[0]*v[0] + t.OffsetXYZ[0],
			t.ScaleXYZ[1]*v[1] + t.OffsetXYZ[1],
			t.ScaleXYZ[2]*v[2] + t.OffsetXYZ[2],
			v[3],
		}

	case TransformFunc:
		return t.Fn(v)

	default:
		return v
	}
}

// Chain is an ordered sequence of transforms, applied left to right.
type Chain []*Transform

// Apply runs every transform of the chain on v.
func (c Chain) Apply(v Vec4) Vec4 {
	for _, t := range c {
		v = t.Apply(v)
	}
	return v
}

// LabToXYZ converts CIE Lab coordinates (D50 white point) to XYZ.
func LabToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	return D50[0] * labFinv(fx), D50[1] * labFinv(fy), D50[2] * labFinv(fz)
}

// XYZToLab converts XYZ coordinates (D50 white point) to CIE Lab.
func XYZToLab(x, y, z float64) (l, a, b float64) {
	fx := labF(x / D50[0])
	fy := labF(y / D50[1])
	fz := labF(z / D50[2])
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

func labF(t float64) float64 {
	if t > 216.0/24389.0 {
		return math.Cbrt(t)
	}
	return (24389.0/27.0*t + 16) / 116
}

func labFinv(t float64) float64 {
	if t > 6.0/29.0 {
		return t * t * t
	}
	return (116*t - 16) * 27.0 / 24389.0
}

// bradfordD50ToD65 adapts XYZ colors from the D50 profile connection
// space to the D65 white point of sRGB.
var bradfordD50ToD65 = [9]float64{
	0.9555766, -0.0230393, 0.0631636,
	-0.0282895, 1.0099416, 0.0210077,
	0.0122982, -0.0204830, 1.3299098,
}

// xyzD65ToLinearSRGB converts D65 XYZ to linear-light sRGB.
var xyzD65ToLinearSRGB = [9]float64{
	3.2404542, -1.5371385, -0.4985314,
	-0.9692660, 1.8760108, 0.0415560,
	0.0556434, -0.2040259, 1.0572252,
}

// XYZToSRGB converts XYZ coordinates relative to the D50 white point to
// gamma-encoded sRGB components.  Out-of-gamut results are clamped.
func XYZToSRGB(x, y, z float64) (r, g, b float64) {
	m := &bradfordD50ToD65
	x65 := m[0]*x + m[1]*y + m[2]*z
	y65 := m[3]*x + m[4]*y + m[5]*z
	z65 := m[6]*x + m[7]*y + m[8]*z

	m = &xyzD65ToLinearSRGB
	rl := m[0]*x65 + m[1]*y65 + m[2]*z65
	gl := m[3]*x65 + m[4]*y65 + m[5]*z65
	bl := m[6]*x65 + m[7]*y65 + m[8]*z65

	return srgbGamma(rl), srgbGamma(gl), srgbGamma(bl)
}

// srgbGamma applies the sRGB transfer function to a linear component,
// clamping the result to the unit interval.
func srgbGamma(c float64) float64 {
	if !(c > 0) {
		return 0
	}
	if c >= 1 {
		return 1
	}
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// srgbGammaInv is the inverse sRGB transfer function.
func srgbGammaInv(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
