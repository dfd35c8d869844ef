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
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/cms/icc"
)

// == CalGray ================================================================

// SpaceCalGray represents a CalGray color space.
type SpaceCalGray struct {
	whitePoint []float64
	blackPoint []float64
	gamma      float64
}

// CalGray returns a new CalGray color space.
//
// WhitePoint is the diffuse white point in CIE 1931 XYZ coordinates.  This
// must be a slice of length 3, with positive entries, and Y=1.
//
// BlackPoint (optional) is the diffuse black point in the CIE 1931 XYZ
// coordinates.  If non-nil, this must be a slice of three non-negative
// numbers.  The default is [0 0 0].
//
// The gamma parameter is a positive number (usually greater than or equal to 1).
func CalGray(whitePoint, blackPoint []float64, gamma float64) (*SpaceCalGray, error) {
	if !isPosVec3(whitePoint) || whitePoint[1] != 1 {
		return nil, errors.New("CalGray: invalid white point")
	}
	if blackPoint == nil {
		blackPoint = []float64{0, 0, 0}
	} else if !isPosVec3(blackPoint) {
		return nil, errors.New("CalGray: invalid black point")
	}
	if gamma <= 0 {
		return nil, fmt.Errorf("CalGray: expected gamma > 0, got %f", gamma)
	}

	return &SpaceCalGray{
		whitePoint: whitePoint,
		blackPoint: blackPoint,
		gamma:      gamma,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceCalGray) Family() Family { return FamilyCalGray }

// Channels implements the [Space] interface.
func (s *SpaceCalGray) Channels() int { return 1 }

// Default implements the [Space] interface.
func (s *SpaceCalGray) Default() []float64 { return []float64{0} }

func (s *SpaceCalGray) ranges() []float64 { return unitRanges[:2] }

// NewSampler implements the [Space] interface.
func (s *SpaceCalGray) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	wp := [3]float64{s.whitePoint[0], s.whitePoint[1], s.whitePoint[2]}
	gamma := s.gamma
	chain := icc.Chain{
		{
			Kind: icc.TransformFunc,
			Fn: func(v icc.Vec4) icc.Vec4 {
				g := math.Pow(clamp01(v[0]), gamma)
				return icc.Vec4{wp[0] * g, wp[1] * g, wp[2] * g, v[3]}
			},
		},
		{Kind: icc.TransformXYZToSRGB},
	}
	return &chainSampler{chain: chain, nIn: 1}, nil
}

// == CalRGB =================================================================

// SpaceCalRGB represents a CalRGB color space.
type SpaceCalRGB struct {
	whitePoint []float64
	blackPoint []float64
	gamma      []float64
	matrix     []float64
}

// CalRGB returns a new CalRGB color space.
//
// WhitePoint is the diffuse white point in CIE 1931 XYZ coordinates.  This
// must be a slice of length 3, with positive entries, and Y=1.
//
// BlackPoint (optional) is the diffuse black point in the CIE 1931 XYZ
// coordinates.  If non-nil, this must be a slice of three non-negative
// numbers.  The default is [0 0 0].
//
// Gamma (optional) gives the gamma values for the red, green and blue
// components.  If non-nil, this must be a slice of three numbers.  The default
// is [1 1 1].
//
// Matrix (optional) maps gamma-corrected components to XYZ.  It is given
// in column order, [XA YA ZA XB YB ZB XC YC ZC].  The default is the
// identity matrix.
func CalRGB(whitePoint, blackPoint, gamma, matrix []float64) (*SpaceCalRGB, error) {
	if !isPosVec3(whitePoint) || whitePoint[1] != 1 {
		return nil, errors.New("CalRGB: invalid white point")
	}
	if blackPoint == nil {
		blackPoint = []float64{0, 0, 0}
	} else if !isPosVec3(blackPoint) {
		return nil, errors.New("CalRGB: invalid black point")
	}
	if gamma == nil {
		gamma = []float64{1, 1, 1}
	} else if len(gamma) != 3 {
		return nil, errors.New("CalRGB: invalid gamma")
	}
	if matrix == nil {
		matrix = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	} else if len(matrix) != 9 {
		return nil, errors.New("CalRGB: invalid matrix")
	}

	return &SpaceCalRGB{
		whitePoint: whitePoint,
		blackPoint: blackPoint,
		gamma:      gamma,
		matrix:     matrix,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceCalRGB) Family() Family { return FamilyCalRGB }

// Channels implements the [Space] interface.
func (s *SpaceCalRGB) Channels() int { return 3 }

// Default implements the [Space] interface.
func (s *SpaceCalRGB) Default() []float64 { return []float64{0, 0, 0} }

func (s *SpaceCalRGB) ranges() []float64 { return unitRanges[:6] }

// NewSampler implements the [Space] interface.
func (s *SpaceCalRGB) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	curves := [4]*icc.Curve{
		icc.NewGammaCurve(s.gamma[0]),
		icc.NewGammaCurve(s.gamma[1]),
		icc.NewGammaCurve(s.gamma[2]),
		nil,
	}

	// The matrix is stored by columns, XYZ rows are assembled here.
	m := s.matrix
	rowMajor := [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}

	chain := icc.Chain{
		{
			Kind: icc.TransformFunc,
			Fn:   icc.Vec4.Clamp01,
		},
		{Kind: icc.TransformTRC, Curves: curves},
		{Kind: icc.TransformMatrix, Matrix: rowMajor},
		{Kind: icc.TransformXYZToSRGB},
	}
	return &chainSampler{chain: chain, nIn: 3}, nil
}

// == Lab ====================================================================

// SpaceLab represents a CIE 1976 L*a*b* color space.
type SpaceLab struct {
	whitePoint []float64
	blackPoint []float64
	labRanges  []float64
}

// Lab returns a new CIE 1976 L*a*b* color space.
//
// WhitePoint is the diffuse white point in CIE 1931 XYZ coordinates.  This
// must be a slice of length 3, with positive entries, and Y=1.
//
// BlackPoint (optional) is the diffuse black point in the CIE 1931 XYZ
// coordinates.  If non-nil, this must be a slice of three non-negative
// numbers.  The default is [0 0 0].
//
// Ranges (optional) is a slice of four numbers, [aMin, aMax, bMin, bMax],
// which define the valid range of the a* and b* components.
// The default is [-100 100 -100 100].
func Lab(whitePoint, blackPoint, ranges []float64) (*SpaceLab, error) {
	if !isPosVec3(whitePoint) || whitePoint[1] != 1 {
		return nil, errors.New("Lab: invalid white point")
	}
	if blackPoint == nil {
		blackPoint = []float64{0, 0, 0}
	} else if !isPosVec3(blackPoint) {
		return nil, errors.New("Lab: invalid black point")
	}
	if ranges == nil {
		ranges = []float64{-100, 100, -100, 100}
	} else if len(ranges) != 4 || ranges[0] >= ranges[1] || ranges[2] >= ranges[3] {
		return nil, errors.New("Lab: invalid ranges")
	}

	return &SpaceLab{
		whitePoint: whitePoint,
		blackPoint: blackPoint,
		labRanges:  ranges,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceLab) Family() Family { return FamilyLab }

// Channels implements the [Space] interface.
func (s *SpaceLab) Channels() int { return 3 }

// Default implements the [Space] interface.
func (s *SpaceLab) Default() []float64 {
	a := clamp(0, s.labRanges[0], s.labRanges[1])
	b := clamp(0, s.labRanges[2], s.labRanges[3])
	return []float64{0, a, b}
}

func (s *SpaceLab) ranges() []float64 {
	return []float64{
		0, 100,
		s.labRanges[0], s.labRanges[1],
		s.labRanges[2], s.labRanges[3],
	}
}

// NewSampler implements the [Space] interface.
func (s *SpaceLab) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	wp := [3]float64{s.whitePoint[0], s.whitePoint[1], s.whitePoint[2]}
	rr := [4]float64{s.labRanges[0], s.labRanges[1], s.labRanges[2], s.labRanges[3]}
	chain := icc.Chain{
		{
			Kind: icc.TransformFunc,
			Fn: func(v icc.Vec4) icc.Vec4 {
				l := clamp(v[0], 0, 100)
				a := clamp(v[1], rr[0], rr[1])
				b := clamp(v[2], rr[2], rr[3])
				x, y, z := labToXYZ(wp, l, a, b)
				return icc.Vec4{x, y, z, v[3]}
			},
		},
		{Kind: icc.TransformXYZToSRGB},
	}
	return &chainSampler{chain: chain, nIn: 3}, nil
}

// labToXYZ converts L*a*b* coordinates to XYZ relative to the given
// white point.
func labToXYZ(wp [3]float64, l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	return wp[0] * labFinv(fx), wp[1] * labFinv(fy), wp[2] * labFinv(fz)
}

func labFinv(t float64) float64 {
	const delta = 6.0 / 29
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29)
}

func isPosVec3(x []float64) bool {
	if len(x) != 3 {
		return false
	}
	for _, v := range x {
		if v < 0 {
			return false
		}
	}
	return true
}
