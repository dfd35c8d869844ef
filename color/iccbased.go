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

	"seehuhn.de/go/cms/icc"
)

// SpaceICCBased represents an ICC-based color space.
type SpaceICCBased struct {
	N      int
	Ranges []float64

	// Exact disables the grid acceleration for four-component lookup
	// table profiles, so every pixel evaluates the full pipeline.
	Exact bool

	profile *icc.Profile
	def     []float64
}

// ICCBased returns a new ICC-based color space for the given encoded
// profile.  The profile's data color space must have one, three or
// four components.
func ICCBased(profile []byte) (*SpaceICCBased, error) {
	if len(profile) == 0 {
		return nil, errors.New("ICCBased: missing profile")
	}

	p, err := icc.Decode(profile)
	if err != nil {
		return nil, err
	}

	n := p.ColorSpace.Channels()
	if n != 1 && n != 3 && n != 4 {
		return nil, fmt.Errorf("ICCBased: invalid number of components %d", n)
	}

	var ranges []float64
	switch p.ColorSpace {
	case icc.LabSpace:
		ranges = []float64{0, 100, -128, 127, -128, 127}
	default:
		ranges = unitRanges[:2*n]
	}

	return &SpaceICCBased{
		N:       n,
		Ranges:  ranges,
		profile: p,
		def:     make([]float64, n),
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceICCBased) Family() Family { return FamilyICCBased }

// Channels implements the [Space] interface.
func (s *SpaceICCBased) Channels() int { return s.N }

// Default implements the [Space] interface.
func (s *SpaceICCBased) Default() []float64 { return s.def }

func (s *SpaceICCBased) ranges() []float64 { return s.Ranges }

// NewSampler implements the [Space] interface.
func (s *SpaceICCBased) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	chain, err := icc.ResolveChain(s.profile, intent)
	if err != nil {
		return nil, err
	}

	if s.profile.ColorSpace == icc.LabSpace && len(chain) > 0 && chain[0].Kind == icc.TransformLUT {
		// Component values arrive in the L*a*b* ranges, but lookup
		// table inputs use the encoded unit range.
		encode := &icc.Transform{
			Kind: icc.TransformFunc,
			Fn: func(v icc.Vec4) icc.Vec4 {
				return icc.Vec4{
					clamp(v[0], 0, 100) / 100,
					(clamp(v[1], -128, 127) + 128) / 255,
					(clamp(v[2], -128, 127) + 128) / 255,
					v[3],
				}
			},
		}
		chain = append(icc.Chain{encode}, chain...)
	}

	if s.N == 4 && !s.Exact && usesLUT(chain) {
		return &cmykLUTSampler{chain: chain}, nil
	}
	return &chainSampler{chain: chain, nIn: s.N}, nil
}

// usesLUT reports whether the chain contains a multidimensional
// lookup table stage.  Only such chains are expensive enough to be
// worth the CMYK grid acceleration.
func usesLUT(chain icc.Chain) bool {
	for _, t := range chain {
		if t.Kind == icc.TransformLUT {
			return true
		}
	}
	return false
}
