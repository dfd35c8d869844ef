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

	"seehuhn.de/go/cms/function"
	"seehuhn.de/go/cms/icc"
)

// == Indexed ================================================================

// SpaceIndexed represents an indexed color space.
type SpaceIndexed struct {
	Base   Space
	NumCol int

	// lookup contains the palette data as encoded bytes, NumCol
	// entries of Base.Channels() bytes each.
	lookup []byte
}

// Indexed returns a new indexed color space.
//
// The lookup data holds hival+1 palette entries, one byte per
// component of the base color space.  Component byte 0 maps to the
// lower end of the base component range and byte 255 to the upper
// end.  The base space must not itself be an indexed space, and
// hival must be in the range from 0 to 255.
func Indexed(base Space, hival int, lookup []byte) (*SpaceIndexed, error) {
	if base == nil || base.Family() == FamilyIndexed {
		return nil, errors.New("Indexed: invalid base color space")
	}
	if hival < 0 || hival > 255 {
		return nil, fmt.Errorf("Indexed: invalid hival %d", hival)
	}
	numCol := hival + 1
	if len(lookup) < numCol*base.Channels() {
		return nil, errors.New("Indexed: truncated lookup table")
	}

	return &SpaceIndexed{
		Base:   base,
		NumCol: numCol,
		lookup: lookup,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceIndexed) Family() Family { return FamilyIndexed }

// Channels implements the [Space] interface.
func (s *SpaceIndexed) Channels() int { return 1 }

// Default implements the [Space] interface.
func (s *SpaceIndexed) Default() []float64 { return []float64{0} }

func (s *SpaceIndexed) ranges() []float64 {
	return []float64{0, float64(s.NumCol - 1)}
}

// NewSampler implements the [Space] interface.
func (s *SpaceIndexed) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	base, err := s.Base.NewSampler(intent)
	if err != nil {
		return nil, err
	}

	n := s.Base.Channels()
	ranges := s.Base.ranges()
	components := make([]float64, n)
	palette := make([]RGBA, s.NumCol)
	for i := range palette {
		entry := s.lookup[i*n : (i+1)*n]
		for j, b := range entry {
			lo, hi := ranges[2*j], ranges[2*j+1]
			components[j] = lo + float64(b)/255*(hi-lo)
		}
		palette[i] = base.Sample(components)
	}
	return &indexedSampler{palette: palette}, nil
}

// == Separation =============================================================

// SpaceSeparation represents a named colorant with an alternate
// color space.
type SpaceSeparation struct {
	Colorant  string
	Alternate Space

	tint function.Func
}

// Separation returns a new Separation color space.  The tint
// transform must map a single tint value in the unit interval to the
// components of the alternate space.
func Separation(colorant string, alternate Space, tint function.Func) (*SpaceSeparation, error) {
	if colorant == "" {
		return nil, errors.New("Separation: missing colorant name")
	}
	if !isAlternateSpace(alternate) {
		return nil, errors.New("Separation: invalid alternate color space")
	}
	if nIn, nOut := tint.Shape(); nIn != 1 || nOut != alternate.Channels() {
		return nil, errors.New("Separation: invalid transformation function")
	}

	return &SpaceSeparation{
		Colorant:  colorant,
		Alternate: alternate,
		tint:      tint,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceSeparation) Family() Family { return FamilySeparation }

// Channels implements the [Space] interface.
func (s *SpaceSeparation) Channels() int { return 1 }

// Default implements the [Space] interface.
func (s *SpaceSeparation) Default() []float64 { return []float64{1} }

func (s *SpaceSeparation) ranges() []float64 { return unitRanges[:2] }

// NewSampler implements the [Space] interface.
func (s *SpaceSeparation) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	alt, err := s.Alternate.NewSampler(intent)
	if err != nil {
		return nil, err
	}
	tint := s.tint
	return &tintTableSampler{
		eval: func(x float64) RGBA {
			return alt.Sample(tint.Apply(x))
		},
	}, nil
}

// == DeviceN ================================================================

// SpaceDeviceN represents a set of named colorants with an alternate
// color space.
type SpaceDeviceN struct {
	Names     []string
	Alternate Space

	tint function.Func
}

// DeviceN returns a new DeviceN color space.  The tint transform
// must map len(names) tint values in the unit interval to the
// components of the alternate space.
//
// The name "All" is not allowed as a colorant name.  The name "None"
// marks a colorant which produces no visible output and may be
// repeated.
func DeviceN(names []string, alternate Space, tint function.Func) (*SpaceDeviceN, error) {
	if len(names) == 0 {
		return nil, errors.New("DeviceN: missing colorant names")
	}
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" || name == "All" {
			return nil, errors.New("DeviceN: invalid colorant name")
		}
		if name != "None" && seen[name] {
			return nil, errors.New("DeviceN: duplicate colorant name")
		}
		seen[name] = true
	}
	if !isAlternateSpace(alternate) {
		return nil, errors.New("DeviceN: invalid alternate color space")
	}
	if nIn, nOut := tint.Shape(); nIn != len(names) || nOut != alternate.Channels() {
		return nil, errors.New("DeviceN: invalid transformation function")
	}

	return &SpaceDeviceN{
		Names:     names,
		Alternate: alternate,
		tint:      tint,
	}, nil
}

// Family implements the [Space] interface.
func (s *SpaceDeviceN) Family() Family { return FamilyDeviceN }

// Channels implements the [Space] interface.
func (s *SpaceDeviceN) Channels() int { return len(s.Names) }

// Default implements the [Space] interface.
func (s *SpaceDeviceN) Default() []float64 {
	def := make([]float64, len(s.Names))
	for i := range def {
		def[i] = 1
	}
	return def
}

func (s *SpaceDeviceN) ranges() []float64 {
	n := len(s.Names)
	if 2*n <= len(unitRanges) {
		return unitRanges[:2*n]
	}
	r := make([]float64, 2*n)
	for i := range n {
		r[2*i+1] = 1
	}
	return r
}

// NewSampler implements the [Space] interface.
func (s *SpaceDeviceN) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	alt, err := s.Alternate.NewSampler(intent)
	if err != nil {
		return nil, err
	}
	tint := s.tint
	if len(s.Names) == 1 {
		return &tintTableSampler{
			eval: func(x float64) RGBA {
				return alt.Sample(tint.Apply(x))
			},
		}, nil
	}
	return &funcSampler{fn: tint, next: alt}, nil
}

// isAlternateSpace reports whether a space may serve as the alternate
// space of a Separation or DeviceN space.
func isAlternateSpace(s Space) bool {
	if s == nil {
		return false
	}
	switch s.Family() {
	case FamilyIndexed, FamilySeparation, FamilyDeviceN:
		return false
	}
	return true
}
