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

import "seehuhn.de/go/cms/icc"

// SpaceDeviceGray is the one-component device gray color space.
// Gray values are used directly as sRGB luminance.
type SpaceDeviceGray struct{}

// Family implements the [Space] interface.
func (SpaceDeviceGray) Family() Family { return FamilyDeviceGray }

// Channels implements the [Space] interface.
func (SpaceDeviceGray) Channels() int { return 1 }

// Default implements the [Space] interface.
func (SpaceDeviceGray) Default() []float64 { return []float64{0} }

func (SpaceDeviceGray) ranges() []float64 { return unitRanges[:2] }

// NewSampler implements the [Space] interface.
func (SpaceDeviceGray) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	return graySampler{}, nil
}

type graySampler struct{}

func (graySampler) Sample(components []float64) RGBA {
	g := uint8(0)
	if len(components) > 0 {
		g = toByte(components[0])
	}
	return RGBA{g, g, g, 255}
}

// SpaceDeviceRGB is the three-component device RGB color space.
// Components are used directly as sRGB values.
type SpaceDeviceRGB struct{}

// Family implements the [Space] interface.
func (SpaceDeviceRGB) Family() Family { return FamilyDeviceRGB }

// Channels implements the [Space] interface.
func (SpaceDeviceRGB) Channels() int { return 3 }

// Default implements the [Space] interface.
func (SpaceDeviceRGB) Default() []float64 { return []float64{0, 0, 0} }

func (SpaceDeviceRGB) ranges() []float64 { return unitRanges[:6] }

// NewSampler implements the [Space] interface.
func (SpaceDeviceRGB) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	return rgbSampler{}, nil
}

type rgbSampler struct{}

func (rgbSampler) Sample(components []float64) RGBA {
	var rgb [3]uint8
	for i := range min(3, len(components)) {
		rgb[i] = toByte(components[i])
	}
	return RGBA{rgb[0], rgb[1], rgb[2], 255}
}

// SpaceDeviceCMYK is the four-component device CMYK color space.
// Conversion to sRGB uses the naive subtractive model.
type SpaceDeviceCMYK struct{}

// Family implements the [Space] interface.
func (SpaceDeviceCMYK) Family() Family { return FamilyDeviceCMYK }

// Channels implements the [Space] interface.
func (SpaceDeviceCMYK) Channels() int { return 4 }

// Default implements the [Space] interface.
func (SpaceDeviceCMYK) Default() []float64 { return []float64{0, 0, 0, 1} }

func (SpaceDeviceCMYK) ranges() []float64 { return unitRanges[:8] }

// NewSampler implements the [Space] interface.
func (SpaceDeviceCMYK) NewSampler(intent icc.RenderingIntent) (Sampler, error) {
	return cmykSampler{}, nil
}

type cmykSampler struct{}

func (cmykSampler) Sample(components []float64) RGBA {
	var in [4]float64
	for i := range min(4, len(components)) {
		in[i] = clamp01(components[i])
	}
	w := 1 - in[3]
	return RGBA{
		R: toByte((1 - in[0]) * w),
		G: toByte((1 - in[1]) * w),
		B: toByte((1 - in[2]) * w),
		A: 255,
	}
}
