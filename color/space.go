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

// Package color implements the PDF color spaces and converts their
// colors to packed sRGB pixels.
//
// Each color space can construct a [Sampler] which maps component
// tuples to 8-bit sRGB values.  Samplers are immutable, safe for
// concurrent use, and never fail: out-of-range and NaN components are
// clamped.
package color

import "seehuhn.de/go/cms/icc"

// Family names the PDF color space families.
type Family string

// The color space families supported by this package.
const (
	FamilyDeviceGray Family = "DeviceGray"
	FamilyDeviceRGB  Family = "DeviceRGB"
	FamilyDeviceCMYK Family = "DeviceCMYK"
	FamilyCalGray    Family = "CalGray"
	FamilyCalRGB     Family = "CalRGB"
	FamilyLab        Family = "Lab"
	FamilyICCBased   Family = "ICCBased"
	FamilyIndexed    Family = "Indexed"
	FamilySeparation Family = "Separation"
	FamilyDeviceN    Family = "DeviceN"
)

// Space represents a PDF color space.
type Space interface {
	// Family returns the color space family.
	Family() Family

	// Channels returns the number of color components.
	Channels() int

	// Default returns the components of the initial color of the
	// space, black where the space can express it.
	Default() []float64

	// NewSampler returns a sampler converting colors of the space to
	// sRGB, using the given rendering intent where the space is
	// profile-based.
	NewSampler(intent icc.RenderingIntent) (Sampler, error)

	// ranges returns the component ranges as [min0, max0, ...].
	// This determines how palette entries of an indexed space with
	// this base space are decoded.
	ranges() []float64
}

// The following types implement the Space interface:
var (
	_ Space = SpaceDeviceGray{}
	_ Space = SpaceDeviceRGB{}
	_ Space = SpaceDeviceCMYK{}
	_ Space = (*SpaceCalGray)(nil)
	_ Space = (*SpaceCalRGB)(nil)
	_ Space = (*SpaceLab)(nil)
	_ Space = (*SpaceICCBased)(nil)
	_ Space = (*SpaceIndexed)(nil)
	_ Space = (*SpaceSeparation)(nil)
	_ Space = (*SpaceDeviceN)(nil)
)

// Sampler converts color component tuples to packed sRGB pixels.
//
// Sample must be callable from multiple goroutines at the same time.
// It never fails: missing components are treated as 0, out-of-range
// and NaN components are clamped.
type Sampler interface {
	Sample(components []float64) RGBA
}

// unitRanges holds repeated copies of the unit interval, for the
// ranges method of spaces with 0..1 components.
var unitRanges = []float64{0, 1, 0, 1, 0, 1, 0, 1}
