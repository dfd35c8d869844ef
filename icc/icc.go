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

// Package icc implements the subset of the ICC profile format needed to
// convert PDF image and fill colors to sRGB.  Profiles are decoded into an
// immutable model holding tone reproduction curves, colorant matrices and
// multi-dimensional lookup table pipelines, from which a color transform
// chain can be resolved for a given rendering intent.
package icc

import (
	"errors"
	"fmt"
)

// ColorSpace identifies the data color space of a profile,
// using the four-character signatures from the ICC specification.
type ColorSpace uint32

// Color space signatures used by PDF profiles.
const (
	XYZSpace  ColorSpace = 0x58595A20 // "XYZ "
	LabSpace  ColorSpace = 0x4C616220 // "Lab "
	RGBSpace  ColorSpace = 0x52474220 // "RGB "
	GraySpace ColorSpace = 0x47524159 // "GRAY"
	CMYKSpace ColorSpace = 0x434D594B // "CMYK"
	CMYSpace  ColorSpace = 0x434D5920 // "CMY "
)

// Channels returns the number of components of colors in the space,
// or 0 if the space is not supported.
func (s ColorSpace) Channels() int {
	switch s {
	case GraySpace:
		return 1
	case XYZSpace, LabSpace, RGBSpace, CMYSpace:
		return 3
	case CMYKSpace:
		return 4
	default:
		return 0
	}
}

func (s ColorSpace) String() string {
	return fourCC(uint32(s))
}

// RenderingIntent selects the gamut mapping strategy of a transform.
type RenderingIntent uint32

// The four rendering intents defined by the ICC specification.
const (
	Perceptual RenderingIntent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

func (ri RenderingIntent) String() string {
	switch ri {
	case Perceptual:
		return "perceptual"
	case RelativeColorimetric:
		return "relative colorimetric"
	case Saturation:
		return "saturation"
	case AbsoluteColorimetric:
		return "absolute colorimetric"
	default:
		return fmt.Sprintf("intent(%d)", uint32(ri))
	}
}

// TagType is the four-character signature of a profile tag.
type TagType uint32

// Tags read by this package.
const (
	AToB0Tag           TagType = 0x41324230 // "A2B0"
	AToB1Tag           TagType = 0x41324231 // "A2B1"
	AToB2Tag           TagType = 0x41324232 // "A2B2"
	GrayTRCTag         TagType = 0x6B545243 // "kTRC"
	RedTRCTag          TagType = 0x72545243 // "rTRC"
	GreenTRCTag        TagType = 0x67545243 // "gTRC"
	BlueTRCTag         TagType = 0x62545243 // "bTRC"
	RedColorantTag     TagType = 0x7258595A // "rXYZ"
	GreenColorantTag   TagType = 0x6758595A // "gXYZ"
	BlueColorantTag    TagType = 0x6258595A // "bXYZ"
	MediaWhitePointTag TagType = 0x77747074 // "wtpt"
	MediaBlackPointTag TagType = 0x626B7074 // "bkpt"
)

func (t TagType) String() string {
	return fourCC(uint32(t))
}

func fourCC(v uint32) string {
	buf := []byte{
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
	for _, c := range buf {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", v)
		}
	}
	return string(buf)
}

// Profile is the decoded model of an ICC profile.  Only the information
// needed to build color transforms is kept.  Profiles are immutable after
// decoding and safe for concurrent use.
type Profile struct {
	// ColorSpace is the data color space of the profile.
	ColorSpace ColorSpace

	// PCS is the profile connection space, either XYZSpace or LabSpace.
	PCS ColorSpace

	// Intent is the rendering intent recorded in the profile header.
	// It is advisory; callers select the intent per transform.
	Intent RenderingIntent

	// WhitePoint and BlackPoint are the media white and black points
	// in XYZ coordinates.  BlackPoint is zero if the tag is absent.
	WhitePoint [3]float64
	BlackPoint [3]float64

	// GrayTRC is the tone curve of single-channel profiles.
	GrayTRC *Curve

	// RedTRC, GreenTRC, BlueTRC and the colorant matrix describe
	// matrix/TRC RGB profiles.  Matrix columns are the red, green and
	// blue colorant XYZ values.
	RedTRC, GreenTRC, BlueTRC *Curve
	Matrix                    [9]float64
	hasMatrix                 bool

	// AToB holds the device-to-PCS pipelines by intent bucket:
	// 0 = perceptual, 1 = colorimetric, 2 = saturation.
	// Entries are nil if the corresponding tag is absent.
	AToB [3]*Pipeline
}

// HasMatrixTRC reports whether the profile carries a complete
// matrix/TRC triplet for RGB data.
func (p *Profile) HasMatrixTRC() bool {
	return p.hasMatrix && p.RedTRC != nil && p.GreenTRC != nil && p.BlueTRC != nil
}

// Errors returned when decoding profiles and constructing transforms.
var (
	ErrMalformedProfile     = errors.New("malformed ICC profile")
	ErrUnsupportedCurveKind = errors.New("unsupported curve type")
	ErrDimensionMismatch    = errors.New("channel count mismatch")
)

// D50 is the white point of the profile connection space.
var D50 = [3]float64{0.9642, 1.0, 0.8249}
