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

import "sync"

// SRGB returns the built-in sRGB display profile.  The profile is
// constructed on first use and shared between all callers; it must not
// be modified.
var SRGB = sync.OnceValue(func() *Profile {
	trc, err := NewParametricCurve(3, []float64{
		2.4, 1 / 1.055, 0.055 / 1.055, 1 / 12.92, 0.04045,
	})
	if err != nil {
		panic(err)
	}
	return &Profile{
		ColorSpace: RGBSpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		RedTRC:     trc,
		GreenTRC:   trc,
		BlueTRC:    trc,
		// sRGB primaries adapted to D50, columns red, green, blue.
		Matrix: [9]float64{
			0.4360747, 0.3850649, 0.1430804,
			0.2225045, 0.7168786, 0.0606169,
			0.0139322, 0.0971045, 0.7141733,
		},
		hasMatrix: true,
	}
})

// Gray22 returns a built-in single-channel profile with a gamma 2.2
// tone curve and the D50 white point.
var Gray22 = sync.OnceValue(func() *Profile {
	return &Profile{
		ColorSpace: GraySpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		GrayTRC:    NewGammaCurve(2.2),
	}
})
