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
	"encoding/binary"
	"math"
	"testing"

	"seehuhn.de/go/cms/icc"
)

// s15Fixed16 encodes x in the profile fixed point format.
func s15Fixed16(x float64) uint32 {
	return uint32(int32(math.Round(x * 65536)))
}

// grayProfile builds the binary encoding of a minimal grayscale
// profile with the given tone curve gamma.
func grayProfile(gamma float64) []byte {
	curv := make([]byte, 16) // padded to a multiple of 4
	copy(curv, "curv")
	binary.BigEndian.PutUint32(curv[8:], 1)
	binary.BigEndian.PutUint16(curv[12:], uint16(gamma*256+0.5))

	wtpt := make([]byte, 20)
	copy(wtpt, "XYZ ")
	binary.BigEndian.PutUint32(wtpt[8:], s15Fixed16(0.9642))
	binary.BigEndian.PutUint32(wtpt[12:], s15Fixed16(1.0))
	binary.BigEndian.PutUint32(wtpt[16:], s15Fixed16(0.8249))

	const tagBase = 128 + 4 + 2*12
	data := make([]byte, tagBase+len(curv)+len(wtpt))
	binary.BigEndian.PutUint32(data[0:], uint32(len(data)))
	binary.BigEndian.PutUint32(data[16:], uint32(icc.GraySpace))
	binary.BigEndian.PutUint32(data[20:], uint32(icc.XYZSpace))
	binary.BigEndian.PutUint32(data[36:], 0x61637370) // "acsp"

	binary.BigEndian.PutUint32(data[128:], 2)
	binary.BigEndian.PutUint32(data[132:], uint32(icc.GrayTRCTag))
	binary.BigEndian.PutUint32(data[136:], tagBase)
	binary.BigEndian.PutUint32(data[140:], 14)
	binary.BigEndian.PutUint32(data[144:], uint32(icc.MediaWhitePointTag))
	binary.BigEndian.PutUint32(data[148:], tagBase+uint32(len(curv)))
	binary.BigEndian.PutUint32(data[152:], 20)
	copy(data[tagBase:], curv)
	copy(data[tagBase+len(curv):], wtpt)
	return data
}

// cmykProfile builds the binary encoding of a CMYK profile whose
// lookup table scales the white point by (1-c)(1-m)(1-y)(1-k).
func cmykProfile() []byte {
	const nIn, nOut = 4, 3
	const curveSize = 12 // identity "curv" with count 0

	const aOffset = 32
	const clutOffset = aOffset + nIn*curveSize
	const clutLen = 20 + 16*nOut*2
	const bOffset = clutOffset + clutLen

	body := make([]byte, bOffset+nOut*curveSize)
	copy(body, "mAB ")
	body[8] = nIn
	body[9] = nOut
	binary.BigEndian.PutUint32(body[12:], bOffset)
	binary.BigEndian.PutUint32(body[24:], clutOffset)
	binary.BigEndian.PutUint32(body[28:], aOffset)
	for i := range nIn {
		copy(body[aOffset+i*curveSize:], "curv")
	}
	for i := range nOut {
		copy(body[bOffset+i*curveSize:], "curv")
	}

	for i := range nIn {
		body[clutOffset+i] = 2
	}
	body[clutOffset+16] = 2 // 16-bit precision
	wp := [3]float64{0.9642, 1.0, 0.8249}
	const maxXYZ = 1 + 32767.0/32768
	for corner := range 16 {
		w := 1.0
		if corner != 0 {
			w = 0 // any component at 1 kills the product
		}
		for ch := range nOut {
			binary.BigEndian.PutUint16(
				body[clutOffset+20+(corner*nOut+ch)*2:],
				uint16(w*wp[ch]/maxXYZ*65535+0.5))
		}
	}

	wtpt := make([]byte, 20)
	copy(wtpt, "XYZ ")
	binary.BigEndian.PutUint32(wtpt[8:], s15Fixed16(wp[0]))
	binary.BigEndian.PutUint32(wtpt[12:], s15Fixed16(wp[1]))
	binary.BigEndian.PutUint32(wtpt[16:], s15Fixed16(wp[2]))

	const tagBase = 128 + 4 + 2*12
	data := make([]byte, tagBase+len(body)+len(wtpt))
	binary.BigEndian.PutUint32(data[0:], uint32(len(data)))
	binary.BigEndian.PutUint32(data[16:], uint32(icc.CMYKSpace))
	binary.BigEndian.PutUint32(data[20:], uint32(icc.XYZSpace))
	binary.BigEndian.PutUint32(data[36:], 0x61637370) // "acsp"

	binary.BigEndian.PutUint32(data[128:], 2)
	binary.BigEndian.PutUint32(data[132:], uint32(icc.AToB0Tag))
	binary.BigEndian.PutUint32(data[136:], tagBase)
	binary.BigEndian.PutUint32(data[140:], uint32(len(body)))
	binary.BigEndian.PutUint32(data[144:], uint32(icc.MediaWhitePointTag))
	binary.BigEndian.PutUint32(data[148:], tagBase+uint32(len(body)))
	binary.BigEndian.PutUint32(data[152:], uint32(len(wtpt)))
	copy(data[tagBase:], body)
	copy(data[tagBase+len(body):], wtpt)
	return data
}

func TestICCBasedGray(t *testing.T) {
	space, err := ICCBased(grayProfile(1))
	if err != nil {
		t.Fatal(err)
	}
	if space.N != 1 {
		t.Fatalf("got %d components", space.N)
	}
	s, err := space.NewSampler(icc.RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Sample([]float64{1})
	if delta(got, RGBA{255, 255, 255, 255}) > 1 {
		t.Errorf("white: got %v", got)
	}
	got = s.Sample([]float64{0})
	if delta(got, RGBA{0, 0, 0, 255}) > 1 {
		t.Errorf("black: got %v", got)
	}
}

func TestICCBasedCMYKExact(t *testing.T) {
	space, err := ICCBased(cmykProfile())
	if err != nil {
		t.Fatal(err)
	}
	fast, err := space.NewSampler(icc.RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fast.(*cmykLUTSampler); !ok {
		t.Fatalf("got sampler type %T", fast)
	}

	space.Exact = true
	exact, err := space.NewSampler(icc.RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := exact.(*chainSampler); !ok {
		t.Fatalf("got sampler type %T", exact)
	}

	if got := exact.Sample([]float64{0, 0, 0, 0}); delta(got, RGBA{255, 255, 255, 255}) > 1 {
		t.Errorf("white: got %v", got)
	}
	if got := exact.Sample([]float64{1, 1, 1, 1}); delta(got, RGBA{0, 0, 0, 255}) > 1 {
		t.Errorf("black: got %v", got)
	}

	// grid-aligned inputs, where the accelerated table holds exact
	// chain samples
	cases := [][]float64{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0.25, 0.5, 0.75, 0.5},
		{0, 0, 0, 0.5},
		{0.125, 0, 0.625, 0},
	}
	for _, in := range cases {
		got := fast.Sample(in)
		want := exact.Sample(in)
		if delta(got, want) > 1 {
			t.Errorf("Sample(%v): fast %v, exact %v", in, got, want)
		}
	}
}

func TestICCBasedErrors(t *testing.T) {
	if _, err := ICCBased(nil); err == nil {
		t.Error("empty profile: expected error")
	}
	if _, err := ICCBased([]byte("not a profile")); err == nil {
		t.Error("malformed profile: expected error")
	}
}
