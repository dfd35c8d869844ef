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
	"math"
	"math/rand"
	"testing"

	"seehuhn.de/go/cms/function"
	"seehuhn.de/go/cms/icc"
)

func TestIndexedSampler(t *testing.T) {
	lookup := []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		0, 0, 0,
	}
	space, err := Indexed(SpaceDeviceRGB{}, 3, lookup)
	if err != nil {
		t.Fatal(err)
	}
	s, err := space.NewSampler(icc.Perceptual)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		in   float64
		want RGBA
	}{
		{0, RGBA{255, 0, 0, 255}},
		{1, RGBA{0, 255, 0, 255}},
		{2, RGBA{0, 0, 255, 255}},
		{3, RGBA{0, 0, 0, 255}},

		// out-of-range and NaN indices clamp
		{-1, RGBA{255, 0, 0, 255}},
		{100, RGBA{0, 0, 0, 255}},
		{1e30, RGBA{0, 0, 0, 255}},
		{math.Inf(1), RGBA{0, 0, 0, 255}},
		{math.NaN(), RGBA{255, 0, 0, 255}},
	}
	for _, c := range cases {
		got := s.Sample([]float64{c.in})
		if got != c.want {
			t.Errorf("Sample(%g): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIndexedLabBase(t *testing.T) {
	base, err := Lab([]float64{0.9642, 1.0, 0.8249}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// entry 0 is L*=100, a*=b*=0 in the encoded byte range
	lookup := []byte{255, 128, 128}
	space, err := Indexed(base, 0, lookup)
	if err != nil {
		t.Fatal(err)
	}
	s, err := space.NewSampler(icc.Perceptual)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Sample([]float64{0})
	if delta(got, RGBA{255, 255, 255, 255}) > 3 {
		t.Errorf("got %v, want near white", got)
	}
}

func TestIndexedValidation(t *testing.T) {
	lookup := make([]byte, 12)
	if _, err := Indexed(nil, 3, lookup); err == nil {
		t.Error("nil base: expected error")
	}
	if _, err := Indexed(SpaceDeviceRGB{}, 256, lookup); err == nil {
		t.Error("hival 256: expected error")
	}
	if _, err := Indexed(SpaceDeviceRGB{}, 7, lookup); err == nil {
		t.Error("short lookup: expected error")
	}
	inner, err := Indexed(SpaceDeviceRGB{}, 3, lookup)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Indexed(inner, 0, lookup); err == nil {
		t.Error("indexed base: expected error")
	}
}

func TestSeparationSampler(t *testing.T) {
	// ink coverage t maps to the gray level 1-t
	tint, err := function.NewType2(&function.Type2{
		Domain: []float64{0, 1},
		Range:  []float64{0, 1, 0, 1, 0, 1},
		C0:     []float64{1, 1, 1},
		C1:     []float64{0, 0, 0},
		N:      1,
	})
	if err != nil {
		t.Fatal(err)
	}

	space, err := Separation("MyInk", SpaceDeviceRGB{}, tint)
	if err != nil {
		t.Fatal(err)
	}
	s, err := space.NewSampler(icc.Perceptual)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Sample([]float64{1}); got != (RGBA{0, 0, 0, 255}) {
		t.Errorf("full tint: got %v", got)
	}
	if got := s.Sample([]float64{0}); got != (RGBA{255, 255, 255, 255}) {
		t.Errorf("zero tint: got %v", got)
	}
}

// The 256-entry tint table may differ from exact evaluation by at most
// one byte per channel.  This holds for tint functions whose slope stays
// moderate, so the generated functions keep their exponents and output
// spans small.
func TestSeparationTableFidelity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	randType2 := func(span float64) *function.Type2 {
		c0 := make([]float64, 4)
		c1 := make([]float64, 4)
		for i := range 4 {
			c0[i] = rng.Float64() * (1 - span)
			c1[i] = c0[i] + rng.Float64()*span
		}
		f, err := function.NewType2(&function.Type2{
			Domain: []float64{0, 1},
			Range:  []float64{0, 1, 0, 1, 0, 1, 0, 1},
			C0:     c0,
			C1:     c1,
			N:      1 + 0.5*rng.Float64(),
		})
		if err != nil {
			t.Fatal(err)
		}
		return f
	}

	var tints []function.Func
	for range 30 {
		tints = append(tints, randType2(1))
	}
	for range 20 {
		f, err := function.NewType3(&function.Type3{
			Domain:    []float64{0, 1},
			Functions: []function.Func{randType2(0.3), randType2(0.3)},
			Bounds:    []float64{0.3 + 0.4*rng.Float64()},
			Encode:    []float64{0, 1, 0, 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		tints = append(tints, f)
	}

	alt, err := SpaceDeviceCMYK{}.NewSampler(icc.Perceptual)
	if err != nil {
		t.Fatal(err)
	}
	for ti, tint := range tints {
		space, err := Separation("Spot", SpaceDeviceCMYK{}, tint)
		if err != nil {
			t.Fatal(err)
		}
		fast, err := space.NewSampler(icc.Perceptual)
		if err != nil {
			t.Fatal(err)
		}
		exact := &funcSampler{fn: tint, next: alt}

		for i := range 100 {
			x := float64(i) / 99
			got := fast.Sample([]float64{x})
			want := exact.Sample([]float64{x})
			if delta(got, want) > 1 {
				t.Fatalf("tint %d, Sample(%g): got %v, want %v",
					ti, x, got, want)
			}
		}
	}
}

func TestSeparationValidation(t *testing.T) {
	tint, err := function.NewType2(&function.Type2{
		Domain: []float64{0, 1},
		Range:  []float64{0, 1, 0, 1, 0, 1},
		C0:     []float64{0, 0, 0},
		C1:     []float64{1, 1, 1},
		N:      1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Separation("", SpaceDeviceRGB{}, tint); err == nil {
		t.Error("empty name: expected error")
	}
	if _, err := Separation("Ink", SpaceDeviceCMYK{}, tint); err == nil {
		t.Error("shape mismatch: expected error")
	}
}

func TestDeviceNSampler(t *testing.T) {
	tint, err := function.NewType4(&function.Type4{
		Domain:  []float64{0, 1, 0, 1},
		Range:   []float64{0, 1, 0, 1, 0, 1, 0, 1},
		Program: "{ 0 0 }",
	})
	if err != nil {
		t.Fatal(err)
	}

	space, err := DeviceN([]string{"Cyan", "Magenta"}, SpaceDeviceCMYK{}, tint)
	if err != nil {
		t.Fatal(err)
	}
	if space.Channels() != 2 {
		t.Errorf("channels: got %d", space.Channels())
	}
	s, err := space.NewSampler(icc.Perceptual)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Sample([]float64{1, 0})
	want := RGBA{0, 255, 255, 255} // full cyan
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// missing components are treated as zero
	if got := s.Sample([]float64{1}); got != want {
		t.Errorf("short input: got %v, want %v", got, want)
	}
	if got := s.Sample(nil); got != (RGBA{255, 255, 255, 255}) {
		t.Errorf("empty input: got %v", got)
	}
}

func TestDeviceNValidation(t *testing.T) {
	tint, err := function.NewType2(&function.Type2{
		Domain: []float64{0, 1},
		Range:  []float64{0, 1, 0, 1, 0, 1},
		C0:     []float64{0, 0, 0},
		C1:     []float64{1, 1, 1},
		N:      1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DeviceN(nil, SpaceDeviceRGB{}, tint); err == nil {
		t.Error("no names: expected error")
	}
	if _, err := DeviceN([]string{"All"}, SpaceDeviceRGB{}, tint); err == nil {
		t.Error("name All: expected error")
	}
	if _, err := DeviceN([]string{"A", "A"}, SpaceDeviceRGB{}, tint); err == nil {
		t.Error("duplicate name: expected error")
	}
}

func TestDeviceNNoneRepeats(t *testing.T) {
	tint, err := function.NewType4(&function.Type4{
		Domain:  []float64{0, 1, 0, 1},
		Range:   []float64{0, 1},
		Program: "{ pop pop 0 }",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DeviceN([]string{"None", "None"}, SpaceDeviceGray{}, tint); err != nil {
		t.Errorf("repeated None: unexpected error %v", err)
	}
}
