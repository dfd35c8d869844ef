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
	"math"
	"testing"
)

func TestResolveFallbackOrder(t *testing.T) {
	mkPipe := func() *Pipeline {
		pipe, err := NewPipeline(&Pipeline{NIn: 3, NOut: 3})
		if err != nil {
			t.Fatal(err)
		}
		return pipe
	}
	p0, p1, p2 := mkPipe(), mkPipe(), mkPipe()

	cases := []struct {
		name   string
		atob   [3]*Pipeline
		intent RenderingIntent
		want   *Pipeline
	}{
		{"perceptual prefers A2B0", [3]*Pipeline{p0, p1, p2}, Perceptual, p0},
		{"relative prefers A2B1", [3]*Pipeline{p0, p1, p2}, RelativeColorimetric, p1},
		{"saturation prefers A2B2", [3]*Pipeline{p0, p1, p2}, Saturation, p2},
		{"absolute prefers A2B1", [3]*Pipeline{p0, p1, p2}, AbsoluteColorimetric, p1},
		{"perceptual falls back to A2B1", [3]*Pipeline{nil, p1, p2}, Perceptual, p1},
		{"relative falls back to A2B0", [3]*Pipeline{p0, nil, p2}, RelativeColorimetric, p0},
		{"saturation falls back to A2B0", [3]*Pipeline{p0, p1, nil}, Saturation, p0},
		{"absolute falls back to A2B0", [3]*Pipeline{p0, nil, nil}, AbsoluteColorimetric, p0},
		{"last resort A2B2", [3]*Pipeline{nil, nil, p2}, RelativeColorimetric, p2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Profile{
				ColorSpace: RGBSpace,
				PCS:        XYZSpace,
				WhitePoint: D50,
				AToB:       tc.atob,
			}
			chain, err := ResolveChain(p, tc.intent)
			if err != nil {
				t.Fatal(err)
			}
			if len(chain) == 0 || chain[0].Kind != TransformLUT {
				t.Fatal("expected LUT as first chain step")
			}
			if chain[0].Pipe != tc.want {
				t.Error("wrong pipeline selected")
			}
		})
	}
}

func TestResolveLabPCSPostStages(t *testing.T) {
	pipe, err := NewPipeline(&Pipeline{NIn: 4, NOut: 3})
	if err != nil {
		t.Fatal(err)
	}
	p := &Profile{
		ColorSpace: CMYKSpace,
		PCS:        LabSpace,
		WhitePoint: D50,
		AToB:       [3]*Pipeline{pipe},
	}
	chain, err := ResolveChain(p, Perceptual)
	if err != nil {
		t.Fatal(err)
	}
	wantKinds := []TransformKind{
		TransformLUT, TransformDecodeLab, TransformLabToXYZ, TransformXYZToSRGB,
	}
	if len(chain) != len(wantKinds) {
		t.Fatalf("chain has %d steps, want %d", len(chain), len(wantKinds))
	}
	for i, k := range wantKinds {
		if chain[i].Kind != k {
			t.Errorf("step %d has kind %d, want %d", i, chain[i].Kind, k)
		}
	}
}

func TestResolveGrayProfile(t *testing.T) {
	p := Gray22()
	chain, err := ResolveChain(p, RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}

	// white stays white, black stays black
	white := chain.Apply(Vec4{1, 0, 0, 0}).Clamp01()
	for i := range 3 {
		if math.Abs(white[i]-1) > 1e-3 {
			t.Errorf("white channel %d: got %g", i, white[i])
		}
	}
	black := chain.Apply(Vec4{0, 0, 0, 0}).Clamp01()
	for i := range 3 {
		if black[i] != 0 {
			t.Errorf("black channel %d: got %g", i, black[i])
		}
	}

	// mid gray is neutral
	mid := chain.Apply(Vec4{0.5, 0, 0, 0}).Clamp01()
	if math.Abs(mid[0]-mid[1]) > 1e-3 || math.Abs(mid[1]-mid[2]) > 1e-3 {
		t.Errorf("mid gray not neutral: %v", mid)
	}
}

func TestResolveSRGBIdentity(t *testing.T) {
	// The built-in sRGB profile must map sRGB component values to
	// themselves, up to small numerical error.
	chain, err := ResolveChain(SRGB(), RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []Vec4{
		{0, 0, 0, 0},
		{1, 1, 1, 0},
		{0.5, 0.25, 0.75, 0},
		{0.1, 0.9, 0.4, 0},
	} {
		got := chain.Apply(v).Clamp01()
		for i := range 3 {
			if math.Abs(got[i]-v[i]) > 5e-3 {
				t.Errorf("sRGB(%v) channel %d: got %g", v, i, got[i])
			}
		}
	}
}

func TestResolveIdentityFallback(t *testing.T) {
	p := &Profile{
		ColorSpace: RGBSpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
	}
	chain, err := ResolveChain(p, Perceptual)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 1 || chain[0].Kind != TransformIdentity {
		t.Fatalf("expected identity fallback, got %d steps", len(chain))
	}
}

func TestResolveChannelMismatch(t *testing.T) {
	pipe, err := NewPipeline(&Pipeline{NIn: 3, NOut: 3})
	if err != nil {
		t.Fatal(err)
	}
	p := &Profile{
		ColorSpace: CMYKSpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		AToB:       [3]*Pipeline{pipe},
	}
	if _, err := ResolveChain(p, Perceptual); err == nil {
		t.Error("expected channel mismatch error")
	}

	// a device-to-PCS pipeline must emit exactly three channels
	pipe4, err := NewPipeline(&Pipeline{NIn: 3, NOut: 4})
	if err != nil {
		t.Fatal(err)
	}
	p = &Profile{
		ColorSpace: RGBSpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		AToB:       [3]*Pipeline{pipe4},
	}
	if _, err := ResolveChain(p, Perceptual); err == nil {
		t.Error("expected output channel mismatch error")
	}
}

func TestBlackPointCompensation(t *testing.T) {
	bp := [3]float64{0.01, 0.01, 0.01}
	p := &Profile{
		ColorSpace: GraySpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		BlackPoint: bp,
		GrayTRC:    IdentityCurve,
	}

	// perceptual: no compensation step
	chain, err := ResolveChain(p, Perceptual)
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range chain {
		if tr.Kind == TransformBlackPoint {
			t.Error("unexpected compensation for perceptual intent")
		}
	}

	// relative colorimetric: source black maps to true black
	chain, err = ResolveChain(p, RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	var comp *Transform
	for _, tr := range chain {
		if tr.Kind == TransformBlackPoint {
			comp = tr
		}
	}
	if comp == nil {
		t.Fatal("missing compensation step")
	}
	out := comp.Apply(Vec4{bp[0], bp[1], bp[2], 0})
	for i := range 3 {
		if math.Abs(out[i]) > 1e-12 {
			t.Errorf("black point channel %d: got %g, want 0", i, out[i])
		}
	}
	// the white point is preserved
	out = comp.Apply(Vec4{D50[0], D50[1], D50[2], 0})
	for i := range 3 {
		if math.Abs(out[i]-D50[i]) > 1e-12 {
			t.Errorf("white point channel %d: got %g, want %g", i, out[i], D50[i])
		}
	}
}

func TestResolveCMYKWhite(t *testing.T) {
	// a CLUT with only the colorimetric bucket populated; the corner
	// for CMYK (0,0,0,0) holds the encoded white point
	table := make([]float64, 3*16)
	wp := [3]float64{
		D50[0] / maxEncodeableXYZ,
		D50[1] / maxEncodeableXYZ,
		D50[2] / maxEncodeableXYZ,
	}
	copy(table[:3], wp[:])

	pipe, err := NewPipeline(&Pipeline{
		NIn:      4,
		NOut:     3,
		GridSize: []int{2, 2, 2, 2},
		Table:    table,
	})
	if err != nil {
		t.Fatal(err)
	}
	p := &Profile{
		ColorSpace: CMYKSpace,
		PCS:        XYZSpace,
		WhitePoint: D50,
		AToB:       [3]*Pipeline{nil, pipe, nil},
	}

	chain, err := ResolveChain(p, RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	got := chain.Apply(Vec4{0, 0, 0, 0}).Clamp01()
	for i := range 3 {
		if math.Abs(got[i]-1) > 2.0/255 {
			t.Errorf("channel %d: got %g, want 1", i, got[i])
		}
	}
}
