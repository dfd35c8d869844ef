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

// maxEncodeableXYZ is the largest XYZ value representable in the
// 1.15 fixed point encoding used by 16-bit LUT connection spaces.
const maxEncodeableXYZ = 1 + 32767.0/32768

// pipelineFallback gives, per rendering intent, the order in which the
// AToB pipeline buckets are tried.
var pipelineFallback = [4][3]int{
	Perceptual:           {0, 1, 2},
	RelativeColorimetric: {1, 0, 2},
	Saturation:           {2, 0, 1},
	AbsoluteColorimetric: {1, 0, 2},
}

// ResolveChain builds the transform chain converting device colors of
// the profile to gamma-encoded sRGB, for the given rendering intent.
//
// The device-to-PCS stage is chosen in order of preference: the AToB
// pipeline of the intent's bucket (falling back to the other buckets),
// the gray tone curve, Lab device coordinates, the matrix/TRC triplet,
// and finally the identity.  A connection space stage converting to
// sRGB is appended, with black point compensation for intents other
// than Perceptual when the profile records a non-black black point.
func ResolveChain(p *Profile, intent RenderingIntent) (Chain, error) {
	if intent > AbsoluteColorimetric {
		intent = Perceptual
	}

	var pipe *Pipeline
	for _, bucket := range pipelineFallback[intent] {
		if p.AToB[bucket] != nil {
			pipe = p.AToB[bucket]
			break
		}
	}

	var chain Chain
	switch {
	case pipe != nil:
		if pipe.NIn != p.ColorSpace.Channels() || pipe.NOut != 3 {
			return nil, ErrDimensionMismatch
		}
		chain = append(chain, &Transform{Kind: TransformLUT, Pipe: pipe})
		if p.PCS == LabSpace {
			chain = append(chain,
				&Transform{Kind: TransformDecodeLab},
				&Transform{Kind: TransformLabToXYZ})
		} else {
			chain = append(chain,
				&Transform{Kind: TransformScale, Scale: maxEncodeableXYZ})
		}

	case p.ColorSpace == GraySpace && p.GrayTRC != nil:
		// XYZ = whitePoint * TRC(gray)
		wp := p.WhitePoint
		chain = append(chain,
			&Transform{Kind: TransformTRC, Curves: [4]*Curve{p.GrayTRC}},
			&Transform{Kind: TransformMatrix, Matrix: [9]float64{
				wp[0], 0, 0,
				wp[1], 0, 0,
				wp[2], 0, 0,
			}})

	case p.ColorSpace == LabSpace:
		chain = append(chain, &Transform{Kind: TransformLabToXYZ})

	case p.HasMatrixTRC():
		chain = append(chain,
			&Transform{Kind: TransformTRC, Curves: [4]*Curve{
				p.RedTRC, p.GreenTRC, p.BlueTRC,
			}},
			&Transform{Kind: TransformMatrix, Matrix: p.Matrix})

	default:
		// No usable transform data.  Device values are passed
		// through as sRGB components.
		return Chain{&Transform{Kind: TransformIdentity}}, nil
	}

	if bp := blackPointCompensation(p, intent); bp != nil {
		chain = append(chain, bp)
	}
	chain = append(chain, &Transform{Kind: TransformXYZToSRGB})

	return chain, nil
}

// blackPointCompensation returns the linear XYZ correction mapping the
// profile's black point to true black, or nil if no correction applies.
// Perceptual transforms handle black scaling in the pipeline itself.
func blackPointCompensation(p *Profile, intent RenderingIntent) *Transform {
	if intent == Perceptual {
		return nil
	}
	bp := p.BlackPoint
	if !(bp[1] > 0) {
		return nil
	}

	t := &Transform{Kind: TransformBlackPoint}
	for i := range 3 {
		d := D50[i] - bp[i]
		if !(d > 0) {
			return nil
		}
		t.ScaleXYZ[i] = D50[i] / d
		t.OffsetXYZ[i] = -D50[i] * bp[i] / d
	}
	return t
}
