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
	"encoding/binary"
	"fmt"
)

const headerSize = 128

// Decode parses the binary representation of an ICC profile.  Only the
// tags needed for color transforms are read; unknown tags are ignored.
func Decode(data []byte) (*Profile, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("profile too short (%d bytes): %w",
			len(data), ErrMalformedProfile)
	}
	if getUint32(data, 36) != 0x61637370 { // "acsp"
		return nil, fmt.Errorf("missing profile signature: %w",
			ErrMalformedProfile)
	}
	size := int(getUint32(data, 0))
	if size > len(data) {
		return nil, fmt.Errorf("profile size %d exceeds data length %d: %w",
			size, len(data), ErrMalformedProfile)
	}

	p := &Profile{
		ColorSpace: ColorSpace(getUint32(data, 16)),
		PCS:        ColorSpace(getUint32(data, 20)),
		Intent:     RenderingIntent(getUint32(data, 64) & 0xFFFF),
		WhitePoint: D50,
	}
	if p.ColorSpace.Channels() == 0 {
		return nil, fmt.Errorf("unsupported data color space %q: %w",
			p.ColorSpace, ErrMalformedProfile)
	}
	if p.PCS != XYZSpace && p.PCS != LabSpace {
		return nil, fmt.Errorf("unsupported connection space %q: %w",
			p.PCS, ErrMalformedProfile)
	}

	numTags := int(getUint32(data, headerSize))
	if headerSize+4+numTags*12 > len(data) {
		return nil, fmt.Errorf("truncated tag table: %w", ErrMalformedProfile)
	}

	var colorants [3]bool
	for i := range numTags {
		base := headerSize + 4 + i*12
		tag := TagType(getUint32(data, base))
		offset := int(getUint32(data, base+4))
		length := int(getUint32(data, base+8))
		if offset < 0 || length < 0 || offset+length > len(data) {
			return nil, fmt.Errorf("tag %q out of bounds: %w",
				tag, ErrMalformedProfile)
		}
		body := data[offset : offset+length]

		var err error
		switch tag {
		case AToB0Tag, AToB1Tag, AToB2Tag:
			var pipe *Pipeline
			pipe, err = decodePipeline(body)
			if err == nil {
				p.AToB[tag-AToB0Tag] = pipe
			}
		case GrayTRCTag:
			p.GrayTRC, err = decodeCurveTag(body)
		case RedTRCTag:
			p.RedTRC, err = decodeCurveTag(body)
		case GreenTRCTag:
			p.GreenTRC, err = decodeCurveTag(body)
		case BlueTRCTag:
			p.BlueTRC, err = decodeCurveTag(body)
		case RedColorantTag, GreenColorantTag, BlueColorantTag:
			var xyz [3]float64
			xyz, err = decodeXYZ(body)
			if err == nil {
				col := 0
				switch tag {
				case GreenColorantTag:
					col = 1
				case BlueColorantTag:
					col = 2
				}
				p.Matrix[col] = xyz[0]
				p.Matrix[3+col] = xyz[1]
				p.Matrix[6+col] = xyz[2]
				colorants[col] = true
			}
		case MediaWhitePointTag:
			p.WhitePoint, err = decodeXYZ(body)
		case MediaBlackPointTag:
			p.BlackPoint, err = decodeXYZ(body)
		}
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
	}
	p.hasMatrix = colorants[0] && colorants[1] && colorants[2]

	return p, nil
}

// decodeCurveTag reads a curveType ("curv") or parametricCurveType
// ("para") tag body.
func decodeCurveTag(data []byte) (*Curve, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("curve tag too short: %w", ErrMalformedProfile)
	}
	switch string(data[:4]) {
	case "curv":
		n := int(getUint32(data, 8))
		switch {
		case n == 0:
			return IdentityCurve, nil
		case n == 1:
			if len(data) < 14 {
				return nil, fmt.Errorf("truncated gamma curve: %w",
					ErrMalformedProfile)
			}
			gamma := float64(getUint16(data, 12)) / 256 // u8Fixed8
			return NewGammaCurve(gamma), nil
		default:
			if len(data) < 12+2*n {
				return nil, fmt.Errorf("truncated sampled curve: %w",
					ErrMalformedProfile)
			}
			samples := make([]float64, n)
			for i := range n {
				samples[i] = float64(getUint16(data, 12+2*i)) / 65535
			}
			return NewSampledCurve(samples)
		}
	case "para":
		funcType := int(getUint16(data, 8))
		if funcType > 4 {
			return nil, fmt.Errorf("parametric type %d: %w",
				funcType, ErrUnsupportedCurveKind)
		}
		numParams := []int{1, 3, 4, 5, 7}[funcType]
		if len(data) < 12+4*numParams {
			return nil, fmt.Errorf("truncated parametric curve: %w",
				ErrMalformedProfile)
		}
		params := make([]float64, numParams)
		for i := range numParams {
			params[i] = getS15Fixed16(data, 12+4*i)
		}
		return NewParametricCurve(funcType, params)
	default:
		return nil, fmt.Errorf("curve type %q: %w",
			string(data[:4]), ErrUnsupportedCurveKind)
	}
}

func decodeXYZ(data []byte) ([3]float64, error) {
	if len(data) < 20 || string(data[:4]) != "XYZ " {
		return [3]float64{}, fmt.Errorf("invalid XYZ tag: %w",
			ErrMalformedProfile)
	}
	return [3]float64{
		getS15Fixed16(data, 8),
		getS15Fixed16(data, 12),
		getS15Fixed16(data, 16),
	}, nil
}

func decodePipeline(data []byte) (*Pipeline, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("LUT tag too short: %w", ErrMalformedProfile)
	}
	switch string(data[:4]) {
	case "mft1":
		return decodeLut8(data)
	case "mft2":
		return decodeLut16(data)
	case "mAB ":
		return decodeLutAToB(data)
	default:
		return nil, fmt.Errorf("LUT type %q: %w",
			string(data[:4]), ErrUnsupportedCurveKind)
	}
}

func decodeLut8(data []byte) (*Pipeline, error) {
	if len(data) < 48 {
		return nil, fmt.Errorf("truncated lut8: %w", ErrMalformedProfile)
	}
	nIn := int(data[8])
	nOut := int(data[9])
	grid := int(data[10])
	if nIn < 1 || nIn > 4 || nOut < 1 || nOut > 4 || grid < 2 {
		return nil, fmt.Errorf("lut8 with %d inputs, %d outputs, grid %d: %w",
			nIn, nOut, grid, ErrMalformedProfile)
	}

	p := &Pipeline{NIn: nIn, NOut: nOut}
	p.Matrix = decodeLutMatrix(data, 12)

	offset := 48
	clutSize := nOut
	for range nIn {
		clutSize *= grid
	}
	if len(data) < offset+nIn*256+clutSize+nOut*256 {
		return nil, fmt.Errorf("truncated lut8 tables: %w", ErrMalformedProfile)
	}

	p.InputCurves = make([]*Curve, nIn)
	for ch := range nIn {
		samples := make([]float64, 256)
		for i := range 256 {
			samples[i] = float64(data[offset+ch*256+i]) / 255
		}
		p.InputCurves[ch], _ = NewSampledCurve(samples)
	}
	offset += nIn * 256

	p.GridSize = make([]int, nIn)
	for i := range nIn {
		p.GridSize[i] = grid
	}
	p.Table = make([]float64, clutSize)
	for i := range clutSize {
		p.Table[i] = float64(data[offset+i]) / 255
	}
	offset += clutSize

	p.OutputCurves = make([]*Curve, nOut)
	for ch := range nOut {
		samples := make([]float64, 256)
		for i := range 256 {
			samples[i] = float64(data[offset+ch*256+i]) / 255
		}
		p.OutputCurves[ch], _ = NewSampledCurve(samples)
	}

	return NewPipeline(p)
}

func decodeLut16(data []byte) (*Pipeline, error) {
	if len(data) < 52 {
		return nil, fmt.Errorf("truncated lut16: %w", ErrMalformedProfile)
	}
	nIn := int(data[8])
	nOut := int(data[9])
	grid := int(data[10])
	if nIn < 1 || nIn > 4 || nOut < 1 || nOut > 4 || grid < 2 {
		return nil, fmt.Errorf("lut16 with %d inputs, %d outputs, grid %d: %w",
			nIn, nOut, grid, ErrMalformedProfile)
	}

	p := &Pipeline{NIn: nIn, NOut: nOut}
	p.Matrix = decodeLutMatrix(data, 12)

	inEntries := int(getUint16(data, 48))
	outEntries := int(getUint16(data, 50))
	if inEntries < 2 || outEntries < 2 {
		return nil, fmt.Errorf("lut16 table entries %d/%d: %w",
			inEntries, outEntries, ErrMalformedProfile)
	}

	offset := 52
	clutSize := nOut
	for range nIn {
		clutSize *= grid
	}
	need := offset + 2*(nIn*inEntries+clutSize+nOut*outEntries)
	if len(data) < need {
		return nil, fmt.Errorf("truncated lut16 tables: %w", ErrMalformedProfile)
	}

	p.InputCurves = make([]*Curve, nIn)
	for ch := range nIn {
		samples := make([]float64, inEntries)
		for i := range inEntries {
			samples[i] = float64(getUint16(data, offset+(ch*inEntries+i)*2)) / 65535
		}
		p.InputCurves[ch], _ = NewSampledCurve(samples)
	}
	offset += 2 * nIn * inEntries

	p.GridSize = make([]int, nIn)
	for i := range nIn {
		p.GridSize[i] = grid
	}
	p.Table = make([]float64, clutSize)
	for i := range clutSize {
		p.Table[i] = float64(getUint16(data, offset+i*2)) / 65535
	}
	offset += 2 * clutSize

	p.OutputCurves = make([]*Curve, nOut)
	for ch := range nOut {
		samples := make([]float64, outEntries)
		for i := range outEntries {
			samples[i] = float64(getUint16(data, offset+(ch*outEntries+i)*2)) / 65535
		}
		p.OutputCurves[ch], _ = NewSampledCurve(samples)
	}

	return NewPipeline(p)
}

func decodeLutAToB(data []byte) (*Pipeline, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("truncated lutAToB: %w", ErrMalformedProfile)
	}
	nIn := int(data[8])
	nOut := int(data[9])
	if nIn < 1 || nIn > 4 || nOut < 1 || nOut > 4 {
		return nil, fmt.Errorf("lutAToB with %d inputs, %d outputs: %w",
			nIn, nOut, ErrMalformedProfile)
	}

	bOffset := int(getUint32(data, 12))
	matOffset := int(getUint32(data, 16))
	mOffset := int(getUint32(data, 20))
	clutOffset := int(getUint32(data, 24))
	aOffset := int(getUint32(data, 28))

	p := &Pipeline{NIn: nIn, NOut: nOut}

	var err error
	if aOffset != 0 {
		p.InputCurves, err = decodeCurveList(data, aOffset, nIn)
		if err != nil {
			return nil, err
		}
	}
	if clutOffset != 0 {
		p.GridSize, p.Table, err = decodeCLUT(data, clutOffset, nIn, nOut)
		if err != nil {
			return nil, err
		}
	}
	if mOffset != 0 {
		p.MidCurves, err = decodeCurveList(data, mOffset, 3)
		if err != nil {
			return nil, err
		}
	}
	if matOffset != 0 {
		if matOffset+48 > len(data) {
			return nil, fmt.Errorf("truncated lutAToB matrix: %w",
				ErrMalformedProfile)
		}
		var m [12]float64
		for i := range 12 {
			m[i] = getS15Fixed16(data, matOffset+i*4)
		}
		p.PostMatrix = &m
	}
	if bOffset != 0 {
		p.OutputCurves, err = decodeCurveList(data, bOffset, nOut)
		if err != nil {
			return nil, err
		}
	}

	return NewPipeline(p)
}

// decodeCurveList reads numCurves consecutive curve elements, each
// padded to a four-byte boundary.
func decodeCurveList(data []byte, offset, numCurves int) ([]*Curve, error) {
	curves := make([]*Curve, numCurves)
	pos := offset
	for i := range numCurves {
		if pos+12 > len(data) {
			return nil, fmt.Errorf("truncated curve list: %w",
				ErrMalformedProfile)
		}
		var size int
		switch string(data[pos : pos+4]) {
		case "curv":
			size = 12 + 2*int(getUint32(data, pos+8))
		case "para":
			funcType := int(getUint16(data, pos+8))
			if funcType > 4 {
				return nil, fmt.Errorf("parametric type %d: %w",
					funcType, ErrUnsupportedCurveKind)
			}
			size = 12 + 4*[]int{1, 3, 4, 5, 7}[funcType]
		default:
			return nil, fmt.Errorf("curve type %q: %w",
				string(data[pos:pos+4]), ErrUnsupportedCurveKind)
		}
		size = (size + 3) &^ 3
		if pos+size > len(data) {
			return nil, fmt.Errorf("truncated curve list: %w",
				ErrMalformedProfile)
		}
		c, err := decodeCurveTag(data[pos : pos+size])
		if err != nil {
			return nil, err
		}
		curves[i] = c
		pos += size
	}
	return curves, nil
}

// decodeCLUT reads the CLUT element of a lutAToBType tag.
func decodeCLUT(data []byte, offset, nIn, nOut int) ([]int, []float64, error) {
	if offset+20 > len(data) {
		return nil, nil, fmt.Errorf("truncated CLUT header: %w",
			ErrMalformedProfile)
	}
	gridSize := make([]int, nIn)
	size := nOut
	for i := range nIn {
		g := int(data[offset+i])
		if g < 2 {
			return nil, nil, fmt.Errorf("CLUT grid size %d: %w",
				g, ErrMalformedProfile)
		}
		gridSize[i] = g
		if size > (1<<30)/g {
			return nil, nil, fmt.Errorf("CLUT too large: %w",
				ErrMalformedProfile)
		}
		size *= g
	}
	precision := int(data[offset+16])

	start := offset + 20
	table := make([]float64, size)
	switch precision {
	case 1:
		if len(data) < start+size {
			return nil, nil, fmt.Errorf("truncated CLUT data: %w",
				ErrMalformedProfile)
		}
		for i := range size {
			table[i] = float64(data[start+i]) / 255
		}
	case 2:
		if len(data) < start+2*size {
			return nil, nil, fmt.Errorf("truncated CLUT data: %w",
				ErrMalformedProfile)
		}
		for i := range size {
			table[i] = float64(getUint16(data, start+i*2)) / 65535
		}
	default:
		return nil, nil, fmt.Errorf("CLUT precision %d: %w",
			precision, ErrMalformedProfile)
	}
	return gridSize, table, nil
}

// decodeLutMatrix reads the 3x3 matrix of mft1/mft2 tags, returning nil
// for the identity matrix.
func decodeLutMatrix(data []byte, offset int) *[9]float64 {
	var m [9]float64
	for i := range 9 {
		m[i] = getS15Fixed16(data, offset+i*4)
	}
	identity := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if m == identity {
		return nil
	}
	return &m
}

func getUint16(data []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(data[offset:])
}

func getUint32(data []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(data[offset:])
}

func getS15Fixed16(data []byte, offset int) float64 {
	return float64(int32(getUint32(data, offset))) / 65536
}
