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

// Package render converts sampled color data into Go images.
//
// The package forms the boundary between the per-pixel samplers of
// the color package and image-based consumers.  Component planes are
// pulled through a sampler row by row, in parallel, and the resulting
// images can be placed into a target image under an affine transform.
package render

import (
	"errors"
	"image"
	"image/draw"
	"runtime"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/cms/color"
)

// Image converts planar component data into an RGBA image.
//
// The components slice holds one plane per color component, each of
// length width*height in row-major order.  Rows are converted in
// parallel, one goroutine per processor.
func Image(width, height int, components [][]float64, sampler color.Sampler) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("render: invalid image size")
	}
	if len(components) == 0 {
		return nil, errors.New("render: no component data")
	}
	for _, plane := range components {
		if len(plane) < width*height {
			return nil, errors.New("render: component plane too short")
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	numWorkers := min(runtime.GOMAXPROCS(0), height)
	rows := make(chan int)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]float64, len(components))
			for y := range rows {
				base := y * width
				row := img.Pix[y*img.Stride:]
				for x := range width {
					for c, plane := range components {
						buf[c] = plane[base+x]
					}
					sampler.Sample(buf).Put(row, x)
				}
			}
		}()
	}
	for y := range height {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return img, nil
}

// DrawTransformed draws src into dst under an affine transform.
//
// The matrix maps the unit square to dst pixel coordinates; src is
// scaled into the unit square with its top-left corner at (0, 1), the
// image convention of PDF.  Pixels are interpolated bilinearly and
// composed over the existing content of dst.
func DrawTransformed(dst *image.RGBA, src image.Image, m matrix.Matrix) {
	b := src.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	// source pixel (sx, sy) maps to the unit square point
	// (sx/w, 1-sy/h) before the matrix is applied
	aff := f64.Aff3{
		m[0] / w, -m[2] / h, m[2] + m[4],
		m[1] / w, -m[3] / h, m[3] + m[5],
	}
	xdraw.BiLinear.Transform(dst, aff, src, b, draw.Over, nil)
}
