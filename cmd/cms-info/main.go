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

// Cms-info prints the contents of ICC profiles and the transform
// chains used to convert their colors to sRGB.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"slices"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/cms/icc"
	"seehuhn.de/go/cms/internal/float"
)

var verbose = flag.Bool("v", false, "verbose output")

func main() {
	flag.Parse()
	for _, fname := range flag.Args() {
		err := show(fname)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
		}
	}
}

func show(fname string) error {
	body, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	p, err := icc.Decode(body)
	if err != nil {
		return err
	}

	if !*verbose {
		fmt.Printf("%-6s %-6s %8d bytes  %s\n",
			p.ColorSpace, p.PCS, len(body), fname)
		return nil
	}

	fmt.Printf("Profile: %s\n", fname)
	fmt.Printf("  ColorSpace: %s (%d channels)\n",
		p.ColorSpace, p.ColorSpace.Channels())
	fmt.Printf("  PCS: %s\n", p.PCS)
	fmt.Printf("  RenderingIntent: %s\n", p.Intent)
	fmt.Printf("  WhitePoint: %s\n", formatXYZ(p.WhitePoint))
	if p.BlackPoint[1] > 0 {
		fmt.Printf("  BlackPoint: %s\n", formatXYZ(p.BlackPoint))
	}

	fmt.Println()
	sizes := tagSizes(body)
	tags := maps.Keys(sizes)
	slices.Sort(tags)
	for _, t := range tags {
		fmt.Printf("  %s: %d bytes\n", icc.TagType(t), sizes[t])
	}

	fmt.Println()
	for intent := icc.Perceptual; intent <= icc.AbsoluteColorimetric; intent++ {
		chain, err := icc.ResolveChain(p, intent)
		if err != nil {
			fmt.Printf("  %s: %v\n", intent, err)
			continue
		}
		fmt.Printf("  %s:", intent)
		for _, t := range chain {
			fmt.Printf(" [%s]", t.Kind)
		}
		fmt.Println()
	}
	fmt.Println()

	return nil
}

func formatXYZ(v [3]float64) string {
	return float.Format(v[0], 4) + " " +
		float.Format(v[1], 4) + " " +
		float.Format(v[2], 4)
}

// tagSizes reads the tag table and returns the size of each tag body.
func tagSizes(body []byte) map[uint32]int {
	sizes := make(map[uint32]int)
	if len(body) < 132 {
		return sizes
	}
	n := int(binary.BigEndian.Uint32(body[128:]))
	for i := range n {
		base := 132 + 12*i
		if base+12 > len(body) {
			break
		}
		sig := binary.BigEndian.Uint32(body[base:])
		size := binary.BigEndian.Uint32(body[base+8:])
		sizes[sig] = int(size)
	}
	return sizes
}
