// zx81font.go - Render the ZX81 ROM character set to a PNG sheet
//
// Usage: go run zx81font.go -rom ../zx81.rom -out charset.png -scale 4
//
// The ROM keeps 64 glyphs of 8x8 pixels at 1E00. The sheet shows them in
// a 16x8 grid: the top four rows as stored, the bottom four inverted, the
// way the ULA draws codes with bit 7 set.

package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

const (
	charsetBase   = 0x1E00
	charsetGlyphs = 64
	sheetCols     = 16
	sheetRows     = 8
	glyphSize     = 8
)

func main() {
	romPath := flag.String("rom", "zx81.rom", "8 KiB ZX81 ROM image")
	outPath := flag.String("out", "charset.png", "PNG file to write")
	scale := flag.Int("scale", 4, "pixel scale factor")
	flag.Parse()

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Printf("Error reading ROM: %v\n", err)
		os.Exit(1)
	}
	if len(rom) < charsetBase+charsetGlyphs*glyphSize {
		fmt.Printf("Error: %s is %d bytes, too short for the character set\n", *romPath, len(rom))
		os.Exit(1)
	}
	if *scale < 1 {
		*scale = 1
	}

	sheet := renderSheet(rom[charsetBase : charsetBase+charsetGlyphs*glyphSize])

	out := image.NewRGBA(image.Rect(0, 0, sheet.Bounds().Dx()**scale, sheet.Bounds().Dy()**scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), sheet, sheet.Bounds(), xdraw.Src, nil)

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Printf("Error creating %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		fmt.Printf("Error encoding PNG: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Printf("Error closing %s: %v\n", *outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %dx%d sheet to %s\n", out.Bounds().Dx(), out.Bounds().Dy(), *outPath)
}

func renderSheet(glyphs []byte) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, sheetCols*glyphSize, sheetRows*glyphSize))
	for code := 0; code < charsetGlyphs*2; code++ {
		inverse := code >= charsetGlyphs
		ox := (code % sheetCols) * glyphSize
		oy := (code / sheetCols) * glyphSize
		for row := 0; row < glyphSize; row++ {
			bits := glyphs[(code%charsetGlyphs)*glyphSize+row]
			if inverse {
				bits = ^bits
			}
			for col := 0; col < glyphSize; col++ {
				c := color.Gray{Y: 0xFF}
				if bits&(0x80>>col) != 0 {
					c = color.Gray{Y: 0x00}
				}
				img.SetGray(ox+col, oy+row, c)
			}
		}
	}
	return img
}
