// Package imgtest provides small helpers for building and comparing test
// images in the atlas packages' tests.
package imgtest

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// Solid returns a w×h NRGBA image filled with c.
func Solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// FillRect paints r with c on img.
func FillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// Gradient returns a w×h NRGBA image where every pixel encodes its own
// coordinates, so any crop, rotation or misplacement shows up in a pixel
// compare.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 0xFF})
		}
	}
	return img
}

// AssertSamePixels fails the test when the two images differ in bounds size
// or in any pixel. Bounds may be offset against each other; comparison is
// relative to each image's Min.
func AssertSamePixels(t *testing.T, name string, got, want image.Image) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		gb, wb := got.Bounds(), want.Bounds()
		if gb.Dx() != wb.Dx() || gb.Dy() != wb.Dy() {
			t.Fatalf("bounds: got %v, want %v", gb, wb)
		}
		for y := 0; y < gb.Dy(); y++ {
			for x := 0; x < gb.Dx(); x++ {
				g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
				w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
				if g != w {
					t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, g, w)
				}
			}
		}
	})
}

// AssertTransparentOutside fails when any pixel of img outside r has nonzero
// alpha.
func AssertTransparentOutside(t *testing.T, name string, img image.Image, r image.Rectangle) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if image.Pt(x, y).In(r) {
					continue
				}
				if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
					t.Fatalf("pixel (%d,%d) outside %v is not transparent", x, y, r)
				}
			}
		}
	})
}
