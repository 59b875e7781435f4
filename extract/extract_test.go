package extract

import (
	"image"
	"image/color"
	"testing"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/imgtest"
)

func TestExtractPlain(t *testing.T) {
	page := imgtest.Solid(64, 64, color.NRGBA{A: 0xFF})
	want := imgtest.Gradient(8, 6)
	// paste the marker block at (10, 20)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			page.SetNRGBA(10+x, 20+y, want.NRGBAAt(x, y))
		}
	}

	r := &atlas.Region{
		Name:  "block",
		XY:    image.Pt(10, 20),
		Size:  image.Pt(8, 6),
		Orig:  image.Pt(8, 6),
		Index: -1,
	}
	got, err := Extract(page, r)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Key() != "block" {
		t.Errorf("key: got %q", got.Key())
	}
	imgtest.AssertSamePixels(t, "pixels", got.Pix, want)
}

func TestExtractRotated(t *testing.T) {
	upright := imgtest.Gradient(8, 6)

	// store the block rotated 90 degrees clockwise at (4, 4): the page
	// holds a 6x8 transposed rectangle
	page := imgtest.Solid(32, 32, color.NRGBA{})
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			// clockwise: (x, y) -> (h-1-y, x) with h = 6
			page.SetNRGBA(4+(6-1-y), 4+x, upright.NRGBAAt(x, y))
		}
	}

	r := &atlas.Region{
		Name:   "rot",
		XY:     image.Pt(4, 4),
		Size:   image.Pt(8, 6),
		Orig:   image.Pt(8, 6),
		Rotate: true,
		Index:  -1,
	}
	got, err := Extract(page, r)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if b := got.Pix.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("upright size: got %dx%d, want 8x6", b.Dx(), b.Dy())
	}
	imgtest.AssertSamePixels(t, "pixels", got.Pix, upright)
}

// A region with original size 100x100 but trimmed to 60x40 at offset (20,30)
// extracts to a 100x100 canvas with the block at x=20 and, counting the
// offset from the bottom, y = 100-30-40 = 30.
func TestExtractTrimmed(t *testing.T) {
	block := imgtest.Gradient(60, 40)
	page := imgtest.Solid(128, 128, color.NRGBA{})
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			page.SetNRGBA(2+x, 2+y, block.NRGBAAt(x, y))
		}
	}

	r := &atlas.Region{
		Name:   "trimmed",
		XY:     image.Pt(2, 2),
		Size:   image.Pt(60, 40),
		Orig:   image.Pt(100, 100),
		Offset: image.Pt(20, 30),
		Index:  -1,
	}
	got, err := Extract(page, r)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if b := got.Pix.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("canvas size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	placed := image.Rect(20, 30, 20+60, 30+40)
	imgtest.AssertSamePixels(t, "block", got.Pix.SubImage(placed), block)
	imgtest.AssertTransparentOutside(t, "border", got.Pix, placed)
}

func TestExtractOutOfBounds(t *testing.T) {
	page := imgtest.Solid(32, 32, color.NRGBA{})
	r := &atlas.Region{
		Name:  "huge",
		XY:    image.Pt(16, 16),
		Size:  image.Pt(32, 32),
		Orig:  image.Pt(32, 32),
		Index: -1,
	}
	_, err := Extract(page, r)
	if err == nil {
		t.Fatal("Extract succeeded, want OutOfBoundsError")
	}
	oob, ok := err.(*OutOfBoundsError)
	if !ok {
		t.Fatalf("got %T (%v), want *OutOfBoundsError", err, err)
	}
	if oob.Region != "huge" {
		t.Errorf("offending region: got %q, want %q", oob.Region, "huge")
	}
}
