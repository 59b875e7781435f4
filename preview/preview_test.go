package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/imgtest"
)

func TestOutline(t *testing.T) {
	page := &atlas.Page{
		Name: "p.png",
		Size: image.Pt(32, 32),
		Regions: []*atlas.Region{
			{Name: "a", XY: image.Pt(2, 2), Size: image.Pt(8, 6), Orig: image.Pt(8, 6), Index: -1},
			{Name: "b", XY: image.Pt(14, 2), Size: image.Pt(8, 6), Orig: image.Pt(8, 6), Index: -1, Rotate: true},
		},
	}
	out := Outline(imgtest.Solid(32, 32, color.NRGBA{A: 0xFF}), page)

	if got := out.NRGBAAt(2, 2); got != outlineUpright {
		t.Errorf("upright corner: got %v", got)
	}
	if got := out.NRGBAAt(9, 7); got != outlineUpright {
		t.Errorf("upright far corner: got %v", got)
	}
	// the rotated region's stored rect is transposed: 6 wide, 8 tall
	if got := out.NRGBAAt(14+5, 2+7); got != outlineRotated {
		t.Errorf("rotated far corner: got %v", got)
	}
	if got := out.NRGBAAt(16, 16); got != (color.NRGBA{A: 0xFF}) {
		t.Errorf("pixel away from any outline changed: got %v", got)
	}
}

func TestAnimationGIF(t *testing.T) {
	frames := []image.Image{
		imgtest.Solid(10, 8, color.NRGBA{R: 0xFF, A: 0xFF}),
		imgtest.Solid(8, 10, color.NRGBA{G: 0xFF, A: 0xFF}),
	}
	g, err := AnimationGIF(frames, 6)
	if err != nil {
		t.Fatalf("AnimationGIF: %v", err)
	}
	if len(g.Image) != 2 || len(g.Delay) != 2 {
		t.Fatalf("frames: got %d images, %d delays", len(g.Image), len(g.Delay))
	}
	if b := g.Image[0].Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("canvas: got %v, want 10x10", b)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) != 2 {
		t.Errorf("decoded frames: got %d", len(decoded.Image))
	}
	if decoded.Delay[1] != 6 {
		t.Errorf("delay: got %d", decoded.Delay[1])
	}
}

func TestAnimationGIFNoFrames(t *testing.T) {
	if _, err := AnimationGIF(nil, 6); err == nil {
		t.Error("want error for empty input")
	}
}
