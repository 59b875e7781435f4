package pack

import (
	"image"
	"testing"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/extract"
	"badc0de.net/pkg/spine-split/imgtest"
)

func testImage(t *testing.T, key string, w, h int) *extract.Image {
	t.Helper()
	name, index := key, -1
	return &extract.Image{
		Region: &atlas.Region{
			Name:  name,
			Size:  image.Pt(w, h),
			Orig:  image.Pt(w, h),
			Index: index,
		},
		Pix: imgtest.Gradient(w, h),
	}
}

func TestPackSinglePage(t *testing.T) {
	images := []*extract.Image{
		testImage(t, "head", 60, 40),
		testImage(t, "body", 100, 80),
		testImage(t, "tail", 20, 20),
	}

	layout, pages, err := Pack(images, 256, 256)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(pages) != 1 || layout.PageCount() != 1 {
		t.Fatalf("got %d pages (layout %d), want 1", len(pages), layout.PageCount())
	}

	for _, img := range images {
		p := layout.Lookup(img.Key())
		if p == nil {
			t.Fatalf("region %q missing from layout", img.Key())
		}
		if got, want := p.Rect.Size(), img.Pix.Bounds().Size(); got != want {
			t.Errorf("%s: packed size %v, want %v", img.Key(), got, want)
		}
		imgtest.AssertSamePixels(t, img.Key(), pages[p.Page].SubImage(p.Rect), img.Pix)
	}
}

func TestPackInvariants(t *testing.T) {
	images := []*extract.Image{
		testImage(t, "a", 50, 50),
		testImage(t, "b", 50, 50),
		testImage(t, "c", 50, 50),
		testImage(t, "d", 30, 70),
		testImage(t, "e", 64, 10),
		testImage(t, "f", 10, 64),
		testImage(t, "g", 64, 64),
	}

	layout, pages, err := Pack(images, 128, 128)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	// every input appears exactly once
	if got, want := len(layout.Keys()), len(images); got != want {
		t.Fatalf("layout has %d placements, want %d", got, want)
	}

	// containment and non-overlap per page
	for i, key := range layout.Keys() {
		p := layout.Lookup(key)
		bounds := pages[p.Page].Bounds()
		if !p.Rect.In(bounds) {
			t.Errorf("%s: rect %v outside page %d bounds %v", key, p.Rect, p.Page, bounds)
		}
		for _, other := range layout.Keys()[:i] {
			q := layout.Lookup(other)
			if q.Page == p.Page && p.Rect.Overlaps(q.Rect) {
				t.Errorf("%s and %s overlap on page %d: %v / %v", key, other, p.Page, p.Rect, q.Rect)
			}
		}
	}
}

func TestPackOpensNewPage(t *testing.T) {
	var images []*extract.Image
	names := []string{"p", "q", "r", "s", "u"}
	for _, n := range names {
		images = append(images, testImage(t, n, 60, 60))
	}

	// 128x128 fits four 60x60 blocks with 2px padding; the fifth must open
	// a second page
	layout, pages, err := Pack(images, 128, 128)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	onSecond := 0
	for _, key := range layout.Keys() {
		if layout.Lookup(key).Page == 1 {
			onSecond++
		}
	}
	if onSecond != 1 {
		t.Errorf("got %d regions on second page, want 1", onSecond)
	}
}

func TestPackOverflow(t *testing.T) {
	images := []*extract.Image{testImage(t, "wide", 2050, 50)}
	_, _, err := Pack(images, 2048, 2048)
	if err == nil {
		t.Fatal("Pack succeeded, want PageOverflowError")
	}
	ovf, ok := err.(*PageOverflowError)
	if !ok {
		t.Fatalf("got %T (%v), want *PageOverflowError", err, err)
	}
	if ovf.Region != "wide" {
		t.Errorf("offending region: got %q, want %q", ovf.Region, "wide")
	}

	// exactly page sized still packs: edges carry no padding
	if _, _, err := Pack([]*extract.Image{testImage(t, "exact", 2048, 2048)}, 2048, 2048); err != nil {
		t.Errorf("exact-fit image failed to pack: %v", err)
	}
}

func TestLayoutPages(t *testing.T) {
	images := []*extract.Image{
		testImage(t, "head", 60, 40),
		testImage(t, "tail", 20, 20),
	}
	layout, pageImages, err := Pack(images, 256, 256)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	pages := layout.Pages("walkcycle", "RGBA8888", "Linear,Linear")
	if len(pages) != 1 {
		t.Fatalf("got %d descriptor pages, want 1", len(pages))
	}
	if pages[0].Name != "walkcycle.png" {
		t.Errorf("page name: got %q, want %q", pages[0].Name, "walkcycle.png")
	}
	if got, want := pages[0].Size, pageImages[0].Bounds().Size(); got != want {
		t.Errorf("declared size %v, want %v", got, want)
	}
	for _, r := range pages[0].Regions {
		if r.Rotate {
			t.Errorf("region %s is rotated; packer output must be upright", r.Key())
		}
		p := layout.Lookup(r.Key())
		if p == nil || p.Rect.Min != r.XY {
			t.Errorf("region %s descriptor does not match layout", r.Key())
		}
	}
}
