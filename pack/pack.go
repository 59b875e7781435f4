// Package pack arranges extracted region images into new atlas pages.
//
// The packer uses shelf packing: images are sorted by decreasing height,
// then decreasing width (ties keep declaration order), and each is placed
// left to right on the lowest shelf with room, opening a new shelf below and
// a new page when a shelf or page runs out. Rotation is never applied, so
// the output is always upright and the rewriter does not have to reason
// about orientation.
package pack

import (
	"fmt"
	"image"
	"image/draw"
	"sort"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/extract"
)

// Padding, in pixels, between packed regions. Keeps bilinear filtering on
// one region from bleeding into its neighbor. Page edges carry no padding,
// so an image exactly the page size still packs.
const Padding = 2

// Placement is where one region ended up.
type Placement struct {
	Page int
	Rect image.Rectangle

	// Carried over from the source region so the descriptor and the
	// rewriter see the original artwork's identity.
	Name  string
	Index int
	Orig  image.Point
}

// Layout maps region keys to their placement in the packed pages.
//
// A layout is built fresh for each animation and consumed by the rewriter;
// it is never shared between animations.
type Layout struct {
	placements map[string]*Placement
	order      []string
	pageSizes  []image.Point
}

// Lookup returns the placement for a region key, or nil.
func (l *Layout) Lookup(key string) *Placement {
	return l.placements[key]
}

// Keys returns all packed region keys in placement order.
func (l *Layout) Keys() []string {
	return append([]string(nil), l.order...)
}

// PageCount returns how many pages the layout spans.
func (l *Layout) PageCount() int {
	return len(l.pageSizes)
}

// Pages converts the layout into atlas pages for the descriptor writer.
// Page names derive from baseName: base.png, base2.png, base3.png, ...
func (l *Layout) Pages(baseName, format, filter string) []*atlas.Page {
	pages := make([]*atlas.Page, len(l.pageSizes))
	for i, sz := range l.pageSizes {
		name := baseName + ".png"
		if i > 0 {
			name = fmt.Sprintf("%s%d.png", baseName, i+1)
		}
		pages[i] = &atlas.Page{
			Name:   name,
			Size:   sz,
			Format: format,
			Filter: filter,
			Repeat: "none",
		}
	}
	for _, key := range l.order {
		p := l.placements[key]
		pages[p.Page].Regions = append(pages[p.Page].Regions, &atlas.Region{
			Name:  p.Name,
			XY:    p.Rect.Min,
			Size:  p.Rect.Size(),
			Orig:  p.Orig,
			Index: p.Index,
		})
	}
	return pages
}

// PageOverflowError reports an image too large to fit an empty page.
type PageOverflowError struct {
	Region     string
	W, H       int
	MaxW, MaxH int
}

func (e *PageOverflowError) Error() string {
	return fmt.Sprintf("pack: region %q (%dx%d) cannot fit a %dx%d page", e.Region, e.W, e.H, e.MaxW, e.MaxH)
}

type shelf struct {
	y, h, x int
}

type page struct {
	img     *image.NRGBA
	shelves []*shelf
	used    image.Point
}

// Pack places every extracted image into a page no larger than maxW×maxH
// and returns the resulting layout together with the page pixel buffers.
// Pages are trimmed to their used extent.
//
// Every input appears in exactly one page, at a rectangle that overlaps no
// other; a PageOverflowError is returned when a single image cannot fit an
// empty page even alone.
func Pack(images []*extract.Image, maxW, maxH int) (*Layout, []*image.NRGBA, error) {
	order := make([]*extract.Image, len(images))
	copy(order, images)
	sort.SliceStable(order, func(i, j int) bool {
		bi, bj := order[i].Pix.Bounds(), order[j].Pix.Bounds()
		if bi.Dy() != bj.Dy() {
			return bi.Dy() > bj.Dy()
		}
		return bi.Dx() > bj.Dx()
	})

	l := &Layout{placements: make(map[string]*Placement)}
	var pages []*page

	for _, img := range order {
		w, h := img.Pix.Bounds().Dx(), img.Pix.Bounds().Dy()
		if w > maxW || h > maxH {
			return nil, nil, &PageOverflowError{Region: img.Key(), W: w, H: h, MaxW: maxW, MaxH: maxH}
		}

		var at image.Point
		var pg *page
		for _, cand := range pages {
			if pt, ok := cand.place(w, h, maxW, maxH); ok {
				at, pg = pt, cand
				break
			}
		}
		if pg == nil {
			pg = &page{img: image.NewNRGBA(image.Rect(0, 0, maxW, maxH))}
			pages = append(pages, pg)
			var ok bool
			at, ok = pg.place(w, h, maxW, maxH)
			if !ok {
				// cannot happen: the oversize check above ran already
				return nil, nil, &PageOverflowError{Region: img.Key(), W: w, H: h, MaxW: maxW, MaxH: maxH}
			}
		}

		rect := image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
		draw.Draw(pg.img, rect, img.Pix, img.Pix.Bounds().Min, draw.Src)
		if rect.Max.X > pg.used.X {
			pg.used.X = rect.Max.X
		}
		if rect.Max.Y > pg.used.Y {
			pg.used.Y = rect.Max.Y
		}

		pageIndex := 0
		for i, cand := range pages {
			if cand == pg {
				pageIndex = i
			}
		}
		key := img.Key()
		l.placements[key] = &Placement{
			Page:  pageIndex,
			Rect:  rect,
			Name:  img.Region.Name,
			Index: img.Region.Index,
			Orig:  img.Region.Orig,
		}
		l.order = append(l.order, key)
	}

	out := make([]*image.NRGBA, len(pages))
	for i, pg := range pages {
		trimmed := pg.used
		l.pageSizes = append(l.pageSizes, trimmed)
		out[i] = pg.img.SubImage(image.Rectangle{Max: trimmed}).(*image.NRGBA)
	}
	return l, out, nil
}

// place finds room for a w×h block on the page, updating shelf state.
func (p *page) place(w, h, maxW, maxH int) (image.Point, bool) {
	for _, s := range p.shelves {
		if h <= s.h && s.x+w <= maxW {
			at := image.Pt(s.x, s.y)
			s.x += w + Padding
			return at, true
		}
	}
	// open a new shelf below the last one
	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.h + Padding
	}
	if y+h > maxH {
		return image.Point{}, false
	}
	s := &shelf{y: y, h: h}
	p.shelves = append(p.shelves, s)
	at := image.Pt(s.x, s.y)
	s.x += w + Padding
	return at, true
}
