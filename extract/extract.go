// Package extract cuts regions out of an atlas page image and restores them
// to their original, upright, untrimmed appearance.
package extract

import (
	"fmt"
	"image"
	"image/draw"

	"badc0de.net/pkg/spine-split/atlas"
)

// Image is one extracted region: an upright pixel buffer of the region's
// original (untrimmed) size, plus the region record it came from.
//
// Extracted images only live for the duration of one animation's processing
// pass; the packer consumes them right away.
type Image struct {
	// Region is the source region record, shared read-only with the parsed
	// descriptor.
	Region *atlas.Region

	// Pix is the restored pixel buffer. Its size is Region.Orig; the
	// trimmed-away border is transparent.
	Pix *image.NRGBA
}

// Key returns the region's reference key (name or name_index).
func (i *Image) Key() string { return i.Region.Key() }

// OutOfBoundsError reports a region whose rectangle does not fit inside the
// source page image. The region is not clipped; this is always an error in
// the descriptor or the image.
type OutOfBoundsError struct {
	Region string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("extract: region %q rect %v exceeds page bounds %v", e.Region, e.Rect, e.Bounds)
}

// Extract cuts the region out of src.
//
// Rotated regions occupy a transposed rectangle in the page and are rotated
// back upright. Trimmed regions are placed into a transparent canvas of the
// original size at the recorded offset (offset Y counts from the bottom).
func Extract(src image.Image, r *atlas.Region) (*Image, error) {
	rect := r.Rect()
	if !rect.In(src.Bounds()) {
		return nil, &OutOfBoundsError{Region: r.Key(), Rect: rect, Bounds: src.Bounds()}
	}

	crop := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), src, rect.Min, draw.Src)

	if r.Rotate {
		crop = rotateCCW(crop)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, r.Orig.X, r.Orig.Y))
	at := image.Pt(r.Offset.X, r.Orig.Y-r.Offset.Y-r.Size.Y)
	draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(r.Size)}, crop, image.Point{}, draw.Src)

	return &Image{Region: r, Pix: canvas}, nil
}

// ExtractAll extracts every region of the page, in declaration order.
func ExtractAll(src image.Image, p *atlas.Page) ([]*Image, error) {
	out := make([]*Image, 0, len(p.Regions))
	for _, r := range p.Regions {
		img, err := Extract(src, r)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// rotateCCW undoes the packer's 90 degree clockwise rotation: a w×h stored
// block becomes an h×w upright one.
func rotateCCW(src *image.NRGBA) *image.NRGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(w-1-y, x))
		}
	}
	return dst
}
