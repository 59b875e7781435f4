// Package atlas reads and writes Spine texture atlas descriptors.
//
// A descriptor is a small text file that maps region names to rectangles
// inside one or more atlas page images. The format is line oriented: a page
// starts with the page image file name, followed by page properties
// (size, format, filter, repeat), followed by region blocks whose
// properties are indented under the region name.
package atlas

import (
	"fmt"
	"image"
)

// Page is one atlas page: an image file plus the regions packed into it.
//
// Pages are read-only once parsed; the splitter pipeline shares one parsed
// descriptor between all animations by reference.
type Page struct {
	// Name is the page image file name as written in the descriptor,
	// e.g. "dragon.png".
	Name string

	// Size is the declared pixel size of the page image. Zero when the
	// descriptor predates the size property.
	Size image.Point

	Format string
	Filter string
	Repeat string

	// Regions in declaration order. Frame naming (walk_0, walk_1, ...)
	// relies on this order being preserved.
	Regions []*Region
}

// Region is a named rectangular area of a page.
type Region struct {
	// Name of the region. Not necessarily unique on its own: frames of an
	// animation share a name and differ by Index.
	Name string

	// XY is the top-left corner of the region inside the page.
	XY image.Point

	// Size is the stored (possibly trimmed) size. For rotated regions this
	// is the upright size; the rectangle actually occupied in the page is
	// transposed.
	Size image.Point

	// Orig is the untrimmed size of the source artwork. Equal to Size when
	// the region was not trimmed.
	Orig image.Point

	// Offset of the trimmed rectangle inside the original artwork,
	// measured from the bottom-left per Spine convention.
	Offset image.Point

	// Rotate reports whether the region is stored rotated 90 degrees
	// clockwise in the page.
	Rotate bool

	// Index is the frame index for multi-frame names, or -1.
	Index int
}

// Key returns the identity used to reference the region from skeleton
// attachments and packed layouts: the bare name, or name_index for frames.
func (r *Region) Key() string {
	if r.Index < 0 {
		return r.Name
	}
	return fmt.Sprintf("%s_%d", r.Name, r.Index)
}

// Rect returns the rectangle the region occupies inside its page, in page
// pixel space. For rotated regions the stored width and height are swapped.
func (r *Region) Rect() image.Rectangle {
	if r.Rotate {
		return image.Rect(r.XY.X, r.XY.Y, r.XY.X+r.Size.Y, r.XY.Y+r.Size.X)
	}
	return image.Rect(r.XY.X, r.XY.Y, r.XY.X+r.Size.X, r.XY.Y+r.Size.Y)
}

// Find returns the first region with the passed key, in declaration order.
func (p *Page) Find(key string) *Region {
	for _, r := range p.Regions {
		if r.Key() == key {
			return r
		}
	}
	return nil
}

// MalformedError reports a descriptor that could not be parsed, with the
// 1-based line number the parser gave up on.
type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("atlas: line %d: %s", e.Line, e.Reason)
}
