package atlas

import (
	"bufio"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Decode parses a text atlas descriptor into its pages, preserving the
// declaration order of pages and regions.
//
// Optional region properties may be absent: rotate defaults to false,
// offset to (0,0), orig to the stored size, index to -1.
func Decode(r io.Reader) ([]*Page, error) {
	d := decoder{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		d.line++
		if err := d.feed(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading atlas descriptor")
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	if len(d.pages) == 0 {
		return nil, &MalformedError{Line: d.line, Reason: "no pages in descriptor"}
	}
	return d.pages, nil
}

type decoder struct {
	line  int
	pages []*Page

	page      *Page
	region    *Region
	pageProps bool

	// set while parsing a region block, so defaults can be filled in once
	// the block ends
	sawXY, sawSize, sawOrig bool
}

func (d *decoder) fail(reason string) error {
	return &MalformedError{Line: d.line, Reason: reason}
}

func (d *decoder) feed(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		// blank line separates pages
		return d.closePage()
	}

	if d.page == nil {
		if strings.Contains(line, ":") {
			return d.fail("expected page image name, got property " + strconv.Quote(line))
		}
		d.page = &Page{Name: line}
		d.pageProps = true
		return nil
	}

	if k, v, ok := strings.Cut(line, ":"); ok {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if d.pageProps {
			return d.pageProp(k, v)
		}
		if d.region == nil {
			return d.fail("property " + strconv.Quote(k) + " outside a region block")
		}
		return d.regionProp(k, v)
	}

	// a bare line inside a page starts a new region block
	d.pageProps = false
	if err := d.closeRegion(); err != nil {
		return err
	}
	d.region = &Region{Name: line, Index: -1}
	return nil
}

func (d *decoder) pageProp(k, v string) error {
	switch k {
	case "size":
		pt, err := d.point(v)
		if err != nil {
			return err
		}
		d.page.Size = pt
	case "format":
		d.page.Format = v
	case "filter":
		d.page.Filter = v
	case "repeat":
		d.page.Repeat = v
	default:
		// newer descriptor revisions add page properties (pma, scale);
		// unknown keys are carried over nowhere but must not break parsing
	}
	return nil
}

func (d *decoder) regionProp(k, v string) error {
	r := d.region
	var err error
	switch k {
	case "rotate":
		switch v {
		case "true":
			r.Rotate = true
		case "false":
			r.Rotate = false
		default:
			return d.fail("rotate must be true or false, got " + strconv.Quote(v))
		}
	case "xy":
		r.XY, err = d.point(v)
		d.sawXY = true
	case "size":
		r.Size, err = d.point(v)
		d.sawSize = true
	case "orig":
		r.Orig, err = d.point(v)
		d.sawOrig = true
	case "offset":
		r.Offset, err = d.point(v)
	case "index":
		n, cerr := strconv.Atoi(v)
		if cerr != nil {
			return d.fail("index is not a number: " + strconv.Quote(v))
		}
		r.Index = n
	default:
		// skip split/pad etc. from 9-patch regions
	}
	return err
}

func (d *decoder) point(v string) (image.Point, error) {
	a, b, ok := strings.Cut(v, ",")
	if !ok {
		return image.Point{}, d.fail("expected \"x, y\" pair, got " + strconv.Quote(v))
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return image.Point{}, d.fail("not a number: " + strconv.Quote(strings.TrimSpace(a)))
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return image.Point{}, d.fail("not a number: " + strconv.Quote(strings.TrimSpace(b)))
	}
	return image.Point{X: x, Y: y}, nil
}

func (d *decoder) closeRegion() error {
	r := d.region
	if r == nil {
		return nil
	}
	d.region = nil
	defer func() { d.sawXY, d.sawSize, d.sawOrig = false, false, false }()

	if !d.sawXY || !d.sawSize {
		return d.fail("region " + strconv.Quote(r.Name) + " is missing xy or size")
	}
	if !d.sawOrig {
		r.Orig = r.Size
	}
	if d.page.Size != (image.Point{}) && !r.Rect().In(image.Rectangle{Max: d.page.Size}) {
		return d.fail("region " + strconv.Quote(r.Key()) + " does not fit its page")
	}
	if d.page.Find(r.Key()) != nil {
		return d.fail("duplicate region " + strconv.Quote(r.Key()))
	}
	d.page.Regions = append(d.page.Regions, r)
	return nil
}

func (d *decoder) closePage() error {
	if d.page == nil {
		return nil
	}
	if err := d.closeRegion(); err != nil {
		return err
	}
	if d.page.Size == (image.Point{}) {
		return d.fail("page " + strconv.Quote(d.page.Name) + " has no size")
	}
	d.pages = append(d.pages, d.page)
	d.page = nil
	return nil
}

func (d *decoder) finish() error {
	return d.closePage()
}
