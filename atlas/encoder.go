package atlas

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Encode writes pages back out in the descriptor text format. Decoding the
// result yields the same pages, so the packer can emit a descriptor for the
// atlas it just built.
func Encode(w io.Writer, pages []*Page) error {
	b := bufio.NewWriter(w)
	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(b)
		}
		fmt.Fprintln(b, p.Name)
		fmt.Fprintf(b, "size: %d,%d\n", p.Size.X, p.Size.Y)
		if p.Format != "" {
			fmt.Fprintf(b, "format: %s\n", p.Format)
		}
		if p.Filter != "" {
			fmt.Fprintf(b, "filter: %s\n", p.Filter)
		}
		if p.Repeat != "" {
			fmt.Fprintf(b, "repeat: %s\n", p.Repeat)
		}
		for _, r := range p.Regions {
			fmt.Fprintln(b, r.Name)
			fmt.Fprintf(b, "  rotate: %t\n", r.Rotate)
			fmt.Fprintf(b, "  xy: %d, %d\n", r.XY.X, r.XY.Y)
			fmt.Fprintf(b, "  size: %d, %d\n", r.Size.X, r.Size.Y)
			fmt.Fprintf(b, "  orig: %d, %d\n", r.Orig.X, r.Orig.Y)
			fmt.Fprintf(b, "  offset: %d, %d\n", r.Offset.X, r.Offset.Y)
			fmt.Fprintf(b, "  index: %d\n", r.Index)
		}
	}
	return errors.Wrap(b.Flush(), "writing atlas descriptor")
}
