// Binary atlasprint draws atlas pages and regions on the terminal.
package main

import (
	"flag"
	"fmt"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/bradfitz/iter"
	"github.com/golang/glog"

	"badc0de.net/pkg/spine-split/extract"
	"badc0de.net/pkg/spine-split/paths"
	"badc0de.net/pkg/spine-split/pipeline"
	"badc0de.net/pkg/spine-split/preview"
)

var (
	pageIdx   = flag.Int("page", -1, "page to print, by position in the descriptor")
	regionKey = flag.String("region", "", "region to print, by key")
	allPages  = flag.Bool("all", false, "print every page")
	outline   = flag.Bool("outline", false, "draw region outlines on printed pages")

	atlasPath string
)

func main() {
	paths.SetupFilePathFlag("shared.atlas", "atlas_path", &atlasPath)
	flagutil.Parse()

	if atlasPath == "" {
		glog.Exit("no atlas found; pass --atlas_path")
	}
	src, err := pipeline.LoadSource(atlasPath)
	if err != nil {
		glog.Exitf("loading atlas: %v", err)
	}

	switch {
	case *regionKey != "":
		region, pageImg := src.FindRegion(*regionKey)
		if region == nil {
			glog.Exitf("no region %q in %s", *regionKey, atlasPath)
		}
		img, err := extract.Extract(pageImg, region)
		if err != nil {
			glog.Exitf("extracting %q: %v", *regionKey, err)
		}
		out(img.Pix)
	case *pageIdx >= 0:
		printPage(src, *pageIdx)
	case *allPages:
		for i := range iter.N(len(src.Pages)) {
			fmt.Printf("== %s ==\n", src.Pages[i].Name)
			printPage(src, i)
		}
	default:
		for _, p := range src.Pages {
			fmt.Printf("%s: %dx%d, %d regions\n", p.Name, p.Size.X, p.Size.Y, len(p.Regions))
			for _, r := range p.Regions {
				fmt.Printf("  %s: xy=%v size=%v orig=%v rotate=%t\n", r.Key(), r.XY, r.Size, r.Orig, r.Rotate)
			}
		}
	}
}

func printPage(src *pipeline.Source, idx int) {
	if idx < 0 || idx >= len(src.Pages) {
		glog.Exitf("no page %d in %s", idx, atlasPath)
	}
	page := src.Pages[idx]
	img := src.PageImage(page.Name)
	if *outline {
		out(preview.Outline(img, page))
	} else {
		out(img)
	}
}
