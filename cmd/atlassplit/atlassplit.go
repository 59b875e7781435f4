// Binary atlassplit splits a shared texture atlas into one private atlas
// per animation, rewriting each skeleton document against its own atlas.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"

	"badc0de.net/pkg/spine-split/paths"
	"badc0de.net/pkg/spine-split/pipeline"
	"badc0de.net/pkg/spine-split/spinetool"
)

var (
	inputDir  = flag.String("input_dir", ".", "directory holding the shared .atlas and the skeleton documents")
	outputDir = flag.String("output_dir", "output", "directory to write per-animation outputs into")
	workers   = flag.Int("workers", 4, "how many animations to process in parallel")
	maxPageW  = flag.Int("max_page_width", 2048, "packed page width limit")
	maxPageH  = flag.Int("max_page_height", 2048, "packed page height limit")
	banner    = flag.Bool("banner", true, "print the startup banner")

	spineBin       = flag.String("spine_bin", "", "path to the spine editor binary; empty disables import/export and .skel conversion")
	spineVersion   = flag.String("spine_version", "3.8", "editor version passed to the spine binary")
	exportSettings = flag.String("export_settings", "", "path to a .export.json settings file for the spine binary")
	spineTimeout   = flag.Duration("spine_timeout", 2*time.Minute, "deadline for each spine binary invocation")

	atlasPathFlag string
)

func main() {
	paths.SetupFilePathFlag("shared.atlas", "atlas_path", &atlasPathFlag)
	flagutil.Parse()

	if *banner {
		figure.NewFigure("atlassplit", "", true).Print()
	}

	atlasPath, anims, err := pipeline.Discover(*inputDir)
	if err != nil {
		glog.Exitf("discovering inputs: %v", err)
	}
	if atlasPathFlag != "" {
		atlasPath = atlasPathFlag
	}
	glog.Infof("atlas %s, %d animation(s)", atlasPath, len(anims))

	src, err := pipeline.LoadSource(atlasPath)
	if err != nil {
		glog.Exitf("loading source atlas: %v", err)
	}

	p := &pipeline.Pipeline{
		Source:         src,
		OutDir:         *outputDir,
		MaxPageW:       *maxPageW,
		MaxPageH:       *maxPageH,
		ConvertTimeout: *spineTimeout,
		Workers:        *workers,
	}
	if *spineBin != "" {
		tool := spinetool.New(*spineBin, *spineVersion)
		tool.ExportSettings = *exportSettings
		p.Converter = tool
	}

	report := p.Run(context.Background(), anims)
	for _, res := range report.Results {
		fmt.Println(res)
	}
	if !report.OK() {
		os.Exit(1)
	}
}
