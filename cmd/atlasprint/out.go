package main

import (
	"flag"
	"image"

	"badc0de.net/pkg/spine-split/preview"
)

var (
	col      = flag.Bool("col", true, "whether to use color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rastermF = flag.Bool("rasterm", false, "whether to print with rasterm (kitty, iterm, sixel)")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink the image to fit the terminal")
)

func out(img image.Image) {
	if *downsize {
		img = preview.Thumbnail(img, *rastermF || *iterm)
	}

	if *rastermF {
		preview.PrintRasTerm(img)
	} else if !*col {
		preview.PrintNoColor(img, *blanks)
	} else if *iterm {
		preview.PrintITerm(img, "image.png")
	} else if *col256 {
		preview.Print256Color(img, *blanks)
	} else {
		preview.Print24bit(img, *blanks)
	}
}
