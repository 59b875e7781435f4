// Package preview renders atlas pages and extracted regions for quick
// inspection on a terminal: colored-cell output, inline images on capable
// terminals, region outlines and animation strips as GIF.
package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/draw"
	"image/png"

	"github.com/BourgeoisBear/rasterm"
	"github.com/gookit/color"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/spine-split/atlas"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}
type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

func shade(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA > 0 {
		var d dumper

		if noColor {
			d = &fmtDumper
		} else if escapesTrueColor {
			fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR), uint8(cG), uint8(cB))
			d = &fmtDumper
		} else {
			d = color.RGB(uint8(cR), uint8(cG), uint8(cB), true)
		}
		if blanks {
			d.Printf("  ")
		} else {
			a := ((cR + cG + cB) / 3) >> 8
			switch {
			case a < 32:
				d.Printf("..")
			case a < 64:
				d.Printf("--")
			case a < 128:
				d.Printf("==")
			default:
				d.Printf("##")
			}
		}

		if escapesTrueColor {
			fmt.Printf("\x1b[0m")
		}
	} else {
		fmt.Printf("\x1b[0m  ")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), false, blanks, false)
		}
		fmt.Printf("\x1b[0m")
		fmt.Printf("\n")
	}
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, false)
		}
		fmt.Printf("\x1b[0m")
		fmt.Printf("\n")
	}
}

// PrintNoColor draws an image without using color escape sequences. Only makes sense with blanks=false.
func PrintNoColor(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, true)
		}
		fmt.Printf("\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(i image.Image, fn string) {
	if !rasterm.IsTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	fmt.Printf("\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, len(b.String()), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}

// Thumbnail shrinks an image to comfortably fit the terminal. Pixel
// dimensions are preferred when the terminal reports them and an image
// renderer is in play; otherwise the cell grid bounds the colored-cell
// renderers.
func Thumbnail(img image.Image, pixelRenderer bool) image.Image {
	termSize, err := GetTermSize()
	if err != nil {
		return img
	}
	if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && pixelRenderer {
		return resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
	}
	return resize.Thumbnail(termSize.WSRow/2, termSize.WSCol/2, img, resize.Lanczos3)
}

var (
	outlineUpright = ic.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	outlineRotated = ic.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
)

// Outline copies a page image and draws a one pixel border around every
// region's stored rectangle. Rotated regions get a different color, since
// their stored rectangle is the transposed one.
func Outline(pageImg image.Image, page *atlas.Page) *image.NRGBA {
	out := image.NewNRGBA(pageImg.Bounds())
	draw.Draw(out, out.Bounds(), pageImg, pageImg.Bounds().Min, draw.Src)
	for _, r := range page.Regions {
		c := outlineUpright
		if r.Rotate {
			c = outlineRotated
		}
		rect := r.Rect().Add(out.Bounds().Min)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			out.SetNRGBA(x, rect.Min.Y, c)
			out.SetNRGBA(x, rect.Max.Y-1, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			out.SetNRGBA(rect.Min.X, y, c)
			out.SetNRGBA(rect.Max.X-1, y, c)
		}
	}
	return out
}
