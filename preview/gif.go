package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// AnimationGIF assembles frames into a looping GIF, one frame per extracted
// region image in order. delay is per frame, in hundredths of a second.
// Every frame is quantized to its own 256 color palette.
func AnimationGIF(frames []image.Image, delay int) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames")
	}

	var w, h int
	for _, f := range frames {
		if f.Bounds().Dx() > w {
			w = f.Bounds().Dx()
		}
		if f.Bounds().Dy() > h {
			h = f.Bounds().Dy()
		}
	}
	bounds := image.Rect(0, 0, w, h)

	g := &gif.GIF{LoopCount: 0}
	q := quantize.MedianCutQuantizer{AddTransparent: true}
	for _, f := range frames {
		pal := q.Quantize(make(color.Palette, 0, 256), f)
		p := image.NewPaletted(bounds, pal)
		draw.Draw(p, image.Rectangle{Max: f.Bounds().Size()}, f, f.Bounds().Min, draw.Src)
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g, nil
}
