// Package gif renders filter snapshots into an animated gif, one frame per
// snapshot. Watching the first conv layer evolve over training epochs is a
// cheap way to see whether a network is learning anything at all.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/qnet"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 144.0
	fontsize   = 12.0
	lineheight = 1.2

	scale = 4 // pixels per filter weight
	gap   = 2 // pixels between tiles
	delay = 50

	dummyLongString = `distributional epoch 1000000`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = grayPalette()

func grayPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

// Encoder is a structure that encodes filter snapshots according to the
// qnet.OutputEncoder interface.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewEncoder returns an Encoder writing to w on Flush.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		padH: 10,
		padW: 10,

		Writer: w,
		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode a filter snapshot as one gif frame.
func (enc *Encoder) Encode(fs qnet.FilterSet) error {
	if len(fs.Grids) == 0 {
		return fmt.Errorf("empty filter set")
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(fs.Grids)))))
	rows := (len(fs.Grids) + cols - 1) / cols
	tileW := fs.W * scale
	tileH := fs.H * scale
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))

	if !enc.initialized {
		// lazy init of specifications; every snapshot must share a geometry
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		enc.W = 2*enc.padW + cols*tileW + (cols-1)*gap
		enc.H = 2*enc.padH + rows*tileH + (rows-1)*gap + 2*dy
		// the geometry is frozen now, so size the caption line for the
		// longest caption that may come later, not just the first one
		caption := fmt.Sprintf("%s epoch %d", fs.Name, fs.Epoch)
		maxW := maxInt(font.MeasureString(enc.Face, caption).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		if w := maxW + 2*enc.padW; w > enc.W {
			enc.W = w
		}
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.ZP, draw.Src)

	for k, grid := range fs.Grids {
		r := k / cols
		c := k % cols
		x0 := enc.padW + c*(tileW+gap)
		y0 := enc.padH + r*(tileH+gap)
		drawGrid(im, grid, fs.H, fs.W, x0, y0)
	}

	enc.Dst = im
	enc.Dot = fixed.P(enc.padW, enc.H-enc.padH)
	enc.DrawString(fmt.Sprintf("%s epoch %d", fs.Name, fs.Epoch))

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// drawGrid draws one filter as a tile of gray pixels, weights normalized to
// the filter's own range.
func drawGrid(im *image.Paletted, grid []float32, h, w, x0, y0 int) {
	min, max := grid[0], grid[0]
	for _, v := range grid {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := uint8(128)
			if span > 0 {
				gray = uint8(255 * (grid[y*w+x] - min) / span)
			}
			for yy := 0; yy < scale; yy++ {
				for xx := 0; xx < scale; xx++ {
					im.SetColorIndex(x0+x*scale+xx, y0+y*scale+yy, gray)
				}
			}
		}
	}
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
