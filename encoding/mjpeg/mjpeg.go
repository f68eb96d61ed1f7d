// Package mjpeg streams filter snapshots as motion jpeg over HTTP, so the
// first conv layer of a network can be watched live while an external
// training process updates it.
package mjpeg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"math"
	"net/http"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/qnet"
	"github.com/mattn/go-mjpeg"
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

	dummyLongString = `distributional epoch 1000000`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// Encoder is a structure that encodes filter snapshots according to the
// qnet.OutputEncoder interface, serving them as an mjpeg stream.
type Encoder struct {
	H, W int
	font.Drawer

	stream *mjpeg.Stream
	face   font.Face

	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	enc.stream.ServeHTTP(w, r)
}

// NewEncoder returns a streaming Encoder. Mount it on a mux and point a
// browser at it.
func NewEncoder() *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		padH: 10,
		padW: 10,

		stream: mjpeg.NewStream(),
		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

// Encode a filter snapshot as one stream frame.
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

	im := image.NewRGBA(image.Rect(0, 0, enc.W, enc.H))
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

	var b bytes.Buffer
	if err := jpeg.Encode(&b, im, nil); err != nil {
		log.Println(err)
		return err
	}
	if err := enc.stream.Update(b.Bytes()); err != nil {
		log.Println(err)
		return err
	}
	return nil
}

func drawGrid(im *image.RGBA, grid []float32, h, w, x0, y0 int) {
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
			c := color.Gray{Y: gray}
			for yy := 0; yy < scale; yy++ {
				for xx := 0; xx < scale; xx++ {
					im.Set(x0+x*scale+xx, y0+y*scale+yy, c)
				}
			}
		}
	}
}

func (enc *Encoder) Flush() error { return nil }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
