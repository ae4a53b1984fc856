package media

import (
	"fmt"
	"image"
	"iter"
	"math"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

const (
	// Block is the unit drawn for one sampled pixel. Two cells wide so a
	// square grid looks square in a terminal.
	Block = "██"
	// EmptyBlock takes the place of a transparent pixel.
	EmptyBlock = "  "
)

// Pixel is one sample of a decoded image. Alpha is in [0,1] and only
// meaningful when HasAlpha is set; otherwise the pixel is opaque.
type Pixel struct {
	R, G, B  uint8
	A        float64
	HasAlpha bool
}

// Opaque returns a pixel with no alpha channel.
func Opaque(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// Translucent returns a pixel with alpha a.
func Translucent(r, g, b uint8, a float64) Pixel {
	return Pixel{R: r, G: g, B: b, A: a, HasAlpha: true}
}

// Encode renders p as a truecolor block. A pixel with alpha exactly 0 encodes
// to the empty string. Other alpha values are premultiplied against black.
func Encode(p Pixel) string {
	if p.HasAlpha && p.A == 0 {
		return ""
	}
	r, g, b := p.R, p.G, p.B
	if p.HasAlpha && p.A != 1 {
		r, g, b = premultiply(r, p.A), premultiply(g, p.A), premultiply(b, p.A)
	}
	return fmt.Sprintf("%s%s;2;%d;%d;%dm%s%s%sm",
		termenv.CSI, termenv.Foreground, r, g, b, Block, termenv.CSI, termenv.ResetSeq)
}

func premultiply(c uint8, a float64) uint8 {
	v := math.Round(float64(c) * a)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// Grid is a square sample of an image, Width rows of Width pixels.
type Grid struct {
	Width  int
	Pixels [][]Pixel
}

// Sample scales img into a width×width grid preserving its aspect ratio and
// centring it. Cells the image does not cover are fully transparent.
func Sample(img image.Image, width int) Grid {
	if width <= 0 {
		return Grid{}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, width))

	b := img.Bounds()
	if !b.Empty() {
		tw, th := containFit(b.Dx(), b.Dy(), width)
		ox, oy := (width-tw)/2, (width-th)/2
		draw.CatmullRom.Scale(dst, image.Rect(ox, oy, ox+tw, oy+th), img, b, draw.Src, nil)
	}

	grid := Grid{Width: width, Pixels: make([][]Pixel, width)}
	for y := 0; y < width; y++ {
		row := make([]Pixel, width)
		for x := 0; x < width; x++ {
			c := dst.NRGBAAt(x, y)
			row[x] = Translucent(c.R, c.G, c.B, float64(c.A)/255)
		}
		grid.Pixels[y] = row
	}
	return grid
}

// containFit returns the size of a w×h image scaled to fit a side×side box.
func containFit(w, h, side int) (int, int) {
	if w >= h {
		th := int(math.Round(float64(h) * float64(side) / float64(w)))
		return side, max(1, th)
	}
	tw := int(math.Round(float64(w) * float64(side) / float64(h)))
	return max(1, tw), side
}

// Rows yields one encoded line per grid row. Ranging over it again encodes
// the rows again.
func (g Grid) Rows() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, row := range g.Pixels {
			var sb strings.Builder
			for _, p := range row {
				if s := Encode(p); s != "" {
					sb.WriteString(s)
				} else {
					sb.WriteString(EmptyBlock)
				}
			}
			if !yield(sb.String()) {
				return
			}
		}
	}
}

// String renders the whole grid, rows separated by newlines.
func (g Grid) String() string {
	lines := make([]string, 0, len(g.Pixels))
	for row := range g.Rows() {
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
