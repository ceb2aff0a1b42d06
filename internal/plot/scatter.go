// Package plot renders small scatter charts to PNG.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type Point struct {
	X, Y  float64
	Group string
}

type Scatter struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

const (
	marginLeft   = 80
	marginRight  = 170
	marginTop    = 50
	marginBottom = 60
	ticks        = 5
	markerRadius = 5
)

var palette = []color.RGBA{
	{R: 68, G: 1, B: 84, A: 255},
	{R: 253, G: 231, B: 37, A: 255},
	{R: 33, G: 145, B: 140, A: 255},
	{R: 59, G: 82, B: 139, A: 255},
	{R: 94, G: 201, B: 98, A: 255},
}

var (
	black = color.RGBA{A: 255}
	grey  = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Groups returns the distinct point groups in first-appearance order.
// Colors are assigned in this order.
func (s *Scatter) Groups() []string {
	var groups []string
	seen := map[string]bool{}
	for _, p := range s.Points {
		if !seen[p.Group] {
			seen[p.Group] = true
			groups = append(groups, p.Group)
		}
	}
	return groups
}

// GroupColor is the marker color used for group.
func (s *Scatter) GroupColor(group string) color.RGBA {
	for i, g := range s.Groups() {
		if g == group {
			return palette[i%len(palette)]
		}
	}
	return black
}

// axis maps data values in [min, max] onto pixels [from, to].
type axis struct {
	min, max float64
	from, to float64
}

func (a axis) px(v float64) float64 {
	return a.from + (v-a.min)/(a.max-a.min)*(a.to-a.from)
}

func span(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 1
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func (s *Scatter) Render(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	x0, x1 := float64(marginLeft), float64(width-marginRight)
	y0, y1 := float64(height-marginBottom), float64(marginTop)

	xa := axis{from: x0, to: x1}
	xa.min, xa.max = span(xs)
	ya := axis{from: y0, to: y1}
	ya.min, ya.max = span(ys)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineWidth(1)

	for i := 0; i <= ticks; i++ {
		xv := xa.min + (xa.max-xa.min)*float64(i)/ticks
		px := xa.px(xv)
		line(gc, grey, px, y0, px, y1)
		line(gc, black, px, y0, px, y0+5)
		label := formatTick(xv)
		text(img, label, int(px)-textWidth(label)/2, int(y0)+20)

		yv := ya.min + (ya.max-ya.min)*float64(i)/ticks
		py := ya.px(yv)
		line(gc, grey, x0, py, x1, py)
		line(gc, black, x0-5, py, x0, py)
		label = formatTick(yv)
		text(img, label, int(x0)-8-textWidth(label), int(py)+4)
	}

	gc.BeginPath()
	gc.SetStrokeColor(black)
	draw2dkit.Rectangle(gc, x0, y1, x1, y0)
	gc.Stroke()

	for _, p := range s.Points {
		c := s.GroupColor(p.Group)
		gc.BeginPath()
		gc.SetFillColor(c)
		gc.SetStrokeColor(black)
		draw2dkit.Circle(gc, xa.px(p.X), ya.px(p.Y), markerRadius)
		gc.FillStroke()
	}

	for i, g := range s.Groups() {
		ly := float64(marginTop + 10 + i*20)
		lx := x1 + 20
		gc.BeginPath()
		gc.SetFillColor(s.GroupColor(g))
		gc.SetStrokeColor(black)
		draw2dkit.Circle(gc, lx, ly, markerRadius)
		gc.FillStroke()
		text(img, g, int(lx)+12, int(ly)+4)
	}

	text(img, s.Title, (width-textWidth(s.Title))/2, marginTop/2+4)
	text(img, s.XLabel, int(x0+x1)/2-textWidth(s.XLabel)/2, height-15)
	text(img, s.YLabel, 8, marginTop-12)

	return img
}

func (s *Scatter) SavePNG(path string, width, height int) error {
	if err := draw2dimg.SaveToPngFile(path, s.Render(width, height)); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func line(gc *draw2dimg.GraphicContext, c color.Color, ax, ay, bx, by float64) {
	gc.BeginPath()
	gc.SetStrokeColor(c)
	gc.MoveTo(ax, ay)
	gc.LineTo(bx, by)
	gc.Stroke()
}

func text(img *image.RGBA, s string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1000 || (v != 0 && math.Abs(v) < 0.01) {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
