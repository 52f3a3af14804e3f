package plot

import (
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/frame"
	"github.com/fogleman/gg"
)

// GroupBy chooses what colours the points of an embedding.
type GroupBy int

const (
	ByCondition GroupBy = iota
	ByBatch
)

func (g GroupBy) of(p analysis.Point) string {
	if g == ByBatch {
		return p.Batch
	}

	return p.Condition
}

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

const (
	embedSize   = 800
	embedMargin = 60
	dotRadius   = 5
)

// Embedding draws the first two coordinates of each point, coloured by group,
// with a legend in the top right corner.
func Embedding(w io.Writer, points []analysis.Point, group GroupBy, title string) error {
	if len(points) == 0 {
		return frame.InvalidArgument("no points to draw")
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	groups := make(map[string]color.Color)
	for _, p := range points {
		if len(p.Coords) < 1 {
			return frame.InvalidArgument("point %s|%s has no coordinates", p.Batch, p.Label)
		}
		x, y := coords(p)
		xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
		groups[group.of(p)] = nil
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		groups[name] = palette[i%len(palette)]
	}

	scale := func(v, lo, hi float64) float64 {
		if hi == lo {
			return 0.5
		}
		return (v - lo) / (hi - lo)
	}
	span := float64(embedSize - 2*embedMargin)

	dc := gg.NewContext(embedSize, embedSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(embedMargin, embedMargin, span, span)
	dc.Stroke()
	dc.DrawStringAnchored(title, embedSize/2, embedMargin/2, 0.5, 0.5)
	dc.DrawStringAnchored("dimension 1", embedSize/2, embedSize-embedMargin/2, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), embedMargin/2, embedSize/2)
	dc.DrawStringAnchored("dimension 2", embedMargin/2, embedSize/2, 0.5, 0.5)
	dc.Pop()

	for _, p := range points {
		x, y := coords(p)
		px := embedMargin + scale(x, xMin, xMax)*span
		py := embedMargin + (1-scale(y, yMin, yMax))*span

		dc.SetColor(groups[group.of(p)])
		dc.DrawCircle(px, py, dotRadius)
		dc.Fill()
	}

	for i, name := range names {
		ly := float64(embedMargin + 16 + 18*i)
		lx := float64(embedSize - embedMargin - 120)
		dc.SetColor(groups[name])
		dc.DrawCircle(lx, ly, dotRadius)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(name, lx+12, ly, 0, 0.35)
	}

	return dc.EncodePNG(w)
}

// coords returns the first two coordinates; a one-dimensional embedding is
// drawn on a line.
func coords(p analysis.Point) (float64, float64) {
	if len(p.Coords) < 2 {
		return p.Coords[0], 0
	}

	return p.Coords[0], p.Coords[1]
}
