// Package plot renders volcano plots and sample embeddings as PNG images.
package plot

import (
	"io"
	"math"
	"strings"

	"github.com/carbocation/proteomisc/analysis"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type VolcanoOptions struct {
	Cuts   analysis.VolcanoOptions
	Title  string
	Width  int
	Height int
}

func DefaultVolcanoOptions() VolcanoOptions {
	return VolcanoOptions{
		Cuts:   analysis.DefaultVolcanoOptions(),
		Width:  800,
		Height: 600,
	}
}

var classColors = map[analysis.Class]drawing.Color{
	analysis.SigUnder:       {R: 220, G: 30, B: 30, A: 255},
	analysis.NotSignificant: {R: 0, G: 0, B: 0, A: 255},
	analysis.SigOver:        {R: 30, G: 170, B: 30, A: 255},
}

// Volcano draws the points of one condition: log2 fold change across,
// -log10 q up, coloured by class, with dashed lines at the cut-offs. Points
// that are not finite are left out.
func Volcano(w io.Writer, points []analysis.VolcanoPoint, condition string, opt VolcanoOptions) error {
	condition = analysis.VolcanoGroup(condition)

	type xy struct{ X, Y []float64 }
	byClass := make(map[analysis.Class]*xy)
	xMin, xMax, yMax := -opt.Cuts.FoldCut, opt.Cuts.FoldCut, opt.Cuts.QCut
	for _, p := range points {
		if p.Condition != condition || !finite(p.Log2Fold) || !finite(p.NegLog10Q) {
			continue
		}
		s, exists := byClass[p.Class]
		if !exists {
			s = &xy{}
			byClass[p.Class] = s
		}
		s.X = append(s.X, p.Log2Fold)
		s.Y = append(s.Y, p.NegLog10Q)

		xMin, xMax, yMax = math.Min(xMin, p.Log2Fold), math.Max(xMax, p.Log2Fold), math.Max(yMax, p.NegLog10Q)
	}

	series := []chart.Series{}
	for _, class := range []analysis.Class{analysis.SigUnder, analysis.NotSignificant, analysis.SigOver} {
		s, exists := byClass[class]
		if !exists {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name: string(class),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    2,
				DotColor:    classColors[class],
			},
			XValues: s.X,
			YValues: s.Y,
		})
	}

	dashed := chart.Style{
		StrokeColor:     drawing.ColorFromHex("888888"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}
	series = append(series,
		chart.ContinuousSeries{Name: "fold cut-off", Style: dashed, XValues: []float64{-opt.Cuts.FoldCut, -opt.Cuts.FoldCut}, YValues: []float64{0, yMax}},
		chart.ContinuousSeries{Name: "fold cut-off", Style: dashed, XValues: []float64{opt.Cuts.FoldCut, opt.Cuts.FoldCut}, YValues: []float64{0, yMax}},
		chart.ContinuousSeries{Name: "q cut-off", Style: dashed, XValues: []float64{xMin, xMax}, YValues: []float64{opt.Cuts.QCut, opt.Cuts.QCut}},
	)

	title := opt.Title
	if title == "" {
		title = strings.ToUpper(condition)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  opt.Width,
		Height: opt.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "log2(fold change)",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "-log10(q-score)",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
