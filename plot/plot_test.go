package plot

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/frame"
)

func TestVolcanoRendersPNG(t *testing.T) {
	opt := DefaultVolcanoOptions()
	points := []analysis.VolcanoPoint{
		{Accession: "P1", Condition: "ad", Log2Fold: 1.2, NegLog10Q: 3, Class: analysis.SigOver},
		{Accession: "P2", Condition: "ad", Log2Fold: -1.4, NegLog10Q: 2, Class: analysis.SigUnder},
		{Accession: "P3", Condition: "ad", Log2Fold: 0.1, NegLog10Q: 0.2, Class: analysis.NotSignificant},
		{Accession: "P4", Condition: "ad", Log2Fold: math.NaN(), NegLog10Q: 1, Class: analysis.NotSignificant},
		{Accession: "P1", Condition: "pd", Log2Fold: 9, NegLog10Q: 9, Class: analysis.SigOver},
	}

	var buf bytes.Buffer
	if err := Volcano(&buf, points, "AD", opt); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != opt.Width || b.Dy() != opt.Height {
		t.Errorf("Got a %dx%d image, expected %dx%d", b.Dx(), b.Dy(), opt.Width, opt.Height)
	}
}

func TestEmbeddingRendersPNG(t *testing.T) {
	points := []analysis.Point{
		{Sample: analysis.Sample{Batch: "1", Label: "AD1", Condition: "ad"}, Coords: []float64{-1, 0.5}},
		{Sample: analysis.Sample{Batch: "2", Label: "PD1", Condition: "pd"}, Coords: []float64{2, -0.5}},
		{Sample: analysis.Sample{Batch: "2", Label: "Control1", Condition: "control"}, Coords: []float64{0}},
	}

	for _, group := range []GroupBy{ByCondition, ByBatch} {
		var buf bytes.Buffer
		if err := Embedding(&buf, points, group, "frontal tsne_label"); err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != embedSize || b.Dy() != embedSize {
			t.Errorf("Got a %dx%d image", b.Dx(), b.Dy())
		}
	}

	if err := Embedding(&bytes.Buffer{}, nil, ByCondition, ""); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument with no points, got %v", err)
	}
}
