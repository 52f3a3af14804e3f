package analysis

import (
	"log"
	"math"

	"github.com/carbocation/proteomisc/frame"
	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
)

// TSNEOptions controls EmbedTSNE.
type TSNEOptions struct {
	Perplexity   float64 `yaml:"perplexity"`
	LearningRate float64 `yaml:"learning_rate"`
	MaxIter      int     `yaml:"max_iter"`

	// PCADims is the number of principal components the samples are reduced
	// to before the neighbour embedding. Zero skips the reduction.
	PCADims int `yaml:"pca_dims"`

	Verbose bool `yaml:"verbose"`
}

func DefaultTSNEOptions() TSNEOptions {
	return TSNEOptions{
		Perplexity:   30,
		LearningRate: 200,
		MaxIter:      1000,
		PCADims:      40,
	}
}

// EmbedTSNE places the samples in dims dimensions with t-SNE, after reducing
// them to their leading principal components. Perplexity is capped at a third
// of the remaining samples, so small runs still have enough neighbours. The
// layout is random: only relative distances are meaningful.
func EmbedTSNE(samples []Sample, dims int, opt TSNEOptions) ([]Point, error) {
	if len(samples) < 3 {
		return nil, frame.InvalidArgument("need at least 3 samples for t-SNE, have %d", len(samples))
	}
	if dims < 1 {
		return nil, frame.InvalidArgument("cannot embed into %d dimensions", dims)
	}
	if opt.MaxIter < 1 || opt.LearningRate <= 0 || opt.Perplexity <= 0 {
		return nil, frame.InvalidArgument("t-SNE needs a positive perplexity, learning rate and iteration count, have %+v", opt)
	}

	n, d := len(samples), len(samples[0].Values)

	input := samples
	if opt.PCADims > 0 {
		k := min(opt.PCADims, n, d)
		reduced, err := Embed(samples, k)
		if err != nil {
			return nil, err
		}
		input = make([]Sample, n)
		for i, p := range reduced {
			input[i] = Sample{Values: p.Coords}
		}
		d = k
	}

	x := mat.NewDense(n, d, nil)
	for i, s := range input {
		if len(s.Values) != d {
			return nil, frame.InvalidArgument("sample %s|%s has %d features, expected %d", s.Batch, s.Label, len(s.Values), d)
		}
		for j, v := range s.Values {
			if math.IsNaN(v) {
				return nil, frame.InvalidArgument("sample %s|%s has a missing value at feature %d", s.Batch, s.Label, j)
			}
		}
		x.SetRow(i, s.Values)
	}

	perplexity := min(opt.Perplexity, float64(n-1)/3)
	if perplexity < 1 {
		perplexity = 1
	}

	var last float64
	model := tsne.NewTSNE(dims, perplexity, opt.LearningRate, opt.MaxIter, opt.Verbose)
	y := model.EmbedData(x, func(iter int, divergence float64, embedding mat.Matrix) bool {
		last = divergence
		return false
	})
	if opt.Verbose {
		log.Printf("t-SNE: %d samples, perplexity %.2f, final divergence %.4f\n", n, perplexity, last)
	}

	out := make([]Point, n)
	for i, s := range samples {
		out[i] = Point{Sample: s, Coords: mat.Row(nil, i, y)}
	}

	return out, nil
}
