package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/prep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Level picks which part of a column label a filter looks at.
type Level int

const (
	NameLevel Level = iota
	KeyLevel
)

// Sample is one column of a combined table turned on its side: the values of
// every protein measured in one channel of one batch.
type Sample struct {
	Batch     string    `csv:"batch"`
	Label     string    `csv:"label"`
	Condition string    `csv:"condition"`
	Values    []float64 `csv:"-"`
}

// Samples transposes t into one Sample per column, skipping columns whose
// name is in exclude. A nil exclude skips the q-value and peptide score
// columns. Samples are ordered by label; columns with the same label keep
// their batch order.
func Samples(t *frame.Table, exclude []string) ([]Sample, error) {
	if exclude == nil {
		exclude = []string{prep.QScore, prep.PepScore}
	}

	return SamplesBy(t, NameLevel, exclude)
}

// SamplesBy is Samples with the exclusion applied to the chosen label level.
func SamplesBy(t *frame.Table, level Level, exclude []string) ([]Sample, error) {
	if level != NameLevel && level != KeyLevel {
		return nil, frame.InvalidArgument("unknown label level %d", level)
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, v := range exclude {
		skip[v] = struct{}{}
	}

	out := make([]Sample, 0, t.Width())
	for j, l := range t.Labels() {
		field := l.Name
		if level == KeyLevel {
			field = l.Key
		}
		if _, exists := skip[field]; exists {
			continue
		}

		out = append(out, Sample{
			Batch:     l.Key,
			Label:     l.Name,
			Condition: prep.Condition(l.Name),
			Values:    t.FloatAt(j),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })

	return out, nil
}

// CompleteFeatures keeps only the features (proteins) that are present and
// non-zero in every sample. It returns new samples and the positions of the
// kept features.
func CompleteFeatures(samples []Sample) ([]Sample, []int) {
	if len(samples) == 0 {
		return nil, nil
	}

	var kept []int
Features:
	for i := range samples[0].Values {
		for _, s := range samples {
			if i >= len(s.Values) || s.Values[i] == 0 || math.IsNaN(s.Values[i]) {
				continue Features
			}
		}
		kept = append(kept, i)
	}

	out := make([]Sample, len(samples))
	for k, s := range samples {
		out[k] = s
		out[k].Values = make([]float64, len(kept))
		for n, i := range kept {
			out[k].Values[n] = s.Values[i]
		}
	}

	return out, kept
}

// Point is a sample placed in the embedding.
type Point struct {
	Sample
	Coords []float64
}

// Embed projects the samples onto their first dims principal components.
// Every sample must have the same number of features and no missing values.
func Embed(samples []Sample, dims int) ([]Point, error) {
	if len(samples) < 2 {
		return nil, frame.InvalidArgument("need at least 2 samples to embed, have %d", len(samples))
	}
	n, d := len(samples), len(samples[0].Values)
	if d < 2 {
		return nil, frame.InvalidArgument("need at least 2 features to embed, have %d", d)
	}
	if dims < 1 || dims > n || dims > d {
		return nil, frame.InvalidArgument("cannot embed %d samples with %d features into %d dimensions", n, d, dims)
	}

	x := mat.NewDense(n, d, nil)
	for i, s := range samples {
		if len(s.Values) != d {
			return nil, frame.InvalidArgument("sample %s|%s has %d features, expected %d", s.Batch, s.Label, len(s.Values), d)
		}
		for j, v := range s.Values {
			if math.IsNaN(v) {
				return nil, frame.InvalidArgument("sample %s|%s has a missing value at feature %d", s.Batch, s.Label, j)
			}
			x.Set(i, j, v)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("principal component analysis failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	_, available := vecs.Dims()
	if dims > available {
		return nil, frame.InvalidArgument("only %d components available, asked for %d", available, dims)
	}

	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			x.Set(i, j, x.At(i, j)-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(x, vecs.Slice(0, d, 0, dims))

	out := make([]Point, n)
	for i, s := range samples {
		out[i] = Point{Sample: s, Coords: mat.Row(nil, i, &proj)}
	}

	return out, nil
}
