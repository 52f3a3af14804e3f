// Package analysis derives plot-ready data from a combined table: per-protein
// volcano statistics, per-sample feature vectors and their low-dimensional
// embedding, and column summaries.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/prep"
	"gonum.org/v1/gonum/stat"
)

type Class string

const (
	SigUnder       Class = "Sig. Under"
	NotSignificant Class = "N.S."
	SigOver        Class = "Sig. Over"
)

type VolcanoOptions struct {
	// FoldCut is the |log2(fold change)| at or beyond which a protein counts
	// as changed. 0.585 is a fold change of 1.5.
	FoldCut float64 `yaml:"fold_cut"`

	// QCut is the -log10(q) at or above which a change is significant.
	// 1.301 is q = 0.05.
	QCut float64 `yaml:"q_cut"`

	// QFloor replaces a mean q-value of exactly zero so that its log is
	// finite.
	QFloor float64 `yaml:"q_floor"`

	QScore     string   `yaml:"q_score"`
	Conditions []string `yaml:"conditions"`
}

func DefaultVolcanoOptions() VolcanoOptions {
	return VolcanoOptions{
		FoldCut:    0.585,
		QCut:       1.301,
		QFloor:     1e-6,
		QScore:     prep.QScore,
		Conditions: []string{"ad", "pd", "adpd"},
	}
}

// Classify places a point relative to the cut-offs. Points on a cut-off
// count as beyond it.
func (opt VolcanoOptions) Classify(log2Fold, negLog10Q float64) Class {
	switch {
	case negLog10Q >= opt.QCut && log2Fold >= opt.FoldCut:
		return SigOver
	case negLog10Q >= opt.QCut && log2Fold <= -opt.FoldCut:
		return SigUnder
	}

	return NotSignificant
}

type VolcanoPoint struct {
	Accession string  `csv:"accession"`
	Condition string  `csv:"condition"`
	MeanRatio float64 `csv:"mean_ratio"`
	MeanQ     float64 `csv:"mean_q_score"`
	Log2Fold  float64 `csv:"log2_fold"`
	NegLog10Q float64 `csv:"neg_log10_q"`
	Class     Class   `csv:"class"`
}

// Volcano averages each condition's abundance ratios across batches and
// replicates, and the q-values likewise, for every protein in t. Columns are
// grouped by name with the batch key ignored and any trailing replicate digit
// 1 or 2 removed, so "2|ADPD1" belongs to condition "adpd". Missing cells are
// skipped when averaging. Points are returned condition by condition, in
// row order.
func Volcano(t *frame.Table, opt VolcanoOptions) ([]VolcanoPoint, error) {
	groups := groupColumns(t)

	qCols, exists := groups[VolcanoGroup(opt.QScore)]
	if !exists {
		return nil, fmt.Errorf("volcano: %w: %s", frame.ErrMissingColumn, opt.QScore)
	}
	meanQ := rowMeans(t, qCols)
	for i, q := range meanQ {
		if q == 0 {
			meanQ[i] = opt.QFloor
		}
	}

	out := make([]VolcanoPoint, 0, t.Len()*len(opt.Conditions))
	for _, condition := range opt.Conditions {
		cols, exists := groups[VolcanoGroup(condition)]
		if !exists {
			return nil, fmt.Errorf("volcano: %w: no columns for condition %s", frame.ErrMissingColumn, condition)
		}

		for i, ratio := range rowMeans(t, cols) {
			p := VolcanoPoint{
				Accession: t.Index[i],
				Condition: VolcanoGroup(condition),
				MeanRatio: ratio,
				MeanQ:     meanQ[i],
				Log2Fold:  math.Log2(ratio),
				NegLog10Q: -math.Log10(meanQ[i]),
			}
			p.Class = opt.Classify(p.Log2Fold, p.NegLog10Q)
			out = append(out, p)
		}
	}

	return out, nil
}

// VolcanoGroup names the column group a volcano condition averages over. It
// strips trailing replicate digits 1 and 2 and lower-cases the rest: "ADPD1"
// and "adpd2" are "adpd", and "q_score" is only lower-cased. Unlike
// prep.Condition it keeps inner digits, so "ab3c1" is "ab3c".
func VolcanoGroup(name string) string {
	return strings.ToLower(strings.TrimRight(name, "12"))
}

func groupColumns(t *frame.Table) map[string][]int {
	groups := make(map[string][]int)
	for j, l := range t.Labels() {
		c := VolcanoGroup(l.Name)
		groups[c] = append(groups[c], j)
	}

	return groups
}

// rowMeans averages the given columns of t within each row, ignoring NaN. A
// row with no values gets NaN.
func rowMeans(t *frame.Table, cols []int) []float64 {
	data := make([][]float64, len(cols))
	for k, j := range cols {
		data[k] = t.FloatAt(j)
	}

	out := make([]float64, t.Len())
	row := make([]float64, 0, len(cols))
	for i := range out {
		row = row[:0]
		for k := range cols {
			if v := data[k][i]; !math.IsNaN(v) {
				row = append(row, v)
			}
		}
		if len(row) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(row, nil)
	}

	return out
}
