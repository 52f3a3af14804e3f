package analysis

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/carbocation/proteomisc/frame"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
)

type ColumnSummary struct {
	Column  string  `csv:"column"`
	Count   int     `csv:"count"`
	Missing int     `csv:"missing"`
	Mean    float64 `csv:"mean"`
	Median  float64 `csv:"median"`
	StdDev  float64 `csv:"std"`
	Min     float64 `csv:"min"`
	Max     float64 `csv:"max"`
}

// Describe summarizes every column of t. Missing and non-numeric cells are
// counted as missing; statistics that cannot be computed are NaN.
func Describe(t *frame.Table) ([]ColumnSummary, error) {
	out := make([]ColumnSummary, 0, t.Width())
	for j, l := range t.Labels() {
		values := t.FloatAt(j)

		data := make(stats.Float64Data, 0, len(values))
		for _, v := range values {
			if !math.IsNaN(v) {
				data = append(data, v)
			}
		}

		summary := ColumnSummary{
			Column:  l.String(),
			Count:   data.Len(),
			Missing: len(values) - data.Len(),
			Mean:    math.NaN(),
			Median:  math.NaN(),
			StdDev:  math.NaN(),
			Min:     math.NaN(),
			Max:     math.NaN(),
		}
		if data.Len() < 1 {
			out = append(out, summary)
			continue
		}

		var err error
		if summary.Mean, err = stats.Mean(data); err != nil {
			return nil, err
		}
		if summary.Median, err = stats.Median(data); err != nil {
			return nil, err
		}
		if summary.Min, err = stats.Min(data); err != nil {
			return nil, err
		}
		if summary.Max, err = stats.Max(data); err != nil {
			return nil, err
		}
		if data.Len() > 1 {
			if summary.StdDev, err = stats.StandardDeviationSample(data); err != nil {
				return nil, err
			}
		}

		out = append(out, summary)
	}

	return out, nil
}

// WriteTSV writes a slice of records with csv struct tags (such as
// []VolcanoPoint or []ColumnSummary) as tab-delimited text with a header.
func WriteTSV(w io.Writer, records interface{}) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw))
}
