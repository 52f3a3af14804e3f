package frame

import (
	"strconv"

	"gopkg.in/guregu/null.v3"
)

type Axis int

const (
	// Rows stacks tables on top of each other.
	Rows Axis = iota
	// Columns places tables side by side, aligned on the row index.
	Columns
)

func ParseAxis(s string) (Axis, error) {
	switch s {
	case "0", "rows", "index", "":
		return Rows, nil
	case "1", "columns":
		return Columns, nil
	}

	return Rows, invalidArgument("unknown axis %q", s)
}

type Join int

const (
	Outer Join = iota
	Inner
)

func ParseJoin(s string) (Join, error) {
	switch s {
	case "outer", "":
		return Outer, nil
	case "inner":
		return Inner, nil
	}

	return Outer, invalidArgument("unknown join %q", s)
}

// Concat combines tables along axis. If keys is non-empty it must have one
// entry per table, and each table's contribution is tagged with its key: as
// the outer column label when axis is Columns, and as IndexKeys when axis is
// Rows.
//
// Along Columns, rows are aligned on the index, which must be unique within
// each table. Inner keeps the index labels present in every table, in the
// order of the first; Outer keeps every label in first-seen order and fills
// gaps with nulls. Along Rows, Inner keeps the columns present in every table
// and Outer keeps all of them.
func Concat(tables []*Table, keys []string, axis Axis, join Join) (*Table, error) {
	if len(tables) == 0 {
		return nil, invalidArgument("no tables to concatenate")
	}
	if len(keys) > 0 && len(keys) != len(tables) {
		return nil, invalidArgument("%d keys given for %d tables", len(keys), len(tables))
	}

	switch axis {
	case Columns:
		return concatColumns(tables, keys, join)
	case Rows:
		return concatRows(tables, keys, join)
	}

	return nil, invalidArgument("unknown axis %d", axis)
}

func concatColumns(tables []*Table, keys []string, join Join) (*Table, error) {
	positions := make([]map[string]int, len(tables))
	for k, t := range tables {
		positions[k] = make(map[string]int, t.Len())
		for i, label := range t.Index {
			if _, exists := positions[k][label]; exists {
				return nil, invalidArgument("table %d has a repeated index label %q; cannot align", k, label)
			}
			positions[k][label] = i
		}
	}

	var index []string
	switch join {
	case Inner:
	Labels:
		for _, label := range tables[0].Index {
			for k := 1; k < len(tables); k++ {
				if _, exists := positions[k][label]; !exists {
					continue Labels
				}
			}
			index = append(index, label)
		}
	case Outer:
		seen := make(map[string]struct{})
		for _, t := range tables {
			for _, label := range t.Index {
				if _, exists := seen[label]; exists {
					continue
				}
				seen[label] = struct{}{}
				index = append(index, label)
			}
		}
	default:
		return nil, invalidArgument("unknown join %d", join)
	}

	cols := make([]Column, 0)
	for k, t := range tables {
		for _, c := range t.cols {
			label := c.Label
			if len(keys) > 0 {
				label.Key = keys[k]
			}
			vals := make([]null.String, len(index))
			for i, row := range index {
				if src, exists := positions[k][row]; exists {
					vals[i] = c.Values[src]
				}
			}
			cols = append(cols, Column{Label: label, Values: vals})
		}
	}
	if err := checkUnique(labelsOf(cols)); err != nil {
		return nil, err
	}

	if index == nil {
		index = []string{}
	}

	return &Table{
		IndexName: tables[0].IndexName,
		Index:     index,
		cols:      cols,
	}, nil
}

func concatRows(tables []*Table, keys []string, join Join) (*Table, error) {
	var labels []Label
	switch join {
	case Inner:
	Labels:
		for _, l := range tables[0].Labels() {
			for k := 1; k < len(tables); k++ {
				if !hasLabel(tables[k], l) {
					continue Labels
				}
			}
			labels = append(labels, l)
		}
	case Outer:
		seen := make(map[Label]struct{})
		for _, t := range tables {
			for _, l := range t.Labels() {
				if _, exists := seen[l]; exists {
					continue
				}
				seen[l] = struct{}{}
				labels = append(labels, l)
			}
		}
	default:
		return nil, invalidArgument("unknown join %d", join)
	}

	out := &Table{IndexName: tables[0].IndexName, Index: []string{}}
	if len(keys) > 0 {
		out.IndexKeys = []string{}
	}
	for k, t := range tables {
		out.Index = append(out.Index, t.Index...)
		switch {
		case len(keys) > 0:
			for range t.Index {
				out.IndexKeys = append(out.IndexKeys, keys[k])
			}
		case t.IndexKeys != nil:
			if out.IndexKeys == nil {
				out.IndexKeys = make([]string, len(out.Index)-t.Len())
			}
			out.IndexKeys = append(out.IndexKeys, t.IndexKeys...)
		case out.IndexKeys != nil:
			out.IndexKeys = append(out.IndexKeys, make([]string, t.Len())...)
		}
	}

	out.cols = make([]Column, len(labels))
	for j, l := range labels {
		vals := make([]null.String, 0, len(out.Index))
		for _, t := range tables {
			src := -1
			for jj, c := range t.cols {
				if c.Label == l {
					src = jj
					break
				}
			}
			if src < 0 {
				vals = append(vals, make([]null.String, t.Len())...)
				continue
			}
			vals = append(vals, t.cols[src].Values...)
		}
		out.cols[j] = Column{Label: l, Values: vals}
	}

	return out, nil
}

func hasLabel(t *Table, l Label) bool {
	for _, c := range t.cols {
		if c.Label == l {
			return true
		}
	}

	return false
}

// DefaultKeys returns "1".."n", the batch keys used when none are given.
func DefaultKeys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}

	return out
}
