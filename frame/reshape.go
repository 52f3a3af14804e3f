package frame

import (
	"sort"
)

// Drop returns t without the named columns. Every name must resolve.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[int]struct{}, len(names))
	for _, name := range names {
		j, err := t.lookup(name)
		if err != nil {
			return nil, err
		}
		drop[j] = struct{}{}
	}

	out := t.Copy()
	kept := out.cols[:0]
	for j, c := range out.cols {
		if _, skip := drop[j]; skip {
			continue
		}
		kept = append(kept, c)
	}
	out.cols = kept

	return out, nil
}

// DropMissing returns the rows of t that have no null cell in any column.
func (t *Table) DropMissing() *Table {
	rows := make([]int, 0, t.Len())
Rows:
	for i := 0; i < t.Len(); i++ {
		for _, c := range t.cols {
			if !c.Values[i].Valid {
				continue Rows
			}
		}
		rows = append(rows, i)
	}

	return t.take(rows)
}

// SetIndex promotes the named column to the row index. The column leaves the
// ordinary column set. Null cells become empty index labels.
func (t *Table) SetIndex(name string) (*Table, error) {
	j, err := t.lookup(name)
	if err != nil {
		return nil, err
	}

	col := t.cols[j]
	index := make([]string, len(col.Values))
	for i, v := range col.Values {
		index[i] = v.String
	}

	out, err := t.Drop(col.Label.String())
	if err != nil {
		return nil, err
	}
	out.IndexName = col.Name
	out.Index = index

	return out, nil
}

// Rename returns a copy of t with column names replaced according to m.
// Names absent from t are ignored. Every column whose Name matches is
// renamed, whatever its key.
func (t *Table) Rename(m map[string]string) (*Table, error) {
	labels := t.Labels()
	for j, l := range labels {
		if to, ok := m[l.Name]; ok {
			labels[j].Name = to
		}
	}
	if err := checkUnique(labels); err != nil {
		return nil, err
	}

	out := t.Copy()
	for j := range out.cols {
		out.cols[j].Label = labels[j]
	}

	return out, nil
}

// Select keeps the columns at the given zero-based positions and, if names is
// non-nil, relabels them. Positions are used in ascending order regardless of
// the order given, so names[k] labels the k'th smallest position. A nil
// positions keeps every column.
func (t *Table) Select(positions []int, names []string) (*Table, error) {
	if positions == nil {
		positions = make([]int, len(t.cols))
		for j := range positions {
			positions[j] = j
		}
	}

	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	for k, p := range sorted {
		if p < 0 || p >= len(t.cols) {
			return nil, invalidArgument("column position %d out of range [0,%d)", p, len(t.cols))
		}
		if k > 0 && sorted[k-1] == p {
			return nil, invalidArgument("column position %d given twice", p)
		}
	}
	if names != nil && len(names) != len(sorted) {
		return nil, invalidArgument("%d names given for %d columns", len(names), len(sorted))
	}

	cols := make([]Column, len(sorted))
	for k, p := range sorted {
		cols[k] = t.ColumnAt(p)
		if names != nil {
			cols[k].Label = Label{Name: names[k]}
		}
	}
	if err := checkUnique(labelsOf(cols)); err != nil {
		return nil, err
	}

	out := t.Copy()
	out.cols = cols

	return out, nil
}

// WithKey returns a copy of t whose column labels all carry key as their outer
// level.
func (t *Table) WithKey(key string) (*Table, error) {
	labels := t.Labels()
	for j := range labels {
		labels[j].Key = key
	}
	if err := checkUnique(labels); err != nil {
		return nil, err
	}

	out := t.Copy()
	for j := range out.cols {
		out.cols[j].Label = labels[j]
	}

	return out, nil
}

// DropKey returns a copy of t with the outer level removed from every column
// label. It fails with ErrInvalidArgument if two columns would then share a
// name.
func (t *Table) DropKey() (*Table, error) {
	return t.WithKey("")
}
