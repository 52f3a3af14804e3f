// Package frame holds the in-memory Table used throughout proteomisc, plus the
// column and row cleaning operations that are applied to each ingested file.
package frame

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// KeySep separates the provenance key from the name when a hierarchical label
// is flattened to text.
const KeySep = "|"

// DefaultMissing lists the cell values that are read as missing.
var DefaultMissing = []string{"", "NA", "NaN", "nan", "N/A", "#N/A", "NULL", "null"}

// Label is a column (or row) label. Key is the optional outer level, e.g. the
// batch that a column came from after concatenation.
type Label struct {
	Key  string
	Name string
}

func (l Label) String() string {
	if l.Key == "" {
		return l.Name
	}

	return l.Key + KeySep + l.Name
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) Label {
	if i := strings.Index(s, KeySep); i >= 0 {
		return Label{Key: s[:i], Name: s[i+len(KeySep):]}
	}

	return Label{Name: s}
}

type Column struct {
	Label
	Values []null.String
}

// Table is an ordered collection of named columns aligned by row position,
// plus a row index. Column labels are unique at all times.
//
// Methods that return a *Table never modify the receiver. The InPlace
// variants modify the receiver and must not be called concurrently on the
// same Table.
type Table struct {
	IndexName string
	Index     []string

	// IndexKeys is the outer level of the row index. It is nil unless the
	// table was built by stacking tables with provenance keys.
	IndexKeys []string

	cols []Column
}

// New builds a Table from a header and text records, as produced by a
// delimited-text reader. Cells that equal one of the missing tokens become
// null; short records are padded with nulls. Duplicate header names are made
// unique by appending ".1", ".2", ... to later occurrences. The row index
// holds row positions.
func New(names []string, records [][]string, missing []string) (*Table, error) {
	if missing == nil {
		missing = DefaultMissing
	}
	isMissing := make(map[string]struct{}, len(missing))
	for _, v := range missing {
		isMissing[v] = struct{}{}
	}

	names = dedupeNames(names)

	cols := make([]Column, len(names))
	for j, name := range names {
		cols[j] = Column{Label: Label{Name: name}, Values: make([]null.String, len(records))}
	}

	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, invalidArgument("record %d has %d fields but the header has %d", i, len(rec), len(names))
		}
		for j := range names {
			if j >= len(rec) {
				continue
			}
			if _, miss := isMissing[rec[j]]; miss {
				continue
			}
			cols[j].Values[i] = null.StringFrom(rec[j])
		}
	}

	t := &Table{
		Index: positionalIndex(len(records)),
		cols:  cols,
	}

	return t, nil
}

// FromColumns builds a Table from prepared columns. All columns must have the
// same length and unique labels.
func FromColumns(cols ...Column) (*Table, error) {
	n := 0
	if len(cols) > 0 {
		n = len(cols[0].Values)
	}

	out := make([]Column, len(cols))
	for j, c := range cols {
		if len(c.Values) != n {
			return nil, invalidArgument("column %s has %d values, expected %d", c.Label, len(c.Values), n)
		}
		out[j] = Column{Label: c.Label, Values: append([]null.String(nil), c.Values...)}
	}

	if err := checkUnique(labelsOf(out)); err != nil {
		return nil, err
	}

	return &Table{Index: positionalIndex(n), cols: out}, nil
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Index)
}

// Width is the number of columns, not counting the index.
func (t *Table) Width() int {
	return len(t.cols)
}

func (t *Table) Labels() []Label {
	return labelsOf(t.cols)
}

// Names returns the flattened label of every column.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Label.String()
	}

	return out
}

// ColumnAt returns a copy of the j'th column.
func (t *Table) ColumnAt(j int) Column {
	c := t.cols[j]
	return Column{Label: c.Label, Values: append([]null.String(nil), c.Values...)}
}

// Column returns a copy of the column with the given name. See lookup for how
// names resolve against hierarchical labels.
func (t *Table) Column(name string) (Column, error) {
	j, err := t.lookup(name)
	if err != nil {
		return Column{}, err
	}

	return t.ColumnAt(j), nil
}

// ColumnByLabel returns a copy of the column whose label is exactly l.
func (t *Table) ColumnByLabel(l Label) (Column, error) {
	for j, c := range t.cols {
		if c.Label == l {
			return t.ColumnAt(j), nil
		}
	}

	return Column{}, missingColumn(l.String())
}

// Has reports whether name resolves to exactly one column.
func (t *Table) Has(name string) bool {
	_, err := t.lookup(name)
	return err == nil
}

// lookup resolves name to a column position. An exact match on the flattened
// label wins; otherwise name must match the Name of exactly one column.
func (t *Table) lookup(name string) (int, error) {
	for j, c := range t.cols {
		if c.Label.String() == name {
			return j, nil
		}
	}

	found := -1
	for j, c := range t.cols {
		if c.Name != name {
			continue
		}
		if found >= 0 {
			return -1, invalidArgument("column name %q is ambiguous; qualify it as key%sname", name, KeySep)
		}
		found = j
	}

	if found < 0 {
		return -1, missingColumn(name)
	}

	return found, nil
}

// Copy returns a deep copy of t.
func (t *Table) Copy() *Table {
	out := &Table{
		IndexName: t.IndexName,
		Index:     append([]string(nil), t.Index...),
		cols:      make([]Column, len(t.cols)),
	}
	if t.IndexKeys != nil {
		out.IndexKeys = append([]string(nil), t.IndexKeys...)
	}
	for j := range t.cols {
		out.cols[j] = t.ColumnAt(j)
	}

	return out
}

// Equal reports whether two tables have the same labels, index and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.IndexName != o.IndexName || !equalStrings(t.Index, o.Index) {
		return false
	}
	if (t.IndexKeys == nil) != (o.IndexKeys == nil) || !equalStrings(t.IndexKeys, o.IndexKeys) {
		return false
	}
	if len(t.cols) != len(o.cols) {
		return false
	}
	for j := range t.cols {
		a, b := t.cols[j], o.cols[j]
		if a.Label != b.Label || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if a.Values[i].Valid != b.Values[i].Valid || a.Values[i].String != b.Values[i].String {
				return false
			}
		}
	}

	return true
}

// Float returns the named column parsed as float64. Null and unparsable cells
// become NaN.
func (t *Table) Float(name string) ([]float64, error) {
	j, err := t.lookup(name)
	if err != nil {
		return nil, err
	}

	return t.FloatAt(j), nil
}

func (t *Table) FloatAt(j int) []float64 {
	vals := t.cols[j].Values
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = parseFloat(v)
	}

	return out
}

func parseFloat(v null.String) float64 {
	if !v.Valid {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// take builds a new Table holding the given rows, in the given order.
func (t *Table) take(rows []int) *Table {
	out := &Table{
		IndexName: t.IndexName,
		Index:     make([]string, len(rows)),
		cols:      make([]Column, len(t.cols)),
	}
	for k, i := range rows {
		out.Index[k] = t.Index[i]
	}
	if t.IndexKeys != nil {
		out.IndexKeys = make([]string, len(rows))
		for k, i := range rows {
			out.IndexKeys[k] = t.IndexKeys[i]
		}
	}
	for j, c := range t.cols {
		vals := make([]null.String, len(rows))
		for k, i := range rows {
			vals[k] = c.Values[i]
		}
		out.cols[j] = Column{Label: c.Label, Values: vals}
	}

	return out
}

// replace swaps the contents of t for those of o. Used by the InPlace
// variants once every precondition has passed.
func (t *Table) replace(o *Table) {
	t.IndexName = o.IndexName
	t.Index = o.Index
	t.IndexKeys = o.IndexKeys
	t.cols = o.cols
}

func positionalIndex(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}

	return out
}

func labelsOf(cols []Column) []Label {
	out := make([]Label, len(cols))
	for j, c := range cols {
		out[j] = c.Label
	}

	return out
}

func checkUnique(labels []Label) error {
	seen := make(map[Label]struct{}, len(labels))
	for _, l := range labels {
		if _, exists := seen[l]; exists {
			return invalidArgument("duplicate column label %q", l.String())
		}
		seen[l] = struct{}{}
	}

	return nil
}

// dedupeNames mangles repeated header names the way most tabular readers do:
// the second "x" becomes "x.1", the third "x.2", and so on.
func dedupeNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]struct{}, len(names))
	counts := make(map[string]int, len(names))
	for j, name := range names {
		candidate := name
		for {
			if _, exists := used[candidate]; !exists {
				break
			}
			counts[name]++
			candidate = name + "." + strconv.Itoa(counts[name])
		}
		used[candidate] = struct{}{}
		out[j] = candidate
	}

	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
