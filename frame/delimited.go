package frame

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// WriteDelimited writes t as delimited text. The first field of each line is
// the row index; hierarchical labels are flattened with KeySep. Null cells
// are written as empty fields.
func WriteDelimited(w io.Writer, t *Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	header := make([]string, 0, t.Width()+1)
	header = append(header, t.IndexName)
	header = append(header, t.Names()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, t.Width()+1)
	for i := 0; i < t.Len(); i++ {
		row[0] = t.Index[i]
		if t.IndexKeys != nil {
			row[0] = Label{Key: t.IndexKeys[i], Name: t.Index[i]}.String()
		}
		for j, c := range t.cols {
			row[j+1] = c.Values[i].String
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadDelimited reads a table written by WriteDelimited: the first field of
// each line is the row index and labels containing KeySep are split into
// key and name.
func ReadDelimited(r io.Reader, comma rune, missing []string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalidArgument("no header line")
	} else if err != nil {
		return nil, err
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	body := make([][]string, len(records))
	index := make([]string, len(records))
	var indexKeys []string
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if strings.Contains(rec[0], KeySep) {
			if indexKeys == nil {
				indexKeys = make([]string, len(records))
			}
			l := ParseLabel(rec[0])
			indexKeys[i], index[i] = l.Key, l.Name
		} else {
			index[i] = rec[0]
		}
		body[i] = rec[1:]
	}

	t, err := New(header[1:], body, missing)
	if err != nil {
		return nil, err
	}
	for j := range t.cols {
		t.cols[j].Label = ParseLabel(t.cols[j].Name)
	}
	if err := checkUnique(t.Labels()); err != nil {
		return nil, err
	}
	t.IndexName = header[0]
	t.Index = index
	t.IndexKeys = indexKeys

	return t, nil
}
