package frame

// FilterByVal returns the rows of t whose value in col is one of vals (keep
// true) or is not one of vals (keep false). Null cells are never members, so
// they are dropped when keep is true and retained when keep is false. Row
// order is preserved.
//
// Membership compares the raw cell text exactly, without parsing numbers or
// folding case: "1" does not match "1.0", and "None" does not match "none".
//
// col must be non-empty and vals non-nil; an empty vals is a valid empty set.
// A col that does not name a column yields ErrMissingColumn.
func (t *Table) FilterByVal(col string, vals []string, keep bool) (*Table, error) {
	rows, err := t.matchRows(col, vals, keep)
	if err != nil {
		return nil, err
	}

	return t.take(rows), nil
}

// FilterByValInPlace is FilterByVal, but replaces the rows of t.
func (t *Table) FilterByValInPlace(col string, vals []string, keep bool) error {
	rows, err := t.matchRows(col, vals, keep)
	if err != nil {
		return err
	}

	t.replace(t.take(rows))

	return nil
}

func (t *Table) matchRows(col string, vals []string, keep bool) ([]int, error) {
	if col == "" {
		return nil, invalidArgument("filter column name must not be empty")
	}
	if vals == nil {
		return nil, invalidArgument("filter values must be a sequence, got nil")
	}

	j, err := t.lookup(col)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}

	rows := make([]int, 0, t.Len())
	for i, v := range t.cols[j].Values {
		member := false
		if v.Valid {
			_, member = set[v.String]
		}
		if member == keep {
			rows = append(rows, i)
		}
	}

	return rows, nil
}
