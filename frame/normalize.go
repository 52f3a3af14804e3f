package frame

import (
	"strings"
	"unicode"
)

// CleanOptions controls CleanCols. The steps run in the fixed order strip,
// replace spaces, lowercase, uppercase. If both Lower and Upper are set the
// labels end up upper case, because Upper runs last.
type CleanOptions struct {
	Strip         bool   `yaml:"strip"`
	ReplaceSpaces bool   `yaml:"replace_spaces"`
	Separator     string `yaml:"separator"`
	Lower         bool   `yaml:"lowercase"`
	Upper         bool   `yaml:"uppercase"`
}

func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		Strip:         true,
		ReplaceSpaces: true,
		Separator:     "_",
		Lower:         true,
		Upper:         false,
	}
}

type cleanFunc func(string) string

func (opt CleanOptions) chain() []cleanFunc {
	funcs := make([]cleanFunc, 0, 4)
	if opt.Strip {
		funcs = append(funcs, strings.TrimSpace)
	}
	if opt.ReplaceSpaces {
		funcs = append(funcs, replaceSpaces(opt.Separator))
	}
	if opt.Lower {
		funcs = append(funcs, strings.ToLower)
	}
	if opt.Upper {
		funcs = append(funcs, strings.ToUpper)
	}

	return funcs
}

// Clean applies the configured steps to a single label.
func (opt CleanOptions) Clean(name string) string {
	for _, f := range opt.chain() {
		name = f(name)
	}

	return name
}

func replaceSpaces(sep string) cleanFunc {
	return func(s string) string {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsSpace(r) {
				b.WriteString(sep)
				continue
			}
			b.WriteRune(r)
		}

		return b.String()
	}
}

// CleanCols returns a copy of t whose column names have been normalized.
// Provenance keys, the row index and the cells are untouched.
func (t *Table) CleanCols(opt CleanOptions) (*Table, error) {
	labels, err := t.cleanLabels(opt)
	if err != nil {
		return nil, err
	}

	out := t.Copy()
	for j := range out.cols {
		out.cols[j].Label = labels[j]
	}

	return out, nil
}

// CleanColsInPlace is CleanCols, but renames the columns of t itself.
func (t *Table) CleanColsInPlace(opt CleanOptions) error {
	labels, err := t.cleanLabels(opt)
	if err != nil {
		return err
	}

	for j := range t.cols {
		t.cols[j].Label = labels[j]
	}

	return nil
}

func (t *Table) cleanLabels(opt CleanOptions) ([]Label, error) {
	labels := t.Labels()
	for j := range labels {
		labels[j].Name = opt.Clean(labels[j].Name)
	}

	if err := checkUnique(labels); err != nil {
		return nil, err
	}

	return labels, nil
}
