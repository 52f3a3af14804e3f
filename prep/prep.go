// Package prep turns one raw protein export into a cleaned table: normalized
// labels, master proteins only, complete rows only, indexed by accession, with
// the abundance ratios renamed to condition labels.
package prep

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/carbocation/proteomisc/frame"
)

const (
	DefaultMasterColumn    = "master"
	DefaultMasterValue     = "IsMasterProtein"
	DefaultAccessionColumn = "accession"
)

// Options holds the fixed rules applied by Prepare. Column names are given
// as they look after normalization.
type Options struct {
	Clean           frame.CleanOptions `yaml:"clean"`
	MasterColumn    string             `yaml:"master_column"`
	MasterValue     string             `yaml:"master_value"`
	AccessionColumn string             `yaml:"accession_column"`
	Renames         map[string]string  `yaml:"renames"`
}

func DefaultOptions() Options {
	renames := make(map[string]string, len(DefaultRenames))
	for k, v := range DefaultRenames {
		renames[k] = v
	}

	return Options{
		Clean:           frame.DefaultCleanOptions(),
		MasterColumn:    DefaultMasterColumn,
		MasterValue:     DefaultMasterValue,
		AccessionColumn: DefaultAccessionColumn,
		Renames:         renames,
	}
}

// Prepare applies, in order: column normalization, keep master rows, drop the
// master column, drop incomplete rows, index by accession, rename abundance
// columns. If the master or accession column is absent after normalization
// it fails with frame.ErrMissingColumn and returns no table.
func Prepare(t *frame.Table, opt Options) (*frame.Table, error) {
	if opt.MasterColumn == "" || opt.AccessionColumn == "" {
		return nil, frame.InvalidArgument("master and accession column names are required")
	}

	cleaned, err := t.CleanCols(opt.Clean)
	if err != nil {
		return nil, fmt.Errorf("prepare: normalize columns: %w", err)
	}

	// Both key columns are checked before any row work so that a changed
	// file layout fails in one place.
	for _, name := range []string{opt.MasterColumn, opt.AccessionColumn} {
		if _, err := cleaned.Column(name); err != nil {
			return nil, fmt.Errorf("prepare: %w", err)
		}
	}

	masters, err := cleaned.FilterByVal(opt.MasterColumn, []string{opt.MasterValue}, true)
	if err != nil {
		return nil, fmt.Errorf("prepare: keep master rows: %w", err)
	}

	trimmed, err := masters.Drop(opt.MasterColumn)
	if err != nil {
		return nil, fmt.Errorf("prepare: drop master column: %w", err)
	}

	indexed, err := trimmed.DropMissing().SetIndex(opt.AccessionColumn)
	if err != nil {
		return nil, fmt.Errorf("prepare: index by accession: %w", err)
	}

	out, err := indexed.Rename(opt.Renames)
	if err != nil {
		return nil, fmt.Errorf("prepare: rename abundance columns: %w", err)
	}

	return out, nil
}

// Condition returns the condition a label belongs to: its leading non-digit
// run, lower-cased. "ADPD2" and "adpd1" are both "adpd"; "q_score" is itself.
// Volcano columns are grouped by analysis.VolcanoGroup instead, which only
// strips trailing replicate digits.
func Condition(label string) string {
	end := strings.IndexFunc(label, unicode.IsDigit)
	if end < 0 {
		end = len(label)
	}

	return strings.ToLower(label[:end])
}
