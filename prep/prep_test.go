package prep

import (
	"errors"
	"testing"

	"github.com/carbocation/proteomisc/frame"
	"github.com/google/go-cmp/cmp"
)

var rawHeader = []string{
	" Master ",
	"Accession",
	"Exp. q-value: Combined",
	"Sum PEP Score",
	"Abundance Ratio: (127N) / (126)",
	"Abundance Ratio: (127C) / (126)",
}

func rawTable(t *testing.T, header []string, records [][]string) *frame.Table {
	t.Helper()
	tab, err := frame.New(header, records, nil)
	if err != nil {
		t.Fatal(err)
	}

	return tab
}

func TestPrepare(t *testing.T) {
	raw := rawTable(t, rawHeader, [][]string{
		{"IsMasterProtein", "P1", "0.001", "12.5", "1.10", "0.95"},
		{"IsMasterProteinCandidate", "P1-2", "0.002", "3.1", "1.20", "1.01"},
		{"IsMasterProtein", "P2", "0.010", "8.0", "", "0.80"},
		{"IsMasterProtein", "P3", "0", "40.2", "2.30", "2.10"},
	})

	got, err := Prepare(raw, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if got.IndexName != "accession" {
		t.Errorf("IndexName = %q, expected accession", got.IndexName)
	}
	if diff := cmp.Diff([]string{"P1", "P3"}, got.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{QScore, PepScore, AD1, AD2}, got.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	ad1, err := got.Float(AD1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1.10, 2.30}, ad1); diff != "" {
		t.Errorf("AD1 mismatch (-want +got):\n%s", diff)
	}

	// The raw table is untouched.
	if diff := cmp.Diff(rawHeader, raw.Names()); diff != "" {
		t.Errorf("input labels changed (-want +got):\n%s", diff)
	}
	if raw.Len() != 4 {
		t.Errorf("input rows changed to %d", raw.Len())
	}
}

func TestPrepareDropsOnlyIncompleteRows(t *testing.T) {
	raw := rawTable(t, []string{"Master", "Accession", "AD1", "PD1"}, [][]string{
		{"IsMasterProtein", "P1", "1.0", "1.1"},
		{"IsMasterProtein", "P2", "1.0", "NA"},
		{"IsMasterProtein", "P3", "0.9", "1.3"},
		{"IsMasterProtein", "P4", "1.4", "0.7"},
	})

	got, err := Prepare(raw, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"P1", "P3", "P4"}, got.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{AD1, PD1}, got.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareMissingColumns(t *testing.T) {
	for _, header := range [][]string{
		{"Master", "Protein", "AD1"},
		{"Accession", "Marker", "AD1"},
	} {
		raw := rawTable(t, header, [][]string{{"IsMasterProtein", "P1", "1.0"}})

		got, err := Prepare(raw, DefaultOptions())
		if !errors.Is(err, frame.ErrMissingColumn) {
			t.Errorf("%v: expected ErrMissingColumn, got %v", header, err)
		}
		if got != nil {
			t.Errorf("%v: expected no table on failure", header)
		}
	}
}

func TestPrepareRequiresKeyNames(t *testing.T) {
	opt := DefaultOptions()
	opt.AccessionColumn = ""

	raw := rawTable(t, []string{"Master", "Accession"}, nil)
	if _, err := Prepare(raw, opt); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCondition(t *testing.T) {
	for _, v := range []struct {
		Label    string
		Expected string
	}{
		{AD1, "ad"},
		{"ADPD2", "adpd"},
		{"control1", "control"},
		{QScore, "q_score"},
		{"", ""},
	} {
		if got := Condition(v.Label); got != v.Expected {
			t.Errorf("Condition(%q) = %q, expected %q", v.Label, got, v.Expected)
		}
	}
}
