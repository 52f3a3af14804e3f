package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/proteomisc/frame"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeGzip(t *testing.T, dir, name, contents string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(contents)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, name, buf.String())
}

const batchA = "Master\tAccession\tAD1\tPD1\n" +
	"IsMasterProtein\tP1\t1\t2\n" +
	"IsMasterProtein\tP2\t3\t4\n" +
	"Candidate\tP3\t5\t6\n" +
	"IsMasterProtein\tP4\t7\t8\n"

const batchB = "Master\tAccession\tAD1\tPD1\n" +
	"IsMasterProtein\tP4\t9\t10\n" +
	"IsMasterProtein\tP1\t11\t12\n" +
	"IsMasterProtein\tP5\t13\t14\n"

func TestMakeData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tsv", batchA)
	writeGzip(t, dir, "b.tsv", batchB)

	opt := DefaultOptions()
	opt.Pattern = filepath.Join(dir, "*.tsv")
	opt.Parallelism = 2

	got, err := MakeData(context.Background(), nil, opt)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"P1", "P4"}, got.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	expectedLabels := []frame.Label{
		{Key: "1", Name: "AD1"}, {Key: "1", Name: "PD1"},
		{Key: "2", Name: "AD1"}, {Key: "2", Name: "PD1"},
	}
	if diff := cmp.Diff(expectedLabels, got.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	c, err := got.Column("2|AD1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Values[0].String != "11" || c.Values[1].String != "9" {
		t.Errorf("batch 2 AD1 not aligned on accession: %v", c.Values)
	}
}

func TestMakeDataFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tsv", batchA)
	writeFile(t, dir, "b.tsv", strings.Replace(batchB, "Accession", "Protein", 1))
	writeFile(t, dir, "c.tsv", batchB)

	opt := DefaultOptions()
	opt.Pattern = filepath.Join(dir, "*.tsv")

	if _, err := MakeData(context.Background(), nil, opt); !errors.Is(err, frame.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	opt.SkipFailed = true
	got, err := MakeData(context.Background(), nil, opt)
	if err != nil {
		t.Fatal(err)
	}

	keys := make([]string, 0)
	for _, l := range got.Labels() {
		if len(keys) == 0 || keys[len(keys)-1] != l.Key {
			keys = append(keys, l.Key)
		}
	}
	if diff := cmp.Diff([]string{"1", "3"}, keys); diff != "" {
		t.Errorf("batch keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeDataKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tsv", batchA)
	writeFile(t, dir, "b.tsv", batchB)

	opt := DefaultOptions()
	opt.Pattern = filepath.Join(dir, "*.tsv")
	opt.Keys = []string{"only-one"}

	if _, err := MakeData(context.Background(), nil, opt); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	opt.Pattern = filepath.Join(dir, "*.csv")
	if _, err := MakeData(context.Background(), nil, opt); err == nil {
		t.Errorf("expected an error when no file matches")
	}
}

func TestParseDelimitedSelect(t *testing.T) {
	input := "m,x,acc,y,r1,r2\nIsMasterProtein,a,P1,b,1,2\n"

	opt := DefaultOptions()
	opt.UseCols = []int{0, 2, 4, 5}
	opt.Names = []string{"master", "accession", "AD1", "AD2"}

	got, err := parseDelimited(strings.NewReader(input), ',', opt)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(opt.Names, got.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseDelimited(strings.NewReader(""), ',', opt); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for an empty file, got %v", err)
	}
}

func TestTableFromGrid(t *testing.T) {
	grid := [][]string{
		{"", "Batch 1", "", "Batch 2"},
		{"Accession", "AD1", "PD1", "AD1"},
		{"P1", "1.5", "0.5", "NA"},
		nil,
		{"P2", "2.5", "1.5", "3.5"},
	}

	got, err := tableFromGrid(grid, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	expectedLabels := []frame.Label{
		{Key: "Batch 1", Name: "AD1"},
		{Key: "Batch 1", Name: "PD1"},
		{Key: "Batch 2", Name: "AD1"},
	}
	if diff := cmp.Diff(expectedLabels, got.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P1", "P2"}, got.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if got.IndexName != "Accession" {
		t.Errorf("IndexName = %q", got.IndexName)
	}

	c, err := got.ColumnByLabel(frame.Label{Key: "Batch 2", Name: "AD1"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Values[0].Valid {
		t.Errorf("expected NA to read as missing")
	}

	if _, err := tableFromGrid(grid, 0, 9); !errors.Is(err, frame.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for an out-of-range header row, got %v", err)
	}
}

func TestReadSheetXLSX(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", "Frontal Cortex"); err != nil {
		t.Fatal(err)
	}
	if _, err := book.NewSheet("Cingulate"); err != nil {
		t.Fatal(err)
	}
	for i, row := range [][]interface{}{
		{"", "Batch 1", "", "Batch 2"},
		{"Accession", "AD1", "PD1", "AD1"},
		{"P1", 1.5, 0.5, "NA"},
		{"P2", 2.5, 1.5, 3.5},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := book.SetSheetRow("Frontal Cortex", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := book.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	names, err := SheetNames(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Frontal Cortex", "Cingulate"}, names); diff != "" {
		t.Errorf("sheet names mismatch (-want +got):\n%s", diff)
	}

	got, err := ReadSheet(path, "frontal cortex", 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	expectedLabels := []frame.Label{
		{Key: "Batch 1", Name: "AD1"},
		{Key: "Batch 1", Name: "PD1"},
		{Key: "Batch 2", Name: "AD1"},
	}
	if diff := cmp.Diff(expectedLabels, got.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P1", "P2"}, got.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}

	pd, err := got.Float("Batch 1|PD1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.5, 1.5}, pd); diff != "" {
		t.Errorf("PD1 mismatch (-want +got):\n%s", diff)
	}

	ad, err := got.ColumnByLabel(frame.Label{Key: "Batch 2", Name: "AD1"})
	if err != nil {
		t.Fatal(err)
	}
	if ad.Values[0].Valid || ad.Values[1].String != "3.5" {
		t.Errorf("unexpected Batch 2 AD1 cells %v", ad.Values)
	}

	if _, err := ReadSheet(path, "occipital", 0, 1); err == nil {
		t.Errorf("expected an error for a missing sheet")
	}
}
