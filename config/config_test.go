package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/prep"
	"github.com/google/go-cmp/cmp"
)

const project = `
interim: /tmp/interim
figures: /tmp/figures
parallelism: 4
prep:
  master_value: IsMaster
  clean:
    separator: "-"
  renames:
    ratio_x: AD1
volcano:
  q_cut: 2
tsne:
  perplexity: 5
regions:
  - name: frontal
    pattern: data/raw/f*
    keys: ["1", "2"]
  - name: cingulate
    pattern: data/raw/c*
    axis: rows
    join: outer
    output: /tmp/cingulate.db
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(project))
	if err != nil {
		t.Fatal(err)
	}

	if c.Parallelism != 4 || c.Prep.MasterValue != "IsMaster" || c.Volcano.QCut != 2 {
		t.Errorf("Settings not read: %+v", c)
	}

	// Unset fields keep their defaults.
	if c.Prep.MasterColumn != prep.DefaultMasterColumn || !c.Prep.Clean.Lower || c.Prep.Clean.Separator != "-" {
		t.Errorf("Defaults not kept: %+v", c.Prep)
	}
	if c.Volcano.FoldCut != 0.585 {
		t.Errorf("FoldCut = %v, expected the default", c.Volcano.FoldCut)
	}
	if c.TSNE.Perplexity != 5 || c.TSNE.MaxIter != 1000 || c.TSNE.PCADims != 40 {
		t.Errorf("t-SNE settings not merged: %+v", c.TSNE)
	}

	// Renames merge into the default table.
	if c.Prep.Renames["ratio_x"] != prep.AD1 || c.Prep.Renames["ad2"] != prep.AD2 {
		t.Errorf("Renames not merged: %v", c.Prep.Renames)
	}

	frontal, err := c.Region("frontal")
	if err != nil {
		t.Fatal(err)
	}
	if frontal.Axis != "columns" || frontal.Join != "inner" {
		t.Errorf("Region defaults not applied: %+v", frontal)
	}
	if got := c.Output(frontal); got != "/tmp/interim/frontal_full.db" {
		t.Errorf("Output = %q", got)
	}

	cingulate, err := c.Region("cingulate")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Output(cingulate); got != "/tmp/cingulate.db" {
		t.Errorf("Output = %q", got)
	}

	opt, err := c.IngestOptions(cingulate)
	if err != nil {
		t.Fatal(err)
	}
	if opt.Axis != frame.Rows || opt.Join != frame.Outer || opt.Parallelism != 4 {
		t.Errorf("Unexpected ingest options %+v", opt)
	}
}

func TestOutputsAreDistinct(t *testing.T) {
	c := Default()

	seen := map[string]string{}
	for _, r := range c.Regions {
		out := c.Output(r)
		if other, exists := seen[out]; exists {
			t.Errorf("Regions %s and %s share output %s", other, r.Name, out)
		}
		seen[out] = r.Name
	}
	if diff := cmp.Diff([]string{"frontal", "cingulate"}, []string{c.Regions[0].Name, c.Regions[1].Name}); diff != "" {
		t.Errorf("default regions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, input := range []string{
		"prep:\n  clean:\n    strip: sometimes\n",
		"prep:\n  clean:\n    separator: [a, b]\n",
		"unknown_setting: 1\n",
		"regions:\n  - name: frontal\n",
		"regions:\n  - {name: a, pattern: x}\n  - {name: a, pattern: y}\n",
		"regions:\n  - {name: a, pattern: x, axis: diagonal}\n",
	} {
		if _, err := Decode(strings.NewReader(input)); !errors.Is(err, frame.ErrInvalidArgument) {
			t.Errorf("%q: expected ErrInvalidArgument, got %v", input, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Regions) != 2 {
		t.Errorf("Empty file should keep the default regions, got %d", len(c.Regions))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
