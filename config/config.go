// Package config loads the YAML project file that names the brain regions to
// ingest, where their raw exports live, and how they are cleaned and plotted.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/ingest"
	"github.com/carbocation/proteomisc/prep"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Interim     string                  `yaml:"interim"`
	Figures     string                  `yaml:"figures"`
	Parallelism int                     `yaml:"parallelism"`
	SkipFailed  bool                    `yaml:"skip_failed"`
	Prep        prep.Options            `yaml:"prep"`
	Volcano     analysis.VolcanoOptions `yaml:"volcano"`
	TSNE        analysis.TSNEOptions    `yaml:"tsne"`
	Regions     []Region                `yaml:"regions"`
}

// Region is one set of raw exports that are combined into one table.
type Region struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	UseCols []int    `yaml:"usecols"`
	Names   []string `yaml:"names"`
	Keys    []string `yaml:"keys"`

	// Axis and Join default to "columns" and "inner".
	Axis string `yaml:"axis"`
	Join string `yaml:"join"`

	// Output defaults to <interim>/<name>_full.db.
	Output string `yaml:"output"`
}

// ExportColumns are the Proteome Discoverer export columns used by default,
// by position, and the names they are given.
var (
	ExportColumns = []int{2, 5, 9, 10, 72, 73, 74, 75, 76, 77, 78, 79}
	ExportNames   = []string{
		"master", "accession", "q_score", "pep_score",
		"AD1", "AD2", "Control1", "Control2", "PD1", "PD2", "ADPD1", "ADPD2",
	}
)

// Default describes the frontal cortex and anterior cingulate gyrus batches.
func Default() *Config {
	region := func(name, pattern string) Region {
		return Region{
			Name:    name,
			Pattern: pattern,
			UseCols: append([]int(nil), ExportColumns...),
			Names:   append([]string(nil), ExportNames...),
			Axis:    "columns",
			Join:    "inner",
		}
	}

	return &Config{
		Interim:     "data/interim",
		Figures:     "reports/figures",
		Parallelism: 1,
		Prep:        prep.DefaultOptions(),
		Volcano:     analysis.DefaultVolcanoOptions(),
		TSNE:        analysis.DefaultTSNEOptions(),
		Regions: []Region{
			region("frontal", "data/raw/f*"),
			region("cingulate", "data/raw/c*"),
		},
	}
}

// Load reads a project file. Settings absent from the file keep their
// Default values, except that a regions list replaces the default regions.
// Values of the wrong type are reported as frame.ErrInvalidArgument.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(proteomisc.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func Decode(r io.Reader) (*Config, error) {
	c := Default()
	c.Regions = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); errors.Is(err, io.EOF) {
		c.Regions = Default().Regions
		return c, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", frame.ErrInvalidArgument, err)
	}

	if c.Regions == nil {
		c.Regions = Default().Regions
	}

	c.Interim = proteomisc.ExpandHome(c.Interim)
	c.Figures = proteomisc.ExpandHome(c.Figures)

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Regions))
	for i := range c.Regions {
		r := &c.Regions[i]
		if r.Name == "" || r.Pattern == "" {
			return frame.InvalidArgument("region %d needs a name and a pattern", i)
		}
		if _, exists := seen[r.Name]; exists {
			return frame.InvalidArgument("region %q is listed twice", r.Name)
		}
		seen[r.Name] = struct{}{}

		if r.Axis == "" {
			r.Axis = "columns"
		}
		if r.Join == "" {
			r.Join = "inner"
		}
		if _, err := frame.ParseAxis(r.Axis); err != nil {
			return fmt.Errorf("region %s: %w", r.Name, err)
		}
		if _, err := frame.ParseJoin(r.Join); err != nil {
			return fmt.Errorf("region %s: %w", r.Name, err)
		}

		r.Pattern = proteomisc.ExpandHome(r.Pattern)
		r.Output = proteomisc.ExpandHome(r.Output)
	}

	return nil
}

// Region returns the region with the given name.
func (c *Config) Region(name string) (Region, error) {
	for _, r := range c.Regions {
		if r.Name == name {
			return r, nil
		}
	}

	return Region{}, frame.InvalidArgument("no region named %q", name)
}

// Output is where the combined table of r is stored. Each region's path is
// derived from its own name unless set explicitly.
func (c *Config) Output(r Region) string {
	if r.Output != "" {
		return r.Output
	}

	return filepath.Join(c.Interim, r.Name+"_full.db")
}

// Figure is the path of a figure about region r.
func (c *Config) Figure(r Region, name string) string {
	return filepath.Join(c.Figures, r.Name+"_"+name+".png")
}

// IngestOptions turns r into options for ingest.MakeData.
func (c *Config) IngestOptions(r Region) (ingest.Options, error) {
	axis, err := frame.ParseAxis(r.Axis)
	if err != nil {
		return ingest.Options{}, err
	}
	join, err := frame.ParseJoin(r.Join)
	if err != nil {
		return ingest.Options{}, err
	}

	return ingest.Options{
		Pattern:     r.Pattern,
		UseCols:     r.UseCols,
		Names:       r.Names,
		Keys:        r.Keys,
		Prep:        c.Prep,
		Axis:        axis,
		Join:        join,
		SkipFailed:  c.SkipFailed,
		Parallelism: c.Parallelism,
	}, nil
}
