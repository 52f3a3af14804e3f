// visualize loads the combined table of each region and draws a volcano plot
// per disease condition plus PCA and t-SNE sample embeddings coloured by
// condition and by batch. The plotted data are also written as tab-delimited
// files.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/config"
	"github.com/carbocation/proteomisc/plot"
	"github.com/carbocation/proteomisc/store"

	_ "github.com/carbocation/proteomisc/compileinfoprint"
)

type embeddedSample struct {
	Batch     string  `csv:"batch"`
	Label     string  `csv:"label"`
	Condition string  `csv:"condition"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
}

func main() {
	var configPath, region string
	var noHistogram bool

	flag.StringVar(&configPath, "config", "", "YAML project file. If empty, the built-in frontal and cingulate regions are used.")
	flag.StringVar(&region, "region", "", "Only plot this region. If empty, all regions are plotted.")
	flag.BoolVar(&noHistogram, "no_histogram", false, "Do not print fold change histograms to the terminal.")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatalln(err)
		}
	}

	regions := cfg.Regions
	if region != "" {
		r, err := cfg.Region(region)
		if err != nil {
			log.Println(err)
			flag.PrintDefaults()
			os.Exit(1)
		}
		regions = []config.Region{r}
	}

	if err := os.MkdirAll(cfg.Figures, 0o755); err != nil {
		log.Fatalln(err)
	}

	for _, r := range regions {
		if err := visualize(cfg, r, !noHistogram); err != nil {
			log.Fatalln(err)
		}
	}
}

func visualize(cfg *config.Config, r config.Region, printHistogram bool) error {
	combined, err := store.Load(cfg.Output(r), r.Name)
	if err != nil {
		return err
	}

	points, err := analysis.Volcano(combined, cfg.Volcano)
	if err != nil {
		return err
	}
	if err := writeTSV(filepath.Join(cfg.Interim, r.Name+"_volc.tsv"), points); err != nil {
		return err
	}

	opt := plot.DefaultVolcanoOptions()
	opt.Cuts = cfg.Volcano
	for _, condition := range cfg.Volcano.Conditions {
		name := "mean_" + analysis.VolcanoGroup(condition)
		opt.Title = fmt.Sprintf("%s %s", r.Name, name)
		if err := writePNG(cfg.Figure(r, name), func(f *os.File) error {
			return plot.Volcano(f, points, condition, opt)
		}); err != nil {
			return err
		}

		if printHistogram {
			printFoldHistogram(r.Name, analysis.VolcanoGroup(condition), points)
		}
	}

	samples, err := analysis.Samples(combined, nil)
	if err != nil {
		return err
	}
	samples, kept := analysis.CompleteFeatures(samples)
	log.Printf("%s: embedding %d samples on %d of %d proteins\n", r.Name, len(samples), len(kept), combined.Len())

	embedded, err := analysis.Embed(samples, 2)
	if err != nil {
		return err
	}
	if err := writeEmbedding(cfg, r, "", embedded); err != nil {
		return err
	}

	if len(samples) < 3 {
		log.Printf("%s: too few samples for t-SNE, skipping\n", r.Name)
		return nil
	}
	neighbours, err := analysis.EmbedTSNE(samples, 2, cfg.TSNE)
	if err != nil {
		return err
	}

	return writeEmbedding(cfg, r, "tsne_", neighbours)
}

// writeEmbedding writes the points as <region>_<prefix>embedding.tsv and
// draws them coloured by condition (<prefix>label) and by batch
// (<prefix>batch).
func writeEmbedding(cfg *config.Config, r config.Region, prefix string, embedded []analysis.Point) error {
	rows := make([]embeddedSample, len(embedded))
	for i, p := range embedded {
		rows[i] = embeddedSample{Batch: p.Batch, Label: p.Label, Condition: p.Condition, X: p.Coords[0], Y: p.Coords[1]}
	}
	if err := writeTSV(filepath.Join(cfg.Interim, r.Name+"_"+prefix+"embedding.tsv"), rows); err != nil {
		return err
	}

	for _, v := range []struct {
		Name  string
		Group plot.GroupBy
	}{
		{prefix + "label", plot.ByCondition},
		{prefix + "batch", plot.ByBatch},
	} {
		title := fmt.Sprintf("%s %s", r.Name, v.Name)
		if err := writePNG(cfg.Figure(r, v.Name), func(f *os.File) error {
			return plot.Embedding(f, embedded, v.Group, title)
		}); err != nil {
			return err
		}
	}

	return nil
}

func printFoldHistogram(region, condition string, points []analysis.VolcanoPoint) {
	folds := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Condition == condition && !math.IsNaN(p.Log2Fold) && !math.IsInf(p.Log2Fold, 0) {
			folds = append(folds, p.Log2Fold)
		}
	}
	if len(folds) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s log2(fold change):\n", region, condition)

	// The number of buckets is arbitrary.
	hist := histogram.Hist(25, folds)
	if err := histogram.Fprint(os.Stderr, hist, histogram.Linear(40)); err != nil {
		log.Println(err)
	}
}

func writeTSV(path string, records interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := analysis.WriteTSV(f, records); err != nil {
		f.Close()
		return err
	}
	log.Printf("Wrote %s\n", path)

	return f.Close()
}

func writePNG(path string, draw func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := draw(f); err != nil {
		f.Close()
		return err
	}
	log.Printf("Wrote %s\n", path)

	return f.Close()
}
