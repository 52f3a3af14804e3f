// makedataset reads the raw Proteome Discoverer exports of each brain region,
// cleans every batch, and stores the combined table of each region for the
// plotting steps.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/config"
	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/ingest"
	"github.com/carbocation/proteomisc/store"

	_ "github.com/carbocation/proteomisc/compileinfoprint"
)

func main() {
	var configPath, region string
	var writeTSV, skipFailed bool
	var parallelism int

	flag.StringVar(&configPath, "config", "", "YAML project file. If empty, the built-in frontal and cingulate regions are used.")
	flag.StringVar(&region, "region", "", "Only build this region. If empty, all regions are built.")
	flag.BoolVar(&writeTSV, "tsv", false, "Also write each combined table as a tab-delimited file next to its database.")
	flag.BoolVar(&skipFailed, "skip_failed", false, "Log and skip batches that cannot be read, rather than stopping.")
	flag.IntVar(&parallelism, "parallelism", 0, "Number of batch files to read at once. If 0, the project file's setting is used.")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatalln(err)
		}
	}
	if parallelism > 0 {
		cfg.Parallelism = parallelism
	}
	if skipFailed {
		cfg.SkipFailed = true
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

	ctx := context.Background()

	var client *storage.Client
	for _, r := range regions {
		if !proteomisc.IsGoogleStorage(r.Pattern) || client != nil {
			continue
		}
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
	}

	for _, r := range regions {
		if err := makeRegion(ctx, client, cfg, r, writeTSV); err != nil {
			log.Fatalln(err)
		}
	}
}

func makeRegion(ctx context.Context, client *storage.Client, cfg *config.Config, r config.Region, writeTSV bool) error {
	opt, err := cfg.IngestOptions(r)
	if err != nil {
		return err
	}

	log.Printf("Building %s from %s\n", r.Name, r.Pattern)

	combined, err := ingest.MakeData(ctx, client, opt)
	if err != nil {
		return err
	}
	log.Printf("%s: %d proteins x %d columns\n", r.Name, combined.Len(), combined.Width())

	output := cfg.Output(r)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := store.Save(output, r.Name, combined); err != nil {
		return err
	}
	log.Printf("Saved %s to %s\n", r.Name, output)

	if writeTSV {
		tsvPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".tsv"
		f, err := os.Create(tsvPath)
		if err != nil {
			return err
		}
		if err := frame.WriteDelimited(f, combined, '\t'); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("Wrote %s\n", tsvPath)
	}

	summaries, err := analysis.Describe(combined)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		log.Printf("%s\t%s\tn=%d\tmissing=%d\tmean=%.3f\tsd=%.3f\n", r.Name, s.Column, s.Count, s.Missing, s.Mean, s.StdDev)
	}

	return nil
}
