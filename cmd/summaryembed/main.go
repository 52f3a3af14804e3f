// summaryembed embeds the samples of a published TMT summary sheet, so that
// the clustering of the summary values can be compared with the clustering of
// the batches built by makedataset.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/carbocation/proteomisc/analysis"
	"github.com/carbocation/proteomisc/ingest"
	"github.com/carbocation/proteomisc/plot"

	_ "github.com/carbocation/proteomisc/compileinfoprint"
)

func main() {
	var input, sheet, exclude, output, title string
	var keyRow, headerRow int

	flag.StringVar(&input, "input", "", "Summary workbook (.xls or .xlsx)")
	flag.StringVar(&sheet, "sheet", "", "Name of the sheet to read, e.g. 'frontal cortex'")
	flag.IntVar(&keyRow, "key_row", 0, "Zero-based row holding the batch labels. Use -1 if there is none.")
	flag.IntVar(&headerRow, "header_row", 2, "Zero-based row holding the channel labels.")
	flag.StringVar(&exclude, "exclude_batch", "", "Batch label whose columns are not samples (e.g. the sheet's title block).")
	flag.StringVar(&output, "output", "", "Path of the PNG to write.")
	flag.StringVar(&title, "title", "", "Plot title. Defaults to the sheet name.")
	flag.Parse()

	if input == "" || sheet == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}
	if title == "" {
		title = sheet
	}

	t, err := ingest.ReadSheet(input, sheet, keyRow, headerRow)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Read %d proteins x %d columns from %s\n", t.Len(), t.Width(), sheet)

	var excluded []string
	if exclude != "" {
		excluded = []string{exclude}
	}
	samples, err := analysis.SamplesBy(t, analysis.KeyLevel, excluded)
	if err != nil {
		log.Fatalln(err)
	}

	// Proteins with a zero or a missing value in any sample are left out.
	samples, kept := analysis.CompleteFeatures(samples)
	log.Printf("Embedding %d samples on %d proteins\n", len(samples), len(kept))

	embedded, err := analysis.Embed(samples, 2)
	if err != nil {
		log.Fatalln(err)
	}

	f, err := os.Create(output)
	if err != nil {
		log.Fatalln(err)
	}
	if err := plot.Embedding(f, embedded, plot.ByCondition, title); err != nil {
		f.Close()
		log.Fatalln(err)
	}
	if err := f.Close(); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Wrote %s\n", output)
}
