// cleantable normalizes the header of one delimited file and optionally keeps
// or drops rows by the values of one column. The result is printed to stdout
// as tab-delimited text.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/ingest"
	"github.com/carbocation/proteomisc/prep"

	_ "github.com/carbocation/proteomisc/compileinfoprint"
)

func main() {
	var input, column, values, separator string
	var drop, noStrip, noReplace, noLower, upper, prepare bool

	flag.StringVar(&input, "input", "", "Delimited file to clean. May be compressed, and may be a gs:// path.")
	flag.StringVar(&column, "column", "", "Column, named as it is after normalization, whose values decide which rows are kept. If empty, no rows are filtered.")
	flag.StringVar(&values, "values", "", "Comma-separated values to look for in -column.")
	flag.BoolVar(&drop, "drop", false, "Drop the rows that match -values instead of keeping them.")
	flag.StringVar(&separator, "separator", "_", "Replacement for whitespace in column names.")
	flag.BoolVar(&noStrip, "no_strip", false, "Keep leading and trailing whitespace in column names.")
	flag.BoolVar(&noReplace, "no_replace", false, "Keep inner whitespace in column names.")
	flag.BoolVar(&noLower, "no_lower", false, "Do not lower-case column names.")
	flag.BoolVar(&upper, "upper", false, "Upper-case column names. Wins over lower-casing.")
	flag.BoolVar(&prepare, "prepare", false, "Run the full batch preparation (master proteins, complete rows, accession index, condition labels) instead of -column/-values.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	clean := frame.CleanOptions{
		Strip:         !noStrip,
		ReplaceSpaces: !noReplace,
		Separator:     separator,
		Lower:         !noLower,
		Upper:         upper,
	}

	ctx := context.Background()

	var client *storage.Client
	if proteomisc.IsGoogleStorage(input) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
	}

	t, err := ingest.ReadFile(ctx, input, client, ingest.Options{})
	if err != nil {
		log.Fatalln(err)
	}

	if prepare {
		opt := prep.DefaultOptions()
		opt.Clean = clean
		if t, err = prep.Prepare(t, opt); err != nil {
			log.Fatalln(err)
		}
	} else {
		if err := t.CleanColsInPlace(clean); err != nil {
			log.Fatalln(err)
		}
		if column != "" {
			if err := t.FilterByValInPlace(column, strings.Split(values, ","), !drop); err != nil {
				log.Fatalln(err)
			}
		}
	}

	log.Printf("%d rows x %d columns\n", t.Len(), t.Width())

	if err := frame.WriteDelimited(os.Stdout, t, '\t'); err != nil {
		log.Fatalln(err)
	}
}
