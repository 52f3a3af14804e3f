// combinesheets stacks every sheet of a summary workbook into one
// tab-delimited table. Each row is labelled with the sheet it came from.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/ingest"

	_ "github.com/carbocation/proteomisc/compileinfoprint"
)

func main() {
	var filename, join string
	var keyRow, headerRow int

	flag.StringVar(&filename, "filename", "", "Summary workbook (.xls or .xlsx)")
	flag.IntVar(&keyRow, "key_row", 0, "Zero-based row holding the batch labels. Use -1 if there is none.")
	flag.IntVar(&headerRow, "header_row", 2, "Zero-based row holding the channel labels.")
	flag.StringVar(&join, "join", "outer", "Keep the columns found in every sheet (inner) or in any sheet (outer).")
	flag.Parse()

	if filename == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	how, err := frame.ParseJoin(join)
	if err != nil {
		log.Fatalln(err)
	}

	names, err := ingest.SheetNames(filename)
	if err != nil {
		log.Fatalln(err)
	}

	sheets := make([]*frame.Table, 0, len(names))
	for _, name := range names {
		log.Printf("Parsing sheet %s\n", name)

		t, err := ingest.ReadSheet(filename, name, keyRow, headerRow)
		if err != nil {
			log.Fatalln(err)
		}
		sheets = append(sheets, t)
	}

	combined, err := frame.Concat(sheets, names, frame.Rows, how)
	if err != nil {
		log.Fatalln(err)
	}

	log.Println(combined.Width(), "Columns")

	if err := frame.WriteDelimited(os.Stdout, combined, '\t'); err != nil {
		log.Fatalln(err)
	}
}
