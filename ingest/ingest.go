// Package ingest finds raw protein exports, reads each into a frame.Table,
// prepares it, and combines the prepared tables into one, tagging each file's
// contribution with a batch key.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/frame"
	"github.com/carbocation/proteomisc/prep"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Pattern is a glob for the input files. It may be a gs:// pattern.
	Pattern string

	// UseCols selects columns by zero-based position and Names relabels
	// them. Both are optional; see frame.Table.Select.
	UseCols []int
	Names   []string

	// Missing lists cell values read as missing. Nil means
	// frame.DefaultMissing.
	Missing []string

	Prep prep.Options

	Axis frame.Axis
	Join frame.Join

	// Keys tags each file, in sorted path order. If empty, files are keyed
	// "1", "2", ...
	Keys []string

	// SkipFailed logs and skips a file that cannot be read or prepared.
	// Otherwise the first failure aborts the run.
	SkipFailed bool

	// Parallelism bounds how many files are read at once. Zero or less
	// reads one at a time.
	Parallelism int
}

// DefaultOptions matches the layout of the combined table used downstream:
// batches side by side, keeping only proteins seen in every batch.
func DefaultOptions() Options {
	return Options{
		Prep:        prep.DefaultOptions(),
		Axis:        frame.Columns,
		Join:        frame.Inner,
		Parallelism: 1,
	}
}

// ReadFile reads one delimited file, undoing any compression and sniffing
// the delimiter, and applies the column selection in opt. It does not
// prepare the table.
func ReadFile(ctx context.Context, path string, client *storage.Client, opt Options) (*frame.Table, error) {
	rc, err := proteomisc.OpenInput(ctx, path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	r, dt, err := proteomisc.Decompress(raw)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	defer r.Close()

	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	delim := proteomisc.DetermineDelimiter(bytes.NewReader(contents))
	log.Printf("Read %s (%s); determined delimiter to be %q\n", path, dt, string(delim))

	return parseDelimited(bytes.NewReader(contents), delim, opt)
}

func parseDelimited(r io.Reader, delim rune, opt Options) (*frame.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, frame.InvalidArgument("no header line")
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("Header parsing error: %w", err))
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	t, err := frame.New(header, records, opt.Missing)
	if err != nil {
		return nil, err
	}

	if opt.UseCols == nil && opt.Names == nil {
		return t, nil
	}

	return t.Select(opt.UseCols, opt.Names)
}

// ReadAndPrepare reads one file and runs the dataset preparer on it.
func ReadAndPrepare(ctx context.Context, path string, client *storage.Client, opt Options) (*frame.Table, error) {
	t, err := ReadFile(ctx, path, client, opt)
	if err != nil {
		return nil, err
	}

	prepared, err := prep.Prepare(t, opt.Prep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return prepared, nil
}

// MakeData reads and prepares every file matching opt.Pattern and
// concatenates the results. Files are read concurrently but combined in
// sorted path order, so keys line up with paths.
func MakeData(ctx context.Context, client *storage.Client, opt Options) (*frame.Table, error) {
	paths, err := proteomisc.Glob(ctx, opt.Pattern, client)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, pfx.Err(fmt.Errorf("no files matched %q", opt.Pattern))
	}

	keys := opt.Keys
	if len(keys) == 0 {
		keys = frame.DefaultKeys(len(paths))
	}
	if len(keys) != len(paths) {
		return nil, frame.InvalidArgument("%d keys given for %d files matching %q", len(keys), len(paths), opt.Pattern)
	}

	tables := make([]*frame.Table, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	limit := opt.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			t, err := ReadAndPrepare(gctx, path, client, opt)
			if err != nil && opt.SkipFailed {
				failures[i] = err
				return nil
			} else if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]*frame.Table, 0, len(paths))
	keptKeys := make([]string, 0, len(paths))
	for i := range paths {
		if failures[i] != nil {
			log.Printf("Skipping %s (batch %s): %v\n", paths[i], keys[i], failures[i])
			continue
		}
		kept = append(kept, tables[i])
		keptKeys = append(keptKeys, keys[i])
	}
	if len(kept) == 0 {
		return nil, pfx.Err(fmt.Errorf("every file matching %q failed", opt.Pattern))
	}

	return frame.Concat(kept, keptKeys, opt.Axis, opt.Join)
}
