// Package store persists combined tables in a SQLite file so that the
// visualization steps can reload exactly what the ingestion step produced.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/frame"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v3"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Load when the file holds no frame of that name.
var ErrNotFound = errors.New("frame not found")

const schema = `
CREATE TABLE IF NOT EXISTS frames (
	name TEXT PRIMARY KEY,
	index_name TEXT NOT NULL,
	keyed_rows INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS frame_rows (
	frame TEXT NOT NULL,
	pos INTEGER NOT NULL,
	outer_key TEXT NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (frame, pos)
);
CREATE TABLE IF NOT EXISTS frame_columns (
	frame TEXT NOT NULL,
	pos INTEGER NOT NULL,
	outer_key TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (frame, pos)
);
CREATE TABLE IF NOT EXISTS frame_cells (
	frame TEXT NOT NULL,
	col_pos INTEGER NOT NULL,
	row_pos INTEGER NOT NULL,
	value TEXT,
	PRIMARY KEY (frame, col_pos, row_pos)
);
`

type frameRow struct {
	Name      string `db:"name"`
	IndexName string `db:"index_name"`
	KeyedRows bool   `db:"keyed_rows"`
}

type labelRow struct {
	Pos   int    `db:"pos"`
	Key   string `db:"outer_key"`
	Label string `db:"label"`
}

type cellRow struct {
	Col   int         `db:"col_pos"`
	Row   int         `db:"row_pos"`
	Value null.String `db:"value"`
}

func open(path string) (*sqlx.DB, error) {
	path = proteomisc.ExpandHome(path)
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, pfx.Err(err)
		}
	}

	return db, nil
}

// Save writes t under name, replacing any frame already stored under that
// name. The write happens in one transaction.
func Save(path, name string, t *frame.Table) (err error) {
	if name == "" {
		return frame.InvalidArgument("a frame name is required")
	}

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = deleteFrame(tx, name); err != nil {
		return pfx.Err(err)
	}

	if _, err = tx.Exec(`INSERT INTO frames (name, index_name, keyed_rows) VALUES (?, ?, ?)`,
		name, t.IndexName, t.IndexKeys != nil); err != nil {
		return pfx.Err(err)
	}

	for i, label := range t.Index {
		key := ""
		if t.IndexKeys != nil {
			key = t.IndexKeys[i]
		}
		if _, err = tx.Exec(`INSERT INTO frame_rows (frame, pos, outer_key, label) VALUES (?, ?, ?, ?)`,
			name, i, key, label); err != nil {
			return pfx.Err(err)
		}
	}

	cellStmt, err := tx.Preparex(`INSERT INTO frame_cells (frame, col_pos, row_pos, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer cellStmt.Close()

	for j := 0; j < t.Width(); j++ {
		c := t.ColumnAt(j)
		if _, err = tx.Exec(`INSERT INTO frame_columns (frame, pos, outer_key, name) VALUES (?, ?, ?, ?)`,
			name, j, c.Key, c.Name); err != nil {
			return pfx.Err(err)
		}
		for i, v := range c.Values {
			if _, err = cellStmt.Exec(name, j, i, v); err != nil {
				return pfx.Err(err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func deleteFrame(tx *sqlx.Tx, name string) error {
	for _, table := range []string{"frame_cells", "frame_columns", "frame_rows"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE frame = ?`, table), name); err != nil {
			return err
		}
	}

	_, err := tx.Exec(`DELETE FROM frames WHERE name = ?`, name)
	return err
}

// Load reads the frame stored under name.
func Load(path, name string) (*frame.Table, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta := frameRow{}
	if err := db.Get(&meta, `SELECT name, index_name, keyed_rows FROM frames WHERE name = ?`, name); errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s in %s: %w", name, path, ErrNotFound)
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	rows := []labelRow{}
	if err := db.Select(&rows, `SELECT pos, outer_key, label FROM frame_rows WHERE frame = ? ORDER BY pos`, name); err != nil {
		return nil, pfx.Err(err)
	}

	colRows := []labelRow{}
	if err := db.Select(&colRows, `SELECT pos, outer_key, name AS label FROM frame_columns WHERE frame = ? ORDER BY pos`, name); err != nil {
		return nil, pfx.Err(err)
	}

	cells := []cellRow{}
	if err := db.Select(&cells, `SELECT col_pos, row_pos, value FROM frame_cells WHERE frame = ? ORDER BY col_pos, row_pos`, name); err != nil {
		return nil, pfx.Err(err)
	}

	cols := make([]frame.Column, len(colRows))
	for j, c := range colRows {
		cols[j] = frame.Column{
			Label:  frame.Label{Key: c.Key, Name: c.Label},
			Values: make([]null.String, len(rows)),
		}
	}
	for _, cell := range cells {
		if cell.Col >= len(cols) || cell.Row >= len(rows) {
			return nil, pfx.Err(fmt.Errorf("%s: cell (%d, %d) outside a %dx%d frame", name, cell.Row, cell.Col, len(rows), len(cols)))
		}
		cols[cell.Col].Values[cell.Row] = cell.Value
	}

	t, err := frame.FromColumns(cols...)
	if err != nil {
		return nil, err
	}

	t.IndexName = meta.IndexName
	t.Index = make([]string, len(rows))
	if meta.KeyedRows {
		t.IndexKeys = make([]string, len(rows))
	}
	for i, r := range rows {
		t.Index[i] = r.Label
		if meta.KeyedRows {
			t.IndexKeys[i] = r.Key
		}
	}

	return t, nil
}

// List returns the names of the frames stored in the file, sorted.
func List(path string) ([]string, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	names := []string{}
	if err := db.Select(&names, `SELECT name FROM frames ORDER BY name`); err != nil {
		return nil, pfx.Err(err)
	}

	return names, nil
}
