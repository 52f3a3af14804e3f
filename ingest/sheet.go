package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/proteomisc"
	"github.com/carbocation/proteomisc/frame"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"
)

// SheetNames lists the sheets of a workbook in workbook order. Files ending in
// .xlsx or .xlsm are read as Office Open XML; anything else as legacy .xls.
func SheetNames(path string) ([]string, error) {
	if isOpenXML(path) {
		book, err := excelize.OpenFile(proteomisc.ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer book.Close()

		return book.GetSheetList(), nil
	}

	spreadsheet, err := xls.Open(proteomisc.ExpandHome(path), "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	names := make([]string, 0, spreadsheet.NumSheets())
	for sheetID := 0; sheetID < spreadsheet.NumSheets(); sheetID++ {
		if s := spreadsheet.GetSheet(sheetID); s != nil {
			names = append(names, s.Name)
		}
	}

	return names, nil
}

// ReadSheet reads one sheet of a summary workbook (.xls or .xlsx). headerRow
// holds the column names; keyRow, if not negative, holds the outer label
// level, where a blank cell repeats the key to its left (merged header cells
// read that way). Rows after both header rows are data, and the first column
// is the index. Sheet names match case-insensitively.
func ReadSheet(path, sheetName string, keyRow, headerRow int) (*frame.Table, error) {
	var grid [][]string
	var err error
	if isOpenXML(path) {
		grid, err = xlsxGrid(path, sheetName)
	} else {
		grid, err = xlsGrid(path, sheetName)
	}
	if err != nil {
		return nil, err
	}

	return tableFromGrid(grid, keyRow, headerRow)
}

func isOpenXML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}

	return false
}

func xlsxGrid(path, sheetName string) ([][]string, error) {
	book, err := excelize.OpenFile(proteomisc.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer book.Close()

	sheet := ""
	for _, name := range book.GetSheetList() {
		if strings.EqualFold(name, sheetName) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		return nil, pfx.Err(fmt.Errorf("%s: no sheet named %q", path, sheetName))
	}

	// Raw values, so that number formats do not round the measurements.
	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	for _, row := range rows {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
	}

	return rows, nil
}

func xlsGrid(path, sheetName string) ([][]string, error) {
	spreadsheet, err := xls.Open(proteomisc.ExpandHome(path), "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	var sheet *xls.WorkSheet
	for sheetID := 0; sheetID < spreadsheet.NumSheets(); sheetID++ {
		if s := spreadsheet.GetSheet(sheetID); s != nil && strings.EqualFold(s.Name, sheetName) {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, pfx.Err(fmt.Errorf("%s: no sheet named %q", path, sheetName))
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells[colID] = strings.TrimSpace(row.Col(colID))
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

func tableFromGrid(grid [][]string, keyRow, headerRow int) (*frame.Table, error) {
	if headerRow < 0 || headerRow >= len(grid) || keyRow >= len(grid) {
		return nil, frame.InvalidArgument("header rows %d/%d outside a sheet of %d rows", keyRow, headerRow, len(grid))
	}

	header := grid[headerRow]
	if len(header) < 2 {
		return nil, frame.InvalidArgument("header row %d has %d cells; need an index and at least one column", headerRow, len(header))
	}

	keys := make([]string, len(header))
	if keyRow >= 0 {
		key := ""
		for j := range header {
			if j < len(grid[keyRow]) && grid[keyRow][j] != "" {
				key = grid[keyRow][j]
			}
			keys[j] = key
		}
	}

	firstData := headerRow + 1
	if keyRow >= firstData {
		firstData = keyRow + 1
	}

	missing := make(map[string]struct{}, len(frame.DefaultMissing))
	for _, v := range frame.DefaultMissing {
		missing[v] = struct{}{}
	}

	index := make([]string, 0, len(grid)-firstData)
	cols := make([]frame.Column, len(header)-1)
	for j := range cols {
		cols[j].Label = frame.Label{Key: keys[j+1], Name: header[j+1]}
	}

	for _, row := range grid[firstData:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		index = append(index, row[0])
		for j := range cols {
			cell := ""
			if j+1 < len(row) {
				cell = row[j+1]
			}
			_, miss := missing[cell]
			cols[j].Values = append(cols[j].Values, null.NewString(cell, !miss))
		}
	}

	t, err := frame.FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	t.IndexName = header[0]
	t.Index = index

	return t, nil
}
