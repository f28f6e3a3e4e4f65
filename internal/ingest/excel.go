package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a fully materialized xlsx file: every worksheet read into
// a Sheet. Uploads are small, bounded report exports, so reading the
// whole file up front is fine.
type Workbook struct {
	sheets []*Sheet
}

// ReadWorkbook parses an xlsx stream into sheets.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheet := &Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Header = rows[0]
			sheet.Rows = rows[1:]
		}
		wb.sheets = append(wb.sheets, sheet)
	}
	return wb, nil
}

// Sheet finds a worksheet by name. Wialon truncates long sheet names
// ("Llenados de combustible ..."), so after an exact match it falls
// back to a prefix match in either direction.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for _, s := range w.sheets {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	lower := strings.ToLower(name)
	for _, s := range w.sheets {
		sl := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s.Name), "..."))
		sl = strings.TrimSpace(sl)
		if strings.HasPrefix(strings.ToLower(s.Name), lower) || strings.HasPrefix(lower, sl) {
			return s, nil
		}
	}
	return nil, &MissingSheetError{Sheet: name}
}

// First returns the first worksheet; free-form exports (the fuel
// purchase file) carry their data on whatever the first sheet is named.
func (w *Workbook) First() (*Sheet, error) {
	if len(w.sheets) == 0 {
		return nil, &MissingSheetError{Sheet: "(first sheet)"}
	}
	return w.sheets[0], nil
}
