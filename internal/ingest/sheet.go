package ingest

import (
	"fmt"
	"strings"
)

// Sheet is one tabular worksheet: a header row plus data rows, all as
// raw strings. Normalization into typed records happens against this
// shape so it can be exercised without a real workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Column resolves the first header matching any of the ordered aliases.
// Wialon localizes and occasionally renames columns, so every logical
// field carries a small alias chain resolved once per sheet.
func (s *Sheet) Column(aliases ...string) (int, bool) {
	for _, a := range aliases {
		for i, h := range s.Header {
			if strings.EqualFold(strings.TrimSpace(h), a) {
				return i, true
			}
		}
	}
	return -1, false
}

// RequireColumn is Column but a miss is a structural error naming the
// sheet and the column, which fails the whole workbook load.
func (s *Sheet) RequireColumn(aliases ...string) (int, error) {
	if i, ok := s.Column(aliases...); ok {
		return i, nil
	}
	return -1, &MissingColumnError{Sheet: s.Name, Column: aliases[0], Tried: aliases}
}

// Cell returns the trimmed cell at idx, or "" for ragged rows.
func (s *Sheet) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// MissingColumnError reports an expected column absent from a sheet.
type MissingColumnError struct {
	Sheet  string
	Column string
	Tried  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q: required column %q not found (accepted names: %s)",
		e.Sheet, e.Column, strings.Join(e.Tried, ", "))
}

// MissingSheetError reports an expected worksheet absent from a workbook.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("required sheet %q not found in workbook", e.Sheet)
}

// Column alias chains per logical field (see Wialon export variants).
var (
	aliasRowNumber  = []string{"№", "No", "N°"}
	aliasVehicle    = []string{"Agrupación", "Agrupacion", "Unidad"}
	aliasTripStart  = []string{"Comienzo", "Inicio"}
	aliasFillTime   = []string{"Tiempo", "Hora", "Fecha"}
	aliasCostTime   = []string{"Hora de registro", "Tiempo", "Fecha"}
)
